package user

type Permission string

const (
	// Attendance
	PermissionAttendanceClock   Permission = "attendance.clock"
	PermissionAttendanceViewOwn Permission = "attendance.view_own"

	// Schedule
	PermissionScheduleViewAll Permission = "schedule.view_all"
	PermissionScheduleAssign  Permission = "schedule.assign"

	// Proposals
	PermissionProposalSubmit  Permission = "proposal.submit"
	PermissionProposalViewOwn Permission = "proposal.view_own"
	PermissionProposalViewAll Permission = "proposal.view_all"
	PermissionProposalDecide  Permission = "proposal.decide"

	// Leave quota
	PermissionLeaveQuotaManage Permission = "leave_quota.manage"
)

var employeePermissions = []Permission{
	PermissionAttendanceClock,
	PermissionAttendanceViewOwn,
	PermissionProposalSubmit,
	PermissionProposalViewOwn,
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleSuperAdmin: append([]Permission{
		PermissionScheduleViewAll,
		PermissionScheduleAssign,
		PermissionProposalViewAll,
		PermissionProposalDecide,
		PermissionLeaveQuotaManage,
	}, employeePermissions...),
	RoleAdmin: append([]Permission{
		PermissionScheduleViewAll,
		PermissionScheduleAssign,
		PermissionProposalViewAll,
		PermissionProposalDecide,
		PermissionLeaveQuotaManage,
	}, employeePermissions...),
	RoleManager: append([]Permission{
		PermissionScheduleViewAll,
		PermissionProposalViewAll,
		PermissionProposalDecide,
	}, employeePermissions...),
	RoleEmployee: employeePermissions,
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
