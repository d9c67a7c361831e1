package user

import "time"

type Role string

const (
	RoleSuperAdmin Role = "super_admin" // Sees and decides every proposal
	RoleAdmin      Role = "admin"       // HR administration
	RoleManager    Role = "manager"     // Decides proposals of direct reports
	RoleEmployee   Role = "employee"    // Regular employee
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// IsAdmin reports admin or super admin.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	EmployeeID  *string
	EmployeeNIK *string
}

// CanApprove checks if user can decide proposals
func (u *User) CanApprove() bool {
	return HasPermission(u.Role, PermissionProposalDecide)
}
