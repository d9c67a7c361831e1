package leave

import "context"

// LeaveQuotaRepository - interface for leave_quotas table
type LeaveQuotaRepository interface {
	// Upsert is keyed by (employee_nik, leave_type, period)
	Upsert(ctx context.Context, quota LeaveQuota) (LeaveQuota, error)
	ListByEmployee(ctx context.Context, employeeNIK string) ([]LeaveQuota, error)
}
