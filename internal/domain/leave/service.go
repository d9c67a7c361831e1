package leave

import "context"

type LeaveQuotaService interface {
	SetQuota(ctx context.Context, req SetQuotaRequest) (LeaveQuotaResponse, error)
	ListForEmployee(ctx context.Context, employeeNIK string) ([]LeaveQuotaResponse, error)
}
