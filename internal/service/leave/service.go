package leave

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/proposal"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/validator"
)

type LeaveQuotaServiceImpl struct {
	leave.LeaveQuotaRepository
	directory employee.Directory
}

func NewLeaveQuotaService(leaveQuotaRepository leave.LeaveQuotaRepository, directory employee.Directory) *LeaveQuotaServiceImpl {
	return &LeaveQuotaServiceImpl{
		LeaveQuotaRepository: leaveQuotaRepository,
		directory:            directory,
	}
}

// SetQuota implements leave.LeaveQuotaService.
func (l *LeaveQuotaServiceImpl) SetQuota(ctx context.Context, req leave.SetQuotaRequest) (leave.LeaveQuotaResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveQuotaResponse{}, err
	}

	emp, err := l.directory.GetByNIK(ctx, req.EmployeeNIK)
	if err != nil {
		return leave.LeaveQuotaResponse{}, err
	}

	validFrom, _ := validator.IsValidDate(req.ValidFrom)
	validUntil, _ := validator.IsValidDate(req.ValidUntil)

	saved, err := l.LeaveQuotaRepository.Upsert(ctx, leave.LeaveQuota{
		EmployeeNIK:  emp.NIK,
		LeaveType:    proposal.LeaveType(req.LeaveType),
		Period:       req.Period,
		QuotaDays:    req.QuotaDays,
		ValidFrom:    validFrom,
		ValidUntil:   validUntil,
		EmployeeName: &emp.FullName,
	})
	if err != nil {
		return leave.LeaveQuotaResponse{}, fmt.Errorf("failed to save leave quota: %w", err)
	}
	return leave.NewLeaveQuotaResponse(saved), nil
}

// ListForEmployee implements leave.LeaveQuotaService.
func (l *LeaveQuotaServiceImpl) ListForEmployee(ctx context.Context, employeeNIK string) ([]leave.LeaveQuotaResponse, error) {
	quotas, err := l.LeaveQuotaRepository.ListByEmployee(ctx, employeeNIK)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave quotas: %w", err)
	}

	out := make([]leave.LeaveQuotaResponse, len(quotas))
	for i, q := range quotas {
		out[i] = leave.NewLeaveQuotaResponse(q)
	}
	return out, nil
}

var _ leave.LeaveQuotaService = (*LeaveQuotaServiceImpl)(nil)
