package leave

import (
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/proposal"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/validator"
)

type SetQuotaRequest struct {
	EmployeeNIK string `json:"employee_nik"`
	LeaveType   string `json:"leave_type"`
	Period      int    `json:"period"`
	QuotaDays   int    `json:"quota_days"`
	ValidFrom   string `json:"valid_from"`
	ValidUntil  string `json:"valid_until"`
}

func (r *SetQuotaRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeNIK) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_nik",
			Message: "employee_nik is required",
		})
	}
	if !validator.IsInSlice(r.LeaveType, proposal.LeaveTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of: annual, special",
		})
	}
	if r.Period < 2000 || r.Period > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: "period must be a year between 2000 and 2100",
		})
	}
	if r.QuotaDays < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "quota_days",
			Message: "quota_days must not be negative",
		})
	}

	from, fromOK := validator.IsValidDate(r.ValidFrom)
	if !fromOK {
		errs = append(errs, validator.ValidationError{
			Field:   "valid_from",
			Message: "valid_from must be in YYYY-MM-DD format",
		})
	}
	until, untilOK := validator.IsValidDate(r.ValidUntil)
	if !untilOK {
		errs = append(errs, validator.ValidationError{
			Field:   "valid_until",
			Message: "valid_until must be in YYYY-MM-DD format",
		})
	}
	if fromOK && untilOK && until.Before(from) {
		errs = append(errs, validator.ValidationError{
			Field:   "valid_until",
			Message: "valid_until must not be before valid_from",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LeaveQuotaResponse struct {
	ID           string  `json:"id"`
	EmployeeNIK  string  `json:"employee_nik"`
	EmployeeName *string `json:"employee_name,omitempty"`
	LeaveType    string  `json:"leave_type"`
	Period       int     `json:"period"`
	QuotaDays    int     `json:"quota_days"`
	ValidFrom    string  `json:"valid_from"`
	ValidUntil   string  `json:"valid_until"`
	UpdatedAt    string  `json:"updated_at"`
}

func NewLeaveQuotaResponse(q LeaveQuota) LeaveQuotaResponse {
	return LeaveQuotaResponse{
		ID:           q.ID,
		EmployeeNIK:  q.EmployeeNIK,
		EmployeeName: q.EmployeeName,
		LeaveType:    string(q.LeaveType),
		Period:       q.Period,
		QuotaDays:    q.QuotaDays,
		ValidFrom:    q.ValidFrom.Format("2006-01-02"),
		ValidUntil:   q.ValidUntil.Format("2006-01-02"),
		UpdatedAt:    q.UpdatedAt.Format(time.RFC3339),
	}
}
