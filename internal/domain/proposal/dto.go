package proposal

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/validator"
)

type SubmitRequest struct {
	Kind         Kind            `json:"kind"`
	Payload      json.RawMessage `json:"payload"`
	SubmitterNIK string          `json:"-"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.SubmitterNIK) {
		errs = append(errs, validator.ValidationError{
			Field:   "submitter_nik",
			Message: "submitter_nik is required",
		})
	}
	if !r.Kind.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of: " + strings.Join(KindValues, ", "),
		})
	}
	if len(r.Payload) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "payload",
			Message: "payload is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DecideRequest struct {
	Status    Status  `json:"status"`
	AdminNote *string `json:"admin_note,omitempty"`
}

func (r *DecideRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Status.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
	}
	if r.AdminNote != nil && len(*r.AdminNote) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "admin_note",
			Message: "admin_note must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ResolveCancellationRequest struct {
	Approve   bool    `json:"approve"`
	AdminNote *string `json:"admin_note,omitempty"`
}

type AmendRequest struct {
	Payload json.RawMessage `json:"payload"`
}

func (r *AmendRequest) Validate() error {
	if len(r.Payload) == 0 {
		return validator.ValidationErrors{{Field: "payload", Message: "payload is required"}}
	}
	return nil
}

type ListFilter struct {
	Kind      *string `json:"kind,omitempty"`
	Status    *string `json:"status,omitempty"`
	Page      int     `json:"page"`
	Limit     int     `json:"limit"`
	SortOrder string  `json:"sort_order"` // asc (oldest first) or desc
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Kind != nil && *f.Kind != "" && !Kind(*f.Kind).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of: " + strings.Join(KindValues, ", "),
		})
	}
	if f.Status != nil && *f.Status != "" && !Status(*f.Status).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
	}

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 || f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be between 1 and 100",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}

	if f.SortOrder == "" {
		f.SortOrder = "asc"
	}
	f.SortOrder = strings.ToLower(f.SortOrder)
	if f.SortOrder != "asc" && f.SortOrder != "desc" {
		errs = append(errs, validator.ValidationError{
			Field:   "sort_order",
			Message: "sort_order must be one of: asc, desc",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SubmitterResponse struct {
	EmployeeID string `json:"employee_id"`
	NIK        string `json:"nik"`
	Name       string `json:"name"`
	Section    string `json:"section"`
	Role       string `json:"role"`
}

type ProposalResponse struct {
	ID         string            `json:"id"`
	Kind       Kind              `json:"kind"`
	Status     Status            `json:"status"`
	Submitter  SubmitterResponse `json:"submitter"`
	ManagerID  *string           `json:"manager_id,omitempty"`
	AdminNote  *string           `json:"admin_note,omitempty"`
	ApprovedAt *string           `json:"approved_at,omitempty"`
	DecidedBy  *string           `json:"decided_by,omitempty"`
	Payload    Payload           `json:"payload"`
	Summary    map[string]string `json:"summary,omitempty"`
	CreatedAt  string            `json:"created_at"`
	UpdatedAt  string            `json:"updated_at"`
}

func NewProposalResponse(p Proposal) ProposalResponse {
	resp := ProposalResponse{
		ID:     p.ID,
		Kind:   p.Kind,
		Status: p.Status,
		Submitter: SubmitterResponse{
			EmployeeID: p.Submitter.EmployeeID,
			NIK:        p.Submitter.NIK,
			Name:       p.Submitter.Name,
			Section:    p.Submitter.Section,
			Role:       string(p.Submitter.Role),
		},
		ManagerID: p.ManagerID,
		AdminNote: p.AdminNote,
		DecidedBy: p.DecidedBy,
		Payload:   p.Payload,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
	if p.ApprovedAt != nil {
		at := p.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &at
	}

	switch pl := p.Payload.(type) {
	case *LeavePayload:
		resp.Summary = map[string]string{"days": strconv.Itoa(pl.Days())}
	case *OvertimePayload:
		resp.Summary = map[string]string{"hours": pl.Hours().StringFixed(2)}
	}
	return resp
}

type ListProposalResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Proposals  []ProposalResponse `json:"proposals"`
}
