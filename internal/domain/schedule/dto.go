package schedule

import (
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/validator"
)

type AssignShiftRequest struct {
	EmployeeNIK string `json:"employee_nik"`
	Date        string `json:"date"`
	ShiftCode   string `json:"shift_code"`
}

func (r *AssignShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeNIK) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_nik",
			Message: "employee_nik is required",
		})
	}
	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be a valid date in YYYY-MM-DD format",
		})
	}
	if validator.IsEmpty(r.ShiftCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_code",
			Message: "shift_code is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ShiftResponse struct {
	Code            string `json:"code"`
	Group           string `json:"group"`
	Start           string `json:"start,omitempty"`
	End             string `json:"end,omitempty"`
	CrossesMidnight bool   `json:"crosses_midnight"`
}

func NewShiftResponse(s Shift) ShiftResponse {
	return ShiftResponse{
		Code:            s.Code,
		Group:           s.Group,
		Start:           s.Start,
		End:             s.End,
		CrossesMidnight: s.CrossesMidnight,
	}
}

// AssignmentResponse exposes dates in DisplayDateLayout; they are not sort keys.
type AssignmentResponse struct {
	ID           string  `json:"id"`
	EmployeeNIK  string  `json:"employee_nik"`
	EmployeeName string  `json:"employee_name"`
	Section      string  `json:"section"`
	Date         string  `json:"date"`
	ShiftCode    string  `json:"shift_code"`
	ShiftGroup   string  `json:"shift_group"`
	ShiftStart   *string `json:"shift_start,omitempty"`
	ShiftEnd     *string `json:"shift_end,omitempty"`
	UpdatedAt    string  `json:"updated_at"`
}

func NewAssignmentResponse(a ShiftAssignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:           a.ID,
		EmployeeNIK:  a.EmployeeNIK,
		EmployeeName: a.EmployeeName,
		Section:      a.Section,
		Date:         a.Date.Format(DisplayDateLayout),
		ShiftCode:    a.ShiftCode,
		UpdatedAt:    a.UpdatedAt.Format(time.RFC3339),
	}
	if s, ok := LookupShift(a.ShiftCode); ok {
		resp.ShiftGroup = s.Group
		if !s.IsOff() {
			resp.ShiftStart = &s.Start
			resp.ShiftEnd = &s.End
		}
	}
	return resp
}
