package proposal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Payload is the kind-specific part of a proposal.
// Implementations are the four pointer types in this file.
type Payload interface {
	Kind() Kind
	Validate() error
	isPayload()
}

type LeaveType string

const (
	LeaveTypeAnnual  LeaveType = "annual"  // cuti tahunan
	LeaveTypeSpecial LeaveType = "special" // cuti khusus
)

var LeaveTypeValues = []string{string(LeaveTypeAnnual), string(LeaveTypeSpecial)}

type LeavePayload struct {
	LeaveType   LeaveType `json:"leave_type"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Reason      string    `json:"reason"`
	EvidenceURL *string   `json:"evidence_url,omitempty"`
}

func (*LeavePayload) Kind() Kind { return KindLeave }
func (*LeavePayload) isPayload() {}

func (p *LeavePayload) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(string(p.LeaveType), LeaveTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of: annual, special",
		})
	}

	start, startOK := validator.IsValidDate(p.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(p.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if validator.IsEmpty(p.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Days is the inclusive length of the leave in calendar days.
func (p *LeavePayload) Days() int {
	start, ok1 := validator.IsValidDate(p.StartDate)
	end, ok2 := validator.IsValidDate(p.EndDate)
	if !ok1 || !ok2 || end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

type OvertimeCategory string

const (
	OvertimeWorkday OvertimeCategory = "workday" // lembur hari kerja
	OvertimeHoliday OvertimeCategory = "holiday" // lembur hari libur
)

type OvertimePayload struct {
	Date      string           `json:"date"`
	ShiftCode string           `json:"shift_code"`
	StartTime string           `json:"start_time"`
	EndTime   string           `json:"end_time"`
	Category  OvertimeCategory `json:"category"`
	Reason    string           `json:"reason"`
}

func (*OvertimePayload) Kind() Kind { return KindOvertime }
func (*OvertimePayload) isPayload() {}

func (p *OvertimePayload) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(p.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required in YYYY-MM-DD format",
		})
	}
	if _, ok := schedule.LookupShift(p.ShiftCode); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_code",
			Message: "shift_code must exist in the shift catalog",
		})
	}

	start, startOK := validator.IsValidClock(p.StartTime)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time is required in HH:MM format",
		})
	}
	end, endOK := validator.IsValidClock(p.EndTime)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time is required in HH:MM format",
		})
	}
	if startOK && endOK && start.Equal(end) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must differ from start_time",
		})
	}

	if !validator.IsInSlice(string(p.Category), []string{string(OvertimeWorkday), string(OvertimeHoliday)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "category",
			Message: "category must be one of: workday, holiday",
		})
	}
	if validator.IsEmpty(p.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Hours is the overtime window length; an end before start runs past midnight.
func (p *OvertimePayload) Hours() decimal.Decimal {
	start, ok1 := validator.IsValidClock(p.StartTime)
	end, ok2 := validator.IsValidClock(p.EndTime)
	if !ok1 || !ok2 {
		return decimal.Zero
	}
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return decimal.NewFromFloat(end.Sub(start).Hours()).Round(2)
}

type SubstitutionPayload struct {
	Date          string  `json:"date"`
	OldShift      string  `json:"old_shift"`
	NewShift      string  `json:"new_shift"`
	SubstituteNIK *string `json:"substitute_nik,omitempty"`
	Reason        string  `json:"reason"`
}

func (*SubstitutionPayload) Kind() Kind { return KindSubstitution }
func (*SubstitutionPayload) isPayload() {}

func (p *SubstitutionPayload) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(p.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required in YYYY-MM-DD format",
		})
	}
	if _, ok := schedule.LookupShift(p.OldShift); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "old_shift",
			Message: "old_shift must exist in the shift catalog",
		})
	}
	if _, ok := schedule.LookupShift(p.NewShift); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "new_shift",
			Message: "new_shift must exist in the shift catalog",
		})
	} else if p.NewShift == p.OldShift {
		errs = append(errs, validator.ValidationError{
			Field:   "new_shift",
			Message: "new_shift must differ from old_shift",
		})
	}
	if validator.IsEmpty(p.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockType string

const (
	ClockTypeIn  ClockType = "in"
	ClockTypeOut ClockType = "out"
)

type CorrectionPayload struct {
	AttendanceID  string    `json:"attendance_id"`
	Date          string    `json:"date"`
	ClockType     ClockType `json:"clock_type"`
	CorrectedTime *string   `json:"corrected_time,omitempty"` // HH:MM
	Reason        string    `json:"reason"`
	EvidenceURL   *string   `json:"evidence_url,omitempty"`
}

func (*CorrectionPayload) Kind() Kind { return KindCorrection }
func (*CorrectionPayload) isPayload() {}

func (p *CorrectionPayload) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(p.AttendanceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_id",
			Message: "attendance_id is required",
		})
	}
	if _, ok := validator.IsValidDate(p.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required in YYYY-MM-DD format",
		})
	}
	if p.ClockType != ClockTypeIn && p.ClockType != ClockTypeOut {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_type",
			Message: "clock_type must be one of: in, out",
		})
	}
	if p.CorrectedTime != nil {
		if _, ok := validator.IsValidClock(*p.CorrectedTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "corrected_time",
				Message: "corrected_time must be in HH:MM format",
			})
		}
	}
	if validator.IsEmpty(p.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// NewPayload returns an empty payload for kind.
func NewPayload(kind Kind) (Payload, error) {
	switch kind {
	case KindLeave:
		return &LeavePayload{}, nil
	case KindOvertime:
		return &OvertimePayload{}, nil
	case KindSubstitution:
		return &SubstitutionPayload{}, nil
	case KindCorrection:
		return &CorrectionPayload{}, nil
	default:
		return nil, ErrInvalidKind
	}
}

// DecodePayload parses raw JSON into the payload for kind. Unknown fields are rejected.
func DecodePayload(kind Kind, raw []byte) (Payload, error) {
	p, err := NewPayload(kind)
	if err != nil {
		return nil, err
	}
	if err := decodeStrict(raw, p); err != nil {
		return nil, err
	}
	return p, nil
}

// MergePayload returns a copy of p with only the fields present in patch overwritten.
func MergePayload(p Payload, patch []byte) (Payload, error) {
	current, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	merged, err := DecodePayload(p.Kind(), current)
	if err != nil {
		return nil, err
	}
	if err := decodeStrict(patch, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

func decodeStrict(raw []byte, dst Payload) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ErrPayloadRequired
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return validator.ValidationErrors{{Field: "payload", Message: "invalid " + string(dst.Kind()) + " payload: " + err.Error()}}
	}
	return nil
}
