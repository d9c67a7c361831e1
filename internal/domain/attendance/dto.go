package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/validator"
)

type ClockInRequest struct {
	EmployeeNIK   string   `json:"-"`
	UserID        string   `json:"-"`
	HealthStatus  string   `json:"health_status" validate:"required,max=100"`
	LocationType  string   `json:"location_type" validate:"required,oneof='Bekerja di Pabrik' 'Bekerja di Rumah' 'Dinas Luar'"`
	Workplace     string   `json:"workplace" validate:"required,max=150"`
	Notes         *string  `json:"notes,omitempty" validate:"omitempty,max=500"`
	Latitude      *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude     *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	FingerprintID string   `json:"fingerprint_id" validate:"max=255"`
}

func (r *ClockInRequest) Validate() error {
	return validator.Struct(r)
}

func (r *ClockInRequest) Event(at time.Time) ClockEvent {
	return ClockEvent{
		At:           at,
		HealthStatus: r.HealthStatus,
		LocationType: LocationType(r.LocationType),
		Workplace:    r.Workplace,
		Notes:        r.Notes,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
	}
}

type ClockOutRequest struct {
	EmployeeNIK  string   `json:"-"`
	UserID       string   `json:"-"`
	HealthStatus string   `json:"health_status" validate:"required,max=100"`
	LocationType string   `json:"location_type" validate:"required,oneof='Bekerja di Pabrik' 'Bekerja di Rumah' 'Dinas Luar'"`
	Workplace    string   `json:"workplace" validate:"required,max=150"`
	Notes        *string  `json:"notes,omitempty" validate:"omitempty,max=500"`
	Latitude     *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude    *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

func (r *ClockOutRequest) Validate() error {
	return validator.Struct(r)
}

func (r *ClockOutRequest) Event(at time.Time) ClockEvent {
	return ClockEvent{
		At:           at,
		HealthStatus: r.HealthStatus,
		LocationType: LocationType(r.LocationType),
		Workplace:    r.Workplace,
		Notes:        r.Notes,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
	}
}

type ClockEventResponse struct {
	At           string   `json:"at"`
	HealthStatus string   `json:"health_status"`
	LocationType string   `json:"location_type"`
	Workplace    string   `json:"workplace"`
	Notes        *string  `json:"notes,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

type AttendanceResponse struct {
	ID          string              `json:"id"`
	EmployeeNIK string              `json:"employee_nik"`
	Date        string              `json:"date"`
	ShiftCode   *string             `json:"shift_code,omitempty"`
	State       State               `json:"state"`
	ClockIn     *ClockEventResponse `json:"clock_in,omitempty"`
	ClockOut    *ClockEventResponse `json:"clock_out,omitempty"`
	TotalHours  *string             `json:"total_hours,omitempty"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
}

func newClockEventResponse(e *ClockEvent) *ClockEventResponse {
	if e == nil {
		return nil
	}
	return &ClockEventResponse{
		At:           e.At.Format(time.RFC3339),
		HealthStatus: e.HealthStatus,
		LocationType: string(e.LocationType),
		Workplace:    e.Workplace,
		Notes:        e.Notes,
		Latitude:     e.Latitude,
		Longitude:    e.Longitude,
	}
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:          a.ID,
		EmployeeNIK: a.EmployeeNIK,
		Date:        a.Date.Format("2006-01-02"),
		ShiftCode:   a.ShiftCode,
		State:       StateOf(&a),
		ClockIn:     newClockEventResponse(a.ClockIn),
		ClockOut:    newClockEventResponse(a.ClockOut),
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
	if a.TotalHours != nil {
		hours := a.TotalHours.StringFixed(2)
		resp.TotalHours = &hours
	}
	return resp
}

type ScheduledShift struct {
	Code  string  `json:"code"`
	Group string  `json:"group"`
	Start *string `json:"start,omitempty"`
	End   *string `json:"end,omitempty"`
}

type TodayResponse struct {
	Date           string              `json:"date"`
	State          State               `json:"state"`
	Attendance     *AttendanceResponse `json:"attendance,omitempty"`
	ScheduledShift *ScheduledShift     `json:"scheduled_shift,omitempty"`
	DeviceBound    bool                `json:"device_bound"`
}

type MyAttendanceFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.SortOrder != "" {
		f.SortOrder = strings.ToLower(f.SortOrder)
		if !validator.IsInSlice(f.SortOrder, []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc" // newest first
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}
