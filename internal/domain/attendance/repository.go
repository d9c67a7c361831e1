package attendance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AttendanceRepository stores one record per (employee_nik, date).
type AttendanceRepository interface {
	// CreateClockIn inserts the record only if none exists for its key.
	// Returns ErrAlreadyClockedIn when another writer got there first.
	CreateClockIn(ctx context.Context, attendance Attendance) (Attendance, error)

	// RecordClockOut sets the clock-out half only while it is still empty.
	// Returns ErrAlreadyClockedOut when the record was completed concurrently.
	RecordClockOut(ctx context.Context, id string, event ClockEvent, totalHours decimal.Decimal) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)
	GetByEmployeeAndDate(ctx context.Context, employeeNIK string, date time.Time) (Attendance, error)
	ListByEmployee(ctx context.Context, employeeNIK string, filter MyAttendanceFilter) ([]Attendance, int64, error)
}
