package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// ClockIn records the first event of the day; on-site clock-ins go through the device guard.
	ClockIn(ctx context.Context, req ClockInRequest) (AttendanceResponse, error)

	// ClockOut completes the day's record and computes total hours.
	ClockOut(ctx context.Context, req ClockOutRequest) (AttendanceResponse, error)

	// Today summarizes the caller's current day.
	Today(ctx context.Context, employeeNIK, userID string) (TodayResponse, error)

	// History lists the caller's records, newest first by default.
	History(ctx context.Context, employeeNIK string, filter MyAttendanceFilter) (ListAttendanceResponse, error)

	// Get returns a single record owned by the caller.
	Get(ctx context.Context, id, employeeNIK string) (AttendanceResponse, error)
}
