package schedule

import (
	"context"
	"time"
)

type ScheduleService interface {
	Shifts(ctx context.Context) []ShiftResponse
	Assign(ctx context.Context, req AssignShiftRequest) (AssignmentResponse, error)
	GetForEmployee(ctx context.Context, employeeNIK string) ([]AssignmentResponse, error)
	GetAll(ctx context.Context) ([]AssignmentResponse, error)
	// GetForDate returns ErrAssignmentNotFound when nothing is scheduled.
	GetForDate(ctx context.Context, employeeNIK string, date time.Time) (ShiftAssignment, error)
}
