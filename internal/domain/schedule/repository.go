package schedule

import (
	"context"
	"time"
)

type ShiftAssignmentRepository interface {
	// Upsert writes the assignment keyed by (employee_nik, date); last write wins.
	Upsert(ctx context.Context, assignment ShiftAssignment) (ShiftAssignment, error)
	GetByEmployeeAndDate(ctx context.Context, employeeNIK string, date time.Time) (ShiftAssignment, error)
	GetByEmployeeNIK(ctx context.Context, employeeNIK string) ([]ShiftAssignment, error)
	GetAll(ctx context.Context) ([]ShiftAssignment, error)
}
