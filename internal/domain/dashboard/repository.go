package dashboard

import (
	"context"
	"time"
)

// Scope limits the counted employees. A nil ManagerID counts everyone.
type Scope struct {
	ManagerID *string
}

// AttendanceDayStats is one query over shift_assignments joined to attendances.
type AttendanceDayStats struct {
	Scheduled    int64
	ClockedIn    int64 // still open
	ClockedOut   int64
	NotClockedIn int64 // scheduled with no record yet
	Unscheduled  int64 // records without an assignment
}

// PendingCount is the number of proposals per kind awaiting a decision.
type PendingCount struct {
	Kind                  string
	Submitted             int64
	CancellationRequested int64
}

type DashboardRepository interface {
	GetAttendanceStatsByDay(ctx context.Context, scope Scope, date time.Time) (AttendanceDayStats, error)
	GetPendingProposalCounts(ctx context.Context, scope Scope) ([]PendingCount, error)
}
