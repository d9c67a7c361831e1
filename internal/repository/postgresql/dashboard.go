package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// GetAttendanceStatsByDay returns all day counters in a single query.
func (r *dashboardRepositoryImpl) GetAttendanceStatsByDay(ctx context.Context, scope dashboard.Scope, date time.Time) (dashboard.AttendanceDayStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH scoped AS (
			SELECT nik FROM employees
			WHERE deleted_at IS NULL AND ($1::uuid IS NULL OR manager_id = $1::uuid)
		),
		sched AS (
			SELECT employee_nik FROM shift_assignments
			WHERE date = $2 AND employee_nik IN (SELECT nik FROM scoped)
		),
		att AS (
			SELECT employee_nik, clock_out_at FROM attendances
			WHERE date = $2 AND employee_nik IN (SELECT nik FROM scoped)
		)
		SELECT
			(SELECT COUNT(*) FROM sched),
			(SELECT COUNT(*) FROM att WHERE clock_out_at IS NULL),
			(SELECT COUNT(*) FROM att WHERE clock_out_at IS NOT NULL),
			(SELECT COUNT(*) FROM sched s WHERE NOT EXISTS (SELECT 1 FROM att a WHERE a.employee_nik = s.employee_nik)),
			(SELECT COUNT(*) FROM att a WHERE NOT EXISTS (SELECT 1 FROM sched s WHERE s.employee_nik = a.employee_nik))
	`

	var stats dashboard.AttendanceDayStats
	err := q.QueryRow(ctx, query, scope.ManagerID, date).Scan(
		&stats.Scheduled, &stats.ClockedIn, &stats.ClockedOut, &stats.NotClockedIn, &stats.Unscheduled,
	)
	if err != nil {
		return dashboard.AttendanceDayStats{}, translateError(err, "attendances", nil)
	}
	return stats, nil
}

// GetPendingProposalCounts groups undecided proposals by kind.
func (r *dashboardRepositoryImpl) GetPendingProposalCounts(ctx context.Context, scope dashboard.Scope) ([]dashboard.PendingCount, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			kind,
			COUNT(*) FILTER (WHERE status = 'submitted'),
			COUNT(*) FILTER (WHERE status = 'cancellation_requested')
		FROM proposals
		WHERE status IN ('submitted', 'cancellation_requested')
			AND ($1::uuid IS NULL OR manager_id = $1::uuid)
		GROUP BY kind
		ORDER BY kind
	`

	rows, err := q.Query(ctx, query, scope.ManagerID)
	if err != nil {
		return nil, translateError(err, "proposals", nil)
	}
	defer rows.Close()

	var counts []dashboard.PendingCount
	for rows.Next() {
		var c dashboard.PendingCount
		if err := rows.Scan(&c.Kind, &c.Submitted, &c.CancellationRequested); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
