package dashboard

import (
	"context"
	"math"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/proposal"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	loc *time.Location
	now func() time.Time
}

func NewDashboardService(repo dashboard.DashboardRepository, loc *time.Location) *DashboardServiceImpl {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		loc:                 loc,
		now:                 time.Now,
	}
}

// WithClock replaces the time source, used by tests.
func (s *DashboardServiceImpl) WithClock(now func() time.Time) *DashboardServiceImpl {
	s.now = now
	return s
}

// parseDate parses YYYY-MM-DD in the service zone, defaulting to today.
func (s *DashboardServiceImpl) parseDate(date string) (time.Time, error) {
	if date == "" {
		now := s.now().In(s.loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc), nil
	}
	parsed, ok := validator.IsValidDate(date)
	if !ok {
		return time.Time{}, validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, s.loc), nil
}

func scopeFor(approver proposal.Actor) (dashboard.Scope, error) {
	switch {
	case approver.Role.IsAdmin():
		return dashboard.Scope{}, nil
	case approver.Role == user.RoleManager && approver.EmployeeID != "":
		id := approver.EmployeeID
		return dashboard.Scope{ManagerID: &id}, nil
	default:
		return dashboard.Scope{}, proposal.ErrNotApprover
	}
}

// GetDashboard implements dashboard.DashboardService. Both queries run in parallel.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context, approver proposal.Actor, date string) (dashboard.DashboardResponse, error) {
	scope, err := scopeFor(approver)
	if err != nil {
		return dashboard.DashboardResponse{}, err
	}
	day, err := s.parseDate(date)
	if err != nil {
		return dashboard.DashboardResponse{}, err
	}

	var (
		dayStats dashboard.AttendanceDayStats
		pending  []dashboard.PendingCount
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dayStats, err = s.GetAttendanceStatsByDay(gCtx, scope, day)
		return err
	})
	g.Go(func() error {
		var err error
		pending, err = s.GetPendingProposalCounts(gCtx, scope)
		return err
	})
	if err := g.Wait(); err != nil {
		return dashboard.DashboardResponse{}, err
	}

	return dashboard.DashboardResponse{
		Attendance: attendanceSummary(day, dayStats),
		Proposals:  pendingSummary(pending),
	}, nil
}

func attendanceSummary(day time.Time, stats dashboard.AttendanceDayStats) dashboard.AttendanceSummaryResponse {
	var rate float64
	if stats.Scheduled > 0 {
		present := stats.Scheduled - stats.NotClockedIn
		rate = math.Round(float64(present)/float64(stats.Scheduled)*10000) / 100
	}
	return dashboard.AttendanceSummaryResponse{
		Date:         day.Format("2006-01-02"),
		Scheduled:    stats.Scheduled,
		ClockedIn:    stats.ClockedIn,
		ClockedOut:   stats.ClockedOut,
		NotClockedIn: stats.NotClockedIn,
		Unscheduled:  stats.Unscheduled,
		PresentRate:  rate,
	}
}

// pendingSummary reports every kind, including those with nothing pending.
func pendingSummary(counts []dashboard.PendingCount) dashboard.PendingProposalsResponse {
	resp := dashboard.PendingProposalsResponse{
		Submitted:             make(map[string]int64, len(proposal.KindValues)),
		CancellationRequested: make(map[string]int64, len(proposal.KindValues)),
	}
	for _, kind := range proposal.KindValues {
		resp.Submitted[kind] = 0
		resp.CancellationRequested[kind] = 0
	}
	for _, c := range counts {
		resp.Submitted[c.Kind] += c.Submitted
		resp.CancellationRequested[c.Kind] += c.CancellationRequested
		resp.Total += c.Submitted + c.CancellationRequested
	}
	return resp
}

var _ dashboard.DashboardService = (*DashboardServiceImpl)(nil)
