package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// overnightGrace is how long past an overnight shift's scheduled end the
// record still takes its clock-out.
const overnightGrace = 4 * time.Hour

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	scheduleService schedule.ScheduleService
	guard           device.Guard
	transactor      database.Transactor
	loc             *time.Location
	now             func() time.Time
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	scheduleService schedule.ScheduleService,
	guard device.Guard,
	transactor database.Transactor,
	loc *time.Location,
) *AttendanceServiceImpl {
	if loc == nil {
		loc = time.Local
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		scheduleService:      scheduleService,
		guard:                guard,
		transactor:           transactor,
		loc:                  loc,
		now:                  time.Now,
	}
}

// WithClock replaces the time source, used by tests.
func (a *AttendanceServiceImpl) WithClock(now func() time.Time) *AttendanceServiceImpl {
	a.now = now
	return a
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.now()
	date := attendance.LocalDate(now, a.loc)

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeNIK, date)
	switch {
	case err == nil && existing.ClockIn != nil:
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedIn
	case err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound):
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	// Last night's shift is still running; it has to be clocked out first.
	overnight, err := a.openOvernight(ctx, req.EmployeeNIK, date, now)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if overnight != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedIn
	}

	shiftCode, err := a.scheduledShift(ctx, req.EmployeeNIK, date)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	event := req.Event(now)
	record := attendance.Attendance{
		ID:          uuid.Must(uuid.NewV7()).String(),
		EmployeeNIK: req.EmployeeNIK,
		UserID:      req.UserID,
		Date:        date,
		ShiftCode:   shiftCode,
		ClockIn:     &event,
	}

	// Binding and record share one transaction so a lost clock-in race
	// leaves no fingerprint behind.
	var saved attendance.Attendance
	err = a.transactor.WithinTx(ctx, func(txCtx context.Context) error {
		if event.LocationType.IsOnSite() {
			if _, err := a.guard.Enforce(txCtx, req.UserID, req.FingerprintID); err != nil {
				return err
			}
		}
		var err error
		saved, err = a.AttendanceRepository.CreateClockIn(txCtx, record)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.NewAttendanceResponse(saved), nil
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.now()
	date := attendance.LocalDate(now, a.loc)

	record, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeNIK, date)
	if err != nil {
		if !errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
		}
		overnight, err := a.openOvernight(ctx, req.EmployeeNIK, date, now)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		if overnight == nil {
			return attendance.AttendanceResponse{}, attendance.ErrNoClockIn
		}
		record = *overnight
	}

	switch attendance.StateOf(&record) {
	case attendance.StateNoRecord:
		return attendance.AttendanceResponse{}, attendance.ErrNoClockIn
	case attendance.StateClockedOut:
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedOut
	}

	total := attendance.TotalHours(record.ClockIn.At, now)
	saved, err := a.AttendanceRepository.RecordClockOut(ctx, record.ID, req.Event(now), total)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(saved), nil
}

// Today implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Today(ctx context.Context, employeeNIK, userID string) (attendance.TodayResponse, error) {
	date := attendance.LocalDate(a.now(), a.loc)

	var (
		record    *attendance.Attendance
		shiftCode *string
		bound     bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, err := a.AttendanceRepository.GetByEmployeeAndDate(gctx, employeeNIK, date)
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceNotFound) {
				return nil
			}
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}
		record = &rec
		return nil
	})
	g.Go(func() error {
		code, err := a.scheduledShift(gctx, employeeNIK, date)
		shiftCode = code
		return err
	})
	g.Go(func() error {
		b, err := a.guard.IsBound(gctx, userID)
		bound = b
		return err
	})
	if err := g.Wait(); err != nil {
		return attendance.TodayResponse{}, err
	}
	if record == nil {
		overnight, err := a.openOvernight(ctx, employeeNIK, date, a.now())
		if err != nil {
			return attendance.TodayResponse{}, err
		}
		record = overnight
	}

	resp := attendance.TodayResponse{
		Date:        date.Format("2006-01-02"),
		State:       attendance.StateOf(record),
		DeviceBound: bound,
	}
	if record != nil {
		r := attendance.NewAttendanceResponse(*record)
		resp.Attendance = &r
	}
	if shiftCode != nil {
		if shift, ok := schedule.LookupShift(*shiftCode); ok {
			scheduled := attendance.ScheduledShift{Code: shift.Code, Group: shift.Group}
			if !shift.IsOff() {
				scheduled.Start = &shift.Start
				scheduled.End = &shift.End
			}
			resp.ScheduledShift = &scheduled
		}
	}
	return resp, nil
}

// History implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) History(ctx context.Context, employeeNIK string, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.AttendanceRepository.ListByEmployee(ctx, employeeNIK, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	out := make([]attendance.AttendanceResponse, len(records))
	for i, r := range records {
		out[i] = attendance.NewAttendanceResponse(r)
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
		Attendances: out,
	}, nil
}

// Get implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Get(ctx context.Context, id, employeeNIK string) (attendance.AttendanceResponse, error) {
	record, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if record.EmployeeNIK != employeeNIK {
		return attendance.AttendanceResponse{}, attendance.ErrNotOwner
	}
	return attendance.NewAttendanceResponse(record), nil
}

// openOvernight returns the previous day's record while it is still clocked in
// on a shift that crosses midnight and now is before that shift's end plus
// overnightGrace. Otherwise it returns nil.
func (a *AttendanceServiceImpl) openOvernight(ctx context.Context, employeeNIK string, today, now time.Time) (*attendance.Attendance, error) {
	record, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeNIK, today.AddDate(0, 0, -1))
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get previous day's attendance: %w", err)
	}
	if attendance.StateOf(&record) != attendance.StateClockedIn || record.ShiftCode == nil {
		return nil, nil
	}
	shift, ok := schedule.LookupShift(*record.ShiftCode)
	if !ok || !shift.CrossesMidnight {
		return nil, nil
	}
	_, end, ok := shift.Window(record.Date, a.loc)
	if !ok || now.After(end.Add(overnightGrace)) {
		return nil, nil
	}
	return &record, nil
}

// scheduledShift returns nil when nothing is assigned for the date.
func (a *AttendanceServiceImpl) scheduledShift(ctx context.Context, employeeNIK string, date time.Time) (*string, error) {
	assignment, err := a.scheduleService.GetForDate(ctx, employeeNIK, date)
	if err != nil {
		if errors.Is(err, schedule.ErrAssignmentNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get scheduled shift: %w", err)
	}
	return &assignment.ShiftCode, nil
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)
