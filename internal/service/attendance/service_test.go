package attendance

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/apperror"
	deviceservice "github.com/cmlabs-hris/presensi-backend-go/internal/service/device"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*3600)

type memoryAttendance struct {
	mu      sync.Mutex
	records map[string]attendance.Attendance
}

func newMemoryAttendance() *memoryAttendance {
	return &memoryAttendance{records: map[string]attendance.Attendance{}}
}

func dayKey(nik string, date time.Time) string { return nik + "|" + date.Format("2006-01-02") }

func (m *memoryAttendance) CreateClockIn(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[dayKey(a.EmployeeNIK, a.Date)]; ok {
		return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
	}
	a.CreatedAt, a.UpdatedAt = a.ClockIn.At, a.ClockIn.At
	m.records[dayKey(a.EmployeeNIK, a.Date)] = a
	return a, nil
}

func (m *memoryAttendance) RecordClockOut(_ context.Context, id string, event attendance.ClockEvent, total decimal.Decimal) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, a := range m.records {
		if a.ID != id {
			continue
		}
		if a.ClockOut != nil {
			return attendance.Attendance{}, attendance.ErrAlreadyClockedOut
		}
		a.ClockOut = &event
		a.TotalHours = &total
		a.UpdatedAt = event.At
		m.records[k] = a
		return a, nil
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (m *memoryAttendance) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.records {
		if a.ID == id {
			return a, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (m *memoryAttendance) GetByEmployeeAndDate(_ context.Context, nik string, date time.Time) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.records[dayKey(nik, date)]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (m *memoryAttendance) ListByEmployee(_ context.Context, nik string, filter attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []attendance.Attendance
	for _, a := range m.records {
		if a.EmployeeNIK == nik {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	total := int64(len(out))
	start := (filter.Page - 1) * filter.Limit
	if start > len(out) {
		start = len(out)
	}
	end := min(start+filter.Limit, len(out))
	return out[start:end], total, nil
}

type memoryFingerprints struct {
	mu    sync.Mutex
	bound map[string]device.Fingerprint
}

func (m *memoryFingerprints) GetByUserID(_ context.Context, userID string) (device.Fingerprint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fp, ok := m.bound[userID]
	if !ok {
		return device.Fingerprint{}, device.ErrFingerprintNotFound
	}
	return fp, nil
}

func (m *memoryFingerprints) InsertIfAbsent(_ context.Context, userID, fingerprintID string) (device.Fingerprint, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if fp, ok := m.bound[userID]; ok {
		return fp, false, nil
	}
	fp := device.Fingerprint{UserID: userID, FingerprintID: fingerprintID}
	m.bound[userID] = fp
	return fp, true, nil
}

// stubSchedule serves fixed assignments keyed by nik|date.
type stubSchedule struct {
	schedule.ScheduleService
	assigned map[string]string
}

func (s stubSchedule) GetForDate(_ context.Context, nik string, date time.Time) (schedule.ShiftAssignment, error) {
	code, ok := s.assigned[dayKey(nik, date)]
	if !ok {
		return schedule.ShiftAssignment{}, schedule.ErrAssignmentNotFound
	}
	return schedule.ShiftAssignment{EmployeeNIK: nik, Date: date, ShiftCode: code}, nil
}

type inlineTransactor struct{}

func (inlineTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	svc     *AttendanceServiceImpl
	repo    *memoryAttendance
	devices *memoryFingerprints
	now     time.Time
}

func newFixture(assigned map[string]string) *fixture {
	f := &fixture{
		repo:    newMemoryAttendance(),
		devices: &memoryFingerprints{bound: map[string]device.Fingerprint{}},
		now:     time.Date(2025, 11, 6, 8, 0, 0, 0, wib),
	}
	f.svc = NewAttendanceService(f.repo, stubSchedule{assigned: assigned}, deviceservice.NewGuard(f.devices), inlineTransactor{}, wib).
		WithClock(func() time.Time { return f.now })
	return f
}

func onSiteIn(fp string) attendance.ClockInRequest {
	return attendance.ClockInRequest{
		EmployeeNIK:   "00005950",
		UserID:        "user-1",
		HealthStatus:  "Sehat",
		LocationType:  string(attendance.LocationOnSite),
		Workplace:     "Plant A",
		FingerprintID: fp,
	}
}

func onSiteOut() attendance.ClockOutRequest {
	return attendance.ClockOutRequest{
		EmployeeNIK:  "00005950",
		UserID:       "user-1",
		HealthStatus: "Sehat",
		LocationType: string(attendance.LocationOnSite),
		Workplace:    "Plant A",
	}
}

func TestClockInOut_FullDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(map[string]string{"00005950|2025-11-06": "NS08"})

	in, err := f.svc.ClockIn(ctx, onSiteIn("fp-A"))
	require.NoError(t, err)
	assert.Equal(t, attendance.StateClockedIn, in.State)
	require.NotNil(t, in.ShiftCode)
	assert.Equal(t, "NS08", *in.ShiftCode)
	assert.Nil(t, in.TotalHours)

	f.now = f.now.Add(90 * time.Minute)
	out, err := f.svc.ClockOut(ctx, onSiteOut())
	require.NoError(t, err)
	assert.Equal(t, attendance.StateClockedOut, out.State)
	require.NotNil(t, out.TotalHours)
	assert.Equal(t, "1.50", *out.TotalHours)
	assert.Equal(t, in.ID, out.ID)
}

func TestClockIn_Twice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)

	_, err := f.svc.ClockIn(ctx, onSiteIn("fp-A"))
	require.NoError(t, err)

	f.now = f.now.Add(time.Hour)
	_, err = f.svc.ClockIn(ctx, onSiteIn("fp-A"))
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
}

func TestClockOut_WithoutClockIn(t *testing.T) {
	f := newFixture(nil)
	_, err := f.svc.ClockOut(context.Background(), onSiteOut())
	assert.ErrorIs(t, err, attendance.ErrNoClockIn)
}

func TestClockOut_Twice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)

	_, err := f.svc.ClockIn(ctx, onSiteIn("fp-A"))
	require.NoError(t, err)
	f.now = f.now.Add(8 * time.Hour)
	_, err = f.svc.ClockOut(ctx, onSiteOut())
	require.NoError(t, err)

	_, err = f.svc.ClockOut(ctx, onSiteOut())
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedOut)
}

func TestClockIn_DeviceBinding(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)

	_, err := f.svc.ClockIn(ctx, onSiteIn("fp-A"))
	require.NoError(t, err)
	assert.Equal(t, "fp-A", f.devices.bound["user-1"].FingerprintID)

	f.now = f.now.AddDate(0, 0, 1)
	_, err = f.svc.ClockIn(ctx, onSiteIn("fp-B"))
	assert.ErrorIs(t, err, device.ErrDeviceMismatch)
	assert.ErrorIs(t, err, apperror.ErrDeviceMismatch)

	_, err = f.repo.GetByEmployeeAndDate(ctx, "00005950", attendance.LocalDate(f.now, wib))
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound, "no record for a refused clock-in")

	f.now = f.now.AddDate(0, 0, 1)
	resp, err := f.svc.ClockIn(ctx, onSiteIn("fp-A"))
	require.NoError(t, err)
	assert.Equal(t, "2025-11-08", resp.Date)
	assert.Equal(t, "fp-A", f.devices.bound["user-1"].FingerprintID)
}

func TestClockIn_ConcurrentSameDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.ClockIn(ctx, onSiteIn("fp-A"))
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)
	}
	assert.Equal(t, 1, ok)
	assert.Len(t, f.repo.records, 1)
}

func TestClockOut_OvernightShift(t *testing.T) {
	ctx := context.Background()
	f := newFixture(map[string]string{"00005950|2025-11-06": "3T13"})
	f.now = time.Date(2025, 11, 6, 22, 55, 0, 0, wib)

	in, err := f.svc.ClockIn(ctx, onSiteIn("fp-A"))
	require.NoError(t, err)
	assert.Equal(t, "2025-11-06", in.Date)

	f.now = time.Date(2025, 11, 7, 7, 5, 0, 0, wib)

	today, err := f.svc.Today(ctx, "00005950", "user-1")
	require.NoError(t, err)
	assert.Equal(t, attendance.StateClockedIn, today.State)
	require.NotNil(t, today.Attendance)
	assert.Equal(t, in.ID, today.Attendance.ID)

	_, err = f.svc.ClockIn(ctx, onSiteIn("fp-A"))
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn, "night shift still open")

	out, err := f.svc.ClockOut(ctx, onSiteOut())
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, attendance.StateClockedOut, out.State)
	require.NotNil(t, out.TotalHours)
	assert.Equal(t, "8.17", *out.TotalHours)

	_, err = f.svc.ClockOut(ctx, onSiteOut())
	assert.ErrorIs(t, err, attendance.ErrNoClockIn)
}

func TestClockOut_OvernightShiftPastGrace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(map[string]string{"00005950|2025-11-06": "3T13"})
	f.now = time.Date(2025, 11, 6, 22, 55, 0, 0, wib)

	_, err := f.svc.ClockIn(ctx, onSiteIn("fp-A"))
	require.NoError(t, err)

	f.now = time.Date(2025, 11, 7, 11, 30, 0, 0, wib)
	_, err = f.svc.ClockOut(ctx, onSiteOut())
	assert.ErrorIs(t, err, attendance.ErrNoClockIn)

	resp, err := f.svc.ClockIn(ctx, onSiteIn("fp-A"))
	require.NoError(t, err)
	assert.Equal(t, "2025-11-07", resp.Date)
}

func TestClockIn_DayShiftLeftOpenDoesNotCarryOver(t *testing.T) {
	ctx := context.Background()
	f := newFixture(map[string]string{"00005950|2025-11-06": "NS08"})

	_, err := f.svc.ClockIn(ctx, onSiteIn("fp-A"))
	require.NoError(t, err)

	f.now = time.Date(2025, 11, 7, 1, 0, 0, 0, wib)
	_, err = f.svc.ClockOut(ctx, onSiteOut())
	assert.ErrorIs(t, err, attendance.ErrNoClockIn)
}

func TestClockIn_OnSiteNeedsFingerprint(t *testing.T) {
	f := newFixture(nil)
	_, err := f.svc.ClockIn(context.Background(), onSiteIn(""))
	assert.ErrorIs(t, err, device.ErrFingerprintRequired)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestClockIn_RemoteSkipsDeviceGuard(t *testing.T) {
	f := newFixture(nil)
	req := onSiteIn("")
	req.LocationType = string(attendance.LocationHome)

	resp, err := f.svc.ClockIn(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, resp.ShiftCode)
	assert.Empty(t, f.devices.bound)
}

func TestClockIn_InvalidLocation(t *testing.T) {
	f := newFixture(nil)
	req := onSiteIn("fp-A")
	req.LocationType = "Bekerja di Kafe"

	_, err := f.svc.ClockIn(context.Background(), req)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestToday(t *testing.T) {
	ctx := context.Background()
	f := newFixture(map[string]string{"00005950|2025-11-06": "1T13"})

	today, err := f.svc.Today(ctx, "00005950", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "2025-11-06", today.Date)
	assert.Equal(t, attendance.StateNoRecord, today.State)
	assert.False(t, today.DeviceBound)
	require.NotNil(t, today.ScheduledShift)
	assert.Equal(t, "Shift 1", today.ScheduledShift.Group)

	_, err = f.svc.ClockIn(ctx, onSiteIn("fp-A"))
	require.NoError(t, err)

	today, err = f.svc.Today(ctx, "00005950", "user-1")
	require.NoError(t, err)
	assert.Equal(t, attendance.StateClockedIn, today.State)
	assert.True(t, today.DeviceBound)
	assert.NotNil(t, today.Attendance)
}

func TestHistoryAndGet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)

	var firstID string
	for i := 0; i < 3; i++ {
		resp, err := f.svc.ClockIn(ctx, onSiteIn("fp-A"))
		require.NoError(t, err)
		if i == 0 {
			firstID = resp.ID
		}
		f.now = f.now.AddDate(0, 0, 1)
	}

	page, err := f.svc.History(ctx, "00005950", attendance.MyAttendanceFilter{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Attendances, 2)
	assert.Equal(t, "2025-11-08", page.Attendances[0].Date)

	got, err := f.svc.Get(ctx, firstID, "00005950")
	require.NoError(t, err)
	assert.Equal(t, "2025-11-06", got.Date)

	_, err = f.svc.Get(ctx, firstID, "00009999")
	assert.ErrorIs(t, err, attendance.ErrNotOwner)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}
