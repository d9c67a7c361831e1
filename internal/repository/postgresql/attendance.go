package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type attendanceRow struct {
	ID          string
	EmployeeNIK string
	UserID      string
	Date        time.Time
	ShiftCode   *string

	ClockInAt        *time.Time
	ClockInHealth    *string
	ClockInLocation  *string
	ClockInWorkplace *string
	ClockInNotes     *string
	ClockInLat       *float64
	ClockInLng       *float64

	ClockOutAt        *time.Time
	ClockOutHealth    *string
	ClockOutLocation  *string
	ClockOutWorkplace *string
	ClockOutNotes     *string
	ClockOutLat       *float64
	ClockOutLng       *float64

	TotalHours *decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

var attendanceFields = fieldMap[attendanceRow]{
	col("id", func(r *attendanceRow) any { return &r.ID }),
	col("employee_nik", func(r *attendanceRow) any { return &r.EmployeeNIK }),
	col("user_id", func(r *attendanceRow) any { return &r.UserID }),
	col("date", func(r *attendanceRow) any { return &r.Date }),
	col("shift_code", func(r *attendanceRow) any { return &r.ShiftCode }),
	col("clock_in_at", func(r *attendanceRow) any { return &r.ClockInAt }),
	col("clock_in_health_status", func(r *attendanceRow) any { return &r.ClockInHealth }),
	col("clock_in_location_type", func(r *attendanceRow) any { return &r.ClockInLocation }),
	col("clock_in_workplace", func(r *attendanceRow) any { return &r.ClockInWorkplace }),
	col("clock_in_notes", func(r *attendanceRow) any { return &r.ClockInNotes }),
	col("clock_in_latitude", func(r *attendanceRow) any { return &r.ClockInLat }),
	col("clock_in_longitude", func(r *attendanceRow) any { return &r.ClockInLng }),
	col("clock_out_at", func(r *attendanceRow) any { return &r.ClockOutAt }),
	col("clock_out_health_status", func(r *attendanceRow) any { return &r.ClockOutHealth }),
	col("clock_out_location_type", func(r *attendanceRow) any { return &r.ClockOutLocation }),
	col("clock_out_workplace", func(r *attendanceRow) any { return &r.ClockOutWorkplace }),
	col("clock_out_notes", func(r *attendanceRow) any { return &r.ClockOutNotes }),
	col("clock_out_latitude", func(r *attendanceRow) any { return &r.ClockOutLat }),
	col("clock_out_longitude", func(r *attendanceRow) any { return &r.ClockOutLng }),
	col("total_hours", func(r *attendanceRow) any { return &r.TotalHours }),
	col("created_at", func(r *attendanceRow) any { return &r.CreatedAt }),
	col("updated_at", func(r *attendanceRow) any { return &r.UpdatedAt }),
}

// clock-in inserts never carry the clock-out half
var attendanceInsertFields = attendanceFields.without(
	"created_at", "updated_at",
	"clock_out_at", "clock_out_health_status", "clock_out_location_type",
	"clock_out_workplace", "clock_out_notes", "clock_out_latitude", "clock_out_longitude",
	"total_hours",
)

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (r attendanceRow) toDomain() attendance.Attendance {
	a := attendance.Attendance{
		ID:          r.ID,
		EmployeeNIK: r.EmployeeNIK,
		UserID:      r.UserID,
		Date:        r.Date,
		ShiftCode:   r.ShiftCode,
		TotalHours:  r.TotalHours,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.ClockInAt != nil {
		a.ClockIn = &attendance.ClockEvent{
			At:           *r.ClockInAt,
			HealthStatus: deref(r.ClockInHealth),
			LocationType: attendance.LocationType(deref(r.ClockInLocation)),
			Workplace:    deref(r.ClockInWorkplace),
			Notes:        r.ClockInNotes,
			Latitude:     r.ClockInLat,
			Longitude:    r.ClockInLng,
		}
	}
	if r.ClockOutAt != nil {
		a.ClockOut = &attendance.ClockEvent{
			At:           *r.ClockOutAt,
			HealthStatus: deref(r.ClockOutHealth),
			LocationType: attendance.LocationType(deref(r.ClockOutLocation)),
			Workplace:    deref(r.ClockOutWorkplace),
			Notes:        r.ClockOutNotes,
			Latitude:     r.ClockOutLat,
			Longitude:    r.ClockOutLng,
		}
	}
	return a
}

func newAttendanceRow(a attendance.Attendance) attendanceRow {
	row := attendanceRow{
		ID:          a.ID,
		EmployeeNIK: a.EmployeeNIK,
		UserID:      a.UserID,
		Date:        a.Date,
		ShiftCode:   a.ShiftCode,
	}
	if in := a.ClockIn; in != nil {
		location := string(in.LocationType)
		row.ClockInAt = &in.At
		row.ClockInHealth = &in.HealthStatus
		row.ClockInLocation = &location
		row.ClockInWorkplace = &in.Workplace
		row.ClockInNotes = in.Notes
		row.ClockInLat = in.Latitude
		row.ClockInLng = in.Longitude
	}
	return row
}

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// CreateClockIn implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CreateClockIn(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	row := newAttendanceRow(a)
	query := attendanceInsertFields.insert("attendances",
		`ON CONFLICT (employee_nik, date) DO NOTHING RETURNING `+attendanceFields.columns(""))

	saved, err := scanOne(q.QueryRow(ctx, query, attendanceInsertFields.values(&row)...), attendanceFields)
	if err != nil {
		// DO NOTHING returns no row when the key is already taken
		return attendance.Attendance{}, translateError(err, "attendances", attendance.ErrAlreadyClockedIn)
	}
	return saved.toDomain(), nil
}

// RecordClockOut implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) RecordClockOut(ctx context.Context, id string, event attendance.ClockEvent, totalHours decimal.Decimal) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE attendances SET
			clock_out_at = $2,
			clock_out_health_status = $3,
			clock_out_location_type = $4,
			clock_out_workplace = $5,
			clock_out_notes = $6,
			clock_out_latitude = $7,
			clock_out_longitude = $8,
			total_hours = $9,
			updated_at = NOW()
		WHERE id = $1 AND clock_in_at IS NOT NULL AND clock_out_at IS NULL
		RETURNING %s`, attendanceFields.columns(""))

	saved, err := scanOne(q.QueryRow(ctx, query,
		id, event.At, event.HealthStatus, string(event.LocationType), event.Workplace,
		event.Notes, event.Latitude, event.Longitude, totalHours,
	), attendanceFields)
	if err != nil {
		return attendance.Attendance{}, translateError(err, "attendances", attendance.ErrAlreadyClockedOut)
	}
	return saved.toDomain(), nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM attendances WHERE id = $1`, attendanceFields.columns(""))
	row, err := scanOne(q.QueryRow(ctx, query, id), attendanceFields)
	if err != nil {
		return attendance.Attendance{}, translateError(err, "attendances", attendance.ErrAttendanceNotFound)
	}
	return row.toDomain(), nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeNIK string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM attendances WHERE employee_nik = $1 AND date = $2`, attendanceFields.columns(""))
	row, err := scanOne(q.QueryRow(ctx, query, employeeNIK, date), attendanceFields)
	if err != nil {
		return attendance.Attendance{}, translateError(err, "attendances", attendance.ErrAttendanceNotFound)
	}
	return row.toDomain(), nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeNIK string, filter attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"employee_nik = $1"}
	args := []any{employeeNIK}
	if filter.StartDate != nil && *filter.StartDate != "" {
		args = append(args, *filter.StartDate)
		where = append(where, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		args = append(args, *filter.EndDate)
		where = append(where, fmt.Sprintf("date <= $%d", len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendances WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, translateError(err, "attendances", nil)
	}

	order := "DESC"
	if filter.SortOrder == "asc" {
		order = "ASC"
	}
	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM attendances WHERE %s ORDER BY date %s LIMIT $%d OFFSET $%d`,
		attendanceFields.columns(""), whereClause, order, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, translateError(err, "attendances", nil)
	}
	list, err := scanAll(rows, attendanceFields)
	if err != nil {
		return nil, 0, err
	}

	out := make([]attendance.Attendance, len(list))
	for i, row := range list {
		out[i] = row.toDomain()
	}
	return out, total, nil
}

