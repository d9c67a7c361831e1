package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/database"
)

var assignmentFields = fieldMap[schedule.ShiftAssignment]{
	col("id", func(a *schedule.ShiftAssignment) any { return &a.ID }),
	col("employee_nik", func(a *schedule.ShiftAssignment) any { return &a.EmployeeNIK }),
	col("date", func(a *schedule.ShiftAssignment) any { return &a.Date }),
	col("shift_code", func(a *schedule.ShiftAssignment) any { return &a.ShiftCode }),
	col("employee_name", func(a *schedule.ShiftAssignment) any { return &a.EmployeeName }),
	col("section", func(a *schedule.ShiftAssignment) any { return &a.Section }),
	col("created_at", func(a *schedule.ShiftAssignment) any { return &a.CreatedAt }),
	col("updated_at", func(a *schedule.ShiftAssignment) any { return &a.UpdatedAt }),
}

var assignmentWritable = assignmentFields.without("id", "created_at", "updated_at")

type shiftAssignmentRepositoryImpl struct {
	db *database.DB
}

func NewShiftAssignmentRepository(db *database.DB) schedule.ShiftAssignmentRepository {
	return &shiftAssignmentRepositoryImpl{db: db}
}

// Upsert implements schedule.ShiftAssignmentRepository.
func (r *shiftAssignmentRepositoryImpl) Upsert(ctx context.Context, assignment schedule.ShiftAssignment) (schedule.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := assignmentWritable.insert("shift_assignments", fmt.Sprintf(`
		ON CONFLICT (employee_nik, date) DO UPDATE
		SET %s, updated_at = NOW()
		RETURNING %s`, assignmentWritable.excludedSet(), assignmentFields.columns("")))

	saved, err := scanOne(q.QueryRow(ctx, query, assignmentWritable.values(&assignment)...), assignmentFields)
	if err != nil {
		return schedule.ShiftAssignment{}, translateError(err, "shift_assignments", nil)
	}
	return saved, nil
}

// GetByEmployeeAndDate implements schedule.ShiftAssignmentRepository.
func (r *shiftAssignmentRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeNIK string, date time.Time) (schedule.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM shift_assignments WHERE employee_nik = $1 AND date = $2`, assignmentFields.columns(""))
	a, err := scanOne(q.QueryRow(ctx, query, employeeNIK, date), assignmentFields)
	if err != nil {
		return schedule.ShiftAssignment{}, translateError(err, "shift_assignments", schedule.ErrAssignmentNotFound)
	}
	return a, nil
}

// GetByEmployeeNIK implements schedule.ShiftAssignmentRepository.
func (r *shiftAssignmentRepositoryImpl) GetByEmployeeNIK(ctx context.Context, employeeNIK string) ([]schedule.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM shift_assignments WHERE employee_nik = $1 ORDER BY date ASC`, assignmentFields.columns(""))
	rows, err := q.Query(ctx, query, employeeNIK)
	if err != nil {
		return nil, translateError(err, "shift_assignments", nil)
	}
	return scanAll(rows, assignmentFields)
}

// GetAll implements schedule.ShiftAssignmentRepository.
func (r *shiftAssignmentRepositoryImpl) GetAll(ctx context.Context) ([]schedule.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM shift_assignments ORDER BY date ASC, employee_nik ASC`, assignmentFields.columns(""))
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, translateError(err, "shift_assignments", nil)
	}
	return scanAll(rows, assignmentFields)
}
