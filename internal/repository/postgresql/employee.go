package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/database"
)

type employeeRow struct {
	ID               string
	UserID           *string
	NIK              string
	FullName         string
	Email            *string
	Role             string
	ManagerID        *string
	Section          string
	Unit             string
	ShiftKerja       string
	AnnualLeaveQuota int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

var employeeFields = fieldMap[employeeRow]{
	col("id", func(r *employeeRow) any { return &r.ID }),
	col("user_id", func(r *employeeRow) any { return &r.UserID }),
	col("nik", func(r *employeeRow) any { return &r.NIK }),
	col("full_name", func(r *employeeRow) any { return &r.FullName }),
	col("email", func(r *employeeRow) any { return &r.Email }),
	col("role", func(r *employeeRow) any { return &r.Role }),
	col("manager_id", func(r *employeeRow) any { return &r.ManagerID }),
	col("section", func(r *employeeRow) any { return &r.Section }),
	col("unit", func(r *employeeRow) any { return &r.Unit }),
	col("shift_kerja", func(r *employeeRow) any { return &r.ShiftKerja }),
	col("annual_leave_quota", func(r *employeeRow) any { return &r.AnnualLeaveQuota }),
	col("created_at", func(r *employeeRow) any { return &r.CreatedAt }),
	col("updated_at", func(r *employeeRow) any { return &r.UpdatedAt }),
}

func (r employeeRow) toDomain() employee.Employee {
	return employee.Employee{
		ID:               r.ID,
		UserID:           r.UserID,
		NIK:              r.NIK,
		FullName:         r.FullName,
		Email:            r.Email,
		Role:             user.Role(r.Role),
		ManagerID:        r.ManagerID,
		Section:          r.Section,
		Unit:             r.Unit,
		ShiftKerja:       r.ShiftKerja,
		AnnualLeaveQuota: r.AnnualLeaveQuota,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

type employeeRepositoryImpl struct {
	db *database.DB
}

// NewEmployeeRepository reads the employees table maintained by the directory.
func NewEmployeeRepository(db *database.DB) employee.Directory {
	return &employeeRepositoryImpl{db: db}
}

func (r *employeeRepositoryImpl) getBy(ctx context.Context, column, value string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM employees WHERE %s = $1 AND deleted_at IS NULL`, employeeFields.columns(""), column)
	row, err := scanOne(q.QueryRow(ctx, query, value), employeeFields)
	if err != nil {
		return employee.Employee{}, translateError(err, "employees", employee.ErrEmployeeNotFound)
	}
	return row.toDomain(), nil
}

// GetByNIK implements employee.Directory.
func (r *employeeRepositoryImpl) GetByNIK(ctx context.Context, nik string) (employee.Employee, error) {
	return r.getBy(ctx, "nik", nik)
}

// GetByID implements employee.Directory.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.getBy(ctx, "id", id)
}

// GetByUserID implements employee.Directory.
func (r *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	return r.getBy(ctx, "user_id", userID)
}
