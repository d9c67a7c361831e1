package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/proposal"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/database"
)

type leaveQuotaRow struct {
	ID          string
	EmployeeNIK string
	LeaveType   string
	Period      int
	QuotaDays   int
	ValidFrom   time.Time
	ValidUntil  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var leaveQuotaFields = fieldMap[leaveQuotaRow]{
	col("id", func(r *leaveQuotaRow) any { return &r.ID }),
	col("employee_nik", func(r *leaveQuotaRow) any { return &r.EmployeeNIK }),
	col("leave_type", func(r *leaveQuotaRow) any { return &r.LeaveType }),
	col("period", func(r *leaveQuotaRow) any { return &r.Period }),
	col("quota_days", func(r *leaveQuotaRow) any { return &r.QuotaDays }),
	col("valid_from", func(r *leaveQuotaRow) any { return &r.ValidFrom }),
	col("valid_until", func(r *leaveQuotaRow) any { return &r.ValidUntil }),
	col("created_at", func(r *leaveQuotaRow) any { return &r.CreatedAt }),
	col("updated_at", func(r *leaveQuotaRow) any { return &r.UpdatedAt }),
}

var leaveQuotaWritable = leaveQuotaFields.without("id", "created_at", "updated_at")

func (r leaveQuotaRow) toDomain(employeeName *string) leave.LeaveQuota {
	return leave.LeaveQuota{
		ID:           r.ID,
		EmployeeNIK:  r.EmployeeNIK,
		LeaveType:    proposal.LeaveType(r.LeaveType),
		Period:       r.Period,
		QuotaDays:    r.QuotaDays,
		ValidFrom:    r.ValidFrom,
		ValidUntil:   r.ValidUntil,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		EmployeeName: employeeName,
	}
}

type leaveQuotaRepositoryImpl struct {
	db *database.DB
}

func NewLeaveQuotaRepository(db *database.DB) leave.LeaveQuotaRepository {
	return &leaveQuotaRepositoryImpl{db: db}
}

// Upsert implements leave.LeaveQuotaRepository.
func (r *leaveQuotaRepositoryImpl) Upsert(ctx context.Context, quota leave.LeaveQuota) (leave.LeaveQuota, error) {
	q := GetQuerier(ctx, r.db)

	row := leaveQuotaRow{
		EmployeeNIK: quota.EmployeeNIK,
		LeaveType:   string(quota.LeaveType),
		Period:      quota.Period,
		QuotaDays:   quota.QuotaDays,
		ValidFrom:   quota.ValidFrom,
		ValidUntil:  quota.ValidUntil,
	}
	query := leaveQuotaWritable.insert("leave_quotas", fmt.Sprintf(`
		ON CONFLICT (employee_nik, leave_type, period) DO UPDATE
		SET %s, updated_at = NOW()
		RETURNING %s`, leaveQuotaWritable.excludedSet(), leaveQuotaFields.columns("")))

	saved, err := scanOne(q.QueryRow(ctx, query, leaveQuotaWritable.values(&row)...), leaveQuotaFields)
	if err != nil {
		return leave.LeaveQuota{}, translateError(err, "leave_quotas", nil)
	}
	return saved.toDomain(quota.EmployeeName), nil
}

// ListByEmployee implements leave.LeaveQuotaRepository.
func (r *leaveQuotaRepositoryImpl) ListByEmployee(ctx context.Context, employeeNIK string) ([]leave.LeaveQuota, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s, e.full_name
		FROM leave_quotas lq
		LEFT JOIN employees e ON e.nik = lq.employee_nik AND e.deleted_at IS NULL
		WHERE lq.employee_nik = $1
		ORDER BY lq.period DESC, lq.leave_type ASC`, leaveQuotaFields.columns("lq"))

	rows, err := q.Query(ctx, query, employeeNIK)
	if err != nil {
		return nil, translateError(err, "leave_quotas", nil)
	}
	defer rows.Close()

	out := make([]leave.LeaveQuota, 0)
	for rows.Next() {
		var row leaveQuotaRow
		var name *string
		if err := rows.Scan(append(leaveQuotaFields.targets(&row), &name)...); err != nil {
			return nil, err
		}
		out = append(out, row.toDomain(name))
	}
	return out, rows.Err()
}
