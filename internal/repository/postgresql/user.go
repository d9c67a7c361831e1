package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/database"
)

type userRow struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	EmployeeID   *string
	EmployeeNIK  *string
}

var userFields = fieldMap[userRow]{
	col("id", func(r *userRow) any { return &r.ID }),
	col("email", func(r *userRow) any { return &r.Email }),
	col("password_hash", func(r *userRow) any { return &r.PasswordHash }),
	col("role", func(r *userRow) any { return &r.Role }),
	col("created_at", func(r *userRow) any { return &r.CreatedAt }),
	col("updated_at", func(r *userRow) any { return &r.UpdatedAt }),
}

func (r userRow) toDomain() user.User {
	return user.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         user.Role(r.Role),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		EmployeeID:   r.EmployeeID,
		EmployeeNIK:  r.EmployeeNIK,
	}
}

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

var userSelect = `SELECT ` + userFields.columns("u") + `, e.id, e.nik
	FROM users u
	LEFT JOIN employees e ON e.user_id = u.id AND e.deleted_at IS NULL
`

func (r *userRepositoryImpl) scanUser(ctx context.Context, where string, arg string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	var row userRow
	targets := append(userFields.targets(&row), &row.EmployeeID, &row.EmployeeNIK)
	if err := q.QueryRow(ctx, userSelect+where, arg).Scan(targets...); err != nil {
		return user.User{}, translateError(err, "users", user.ErrUserNotFound)
	}
	return row.toDomain(), nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.scanUser(ctx, `WHERE lower(u.email) = lower($1)`, email)
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.scanUser(ctx, `WHERE u.id = $1`, id)
}

// UpdatePassword implements user.UserRepository.
func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, userID, passwordHash)
	if err != nil {
		return translateError(err, "users", nil)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
