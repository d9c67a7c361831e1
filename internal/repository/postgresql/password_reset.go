package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/database"
)

type passwordResetRepositoryImpl struct {
	db *database.DB
}

func NewPasswordResetRepository(db *database.DB) auth.PasswordResetRepository {
	return &passwordResetRepositoryImpl{db: db}
}

// Create stores only the hash of the emailed token.
func (r *passwordResetRepositoryImpl) Create(ctx context.Context, userID string, token string, expiresAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO password_reset_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, hashToken(token), expiresAt.UTC())
	return translateError(err, "password_reset_tokens", nil)
}

// Consume is a single conditional update so a token can be used once.
func (r *passwordResetRepositoryImpl) Consume(ctx context.Context, token string, now time.Time) (string, error) {
	q := GetQuerier(ctx, r.db)

	var userID string
	err := q.QueryRow(ctx, `
		UPDATE password_reset_tokens
		SET used_at = $2
		WHERE token_hash = $1 AND used_at IS NULL AND expires_at > $2
		RETURNING user_id
	`, hashToken(token), now.UTC()).Scan(&userID)
	if err != nil {
		return "", translateError(err, "password_reset_tokens", auth.ErrResetTokenInvalid)
	}
	return userID, nil
}
