package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/database"
)

// TokenHousekeeping deletes credentials that can no longer be used.
type TokenHousekeeping struct {
	db *database.DB
}

func NewTokenHousekeeping(db *database.DB) *TokenHousekeeping {
	return &TokenHousekeeping{db: db}
}

// PurgeRefreshTokens removes sessions that expired or were revoked before cutoff.
func (h *TokenHousekeeping) PurgeRefreshTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, h.db)

	tag, err := q.Exec(ctx, `
		DELETE FROM refresh_tokens
		WHERE expires_at < $1 OR revoked_at < $1
	`, cutoff.UTC())
	if err != nil {
		return 0, translateError(err, "refresh_tokens", nil)
	}
	return tag.RowsAffected(), nil
}

// PurgeResetTokens removes password reset tokens that expired before cutoff.
// Used tokens go too once they are past expiry.
func (h *TokenHousekeeping) PurgeResetTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, h.db)

	tag, err := q.Exec(ctx, `
		DELETE FROM password_reset_tokens
		WHERE expires_at < $1
	`, cutoff.UTC())
	if err != nil {
		return 0, translateError(err, "password_reset_tokens", nil)
	}
	return tag.RowsAffected(), nil
}
