package auth

import (
	"context"
	"time"
)

type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session SessionTrackingRequest) error
	// IsRefreshTokenRevoked returns ErrSessionNotFound for tokens that were never issued.
	IsRefreshTokenRevoked(ctx context.Context, token string) (userID string, revoked bool, err error)
	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

type PasswordResetRepository interface {
	Create(ctx context.Context, userID string, token string, expiresAt time.Time) error
	// Consume marks an unexpired, unused token as used and returns its user.
	Consume(ctx context.Context, token string, now time.Time) (userID string, err error)
}
