package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// TokenPurger deletes unusable credentials older than a cutoff.
type TokenPurger interface {
	PurgeRefreshTokens(ctx context.Context, cutoff time.Time) (int64, error)
	PurgeResetTokens(ctx context.Context, cutoff time.Time) (int64, error)
}

// TokenJobs keeps refresh and password reset tables from growing unbounded.
type TokenJobs struct {
	purger    TokenPurger
	retention time.Duration
	now       func() time.Time
}

func NewTokenJobs(purger TokenPurger, retention time.Duration) *TokenJobs {
	return &TokenJobs{purger: purger, retention: retention, now: time.Now}
}

func (j *TokenJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_expired_tokens", time.Hour, j.PurgeExpired)
}

// PurgeExpired keeps rows for the retention window after they stop being valid.
func (j *TokenJobs) PurgeExpired(ctx context.Context) error {
	cutoff := j.now().Add(-j.retention)

	sessions, errSessions := j.purger.PurgeRefreshTokens(ctx, cutoff)
	if errSessions != nil {
		errSessions = fmt.Errorf("purge refresh tokens: %w", errSessions)
	}
	resets, errResets := j.purger.PurgeResetTokens(ctx, cutoff)
	if errResets != nil {
		errResets = fmt.Errorf("purge reset tokens: %w", errResets)
	}

	if sessions > 0 || resets > 0 {
		slog.Info("Cron: purged expired tokens", "refresh_tokens", sessions, "reset_tokens", resets)
	}
	return errors.Join(errSessions, errResets)
}
