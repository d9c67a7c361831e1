package device

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/device"
)

type guardImpl struct {
	repo device.FingerprintRepository
}

func NewGuard(repo device.FingerprintRepository) device.Guard {
	return &guardImpl{repo: repo}
}

// Check implements device.Guard.
func (g *guardImpl) Check(ctx context.Context, userID, fingerprintID string) error {
	if fingerprintID == "" {
		return device.ErrFingerprintRequired
	}
	bound, err := g.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, device.ErrFingerprintNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get device fingerprint: %w", err)
	}
	if bound.FingerprintID != fingerprintID {
		return device.ErrDeviceMismatch
	}
	return nil
}

// BindIfAbsent implements device.Guard.
func (g *guardImpl) BindIfAbsent(ctx context.Context, userID, fingerprintID string) error {
	if fingerprintID == "" {
		return device.ErrFingerprintRequired
	}
	bound, _, err := g.repo.InsertIfAbsent(ctx, userID, fingerprintID)
	if err != nil {
		return fmt.Errorf("failed to bind device fingerprint: %w", err)
	}
	if bound.FingerprintID != fingerprintID {
		return device.ErrAlreadyBound
	}
	return nil
}

// Enforce implements device.Guard.
func (g *guardImpl) Enforce(ctx context.Context, userID, fingerprintID string) (bool, error) {
	if fingerprintID == "" {
		return false, device.ErrFingerprintRequired
	}
	bound, created, err := g.repo.InsertIfAbsent(ctx, userID, fingerprintID)
	if err != nil {
		return false, fmt.Errorf("failed to enforce device fingerprint: %w", err)
	}
	if bound.FingerprintID != fingerprintID {
		return false, device.ErrDeviceMismatch
	}
	return created, nil
}

// IsBound implements device.Guard.
func (g *guardImpl) IsBound(ctx context.Context, userID string) (bool, error) {
	_, err := g.repo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, device.ErrFingerprintNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to get device fingerprint: %w", err)
	}
}
