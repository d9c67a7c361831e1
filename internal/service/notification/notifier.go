package notification

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/proposal"
)

// Multi delivers every event to all notifiers and joins their errors.
type Multi []proposal.Notifier

func (m Multi) Notify(ctx context.Context, event proposal.Event) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Noop discards events.
type Noop struct{}

func (Noop) Notify(context.Context, proposal.Event) error { return nil }
