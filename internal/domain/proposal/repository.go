package proposal

import (
	"context"
	"time"
)

type ProposalRepository interface {
	Create(ctx context.Context, p Proposal) (Proposal, error)
	GetByID(ctx context.Context, id string) (Proposal, error)

	// TransitionStatus applies change only while the current status is one of from.
	// Returns ErrConcurrentUpdate when no row matched.
	TransitionStatus(ctx context.Context, id string, from []Status, change StatusChange) (Proposal, error)

	// UpdatePayload replaces the payload while the proposal is still submitted and
	// unchanged since expectedUpdatedAt. Returns ErrConcurrentUpdate otherwise.
	UpdatePayload(ctx context.Context, id string, payload Payload, expectedUpdatedAt, at time.Time) (Proposal, error)

	List(ctx context.Context, scope Scope, filter ListFilter) ([]Proposal, int64, error)
}
