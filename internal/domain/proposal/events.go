package proposal

import (
	"context"
	"time"
)

//go:generate mockgen -source=events.go -destination=mock/notifier_mock.go -package=mock

const LifecycleTopic = "presensi.proposal.lifecycle.v1"

type EventType string

const (
	EventSubmitted             EventType = "proposal.submitted"
	EventAmended               EventType = "proposal.amended"
	EventDecided               EventType = "proposal.decided"
	EventCancellationRequested EventType = "proposal.cancellation_requested"
	EventCancellationResolved  EventType = "proposal.cancellation_resolved"
)

type Event struct {
	Type           EventType `json:"type"`
	ProposalID     string    `json:"proposal_id"`
	Kind           Kind      `json:"kind"`
	Status         Status    `json:"status"`
	PreviousStatus *Status   `json:"previous_status,omitempty"`
	SubmitterNIK   string    `json:"submitter_nik"`
	SubmitterName  string    `json:"submitter_name"`
	SubmitterID    string    `json:"submitter_employee_id"`
	ManagerID      *string   `json:"manager_id,omitempty"`
	ActorNIK       string    `json:"actor_nik"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NewEvent builds the event for p after a transition performed by actorNIK.
func NewEvent(t EventType, p Proposal, previous *Status, actorNIK string, at time.Time) Event {
	return Event{
		Type:           t,
		ProposalID:     p.ID,
		Kind:           p.Kind,
		Status:         p.Status,
		PreviousStatus: previous,
		SubmitterNIK:   p.Submitter.NIK,
		SubmitterName:  p.Submitter.Name,
		SubmitterID:    p.Submitter.EmployeeID,
		ManagerID:      p.ManagerID,
		ActorNIK:       actorNIK,
		OccurredAt:     at,
	}
}

// Notifier receives proposal lifecycle events.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}
