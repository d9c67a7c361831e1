package notification

import (
	"context"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/proposal"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/sse"
)

type sseNotifier struct {
	hub *sse.Hub
}

// NewSSENotifier pushes events to the submitter, the routed manager and admins.
func NewSSENotifier(hub *sse.Hub) proposal.Notifier {
	return &sseNotifier{hub: hub}
}

func (n *sseNotifier) Notify(_ context.Context, event proposal.Event) error {
	keys := []string{sse.EmployeeKey(event.SubmitterID), sse.AdminsKey}
	if event.ManagerID != nil {
		keys = append(keys, sse.EmployeeKey(*event.ManagerID))
	}
	n.hub.Publish(sse.Event{
		ID:   event.ProposalID + ":" + event.OccurredAt.UTC().Format("20060102T150405.000000000"),
		Name: string(event.Type),
		Data: event,
	}, keys...)
	return nil
}
