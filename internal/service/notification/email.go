package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/proposal"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/email"
)

type managerEmailNotifier struct {
	directory   employee.Directory
	mailer      email.EmailService
	frontendURL string
	loc         *time.Location
}

// NewManagerEmailNotifier emails the routed manager when a proposal is submitted.
// Other event types are ignored.
func NewManagerEmailNotifier(directory employee.Directory, mailer email.EmailService, frontendURL string, loc *time.Location) proposal.Notifier {
	if loc == nil {
		loc = time.Local
	}
	return &managerEmailNotifier{directory: directory, mailer: mailer, frontendURL: frontendURL, loc: loc}
}

func (n *managerEmailNotifier) Notify(ctx context.Context, event proposal.Event) error {
	if event.Type != proposal.EventSubmitted || event.ManagerID == nil {
		return nil
	}

	manager, err := n.directory.GetByID(ctx, *event.ManagerID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			slog.Warn("routed manager vanished before notification", "manager_id", *event.ManagerID)
			return nil
		}
		return fmt.Errorf("resolve manager %s: %w", *event.ManagerID, err)
	}
	if manager.Email == nil || *manager.Email == "" {
		slog.Warn("manager has no email address", "manager_id", manager.ID)
		return nil
	}

	submitter, err := n.directory.GetByNIK(ctx, event.SubmitterNIK)
	section := ""
	if err == nil {
		section = submitter.Section
	}

	return n.mailer.SendProposalSubmitted(*manager.Email, email.ProposalSubmittedData{
		ManagerName:   manager.FullName,
		SubmitterName: event.SubmitterName,
		SubmitterNIK:  event.SubmitterNIK,
		Section:       section,
		Kind:          string(event.Kind),
		SubmittedAt:   event.OccurredAt.In(n.loc).Format("02 Jan 2006 15:04"),
		ReviewLink:    n.frontendURL + "/proposals/" + event.ProposalID,
	})
}
