package proposal

import (
	"slices"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/user"
)

type Kind string

const (
	KindLeave        Kind = "leave"
	KindOvertime     Kind = "overtime"
	KindSubstitution Kind = "substitution"
	KindCorrection   Kind = "correction"
)

var KindValues = []string{
	string(KindLeave),
	string(KindOvertime),
	string(KindSubstitution),
	string(KindCorrection),
}

func (k Kind) Valid() bool {
	return slices.Contains(KindValues, string(k))
}

type Status string

const (
	StatusSubmitted             Status = "submitted"
	StatusApproved              Status = "approved"
	StatusRejected              Status = "rejected"
	StatusCancellationRequested Status = "cancellation_requested"
	StatusCancelled             Status = "cancelled"
)

var StatusValues = []string{
	string(StatusSubmitted),
	string(StatusApproved),
	string(StatusRejected),
	string(StatusCancellationRequested),
	string(StatusCancelled),
}

func (s Status) Valid() bool {
	return slices.Contains(StatusValues, string(s))
}

// Source statuses for each transition.
var (
	DecidableFrom    = []Status{StatusSubmitted, StatusCancellationRequested}
	CancellableFrom  = []Status{StatusSubmitted, StatusApproved}
	AmendableFrom    = []Status{StatusSubmitted}
	DecisionTargets  = []Status{StatusApproved, StatusRejected}
	ResolvableFrom   = []Status{StatusCancellationRequested}
	defaultDeclineTo = StatusApproved
)

// Submitter is captured from the employee directory at submission time.
type Submitter struct {
	EmployeeID string
	NIK        string
	Name       string
	Section    string
	Role       user.Role
}

// Proposal is the envelope shared by every kind; Payload carries the kind-specific part.
type Proposal struct {
	ID                       string
	Kind                     Kind
	Status                   Status
	Submitter                Submitter
	ManagerID                *string
	AdminNote                *string
	ApprovedAt               *time.Time // set on any decision
	DecidedBy                *string
	StatusBeforeCancellation *Status
	Payload                  Payload
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

func (p Proposal) CanDecide() bool {
	return slices.Contains(DecidableFrom, p.Status)
}

func (p Proposal) CanAmend() bool {
	return slices.Contains(AmendableFrom, p.Status)
}

// DeclinedCancellationStatus is where a declined cancellation returns to.
func (p Proposal) DeclinedCancellationStatus() Status {
	if p.StatusBeforeCancellation != nil && slices.Contains(CancellableFrom, *p.StatusBeforeCancellation) {
		return *p.StatusBeforeCancellation
	}
	return defaultDeclineTo
}

// Actor is the authenticated caller acting on a proposal.
type Actor struct {
	EmployeeID string
	NIK        string
	Role       user.Role
}

// CanReview reports whether the actor may decide on p.
// Admins review everything; a manager only proposals routed to them.
func (a Actor) CanReview(p Proposal) error {
	switch {
	case a.Role.IsAdmin():
		return nil
	case a.Role == user.RoleManager:
		if p.ManagerID != nil && *p.ManagerID == a.EmployeeID {
			return nil
		}
		return ErrNotAssignedManager
	default:
		return ErrNotApprover
	}
}

// StatusChange describes one conditional status write.
type StatusChange struct {
	To                       Status
	AdminNote                *string
	DecidedBy                *string
	ApprovedAt               *time.Time
	StatusBeforeCancellation *Status
	ClearStatusBefore        bool
	At                       time.Time
}

// Scope restricts listings to what the caller may see.
type Scope struct {
	SubmitterNIK *string
	ManagerID    *string
}
