package proposal

import "github.com/cmlabs-hris/presensi-backend-go/internal/pkg/apperror"

var (
	ErrProposalNotFound = apperror.New(apperror.KindNotFound, "proposal not found")
	ErrInvalidKind      = apperror.New(apperror.KindValidation, "kind must be one of: leave, overtime, substitution, correction")
	ErrPayloadRequired  = apperror.New(apperror.KindValidation, "payload is required")
	ErrAttendanceRef    = apperror.New(apperror.KindValidation, "correction must reference one of your attendance records")

	ErrNotDecidable           = apperror.New(apperror.KindInvalidTransition, "proposal can only be decided while submitted or cancellation requested")
	ErrInvalidDecision        = apperror.New(apperror.KindInvalidTransition, "decision must be approved or rejected")
	ErrCancellationLeaveOnly  = apperror.New(apperror.KindInvalidTransition, "only leave proposals can be cancelled")
	ErrCancellationNotAllowed = apperror.New(apperror.KindInvalidTransition, "cancellation can only be requested while submitted or approved")
	ErrNoCancellationPending  = apperror.New(apperror.KindInvalidTransition, "proposal has no pending cancellation request")
	ErrNotAmendable           = apperror.New(apperror.KindInvalidTransition, "proposal can no longer be amended")
	ErrConcurrentUpdate       = apperror.New(apperror.KindInvalidTransition, "proposal was modified concurrently; reload and retry")

	ErrNotSubmitter       = apperror.New(apperror.KindForbidden, "only the original submitter can do this")
	ErrNotApprover        = apperror.New(apperror.KindForbidden, "role is not allowed to review proposals")
	ErrNotAssignedManager = apperror.New(apperror.KindForbidden, "proposal is not routed to this manager")
)
