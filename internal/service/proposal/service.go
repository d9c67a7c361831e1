package proposal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/proposal"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

type ProposalServiceImpl struct {
	proposal.ProposalRepository
	directory      employee.Directory
	attendanceRepo attendance.AttendanceRepository
	notifier       proposal.Notifier
	now            func() time.Time
}

func NewProposalService(
	proposalRepository proposal.ProposalRepository,
	directory employee.Directory,
	attendanceRepo attendance.AttendanceRepository,
	notifier proposal.Notifier,
) *ProposalServiceImpl {
	return &ProposalServiceImpl{
		ProposalRepository: proposalRepository,
		directory:          directory,
		attendanceRepo:     attendanceRepo,
		notifier:           notifier,
		now:                time.Now,
	}
}

// WithClock replaces the time source, used by tests.
func (s *ProposalServiceImpl) WithClock(now func() time.Time) *ProposalServiceImpl {
	s.now = now
	return s
}

// Submit implements proposal.ProposalService.
func (s *ProposalServiceImpl) Submit(ctx context.Context, req proposal.SubmitRequest) (proposal.ProposalResponse, error) {
	if err := req.Validate(); err != nil {
		return proposal.ProposalResponse{}, err
	}

	emp, err := s.directory.GetByNIK(ctx, req.SubmitterNIK)
	if err != nil {
		return proposal.ProposalResponse{}, err
	}

	payload, err := proposal.DecodePayload(req.Kind, req.Payload)
	if err != nil {
		return proposal.ProposalResponse{}, err
	}
	if err := s.validatePayload(ctx, emp.NIK, payload); err != nil {
		return proposal.ProposalResponse{}, err
	}

	managerID, err := s.resolveManager(ctx, emp)
	if err != nil {
		return proposal.ProposalResponse{}, err
	}

	p := proposal.Proposal{
		ID:     uuid.Must(uuid.NewV7()).String(),
		Kind:   req.Kind,
		Status: proposal.StatusSubmitted,
		Submitter: proposal.Submitter{
			EmployeeID: emp.ID,
			NIK:        emp.NIK,
			Name:       emp.FullName,
			Section:    emp.Section,
			Role:       emp.Role,
		},
		ManagerID: managerID,
		Payload:   payload,
	}

	created, err := s.ProposalRepository.Create(ctx, p)
	if err != nil {
		return proposal.ProposalResponse{}, fmt.Errorf("failed to create proposal: %w", err)
	}

	s.notify(ctx, proposal.NewEvent(proposal.EventSubmitted, created, nil, emp.NIK, s.now()))
	return proposal.NewProposalResponse(created), nil
}

// Decide implements proposal.ProposalService.
func (s *ProposalServiceImpl) Decide(ctx context.Context, id string, approver proposal.Actor, req proposal.DecideRequest) (proposal.ProposalResponse, error) {
	if err := req.Validate(); err != nil {
		return proposal.ProposalResponse{}, err
	}
	if !slices.Contains(proposal.DecisionTargets, req.Status) {
		return proposal.ProposalResponse{}, proposal.ErrInvalidDecision
	}

	p, err := s.ProposalRepository.GetByID(ctx, id)
	if err != nil {
		return proposal.ProposalResponse{}, err
	}
	if err := approver.CanReview(p); err != nil {
		return proposal.ProposalResponse{}, err
	}
	if !p.CanDecide() {
		return proposal.ProposalResponse{}, proposal.ErrNotDecidable
	}

	now := s.now()
	updated, err := s.ProposalRepository.TransitionStatus(ctx, id, proposal.DecidableFrom, proposal.StatusChange{
		To:                req.Status,
		AdminNote:         req.AdminNote,
		DecidedBy:         &approver.NIK,
		ApprovedAt:        &now,
		ClearStatusBefore: true,
		At:                now,
	})
	if err != nil {
		return proposal.ProposalResponse{}, err
	}

	previous := p.Status
	s.notify(ctx, proposal.NewEvent(proposal.EventDecided, updated, &previous, approver.NIK, now))
	return proposal.NewProposalResponse(updated), nil
}

// RequestCancellation implements proposal.ProposalService.
func (s *ProposalServiceImpl) RequestCancellation(ctx context.Context, id string, submitter proposal.Actor) (proposal.ProposalResponse, error) {
	p, err := s.ProposalRepository.GetByID(ctx, id)
	if err != nil {
		return proposal.ProposalResponse{}, err
	}
	if p.Kind != proposal.KindLeave {
		return proposal.ProposalResponse{}, proposal.ErrCancellationLeaveOnly
	}
	if p.Submitter.NIK != submitter.NIK {
		return proposal.ProposalResponse{}, proposal.ErrNotSubmitter
	}
	if !slices.Contains(proposal.CancellableFrom, p.Status) {
		return proposal.ProposalResponse{}, proposal.ErrCancellationNotAllowed
	}

	// Conditional on the exact status read so the remembered one stays accurate.
	previous := p.Status
	now := s.now()
	updated, err := s.ProposalRepository.TransitionStatus(ctx, id, []proposal.Status{previous}, proposal.StatusChange{
		To:                       proposal.StatusCancellationRequested,
		StatusBeforeCancellation: &previous,
		At:                       now,
	})
	if err != nil {
		return proposal.ProposalResponse{}, err
	}

	s.notify(ctx, proposal.NewEvent(proposal.EventCancellationRequested, updated, &previous, submitter.NIK, now))
	return proposal.NewProposalResponse(updated), nil
}

// ResolveCancellation implements proposal.ProposalService.
func (s *ProposalServiceImpl) ResolveCancellation(ctx context.Context, id string, approver proposal.Actor, req proposal.ResolveCancellationRequest) (proposal.ProposalResponse, error) {
	p, err := s.ProposalRepository.GetByID(ctx, id)
	if err != nil {
		return proposal.ProposalResponse{}, err
	}
	if err := approver.CanReview(p); err != nil {
		return proposal.ProposalResponse{}, err
	}
	if !slices.Contains(proposal.ResolvableFrom, p.Status) {
		return proposal.ProposalResponse{}, proposal.ErrNoCancellationPending
	}

	to := proposal.StatusCancelled
	if !req.Approve {
		to = p.DeclinedCancellationStatus()
	}

	now := s.now()
	updated, err := s.ProposalRepository.TransitionStatus(ctx, id, proposal.ResolvableFrom, proposal.StatusChange{
		To:                to,
		AdminNote:         req.AdminNote,
		DecidedBy:         &approver.NIK,
		ClearStatusBefore: true,
		At:                now,
	})
	if err != nil {
		return proposal.ProposalResponse{}, err
	}

	previous := p.Status
	s.notify(ctx, proposal.NewEvent(proposal.EventCancellationResolved, updated, &previous, approver.NIK, now))
	return proposal.NewProposalResponse(updated), nil
}

// Amend implements proposal.ProposalService.
func (s *ProposalServiceImpl) Amend(ctx context.Context, id string, submitter proposal.Actor, req proposal.AmendRequest) (proposal.ProposalResponse, error) {
	if err := req.Validate(); err != nil {
		return proposal.ProposalResponse{}, err
	}

	p, err := s.ProposalRepository.GetByID(ctx, id)
	if err != nil {
		return proposal.ProposalResponse{}, err
	}
	if p.Submitter.NIK != submitter.NIK {
		return proposal.ProposalResponse{}, proposal.ErrNotSubmitter
	}
	if !p.CanAmend() {
		return proposal.ProposalResponse{}, proposal.ErrNotAmendable
	}

	merged, err := proposal.MergePayload(p.Payload, req.Payload)
	if err != nil {
		return proposal.ProposalResponse{}, err
	}
	if err := s.validatePayload(ctx, p.Submitter.NIK, merged); err != nil {
		return proposal.ProposalResponse{}, err
	}

	now := s.now()
	updated, err := s.ProposalRepository.UpdatePayload(ctx, id, merged, p.UpdatedAt, now)
	if err != nil {
		return proposal.ProposalResponse{}, err
	}

	s.notify(ctx, proposal.NewEvent(proposal.EventAmended, updated, nil, submitter.NIK, now))
	return proposal.NewProposalResponse(updated), nil
}

// Get implements proposal.ProposalService.
func (s *ProposalServiceImpl) Get(ctx context.Context, id string, actor proposal.Actor) (proposal.ProposalResponse, error) {
	p, err := s.ProposalRepository.GetByID(ctx, id)
	if err != nil {
		return proposal.ProposalResponse{}, err
	}
	if p.Submitter.NIK != actor.NIK {
		if err := actor.CanReview(p); err != nil {
			return proposal.ProposalResponse{}, err
		}
	}
	return proposal.NewProposalResponse(p), nil
}

// ListForApprover implements proposal.ProposalService.
func (s *ProposalServiceImpl) ListForApprover(ctx context.Context, approver proposal.Actor, filter proposal.ListFilter) (proposal.ListProposalResponse, error) {
	var scope proposal.Scope
	switch {
	case approver.Role.IsAdmin():
	case user.HasPermission(approver.Role, user.PermissionProposalDecide):
		scope.ManagerID = &approver.EmployeeID
	default:
		return proposal.ListProposalResponse{}, proposal.ErrNotApprover
	}
	return s.list(ctx, scope, filter)
}

// ListMine implements proposal.ProposalService.
func (s *ProposalServiceImpl) ListMine(ctx context.Context, submitter proposal.Actor, filter proposal.ListFilter) (proposal.ListProposalResponse, error) {
	return s.list(ctx, proposal.Scope{SubmitterNIK: &submitter.NIK}, filter)
}

func (s *ProposalServiceImpl) list(ctx context.Context, scope proposal.Scope, filter proposal.ListFilter) (proposal.ListProposalResponse, error) {
	if err := filter.Validate(); err != nil {
		return proposal.ListProposalResponse{}, err
	}

	proposals, total, err := s.ProposalRepository.List(ctx, scope, filter)
	if err != nil {
		return proposal.ListProposalResponse{}, fmt.Errorf("failed to list proposals: %w", err)
	}

	out := make([]proposal.ProposalResponse, len(proposals))
	for i, p := range proposals {
		out[i] = proposal.NewProposalResponse(p)
	}

	return proposal.ListProposalResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Proposals:  out,
	}, nil
}

// validatePayload runs the payload's own checks plus the ones needing the store.
func (s *ProposalServiceImpl) validatePayload(ctx context.Context, submitterNIK string, payload proposal.Payload) error {
	if err := payload.Validate(); err != nil {
		return err
	}

	correction, ok := payload.(*proposal.CorrectionPayload)
	if !ok {
		return nil
	}
	record, err := s.attendanceRepo.GetByID(ctx, correction.AttendanceID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return proposal.ErrAttendanceRef
		}
		return fmt.Errorf("failed to get attendance record: %w", err)
	}
	if record.EmployeeNIK != submitterNIK {
		return proposal.ErrAttendanceRef
	}
	return nil
}

// resolveManager returns the submitter's manager id, or nil when the directory
// has no such manager. Directory failures are returned.
func (s *ProposalServiceImpl) resolveManager(ctx context.Context, emp employee.Employee) (*string, error) {
	if !emp.HasManager() {
		return nil, nil
	}
	manager, err := s.directory.GetByID(ctx, *emp.ManagerID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			slog.Warn("submitter manager not in directory", "employee_nik", emp.NIK, "manager_id", *emp.ManagerID)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve manager: %w", err)
	}
	return &manager.ID, nil
}

func (s *ProposalServiceImpl) notify(ctx context.Context, event proposal.Event) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		slog.Warn("proposal notification failed", "proposal_id", event.ProposalID, "type", event.Type, "error", err)
	}
}

var _ proposal.ProposalService = (*ProposalServiceImpl)(nil)
