package proposal

import "context"

type ProposalService interface {
	Submit(ctx context.Context, req SubmitRequest) (ProposalResponse, error)
	Decide(ctx context.Context, id string, approver Actor, req DecideRequest) (ProposalResponse, error)
	RequestCancellation(ctx context.Context, id string, submitter Actor) (ProposalResponse, error)
	ResolveCancellation(ctx context.Context, id string, approver Actor, req ResolveCancellationRequest) (ProposalResponse, error)
	Amend(ctx context.Context, id string, submitter Actor, req AmendRequest) (ProposalResponse, error)

	Get(ctx context.Context, id string, actor Actor) (ProposalResponse, error)
	ListForApprover(ctx context.Context, approver Actor, filter ListFilter) (ListProposalResponse, error)
	ListMine(ctx context.Context, submitter Actor, filter ListFilter) (ListProposalResponse, error)
}
