package device

import "context"

// Guard gates on-site clock-ins by the fingerprint bound to the user.
// On-site clock-in goes through Enforce; Check and BindIfAbsent are the
// separate steps for callers that only need one of them.
type Guard interface {
	// Check passes when nothing is bound or the bound fingerprint matches.
	Check(ctx context.Context, userID, fingerprintID string) error
	// BindIfAbsent is an idempotent create; ErrAlreadyBound when another fingerprint is bound.
	BindIfAbsent(ctx context.Context, userID, fingerprintID string) error
	// Enforce binds when absent and otherwise compares, as one conditional write.
	Enforce(ctx context.Context, userID, fingerprintID string) (bound bool, err error)
	IsBound(ctx context.Context, userID string) (bool, error)
}
