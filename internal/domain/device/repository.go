package device

import "context"

type FingerprintRepository interface {
	GetByUserID(ctx context.Context, userID string) (Fingerprint, error)
	// InsertIfAbsent inserts the fingerprint unless the user already has one and
	// returns the row that is bound after the statement, plus whether it was created.
	InsertIfAbsent(ctx context.Context, userID, fingerprintID string) (Fingerprint, bool, error)
}
