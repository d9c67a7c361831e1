package device

import "time"

// Fingerprint is the single trusted device bound to a user account.
// Rows are created once and never updated.
type Fingerprint struct {
	UserID        string
	FingerprintID string
	CreatedAt     time.Time
}
