package leave

import (
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/proposal"
)

// LeaveQuota is bookkeeping only; approving a leave proposal does not touch it.
type LeaveQuota struct {
	ID          string
	EmployeeNIK string
	LeaveType   proposal.LeaveType
	Period      int // calendar year
	QuotaDays   int
	ValidFrom   time.Time
	ValidUntil  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Join
	EmployeeName *string
}

// ActiveOn reports whether the quota window covers date.
func (q LeaveQuota) ActiveOn(date time.Time) bool {
	return !date.Before(q.ValidFrom) && !date.After(q.ValidUntil)
}
