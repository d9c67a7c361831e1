package employee

import (
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/user"
)

// Employee is owned by the employee directory; this service only reads it.
type Employee struct {
	ID               string
	UserID           *string
	NIK              string
	FullName         string
	Email            *string
	Role             user.Role
	ManagerID        *string
	Section          string // seksi
	Unit             string
	ShiftKerja       string // working pattern label, e.g. "3 shift" or "non shift"
	AnnualLeaveQuota int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasManager reports whether the employee reports to someone.
func (e Employee) HasManager() bool {
	return e.ManagerID != nil && *e.ManagerID != ""
}
