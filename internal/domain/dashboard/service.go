package dashboard

import (
	"context"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/proposal"
)

type DashboardService interface {
	// GetDashboard summarizes the day for an approver. Managers see their
	// direct reports; admins see everyone. date is YYYY-MM-DD, empty for today.
	GetDashboard(ctx context.Context, approver proposal.Actor, date string) (DashboardResponse, error)
}
