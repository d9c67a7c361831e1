package http

import (
	"net/http"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/presensi-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetDashboard handles GET /dashboard?date=YYYY-MM-DD
	GetDashboard(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

func (h *dashboardHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.GetDashboard(r.Context(), actorOf(id), r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
