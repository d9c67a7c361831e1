package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/presensi-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveQuotaHandler interface {
	SetQuota(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListForEmployee(w http.ResponseWriter, r *http.Request)
}

type LeaveQuotaHandlerImpl struct {
	leaveService leave.LeaveQuotaService
}

func NewLeaveQuotaHandler(leaveService leave.LeaveQuotaService) LeaveQuotaHandler {
	return &LeaveQuotaHandlerImpl{leaveService: leaveService}
}

// SetQuota implements LeaveQuotaHandler.
func (l *LeaveQuotaHandlerImpl) SetQuota(w http.ResponseWriter, r *http.Request) {
	var req leave.SetQuotaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetQuota decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	quota, err := l.leaveService.SetQuota(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave quota saved", quota)
}

// ListMine implements LeaveQuotaHandler.
func (l *LeaveQuotaHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	quotas, err := l.leaveService.ListForEmployee(r.Context(), id.EmployeeNIK)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, quotas)
}

// ListForEmployee implements LeaveQuotaHandler.
func (l *LeaveQuotaHandlerImpl) ListForEmployee(w http.ResponseWriter, r *http.Request) {
	quotas, err := l.leaveService.ListForEmployee(r.Context(), chi.URLParam(r, "nik"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, quotas)
}
