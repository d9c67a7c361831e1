package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/presensi-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ScheduleHandler interface {
	ListShifts(w http.ResponseWriter, r *http.Request)
	Assign(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListForEmployee(w http.ResponseWriter, r *http.Request)
}

type scheduleHandlerImpl struct {
	scheduleService schedule.ScheduleService
}

func NewScheduleHandler(scheduleService schedule.ScheduleService) ScheduleHandler {
	return &scheduleHandlerImpl{
		scheduleService: scheduleService,
	}
}

// ListShifts implements ScheduleHandler.
func (h *scheduleHandlerImpl) ListShifts(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.scheduleService.Shifts(r.Context()))
}

// Assign implements ScheduleHandler.
func (h *scheduleHandlerImpl) Assign(w http.ResponseWriter, r *http.Request) {
	var req schedule.AssignShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.scheduleService.Assign(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift assigned successfully", result)
}

// ListAll implements ScheduleHandler.
func (h *scheduleHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.scheduleService.GetAll(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ListMine implements ScheduleHandler.
func (h *scheduleHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	result, err := h.scheduleService.GetForEmployee(r.Context(), id.EmployeeNIK)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ListForEmployee implements ScheduleHandler.
func (h *scheduleHandlerImpl) ListForEmployee(w http.ResponseWriter, r *http.Request) {
	result, err := h.scheduleService.GetForEmployee(r.Context(), chi.URLParam(r, "nik"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
