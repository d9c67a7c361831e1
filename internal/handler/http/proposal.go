package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/proposal"
	"github.com/cmlabs-hris/presensi-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/presensi-backend-go/internal/service/file"
	"github.com/go-chi/chi/v5"
)

type ProposalHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	RequestCancellation(w http.ResponseWriter, r *http.Request)
	ResolveCancellation(w http.ResponseWriter, r *http.Request)
	Amend(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListForApprover(w http.ResponseWriter, r *http.Request)
}

type proposalHandlerImpl struct {
	proposalService proposal.ProposalService
	fileService     file.FileService
	maxUploadBytes  int64
}

func NewProposalHandler(proposalService proposal.ProposalService, fileService file.FileService, maxUploadBytes int64) ProposalHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &proposalHandlerImpl{
		proposalService: proposalService,
		fileService:     fileService,
		maxUploadBytes:  maxUploadBytes,
	}
}

// Submit implements ProposalHandler. Accepts JSON, or multipart with the
// request in "data" and an optional "evidence" file for leave and correction.
func (h *proposalHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var req proposal.SubmitRequest
	var evidenceKey string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1<<20)
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			slog.Error("Failed to parse multipart form", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}

		dataJSON := r.FormValue("data")
		if dataJSON == "" {
			response.BadRequest(w, "Field 'data' is required", nil)
			return
		}
		if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
			slog.Error("Failed to unmarshal JSON data", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}

		f, fileHeader, err := r.FormFile("evidence")
		switch {
		case err == http.ErrMissingFile:
		case err != nil:
			slog.Error("Failed to get file from form", "error", err)
			response.BadRequest(w, "Invalid file upload", nil)
			return
		default:
			defer f.Close()
			if req.Kind != proposal.KindLeave && req.Kind != proposal.KindCorrection {
				response.BadRequest(w, "Evidence is only accepted for leave and correction proposals", nil)
				return
			}
			url, key, err := h.fileService.UploadEvidence(r.Context(), id.EmployeeNIK, f, fileHeader.Filename)
			if err != nil {
				response.HandleError(w, err)
				return
			}
			evidenceKey = key
			if req.Payload, err = withEvidenceURL(req.Payload, url); err != nil {
				_ = h.fileService.DeleteFile(r.Context(), evidenceKey)
				response.BadRequest(w, "Invalid request format", nil)
				return
			}
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Submit decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.SubmitterNIK = id.EmployeeNIK

	result, err := h.proposalService.Submit(r.Context(), req)
	if err != nil {
		if evidenceKey != "" {
			if delErr := h.fileService.DeleteFile(r.Context(), evidenceKey); delErr != nil {
				slog.Warn("Failed to remove orphaned evidence", "key", evidenceKey, "error", delErr)
			}
		}
		slog.Error("Submit service error", "employee_nik", id.EmployeeNIK, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Proposal submitted successfully", result)
}

// withEvidenceURL sets evidence_url on a JSON object payload.
func withEvidenceURL(payload json.RawMessage, url string) (json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &fields); err != nil {
			return nil, err
		}
	}
	encoded, err := json.Marshal(url)
	if err != nil {
		return nil, err
	}
	fields["evidence_url"] = encoded
	return json.Marshal(fields)
}

// Decide implements ProposalHandler.
func (h *proposalHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var req proposal.DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.proposalService.Decide(r.Context(), chi.URLParam(r, "id"), actorOf(id), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Proposal "+string(result.Status), result)
}

// RequestCancellation implements ProposalHandler.
func (h *proposalHandlerImpl) RequestCancellation(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	result, err := h.proposalService.RequestCancellation(r.Context(), chi.URLParam(r, "id"), actorOf(id))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Cancellation requested", result)
}

// ResolveCancellation implements ProposalHandler.
func (h *proposalHandlerImpl) ResolveCancellation(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var req proposal.ResolveCancellationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.proposalService.ResolveCancellation(r.Context(), chi.URLParam(r, "id"), actorOf(id), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Amend implements ProposalHandler.
func (h *proposalHandlerImpl) Amend(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var req proposal.AmendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.proposalService.Amend(r.Context(), chi.URLParam(r, "id"), actorOf(id), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Proposal updated", result)
}

// Get implements ProposalHandler.
func (h *proposalHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	result, err := h.proposalService.Get(r.Context(), chi.URLParam(r, "id"), actorOf(id))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ListMine implements ProposalHandler.
func (h *proposalHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	result, err := h.proposalService.ListMine(r.Context(), actorOf(id), listFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	writeProposalList(w, result)
}

// ListForApprover implements ProposalHandler.
func (h *proposalHandlerImpl) ListForApprover(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	result, err := h.proposalService.ListForApprover(r.Context(), actorOf(id), listFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	writeProposalList(w, result)
}

func listFilter(r *http.Request) proposal.ListFilter {
	return proposal.ListFilter{
		Kind:      queryString(r, "kind"),
		Status:    queryString(r, "status"),
		Page:      queryInt(r, "page"),
		Limit:     queryInt(r, "limit"),
		SortOrder: r.URL.Query().Get("sort_order"),
	}
}

func writeProposalList(w http.ResponseWriter, result proposal.ListProposalResponse) {
	response.SuccessWithMeta(w, result.Proposals, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}
