package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jobsight/jobsight-go/internal/middleware"
	"github.com/jobsight/jobsight-go/internal/model"
	"github.com/jobsight/jobsight-go/internal/service"
)

// SavedJobHandler handles HTTP requests for saved jobs.
type SavedJobHandler struct {
	service *service.SavedJobService
}

// NewSavedJobHandler creates a new SavedJobHandler.
func NewSavedJobHandler(svc *service.SavedJobService) *SavedJobHandler {
	return &SavedJobHandler{service: svc}
}

// HandleList handles GET /api/v1/saved-jobs requests.
func (h *SavedJobHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	list, err := h.service.List(r.Context(), userID, queryInt(r, "page", 1))
	if err != nil {
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// HandleSave handles POST /api/v1/saved-jobs requests. A new bookmark
// answers 201, an existing one 200.
func (h *SavedJobHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.SaveJobRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.SaveJob(r.Context(), userID, req)
	if err != nil {
		if isSaveValidationError(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		internalError(w)
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

// HandleUnsave handles DELETE /api/v1/saved-jobs/{job_id} requests.
func (h *SavedJobHandler) HandleUnsave(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	resp, err := h.service.UnsaveJob(r.Context(), userID, chi.URLParam(r, "job_id"))
	if err != nil {
		if errors.Is(err, service.ErrJobIDRequired) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func isSaveValidationError(err error) bool {
	for _, target := range []error{
		service.ErrJobIDRequired,
		service.ErrJobIDTooLong,
		service.ErrJobTitleRequired,
		service.ErrCompanyRequired,
		service.ErrLocationRequired,
		service.ErrJobURLRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
