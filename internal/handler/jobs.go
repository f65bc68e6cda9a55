package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jobsight/jobsight-go/internal/insights"
	"github.com/jobsight/jobsight-go/internal/middleware"
	"github.com/jobsight/jobsight-go/internal/model"
	"github.com/jobsight/jobsight-go/internal/service"
)

// JobsHandler handles job search, categories and description summaries.
type JobsHandler struct {
	search *service.SearchService
	info   *service.JobInfoService
}

// NewJobsHandler creates a new JobsHandler.
func NewJobsHandler(search *service.SearchService, info *service.JobInfoService) *JobsHandler {
	return &JobsHandler{search: search, info: info}
}

// HandleSearch handles GET /api/v1/jobs/search requests.
func (h *JobsHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	q := r.URL.Query()
	req := model.SearchRequest{
		JobTitle: q.Get("title"),
		Location: q.Get("location"),
		Page:     queryInt(r, "page", 1),
	}

	resp, err := h.search.Search(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrJobTitleRequired), errors.Is(err, service.ErrPageOutOfRange):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrPersistenceFailure):
			writeJSON(w, http.StatusInternalServerError, errorResponse("search could not be saved, please try again"))
		default:
			internalError(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleCategories handles GET /api/v1/jobs/categories requests.
func (h *JobsHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.info.Categories(r.Context())
	if err != nil {
		slog.Warn("category listing failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse("job categories are temporarily unavailable"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

// HandleDescriptionSummary handles POST /api/v1/jobs/summary requests.
func (h *JobsHandler) HandleDescriptionSummary(w http.ResponseWriter, r *http.Request) {
	var req model.DescriptionSummaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.info.SummarizeDescription(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDescriptionRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, insights.ErrSummaryUnavailable):
			slog.Warn("description summary failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, errorResponse("Unable to generate summary"))
		default:
			internalError(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// queryInt parses an integer query parameter, falling back to def when it is
// absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}
