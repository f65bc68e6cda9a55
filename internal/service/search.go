package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jobsight/jobsight-go/internal/cache"
	"github.com/jobsight/jobsight-go/internal/jobsearch"
	"github.com/jobsight/jobsight-go/internal/model"
)

// MaxPage is the highest result page a search may request.
const MaxPage = 100

// AnyLocation is recorded when a search has no location filter.
const AnyLocation = "any"

const noticeSearchUnavailable = "Job search is temporarily unavailable. Please try again in a few minutes."

var (
	ErrJobTitleRequired   = errors.New("job title is required")
	ErrPageOutOfRange     = fmt.Errorf("page must be between 1 and %d", MaxPage)
	ErrPersistenceFailure = errors.New("failed to save search history")
)

// JobSearcher fetches one page of postings from the job search API.
type JobSearcher interface {
	Search(ctx context.Context, q jobsearch.Query) (model.JobPage, error)
}

// Summarizer produces a best-effort market summary for a job sample.
type Summarizer interface {
	MarketSummary(ctx context.Context, jobTitle, location string, sample []model.JobResult) model.AISummary
}

// HistoryRecorder persists executed searches.
type HistoryRecorder interface {
	Create(ctx context.Context, h *model.SearchHistory) error
}

// SavedLookup reports which job ids a user has bookmarked.
type SavedLookup interface {
	SavedIDs(ctx context.Context, userID int64, jobIDs []string) (map[string]bool, error)
}

// PageCache stores job pages between identical searches.
type PageCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any) error
}

// SearchOptions tunes result paging and the AI sample.
type SearchOptions struct {
	PageSize   int
	SampleSize int
}

// SearchService runs a job search end to end: fetch results, ask for a
// market summary and record the search in the user's history.
type SearchService struct {
	jobs      JobSearcher
	summaries Summarizer
	history   HistoryRecorder
	saved     SavedLookup
	cache     PageCache
	opts      SearchOptions
}

// NewSearchService creates a new SearchService. saved and pageCache may be nil.
func NewSearchService(jobs JobSearcher, summaries Summarizer, history HistoryRecorder, saved SavedLookup, pageCache PageCache, opts SearchOptions) *SearchService {
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = 10
	}
	return &SearchService{
		jobs:      jobs,
		summaries: summaries,
		history:   history,
		saved:     saved,
		cache:     pageCache,
		opts:      opts,
	}
}

// Search validates req, fetches the requested page and records the search.
// Job API and AI failures degrade the response; only validation and history
// persistence errors are returned.
func (s *SearchService) Search(ctx context.Context, userID int64, req model.SearchRequest) (model.SearchResponse, error) {
	title := strings.TrimSpace(req.JobTitle)
	if title == "" {
		return model.SearchResponse{}, ErrJobTitleRequired
	}

	location := strings.TrimSpace(req.Location)
	where := location
	if location == "" || strings.EqualFold(location, AnyLocation) {
		location, where = AnyLocation, ""
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		return model.SearchResponse{}, ErrPageOutOfRange
	}

	slog.Info("job search started", "user_id", userID, "job_title", title, "location", location, "page", page)

	resp := model.SearchResponse{
		JobTitle: title,
		Location: location,
		Jobs:     []model.JobResult{},
		Page:     page,
		PageSize: s.opts.PageSize,
	}

	result, fromCache, err := s.fetchPage(ctx, jobsearch.Query{What: title, Where: where, Page: page, PageSize: s.opts.PageSize})
	if err != nil {
		slog.Warn("job search failed", "user_id", userID, "job_title", title, "error", err)
		resp.Error = true
		resp.Notice = noticeSearchUnavailable
	} else {
		if result.Jobs != nil {
			resp.Jobs = result.Jobs
		}
		resp.TotalCount = result.TotalCount
		resp.TotalPages = jobsearch.TotalPages(result.TotalCount, s.opts.PageSize)
		resp.FromCache = fromCache
	}

	if len(resp.Jobs) > 0 {
		sample := resp.Jobs[:min(len(resp.Jobs), s.opts.SampleSize)]
		summary := s.summaries.MarketSummary(ctx, title, location, sample)
		resp.AISummary = &summary
	}

	entry := &model.SearchHistory{
		UserID:       userID,
		JobTitle:     title,
		Location:     location,
		ResultsCount: resp.TotalCount,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		slog.Error("failed to record search history", "user_id", userID, "error", err)
		return model.SearchResponse{}, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}
	resp.HistoryID = entry.ID

	s.markSaved(ctx, userID, resp.Jobs)

	slog.Info("job search completed",
		"user_id", userID,
		"results", len(resp.Jobs),
		"total_count", resp.TotalCount,
		"search_error", resp.Error,
		"from_cache", resp.FromCache,
	)

	return resp, nil
}

// fetchPage reads through the page cache. Cache errors only cost a miss.
func (s *SearchService) fetchPage(ctx context.Context, q jobsearch.Query) (model.JobPage, bool, error) {
	key := cache.SearchPageKey(q.What, q.Where, q.Page, q.PageSize)

	if s.cache != nil {
		var cached model.JobPage
		if hit, _ := s.cache.GetJSON(ctx, key, &cached); hit {
			return cached, true, nil
		}
	}

	result, err := s.jobs.Search(ctx, q)
	if err != nil {
		return model.JobPage{}, false, err
	}

	if s.cache != nil && len(result.Jobs) > 0 {
		_ = s.cache.SetJSON(ctx, key, result)
	}
	return result, false, nil
}

// markSaved flags jobs the user already bookmarked. A lookup failure leaves
// every flag false.
func (s *SearchService) markSaved(ctx context.Context, userID int64, jobs []model.JobResult) {
	if s.saved == nil || len(jobs) == 0 {
		return
	}

	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		if j.ID != "" {
			ids = append(ids, j.ID)
		}
	}

	saved, err := s.saved.SavedIDs(ctx, userID, ids)
	if err != nil {
		slog.Warn("saved job lookup failed", "user_id", userID, "error", err)
		return
	}

	for i := range jobs {
		jobs[i].Saved = saved[jobs[i].ID]
	}
}
