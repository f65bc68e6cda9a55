package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jobsight/jobsight-go/internal/jobsearch"
	"github.com/jobsight/jobsight-go/internal/model"
)

var (
	ErrJobIDRequired    = errors.New("job_id is required")
	ErrCompanyRequired  = errors.New("company is required")
	ErrLocationRequired = errors.New("location is required")
	ErrJobURLRequired   = errors.New("job_url is required")
	ErrJobIDTooLong     = errors.New("job_id must be at most 100 characters")
)

const (
	msgJobSaved        = "Job saved successfully"
	msgJobAlreadySaved = "Job already saved"
	msgJobRemoved      = "Job removed from saved jobs"
	msgJobNotSaved     = "Job not found in saved jobs"
)

// SavedJobStore persists bookmarks.
type SavedJobStore interface {
	Save(ctx context.Context, job *model.SavedJob) (bool, error)
	Delete(ctx context.Context, userID int64, jobID string) (bool, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.SavedJob, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
}

// SavedJobService handles bookmarking of search results.
type SavedJobService struct {
	repo     SavedJobStore
	pageSize int
}

// NewSavedJobService creates a new SavedJobService.
func NewSavedJobService(repo SavedJobStore, pageSize int) *SavedJobService {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &SavedJobService{repo: repo, pageSize: pageSize}
}

// SaveJob bookmarks a job snapshot. Saving a job the user already saved
// succeeds without creating a second row.
func (s *SavedJobService) SaveJob(ctx context.Context, userID int64, req model.SaveJobRequest) (model.SaveJobResponse, error) {
	job, err := validateSaveRequest(req)
	if err != nil {
		return model.SaveJobResponse{}, err
	}
	job.UserID = userID

	created, err := s.repo.Save(ctx, &job)
	if err != nil {
		slog.Error("failed to save job", "user_id", userID, "job_id", job.JobID, "error", err)
		return model.SaveJobResponse{}, fmt.Errorf("save job: %w", err)
	}

	resp := model.SaveJobResponse{JobID: job.JobID, Created: created, Message: msgJobSaved}
	if !created {
		resp.Message = msgJobAlreadySaved
	}

	slog.Info("job saved", "user_id", userID, "job_id", job.JobID, "created", created)
	return resp, nil
}

// UnsaveJob removes a bookmark. Removing a job that is not saved succeeds.
func (s *SavedJobService) UnsaveJob(ctx context.Context, userID int64, jobID string) (model.UnsaveJobResponse, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return model.UnsaveJobResponse{}, ErrJobIDRequired
	}

	removed, err := s.repo.Delete(ctx, userID, jobID)
	if err != nil {
		slog.Error("failed to unsave job", "user_id", userID, "job_id", jobID, "error", err)
		return model.UnsaveJobResponse{}, fmt.Errorf("unsave job: %w", err)
	}

	resp := model.UnsaveJobResponse{JobID: jobID, Removed: removed, Message: msgJobRemoved}
	if !removed {
		resp.Message = msgJobNotSaved
	}
	return resp, nil
}

// List returns one page of the user's saved jobs, newest first. Pages past
// the end come back empty.
func (s *SavedJobService) List(ctx context.Context, userID int64, page int) (model.SavedJobList, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return model.SavedJobList{}, fmt.Errorf("count saved jobs: %w", err)
	}

	list := model.SavedJobList{
		Jobs:       []model.SavedJobResponse{},
		Page:       page,
		PageSize:   s.pageSize,
		TotalCount: total,
		TotalPages: jobsearch.TotalPages(total, s.pageSize),
	}
	if total == 0 {
		return list, nil
	}

	jobs, err := s.repo.ListByUser(ctx, userID, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		return model.SavedJobList{}, fmt.Errorf("list saved jobs: %w", err)
	}

	list.Jobs = savedJobsToResponse(jobs)
	return list, nil
}

// Count returns how many jobs the user has saved.
func (s *SavedJobService) Count(ctx context.Context, userID int64) (int, error) {
	return s.repo.CountByUser(ctx, userID)
}

func validateSaveRequest(req model.SaveJobRequest) (model.SavedJob, error) {
	job := model.SavedJob{
		JobID:       strings.TrimSpace(req.JobID),
		Title:       strings.TrimSpace(req.Title),
		Company:     strings.TrimSpace(req.Company),
		Location:    strings.TrimSpace(req.Location),
		SalaryMin:   positive(req.SalaryMin),
		SalaryMax:   positive(req.SalaryMax),
		URL:         strings.TrimSpace(req.URL),
		Description: req.Description,
	}

	switch {
	case job.JobID == "":
		return job, ErrJobIDRequired
	case len(job.JobID) > 100:
		return job, ErrJobIDTooLong
	case job.Title == "":
		return job, ErrJobTitleRequired
	case job.Company == "":
		return job, ErrCompanyRequired
	case job.Location == "":
		return job, ErrLocationRequired
	case job.URL == "":
		return job, ErrJobURLRequired
	}

	job.Title = clip(job.Title, 255)
	job.Company = clip(job.Company, 255)
	job.Location = clip(job.Location, 255)
	return job, nil
}

func savedJobsToResponse(jobs []model.SavedJob) []model.SavedJobResponse {
	result := make([]model.SavedJobResponse, len(jobs))
	for i, j := range jobs {
		result[i] = model.SavedJobResponse{
			JobID:       j.JobID,
			Title:       j.Title,
			Company:     j.Company,
			Location:    j.Location,
			SalaryMin:   j.SalaryMin,
			SalaryMax:   j.SalaryMax,
			SalaryText:  model.FormatSalary(j.SalaryMin, j.SalaryMax, false),
			URL:         j.URL,
			Description: j.Description,
			SavedAt:     j.SavedAt,
		}
	}
	return result
}

func positive(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}

// clip truncates s to at most n runes.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
