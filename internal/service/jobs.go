package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jobsight/jobsight-go/internal/model"
)

const categoriesCacheKey = "jobs:categories"

var ErrDescriptionRequired = errors.New("description is required")

// CategoryLister lists the job API's categories.
type CategoryLister interface {
	Categories(ctx context.Context) ([]model.JobCategory, error)
}

// DescriptionSummarizer condenses a single job description.
type DescriptionSummarizer interface {
	DescriptionSummary(ctx context.Context, description string) (string, error)
}

// JobInfoService serves category listings and per-job description summaries.
type JobInfoService struct {
	categories CategoryLister
	summaries  DescriptionSummarizer
	cache      PageCache
}

// NewJobInfoService creates a new JobInfoService. pageCache may be nil.
func NewJobInfoService(categories CategoryLister, summaries DescriptionSummarizer, pageCache PageCache) *JobInfoService {
	return &JobInfoService{categories: categories, summaries: summaries, cache: pageCache}
}

// Categories returns the job categories, from cache when possible.
func (s *JobInfoService) Categories(ctx context.Context) ([]model.JobCategory, error) {
	if s.cache != nil {
		var cached []model.JobCategory
		if hit, _ := s.cache.GetJSON(ctx, categoriesCacheKey, &cached); hit {
			return cached, nil
		}
	}

	cats, err := s.categories.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	if s.cache != nil && len(cats) > 0 {
		_ = s.cache.SetJSON(ctx, categoriesCacheKey, cats)
	}
	return cats, nil
}

// SummarizeDescription returns a 2-3 sentence summary of description.
func (s *JobInfoService) SummarizeDescription(ctx context.Context, req model.DescriptionSummaryRequest) (model.DescriptionSummaryResponse, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return model.DescriptionSummaryResponse{}, ErrDescriptionRequired
	}

	summary, err := s.summaries.DescriptionSummary(ctx, description)
	if err != nil {
		return model.DescriptionSummaryResponse{}, err
	}
	return model.DescriptionSummaryResponse{Summary: summary}, nil
}
