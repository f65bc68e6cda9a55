package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jobsight/jobsight-go/internal/model"
	"github.com/jobsight/jobsight-go/internal/repository"
)

const (
	profileRecentSearches = 10
	maxHistoryLimit       = 50
)

// HistoryLister reads a user's recent searches.
type HistoryLister interface {
	ListRecent(ctx context.Context, userID int64, limit int) ([]model.SearchHistory, error)
}

// SavedCounter counts a user's bookmarks.
type SavedCounter interface {
	CountByUser(ctx context.Context, userID int64) (int, error)
}

// ProfileService serves the profile page and search history.
type ProfileService struct {
	users   UserStore
	history HistoryLister
	saved   SavedCounter
}

// NewProfileService creates a new ProfileService.
func NewProfileService(users UserStore, history HistoryLister, saved SavedCounter) *ProfileService {
	return &ProfileService{users: users, history: history, saved: saved}
}

// Profile returns the account, its 10 most recent searches and the saved-job count.
func (s *ProfileService) Profile(ctx context.Context, userID int64) (model.ProfileResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.ProfileResponse{}, err
	}

	recent, err := s.RecentSearches(ctx, userID, profileRecentSearches)
	if err != nil {
		return model.ProfileResponse{}, err
	}

	count, err := s.saved.CountByUser(ctx, userID)
	if err != nil {
		return model.ProfileResponse{}, fmt.Errorf("count saved jobs: %w", err)
	}

	return model.ProfileResponse{
		User:           model.NewUserResponse(user),
		RecentSearches: recent,
		SavedJobsCount: count,
	}, nil
}

// UpdateProfile changes the email and names. Empty fields keep their value.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID int64, req model.UpdateProfileRequest) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.UserResponse{}, err
	}

	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
		if !validEmail(email) {
			return model.UserResponse{}, ErrInvalidEmail
		}
		user.Email = email
	}
	if first := strings.TrimSpace(req.FirstName); first != "" {
		user.FirstName = first
	}
	if last := strings.TrimSpace(req.LastName); last != "" {
		user.LastName = last
	}
	if !lengthBetween(user.FirstName, 2, 50) || !lengthBetween(user.LastName, 2, 50) {
		return model.UserResponse{}, ErrNameLength
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.UserResponse{}, ErrEmailTaken
		}
		return model.UserResponse{}, fmt.Errorf("update profile: %w", err)
	}

	return model.NewUserResponse(user), nil
}

// RecentSearches returns up to limit searches, newest first. limit is
// clamped to [1, 50] and defaults to 10.
func (s *ProfileService) RecentSearches(ctx context.Context, userID int64, limit int) ([]model.SearchHistory, error) {
	if limit <= 0 {
		limit = profileRecentSearches
	}
	limit = min(limit, maxHistoryLimit)

	history, err := s.history.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list search history: %w", err)
	}
	if history == nil {
		history = []model.SearchHistory{}
	}
	return history, nil
}
