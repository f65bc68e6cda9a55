package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jobsight/jobsight-go/internal/jobsearch"
	"github.com/jobsight/jobsight-go/internal/model"
	"github.com/jobsight/jobsight-go/internal/repository"
)

var errDBDown = errors.New("database is down")

type fakeSearcher struct {
	page    model.JobPage
	err     error
	calls   int
	queries []jobsearch.Query
}

func (f *fakeSearcher) Search(_ context.Context, q jobsearch.Query) (model.JobPage, error) {
	f.calls++
	f.queries = append(f.queries, q)
	return f.page, f.err
}

type fakeSummarizer struct {
	fail    bool
	calls   int
	samples []int
}

func (f *fakeSummarizer) MarketSummary(_ context.Context, title, location string, sample []model.JobResult) model.AISummary {
	f.calls++
	f.samples = append(f.samples, len(sample))
	s := model.AISummary{JobCount: len(sample), JobTitle: title, Location: location}
	if f.fail {
		s.Error = true
		s.ErrorText = "unavailable"
		return s
	}
	s.Summary = "Strong demand."
	return s
}

type fakeHistory struct {
	mu     sync.Mutex
	rows   []model.SearchHistory
	err    error
	nextID int64
}

func (f *fakeHistory) Create(_ context.Context, h *model.SearchHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.nextID++
	h.ID = f.nextID
	h.SearchedAt = time.Now()
	f.rows = append(f.rows, *h)
	return nil
}

func (f *fakeHistory) ListRecent(_ context.Context, userID int64, limit int) ([]model.SearchHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []model.SearchHistory
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if f.rows[i].UserID == userID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

// fakeSavedJobs mirrors the unique (user_id, job_id) key of the saved_jobs table.
type fakeSavedJobs struct {
	mu   sync.Mutex
	rows []model.SavedJob
	err  error
}

func (f *fakeSavedJobs) Save(_ context.Context, job *model.SavedJob) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, r := range f.rows {
		if r.UserID == job.UserID && r.JobID == job.JobID {
			return false, nil
		}
	}
	j := *job
	j.ID = int64(len(f.rows) + 1)
	j.SavedAt = time.Now()
	f.rows = append(f.rows, j)
	return true, nil
}

func (f *fakeSavedJobs) Delete(_ context.Context, userID int64, jobID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for i, r := range f.rows {
		if r.UserID == userID && r.JobID == jobID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSavedJobs) ListByUser(_ context.Context, userID int64, limit, offset int) ([]model.SavedJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var mine []model.SavedJob
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == userID {
			mine = append(mine, f.rows[i])
		}
	}
	if offset >= len(mine) {
		return nil, nil
	}
	return mine[offset:min(len(mine), offset+limit)], nil
}

func (f *fakeSavedJobs) CountByUser(_ context.Context, userID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	n := 0
	for _, r := range f.rows {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeSavedJobs) SavedIDs(_ context.Context, userID int64, jobIDs []string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]bool)
	for _, id := range jobIDs {
		for _, r := range f.rows {
			if r.UserID == userID && r.JobID == id {
				out[id] = true
			}
		}
	}
	return out, nil
}

type fakeCache struct {
	data map[string][]byte
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	b, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.sets++
	f.data[key] = b
	return nil
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[int64]*model.User
	err   error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[int64]*model.User)}
}

func (f *fakeUsers) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, u := range f.users {
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = int64(len(f.users) + 1)
	user.CreatedAt = time.Now()
	u := *user
	f.users[user.ID] = &u
	return nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.users {
		if id != user.ID && u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u, ok := f.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Email, u.FirstName, u.LastName = user.Email, user.FirstName, user.LastName
	return nil
}

func (f *fakeUsers) UpdatePasswordHash(_ context.Context, userID int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func makeJobs(n int) []model.JobResult {
	jobs := make([]model.JobResult, n)
	for i := range jobs {
		jobs[i] = model.JobResult{ID: fmt.Sprintf("job-%d", i+1), Title: "Software Engineer", Company: "Acme"}
	}
	return jobs
}
