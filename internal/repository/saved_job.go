package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jobsight/jobsight-go/internal/model"
)

// SavedJobRepository handles saved job persistence operations.
type SavedJobRepository struct {
	db *sql.DB
}

// NewSavedJobRepository creates a new SavedJobRepository.
func NewSavedJobRepository(db *sql.DB) *SavedJobRepository {
	return &SavedJobRepository{db: db}
}

// saveQuery inserts a bookmark or leaves an existing (user_id, job_id) row untouched.
// MySQL reports 1 affected row for an insert and 0 when the no-op update ran.
const saveQuery = `
	INSERT INTO saved_jobs (user_id, job_id, job_title, company, location, salary_min, salary_max, job_url, description)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE id = id`

// Save stores job unless the user already saved the same external job id.
// It reports whether a new row was created.
func (r *SavedJobRepository) Save(ctx context.Context, job *model.SavedJob) (bool, error) {
	result, err := r.db.ExecContext(ctx, saveQuery,
		job.UserID,
		job.JobID,
		job.Title,
		job.Company,
		job.Location,
		job.SalaryMin,
		job.SalaryMax,
		job.URL,
		job.Description,
	)
	if err != nil {
		return false, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Delete removes the user's bookmark of jobID. It reports whether a row existed.
func (r *SavedJobRepository) Delete(ctx context.Context, userID int64, jobID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM saved_jobs WHERE user_id = ? AND job_id = ?`, userID, jobID)
	if err != nil {
		return false, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByUser returns a page of the user's saved jobs, most recently saved first.
func (r *SavedJobRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.SavedJob, error) {
	query := `SELECT id, user_id, job_id, job_title, company, location, salary_min, salary_max, job_url, COALESCE(description, ''), saved_at
		FROM saved_jobs WHERE user_id = ? ORDER BY saved_at DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []model.SavedJob
	for rows.Next() {
		var j model.SavedJob
		if err := rows.Scan(
			&j.ID, &j.UserID, &j.JobID, &j.Title, &j.Company, &j.Location,
			&j.SalaryMin, &j.SalaryMax, &j.URL, &j.Description, &j.SavedAt,
		); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}

	return jobs, rows.Err()
}

// CountByUser returns how many jobs the user has saved.
func (r *SavedJobRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM saved_jobs WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

// SavedIDs reports which of jobIDs the user has saved.
func (r *SavedJobRepository) SavedIDs(ctx context.Context, userID int64, jobIDs []string) (map[string]bool, error) {
	saved := make(map[string]bool)
	if len(jobIDs) == 0 {
		return saved, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(jobIDs)), ",")
	query := `SELECT job_id FROM saved_jobs WHERE user_id = ? AND job_id IN (` + placeholders + `)`

	args := make([]any, 0, len(jobIDs)+1)
	args = append(args, userID)
	for _, id := range jobIDs {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		saved[id] = true
	}

	return saved, rows.Err()
}
