package repository

import (
	"context"
	"database/sql"

	"github.com/jobsight/jobsight-go/internal/model"
)

// SearchHistoryRepository records executed searches. Rows are insert-only.
type SearchHistoryRepository struct {
	db *sql.DB
}

// NewSearchHistoryRepository creates a new SearchHistoryRepository.
func NewSearchHistoryRepository(db *sql.DB) *SearchHistoryRepository {
	return &SearchHistoryRepository{db: db}
}

// Create inserts a history row and sets its generated ID.
func (r *SearchHistoryRepository) Create(ctx context.Context, h *model.SearchHistory) error {
	query := `INSERT INTO search_history (user_id, job_title, location, results_count) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, h.UserID, h.JobTitle, h.Location, h.ResultsCount)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	h.ID = id
	return nil
}

// ListRecent returns the user's latest searches, newest first.
func (r *SearchHistoryRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]model.SearchHistory, error) {
	query := `SELECT id, user_id, job_title, location, results_count, search_date
		FROM search_history WHERE user_id = ? ORDER BY search_date DESC, id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SearchHistory
	for rows.Next() {
		var h model.SearchHistory
		if err := rows.Scan(&h.ID, &h.UserID, &h.JobTitle, &h.Location, &h.ResultsCount, &h.SearchedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}

	return out, rows.Err()
}
