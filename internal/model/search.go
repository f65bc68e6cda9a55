package model

import "time"

// SearchHistory is an audit entry of one executed search. Rows are never updated.
type SearchHistory struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"-"`
	JobTitle     string    `json:"job_title"`
	Location     string    `json:"location"`
	ResultsCount int       `json:"results_count"`
	SearchedAt   time.Time `json:"searched_at"`
}

// SearchRequest is the web layer's search input before normalization.
type SearchRequest struct {
	JobTitle string `json:"job_title"`
	Location string `json:"location"`
	Page     int    `json:"page"`
}

// AISummary is either a market summary with the number of jobs analyzed, or an
// error marker carrying a user-safe message.
type AISummary struct {
	Summary   string `json:"summary"`
	JobCount  int    `json:"job_count"`
	JobTitle  string `json:"job_title"`
	Location  string `json:"location"`
	Error     bool   `json:"error"`
	ErrorText string `json:"error_message,omitempty"`
}

// SearchResponse is the combined view returned by a search.
type SearchResponse struct {
	JobTitle   string      `json:"job_title"`
	Location   string      `json:"location"`
	Jobs       []JobResult `json:"jobs"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
	TotalCount int         `json:"total_count"`
	Error      bool        `json:"error"`
	Notice     string      `json:"notice,omitempty"`
	AISummary  *AISummary  `json:"ai_summary,omitempty"`
	HistoryID  int64       `json:"history_id"`
	FromCache  bool        `json:"from_cache"`
}
