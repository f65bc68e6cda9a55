package model

import "time"

// JobResult is one normalized posting returned by the job search API. It lives
// for a single request and is never persisted directly.
type JobResult struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Company           string   `json:"company"`
	Location          string   `json:"location"`
	Description       string   `json:"description"`
	SalaryMin         *float64 `json:"salary_min"`
	SalaryMax         *float64 `json:"salary_max"`
	SalaryIsPredicted bool     `json:"salary_is_predicted"`
	SalaryText        string   `json:"salary_text"`
	ContractType      string   `json:"contract_type"`
	ContractTime      string   `json:"contract_time"`
	Category          string   `json:"category"`
	URL               string   `json:"url"`
	Created           string   `json:"created"`
	Saved             bool     `json:"saved"`
}

// JobPage is one page of results for a query.
type JobPage struct {
	Jobs       []JobResult `json:"jobs"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// JobCategory is a category tag offered by the job search API.
type JobCategory struct {
	Tag   string `json:"tag"`
	Label string `json:"label"`
}

// SavedJob is a user's bookmark of a posting, stored as a snapshot.
type SavedJob struct {
	ID          int64
	UserID      int64
	JobID       string
	Title       string
	Company     string
	Location    string
	SalaryMin   *float64
	SalaryMax   *float64
	URL         string
	Description string
	SavedAt     time.Time
}

// SaveJobRequest is the job snapshot posted when bookmarking a search result.
type SaveJobRequest struct {
	JobID       string   `json:"job_id"`
	Title       string   `json:"job_title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	SalaryMin   *float64 `json:"salary_min"`
	SalaryMax   *float64 `json:"salary_max"`
	URL         string   `json:"job_url"`
	Description string   `json:"description"`
}

// SaveJobResponse reports whether a new bookmark row was created.
type SaveJobResponse struct {
	JobID   string `json:"job_id"`
	Created bool   `json:"created"`
	Message string `json:"message"`
}

// UnsaveJobResponse reports whether a bookmark row was removed.
type UnsaveJobResponse struct {
	JobID   string `json:"job_id"`
	Removed bool   `json:"removed"`
	Message string `json:"message"`
}

// SavedJobResponse represents a saved job in API responses.
type SavedJobResponse struct {
	JobID       string    `json:"job_id"`
	Title       string    `json:"job_title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	SalaryMin   *float64  `json:"salary_min"`
	SalaryMax   *float64  `json:"salary_max"`
	SalaryText  string    `json:"salary_text"`
	URL         string    `json:"job_url"`
	Description string    `json:"description"`
	SavedAt     time.Time `json:"saved_at"`
}

// SavedJobList is one page of a user's saved jobs, newest first.
type SavedJobList struct {
	Jobs       []SavedJobResponse `json:"jobs"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalCount int                `json:"total_count"`
	TotalPages int                `json:"total_pages"`
}

// DescriptionSummaryRequest asks for a short summary of a single job description.
type DescriptionSummaryRequest struct {
	Description string `json:"description"`
}

// DescriptionSummaryResponse holds the generated description summary.
type DescriptionSummaryResponse struct {
	Summary string `json:"summary"`
}
