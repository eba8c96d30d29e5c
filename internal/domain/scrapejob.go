package domain

import "time"

// ScrapeJobStatus mirrors the external scraper engine's job states.
type ScrapeJobStatus string

const (
	JobQueued    ScrapeJobStatus = "queued"
	JobRunning   ScrapeJobStatus = "running"
	JobCompleted ScrapeJobStatus = "completed"
	JobFailed    ScrapeJobStatus = "failed"
	JobCancelled ScrapeJobStatus = "cancelled"
)

// Terminal reports whether the status will never change again. The job
// poller stops tracking a job once it reaches a terminal state.
func (s ScrapeJobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}

// ScrapeJob tracks one lead-scraping run on the external engine.
// EngineJobID is the engine's identifier; CreditsCharged is the upfront
// estimate debited at submission and reconciled on completion.
type ScrapeJob struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	EngineJobID    string          `json:"engine_job_id,omitempty"`
	Query          string          `json:"query"`
	Location       string          `json:"location,omitempty"`
	MaxResults     int             `json:"max_results"`
	Status         ScrapeJobStatus `json:"status"`
	LeadsFound     int             `json:"leads_found"`
	CreditsCharged int64           `json:"credits_charged"`
	Error          string          `json:"error,omitempty"`
	StartedAt      *time.Time      `json:"started_at,omitempty"`
	FinishedAt     *time.Time      `json:"finished_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
