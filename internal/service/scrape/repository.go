package scrape

import (
	"context"

	"github.com/leadforge/leadforge/internal/domain"
)

// Repository defines the data access contract for scrape jobs.
type Repository interface {
	// Get returns a single job. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.ScrapeJob, error)

	// List returns a user's jobs newest first with a total count.
	List(ctx context.Context, userID string, limit, offset int) ([]domain.ScrapeJob, int, error)

	// ListActive returns all jobs in a non-terminal state, oldest first.
	ListActive(ctx context.Context) ([]domain.ScrapeJob, error)

	// Create inserts a new job.
	Create(ctx context.Context, job *domain.ScrapeJob) error

	// Update persists the job's mutable fields (status, counters,
	// timestamps, error message).
	Update(ctx context.Context, job *domain.ScrapeJob) error
}

// Engine is the slice of the external scraper API this service needs.
// Implemented by the scraperapi client.
type Engine interface {
	Submit(ctx context.Context, req EngineRequest) (string, error)
	Status(ctx context.Context, engineJobID string) (*EngineJobState, error)
	Results(ctx context.Context, engineJobID string) ([]EngineLead, error)
	Cancel(ctx context.Context, engineJobID string) error
}

// EngineRequest describes a scraping run to submit.
type EngineRequest struct {
	Query      string
	Location   string
	MaxResults int
}

// EngineJobState is the engine's view of a running job.
type EngineJobState struct {
	Status     domain.ScrapeJobStatus
	LeadsFound int
	Error      string
}

// EngineLead is one raw contact returned by the engine.
type EngineLead struct {
	CompanyName        string
	Website            string
	CompanyLinkedInURL string
	FirstName          string
	LastName           string
	Email              string
}

// LeadStore persists imported leads. Implemented by the leads repository.
type LeadStore interface {
	InsertBatch(ctx context.Context, leads []domain.Lead) error
}

// Charger is the slice of the credits service this package needs.
type Charger interface {
	Charge(ctx context.Context, userID string, amount int64, reason domain.CreditReason, ref, note string) (*domain.CreditEntry, error)
	Refund(ctx context.Context, userID string, amount int64, ref, note string) (*domain.CreditEntry, error)
}
