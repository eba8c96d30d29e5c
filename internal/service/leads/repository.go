package leads

import (
	"context"

	"github.com/leadforge/leadforge/internal/domain"
)

// Repository defines the data access contract for leads.
type Repository interface {
	// Get returns a single lead. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.Lead, error)

	// List returns leads matching the filter, oldest first, with a total
	// count.
	List(ctx context.Context, f ListFilter) ([]domain.Lead, int, error)

	// ListForExport returns every lead for the user (optionally scoped to
	// one job), oldest first, without pagination.
	ListForExport(ctx context.Context, userID, jobID string) ([]domain.Lead, error)

	// InsertBatch inserts a batch of leads in one statement.
	InsertBatch(ctx context.Context, batch []domain.Lead) error

	// UpdateEmail sets a lead's email and verification verdict.
	UpdateEmail(ctx context.Context, id, email string, status domain.EmailStatus) error
}

// ListFilter controls filtering and pagination for lead lists.
type ListFilter struct {
	UserID string
	JobID  string
	Status domain.EmailStatus
	Limit  int
	Offset int
}

// Checker walks candidate addresses in order and returns the first
// deliverable one with its verdict, or an empty email when none hit.
// Implemented by the verify service.
type Checker interface {
	CheckCandidates(ctx context.Context, emails []string) (string, domain.EmailStatus, error)
}

// Archiver stores a finished export artifact and returns its location.
// Implemented by the S3 export store.
type Archiver interface {
	ArchiveExport(ctx context.Context, userID, filename string, body []byte) (string, error)
}
