package credits

import (
	"context"

	"github.com/leadforge/leadforge/internal/domain"
)

// Repository defines the data access contract for the credit ledger.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Insert appends a ledger entry without a balance check. Used for
	// grants and refunds, which only add credits.
	Insert(ctx context.Context, e *domain.CreditEntry) error

	// Charge appends a negative entry if and only if the user's balance
	// covers it, atomically. Returns ErrInsufficientCredits otherwise.
	Charge(ctx context.Context, e *domain.CreditEntry) error

	// Balance returns the sum of the user's deltas.
	Balance(ctx context.Context, userID string) (int64, error)

	// History returns the user's entries, newest first, with the total count.
	History(ctx context.Context, userID string, limit, offset int) ([]domain.CreditEntry, int, error)

	// RefundExists reports whether a refund entry with the given ref
	// already exists for the user.
	RefundExists(ctx context.Context, userID, ref string) (bool, error)
}
