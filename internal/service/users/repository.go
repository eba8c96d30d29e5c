package users

import (
	"context"

	"github.com/leadforge/leadforge/internal/domain"
)

// Repository defines the data access contract for users.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns a single user. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail returns the user with the given email, or ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns users matching the filter, newest first, with a total count.
	List(ctx context.Context, f ListFilter) ([]domain.User, int, error)

	// Create inserts a new user.
	Create(ctx context.Context, u *domain.User) error

	// UpdateStatus transitions a user's status and records the acting
	// admin. fromStatus guards the transition: the update applies only if
	// the current status matches, otherwise ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id string, from, to domain.UserStatus, adminID string) error
}

// ListFilter controls pagination and filtering for user lists.
type ListFilter struct {
	Status string
	Limit  int
	Offset int
}

// CreditGranter is the slice of the credits service this package needs.
type CreditGranter interface {
	Grant(ctx context.Context, userID string, amount int64, reason domain.CreditReason, ref, note string) (*domain.CreditEntry, error)
}

// Notifier tells a user their account was approved. Implemented by the
// mailer.
type Notifier interface {
	SendApproval(ctx context.Context, u *domain.User) error
}
