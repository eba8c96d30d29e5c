package invites

import (
	"context"
	"time"

	"github.com/leadforge/leadforge/internal/domain"
)

// Repository defines the data access contract for invites.
type Repository interface {
	// Get returns an invite by ID. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.Invite, error)

	// GetByCode returns the invite with the given code, or ErrNotFound.
	GetByCode(ctx context.Context, code string) (*domain.Invite, error)

	// List returns invites newest first with a total count.
	List(ctx context.Context, limit, offset int) ([]domain.Invite, int, error)

	// Create inserts a new invite.
	Create(ctx context.Context, inv *domain.Invite) error

	// MarkRedeemed flips a pending invite to redeemed at the given time.
	// Applies only while the invite is still pending, otherwise
	// ErrAlreadyRedeemed.
	MarkRedeemed(ctx context.Context, id string, at time.Time) error

	// UpdateStatus sets the invite status (revoke, lazy expiry).
	UpdateStatus(ctx context.Context, id string, status domain.InviteStatus) error
}

// Provisioner is the slice of the users service this package needs.
type Provisioner interface {
	Provision(ctx context.Context, email, name string, invitedBy *string) (*domain.User, error)
}

// CreditGranter grants the invite's attached credits on redemption.
type CreditGranter interface {
	Grant(ctx context.Context, userID string, amount int64, reason domain.CreditReason, ref, note string) (*domain.CreditEntry, error)
}

// Sender delivers the invite email. Delivery failures do not fail invite
// creation; the code is still visible in the admin UI.
type Sender interface {
	SendInvite(ctx context.Context, inv *domain.Invite) error
}
