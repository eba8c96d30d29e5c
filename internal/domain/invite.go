package domain

import "time"

// InviteStatus is the lifecycle state of an invite code.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteRedeemed InviteStatus = "redeemed"
	InviteRevoked  InviteStatus = "revoked"
	InviteExpired  InviteStatus = "expired"
)

// Invite is a single-use signup code emailed to a prospect. Redemption
// provisions a pending user and grants the attached credits.
type Invite struct {
	ID         string       `json:"id"`
	Code       string       `json:"code"`
	Email      string       `json:"email"`
	CreatedBy  string       `json:"created_by"`
	Credits    int64        `json:"credits"`
	Status     InviteStatus `json:"status"`
	ExpiresAt  time.Time    `json:"expires_at"`
	RedeemedAt *time.Time   `json:"redeemed_at,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// Expired reports whether the invite is past its expiry, regardless of the
// persisted status (the persisted status is only flipped lazily).
func (i *Invite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
