package domain

import "time"

// UserStatus is the approval lifecycle state of a workspace user.
type UserStatus string

const (
	UserPending   UserStatus = "pending"
	UserApproved  UserStatus = "approved"
	UserRejected  UserStatus = "rejected"
	UserSuspended UserStatus = "suspended"
)

// UserRole controls access to admin endpoints.
type UserRole string

const (
	RoleMember UserRole = "member"
	RoleAdmin  UserRole = "admin"
)

// User is a workspace account. New signups (organic or via invite) start
// in pending status and must be approved by an admin before they can use
// credits or run scrape jobs.
type User struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Status     UserStatus `json:"status"`
	Role       UserRole   `json:"role"`
	InvitedBy  *string    `json:"invited_by,omitempty"`
	ApprovedBy *string    `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Active reports whether the user may act in the workspace.
func (u *User) Active() bool {
	return u.Status == UserApproved
}
