package invites

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leadforge/leadforge/internal/domain"
	"github.com/leadforge/leadforge/internal/pkg/logger"
)

// Service implements the invite lifecycle.
type Service struct {
	repo         Repository
	users        Provisioner
	credits      CreditGranter
	sender       Sender
	ttl          time.Duration
	defaultGrant int64
	now          func() time.Time
}

// NewService creates an invites service. sender may be nil, in which case
// codes are created but not mailed. ttl is how long a code stays
// redeemable; defaultGrant is used when Create is called with credits <= 0.
func NewService(repo Repository, users Provisioner, credits CreditGranter, sender Sender, ttl time.Duration, defaultGrant int64) *Service {
	return &Service{
		repo:         repo,
		users:        users,
		credits:      credits,
		sender:       sender,
		ttl:          ttl,
		defaultGrant: defaultGrant,
		now:          time.Now,
	}
}

// Get returns a single invite.
func (s *Service) Get(ctx context.Context, id string) (*domain.Invite, error) {
	return s.repo.Get(ctx, id)
}

// List returns invites newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.Invite, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Create issues a new invite code for the email and mails it. A send
// failure is logged but does not fail creation.
func (s *Service) Create(ctx context.Context, adminID, email string, credits int64) (*domain.Invite, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if credits <= 0 {
		credits = s.defaultGrant
	}

	code, err := newCode()
	if err != nil {
		return nil, fmt.Errorf("generate invite code: %w", err)
	}

	inv := &domain.Invite{
		ID:        uuid.New().String(),
		Code:      code,
		Email:     email,
		CreatedBy: adminID,
		Credits:   credits,
		Status:    domain.InvitePending,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invite: %w", err)
	}

	if s.sender != nil {
		if err := s.sender.SendInvite(ctx, inv); err != nil {
			logger.Error("invite email failed", "invite_id", inv.ID, "email", inv.Email, "error", err)
		}
	}
	logger.Info("invite created", "invite_id", inv.ID, "email", inv.Email, "credits", inv.Credits)
	return inv, nil
}

// Redeem exchanges a code for a pending user account. The invite's email
// becomes the account email, the inviter is recorded, and the attached
// credits are granted keyed to the invite ID.
func (s *Service) Redeem(ctx context.Context, code, name string) (*domain.User, error) {
	inv, err := s.repo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}

	switch inv.Status {
	case domain.InviteRedeemed:
		return nil, ErrAlreadyRedeemed
	case domain.InviteRevoked:
		return nil, ErrRevoked
	case domain.InviteExpired:
		return nil, ErrExpired
	}
	if inv.Expired(s.now()) {
		// Flip the persisted status lazily.
		if err := s.repo.UpdateStatus(ctx, inv.ID, domain.InviteExpired); err != nil {
			logger.Error("invite expiry update failed", "invite_id", inv.ID, "error", err)
		}
		return nil, ErrExpired
	}

	u, err := s.users.Provision(ctx, inv.Email, name, &inv.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("provision invited user: %w", err)
	}

	if err := s.repo.MarkRedeemed(ctx, inv.ID, s.now()); err != nil {
		return nil, err
	}

	if inv.Credits > 0 && s.credits != nil {
		if _, err := s.credits.Grant(ctx, u.ID, inv.Credits, domain.CreditGrantInvite, inv.ID, "invite redemption"); err != nil {
			logger.Error("invite grant failed", "invite_id", inv.ID, "user_id", u.ID, "error", err)
		}
	}
	logger.Info("invite redeemed", "invite_id", inv.ID, "user_id", u.ID)
	return u, nil
}

// Revoke cancels a pending invite so the code can no longer be redeemed.
func (s *Service) Revoke(ctx context.Context, id string) (*domain.Invite, error) {
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == domain.InviteRedeemed {
		return nil, ErrAlreadyRedeemed
	}
	if err := s.repo.UpdateStatus(ctx, id, domain.InviteRevoked); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// newCode returns a 32-char hex code from 16 random bytes.
func newCode() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
