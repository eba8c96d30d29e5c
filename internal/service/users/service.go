package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/leadforge/leadforge/internal/domain"
	"github.com/leadforge/leadforge/internal/pkg/logger"
)

// Service implements the user approval workflow. It coordinates the user
// repository with the credit ledger (approval grants signup credits).
type Service struct {
	repo        Repository
	credits     CreditGranter
	notifier    Notifier
	signupGrant int64
}

// NewService creates a users service. signupGrant is the credit amount
// granted on approval; zero disables the grant.
func NewService(repo Repository, credits CreditGranter, signupGrant int64) *Service {
	return &Service{repo: repo, credits: credits, signupGrant: signupGrant}
}

// SetNotifier wires the approval mail sender. The mailer depends on
// config loaded after the service graph is built, so it arrives late.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// Get returns a single user.
func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.Get(ctx, id)
}

// GetByEmail returns the user with the given email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.GetByEmail(ctx, normalizeEmail(email))
}

// List returns users matching the filter.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.User, int, error) {
	return s.repo.List(ctx, f)
}

// Provision returns the existing user for the email or creates a new
// pending one. Called on first OAuth login and on invite redemption.
func (s *Service) Provision(ctx context.Context, email, name string, invitedBy *string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	u := &domain.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		Status:    domain.UserPending,
		Role:      domain.RoleMember,
		InvitedBy: invitedBy,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("provision user: %w", err)
	}
	logger.Info("user provisioned", "user_id", u.ID, "email", u.Email)
	return u, nil
}

// Approve moves a pending user to approved and grants signup credits.
// The grant is keyed to the user ID so an approval retried after a ledger
// failure does not double-grant (the repo transition guard rejects the
// second approval first).
func (s *Service) Approve(ctx context.Context, adminID, userID string) (*domain.User, error) {
	if err := s.repo.UpdateStatus(ctx, userID, domain.UserPending, domain.UserApproved, adminID); err != nil {
		return nil, err
	}
	if s.signupGrant > 0 && s.credits != nil {
		if _, err := s.credits.Grant(ctx, userID, s.signupGrant, domain.CreditGrantSignup, userID, "signup grant on approval"); err != nil {
			logger.Error("signup grant failed", "user_id", userID, "error", err)
		}
	}
	logger.Info("user approved", "user_id", userID, "admin_id", adminID)

	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		if err := s.notifier.SendApproval(ctx, u); err != nil {
			logger.Error("approval mail failed", "user_id", userID, "error", err)
		}
	}
	return u, nil
}

// Reject moves a pending user to rejected.
func (s *Service) Reject(ctx context.Context, adminID, userID string) (*domain.User, error) {
	if err := s.repo.UpdateStatus(ctx, userID, domain.UserPending, domain.UserRejected, adminID); err != nil {
		return nil, err
	}
	logger.Info("user rejected", "user_id", userID, "admin_id", adminID)
	return s.repo.Get(ctx, userID)
}

// Suspend moves an approved user to suspended. Suspended users keep their
// ledger history but fail the auth gate.
func (s *Service) Suspend(ctx context.Context, adminID, userID string) (*domain.User, error) {
	if err := s.repo.UpdateStatus(ctx, userID, domain.UserApproved, domain.UserSuspended, adminID); err != nil {
		return nil, err
	}
	logger.Info("user suspended", "user_id", userID, "admin_id", adminID)
	return s.repo.Get(ctx, userID)
}

// Reinstate moves a suspended user back to approved. No new signup grant.
func (s *Service) Reinstate(ctx context.Context, adminID, userID string) (*domain.User, error) {
	if err := s.repo.UpdateStatus(ctx, userID, domain.UserSuspended, domain.UserApproved, adminID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
