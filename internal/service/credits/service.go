package credits

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/leadforge/leadforge/internal/domain"
)

// Service implements credit accounting on top of the ledger repository.
// All public methods are safe for concurrent use if the underlying
// repository is concurrency-safe.
type Service struct {
	repo Repository
}

// NewService creates a credits service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Balance returns the user's current credit balance.
func (s *Service) Balance(ctx context.Context, userID string) (int64, error) {
	return s.repo.Balance(ctx, userID)
}

// History returns the user's ledger entries, newest first.
func (s *Service) History(ctx context.Context, userID string, limit, offset int) ([]domain.CreditEntry, int, error) {
	return s.repo.History(ctx, userID, limit, offset)
}

// Grant adds credits to a user's balance.
func (s *Service) Grant(ctx context.Context, userID string, amount int64, reason domain.CreditReason, ref, note string) (*domain.CreditEntry, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	e := &domain.CreditEntry{
		ID:     uuid.New().String(),
		UserID: userID,
		Delta:  amount,
		Reason: reason,
		Ref:    ref,
		Note:   note,
	}
	if err := s.repo.Insert(ctx, e); err != nil {
		return nil, fmt.Errorf("grant credits: %w", err)
	}
	return e, nil
}

// Charge debits credits. Fails with ErrInsufficientCredits when the
// balance does not cover the amount; the check and insert happen in one
// repository transaction.
func (s *Service) Charge(ctx context.Context, userID string, amount int64, reason domain.CreditReason, ref, note string) (*domain.CreditEntry, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	e := &domain.CreditEntry{
		ID:     uuid.New().String(),
		UserID: userID,
		Delta:  -amount,
		Reason: reason,
		Ref:    ref,
		Note:   note,
	}
	if err := s.repo.Charge(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Refund reverses part or all of a prior charge identified by ref. At
// most one refund per ref is allowed; reconciliation runs after every
// poll cycle, so this is what keeps a retried finalize from paying twice.
func (s *Service) Refund(ctx context.Context, userID string, amount int64, ref, note string) (*domain.CreditEntry, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	exists, err := s.repo.RefundExists(ctx, userID, ref)
	if err != nil {
		return nil, fmt.Errorf("check refund: %w", err)
	}
	if exists {
		return nil, ErrAlreadyRefunded
	}
	e := &domain.CreditEntry{
		ID:     uuid.New().String(),
		UserID: userID,
		Delta:  amount,
		Reason: domain.CreditRefund,
		Ref:    ref,
		Note:   note,
	}
	if err := s.repo.Insert(ctx, e); err != nil {
		return nil, fmt.Errorf("refund credits: %w", err)
	}
	return e, nil
}
