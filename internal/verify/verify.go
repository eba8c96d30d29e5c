// Package verify wraps the email deliverability provider and walks
// permutation candidates to find a usable address.
package verify

import (
	"context"
	"fmt"

	"github.com/leadforge/leadforge/internal/domain"
	"github.com/leadforge/leadforge/internal/pkg/logger"
)

// Provider checks one address against the verification API.
type Provider interface {
	Check(ctx context.Context, email string) (Result, error)
}

// Result is the provider's verdict for one address. Status is one of
// valid, catch-all, invalid, unknown.
type Result struct {
	Email  string `json:"email"`
	Status string `json:"status"`
}

// Service walks candidate lists against the provider. It satisfies
// leads.Checker.
type Service struct {
	provider Provider
}

// NewService creates a verification service.
func NewService(p Provider) *Service {
	return &Service{provider: p}
}

// CheckCandidates verifies addresses in order and returns the first valid
// hit. When no address is valid, the first catch-all becomes the fallback.
// An empty email result means nothing deliverable was found.
func (s *Service) CheckCandidates(ctx context.Context, emails []string) (string, domain.EmailStatus, error) {
	var catchAll string
	for _, email := range emails {
		if ctx.Err() != nil {
			return "", "", ctx.Err()
		}
		res, err := s.provider.Check(ctx, email)
		if err != nil {
			return "", "", fmt.Errorf("check %q: %w", logger.RedactEmail(email), err)
		}
		switch res.Status {
		case "valid":
			return email, domain.EmailValid, nil
		case "catch-all", "catch_all", "accept_all":
			if catchAll == "" {
				catchAll = email
			}
		}
	}
	if catchAll != "" {
		return catchAll, domain.EmailCatchAll, nil
	}
	return "", "", nil
}
