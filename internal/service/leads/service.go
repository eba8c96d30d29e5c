package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/leadforge/leadforge/internal/domain"
	"github.com/leadforge/leadforge/internal/export"
	"github.com/leadforge/leadforge/internal/permute"
	"github.com/leadforge/leadforge/internal/pkg/logger"
)

// Service exposes lead reads, permutation candidates, verification, and
// CSV export.
type Service struct {
	repo     Repository
	checker  Checker
	archiver Archiver
	now      func() time.Time
}

// NewService creates a leads service. checker and archiver may be nil;
// without a checker VerifyLead fails, without an archiver exports are
// download-only.
func NewService(repo Repository, checker Checker, archiver Archiver) *Service {
	return &Service{repo: repo, checker: checker, archiver: archiver, now: time.Now}
}

// Get returns a single lead.
func (s *Service) Get(ctx context.Context, id string) (*domain.Lead, error) {
	return s.repo.Get(ctx, id)
}

// List returns leads matching the filter.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Lead, int, error) {
	return s.repo.List(ctx, f)
}

// Candidates returns the email permutations for a lead, built from its
// contact name and company website. middleName is optional extra input the
// scraper doesn't capture. A lead without a usable name or domain gets an
// empty list, not an error.
func (s *Service) Candidates(ctx context.Context, leadID, middleName string) ([]permute.Candidate, error) {
	lead, err := s.repo.Get(ctx, leadID)
	if err != nil {
		return nil, err
	}
	name := permute.NameParts{
		FirstName:  lead.FirstName,
		LastName:   lead.LastName,
		MiddleName: middleName,
	}
	return permute.Generate(name, lead.Website), nil
}

// VerifyLead checks the lead's permutation candidates against the
// verification provider and stores the first deliverable hit. A lead that
// already carries an email gets that address checked first. Returns the
// updated lead; a lead with no deliverable candidate comes back unchanged.
func (s *Service) VerifyLead(ctx context.Context, leadID string) (*domain.Lead, error) {
	if s.checker == nil {
		return nil, fmt.Errorf("verification is not configured")
	}
	lead, err := s.repo.Get(ctx, leadID)
	if err != nil {
		return nil, err
	}

	cands := permute.Generate(permute.NameParts{
		FirstName: lead.FirstName,
		LastName:  lead.LastName,
	}, lead.Website)

	emails := make([]string, 0, len(cands)+1)
	if lead.Email != "" {
		emails = append(emails, lead.Email)
	}
	for _, c := range cands {
		if c.Email != lead.Email {
			emails = append(emails, c.Email)
		}
	}
	if len(emails) == 0 {
		return lead, nil
	}

	email, status, err := s.checker.CheckCandidates(ctx, emails)
	if err != nil {
		return nil, fmt.Errorf("verify candidates: %w", err)
	}
	if email == "" {
		logger.Info("no deliverable candidate", "lead_id", lead.ID, "checked", len(emails))
		return lead, nil
	}

	if err := s.repo.UpdateEmail(ctx, lead.ID, email, status); err != nil {
		return nil, fmt.Errorf("store verified email: %w", err)
	}
	lead.Email = email
	lead.EmailStatus = status
	logger.Info("lead email verified", "lead_id", lead.ID, "status", status)
	return lead, nil
}

// ExportResult is a finished CSV export.
type ExportResult struct {
	Body       string `json:"body"`
	RowCount   int    `json:"row_count"`
	ArchiveURL string `json:"archive_url,omitempty"`
}

// Export filters the user's leads (optionally scoped to one job), projects
// the selected columns, and renders CSV. When archive is set and an
// archiver is configured the body is also stored and its location
// returned.
func (s *Service) Export(ctx context.Context, userID, jobID string, filter export.ValidityFilter, cols export.ColumnSelection, archive bool) (*ExportResult, error) {
	if !filter.Valid() {
		return nil, ErrBadFilter
	}
	all, err := s.repo.ListForExport(ctx, userID, jobID)
	if err != nil {
		return nil, fmt.Errorf("load leads for export: %w", err)
	}

	table := export.FilterAndProject(all, filter, cols)
	res := &ExportResult{Body: table.CSV(), RowCount: len(table.Rows)}

	if archive && s.archiver != nil {
		name := fmt.Sprintf("exports/%s/leads-%s.csv", userID, s.now().UTC().Format("20060102-150405"))
		url, err := s.archiver.ArchiveExport(ctx, userID, name, []byte(res.Body))
		if err != nil {
			logger.Error("export archive failed", "user_id", userID, "error", err)
		} else {
			res.ArchiveURL = url
		}
	}
	return res, nil
}

// FilterLeads applies the validity filter without projecting columns,
// preserving input order. The campaign exporter uses this to pick the
// leads it pushes.
func FilterLeads(all []domain.Lead, filter export.ValidityFilter) []domain.Lead {
	var out []domain.Lead
	for _, l := range all {
		if export.Matches(l.EmailStatus, filter) {
			out = append(out, l)
		}
	}
	return out
}
