package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leadforge/leadforge/internal/domain"
	"github.com/leadforge/leadforge/internal/pkg/logger"
	"github.com/leadforge/leadforge/internal/service/credits"
)

// Service coordinates scrape jobs between the engine, the job store, the
// lead store, and the credit ledger.
type Service struct {
	repo        Repository
	engine      Engine
	leads       LeadStore
	credits     Charger
	costPerLead int64
	maxDuration time.Duration
	now         func() time.Time
}

// NewService creates a scrape service. costPerLead prices the upfront
// charge (maxResults * costPerLead); maxDuration is how long a job may run
// before the poller fails it.
func NewService(repo Repository, engine Engine, leads LeadStore, charger Charger, costPerLead int64, maxDuration time.Duration) *Service {
	return &Service{
		repo:        repo,
		engine:      engine,
		leads:       leads,
		credits:     charger,
		costPerLead: costPerLead,
		maxDuration: maxDuration,
		now:         time.Now,
	}
}

// Get returns a single job.
func (s *Service) Get(ctx context.Context, id string) (*domain.ScrapeJob, error) {
	return s.repo.Get(ctx, id)
}

// List returns a user's jobs newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]domain.ScrapeJob, int, error) {
	return s.repo.List(ctx, userID, limit, offset)
}

// Create charges the estimated cost and submits the job to the engine.
// A submit or persist failure refunds the charge and surfaces the error;
// an insufficient balance surfaces credits.ErrInsufficientCredits
// untouched. When persisting fails after submit, the engine job is
// cancelled best-effort so it does not run unaccounted.
func (s *Service) Create(ctx context.Context, userID, query, location string, maxResults int) (*domain.ScrapeJob, error) {
	query = strings.TrimSpace(query)
	if query == "" || maxResults <= 0 {
		return nil, ErrInvalidJob
	}

	job := &domain.ScrapeJob{
		ID:         uuid.New().String(),
		UserID:     userID,
		Query:      query,
		Location:   strings.TrimSpace(location),
		MaxResults: maxResults,
		Status:     domain.JobQueued,
	}

	estimate := int64(maxResults) * s.costPerLead
	if estimate > 0 {
		if _, err := s.credits.Charge(ctx, userID, estimate, domain.CreditChargeScrape, job.ID, fmt.Sprintf("scrape estimate for %d leads", maxResults)); err != nil {
			return nil, err
		}
		job.CreditsCharged = estimate
	}

	engineID, err := s.engine.Submit(ctx, EngineRequest{Query: query, Location: job.Location, MaxResults: maxResults})
	if err != nil {
		s.refund(ctx, job, estimate, "scrape submit failed")
		return nil, fmt.Errorf("submit scrape job: %w", err)
	}
	job.EngineJobID = engineID
	started := s.now()
	job.StartedAt = &started

	if err := s.repo.Create(ctx, job); err != nil {
		// The engine already accepted the job; stop it and settle the
		// charge, since no row exists for the poller to reconcile.
		if cancelErr := s.engine.Cancel(ctx, engineID); cancelErr != nil {
			logger.Error("engine cancel failed", "job_id", job.ID, "error", cancelErr)
		}
		s.refund(ctx, job, estimate, "scrape persist failed")
		return nil, fmt.Errorf("create scrape job: %w", err)
	}
	logger.Info("scrape job submitted", "job_id", job.ID, "engine_job_id", engineID, "max_results", maxResults)
	return job, nil
}

// Cancel stops a running job on the engine and refunds the full upfront
// charge.
func (s *Service) Cancel(ctx context.Context, id string) (*domain.ScrapeJob, error) {
	job, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status.Terminal() {
		return nil, ErrJobTerminal
	}

	if job.EngineJobID != "" {
		if err := s.engine.Cancel(ctx, job.EngineJobID); err != nil {
			logger.Error("engine cancel failed", "job_id", job.ID, "error", err)
		}
	}

	s.finish(job, domain.JobCancelled, "cancelled by user")
	if err := s.repo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("cancel scrape job: %w", err)
	}
	s.refund(ctx, job, job.CreditsCharged, "scrape cancelled")
	return job, nil
}

// ReconcileActive runs one poll pass over every non-terminal job. Errors
// on individual jobs are logged, not returned, so one bad job does not
// stall the rest.
func (s *Service) ReconcileActive(ctx context.Context) error {
	jobs, err := s.repo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active jobs: %w", err)
	}
	for i := range jobs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.Reconcile(ctx, &jobs[i]); err != nil {
			logger.Error("job reconcile failed", "job_id", jobs[i].ID, "error", err)
		}
	}
	return nil
}

// Reconcile syncs one job with the engine and settles credits when it
// reaches a terminal state.
func (s *Service) Reconcile(ctx context.Context, job *domain.ScrapeJob) error {
	if job.Status.Terminal() {
		return nil
	}

	if s.overdue(job) {
		if job.EngineJobID != "" {
			if err := s.engine.Cancel(ctx, job.EngineJobID); err != nil {
				logger.Error("engine cancel failed", "job_id", job.ID, "error", err)
			}
		}
		s.finish(job, domain.JobFailed, "exceeded max run duration")
		if err := s.repo.Update(ctx, job); err != nil {
			return err
		}
		s.refund(ctx, job, job.CreditsCharged, "scrape timed out")
		return nil
	}

	state, err := s.engine.Status(ctx, job.EngineJobID)
	if err != nil {
		return fmt.Errorf("engine status: %w", err)
	}

	switch state.Status {
	case domain.JobCompleted:
		found, err := s.importResults(ctx, job)
		if err != nil {
			return err
		}
		job.LeadsFound = found
		s.finish(job, domain.JobCompleted, "")
		if err := s.repo.Update(ctx, job); err != nil {
			return err
		}
		if unused := int64(job.MaxResults-found) * s.costPerLead; unused > 0 {
			s.refund(ctx, job, unused, fmt.Sprintf("scrape returned %d of %d leads", found, job.MaxResults))
		}
		logger.Info("scrape job completed", "job_id", job.ID, "leads_found", found)

	case domain.JobFailed, domain.JobCancelled:
		s.finish(job, state.Status, state.Error)
		if err := s.repo.Update(ctx, job); err != nil {
			return err
		}
		s.refund(ctx, job, job.CreditsCharged, "scrape "+string(state.Status))
		logger.Info("scrape job finished without results", "job_id", job.ID, "status", state.Status)

	default:
		if state.Status != job.Status || state.LeadsFound != job.LeadsFound {
			job.Status = state.Status
			job.LeadsFound = state.LeadsFound
			if err := s.repo.Update(ctx, job); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) importResults(ctx context.Context, job *domain.ScrapeJob) (int, error) {
	raw, err := s.engine.Results(ctx, job.EngineJobID)
	if err != nil {
		return 0, fmt.Errorf("engine results: %w", err)
	}
	if len(raw) == 0 {
		return 0, nil
	}
	batch := make([]domain.Lead, 0, len(raw))
	for _, r := range raw {
		batch = append(batch, domain.Lead{
			ID:                 uuid.New().String(),
			JobID:              job.ID,
			UserID:             job.UserID,
			CompanyName:        r.CompanyName,
			Website:            r.Website,
			CompanyLinkedInURL: r.CompanyLinkedInURL,
			FirstName:          r.FirstName,
			LastName:           r.LastName,
			Email:              r.Email,
		})
	}
	if err := s.leads.InsertBatch(ctx, batch); err != nil {
		return 0, fmt.Errorf("store leads: %w", err)
	}
	return len(batch), nil
}

// finish stamps the terminal state on the job in memory.
func (s *Service) finish(job *domain.ScrapeJob, status domain.ScrapeJobStatus, errMsg string) {
	job.Status = status
	job.Error = errMsg
	t := s.now()
	job.FinishedAt = &t
}

// refund settles credits back. A refund that already happened (retried
// reconcile) is silently skipped; other ledger errors are logged.
func (s *Service) refund(ctx context.Context, job *domain.ScrapeJob, amount int64, note string) {
	if amount <= 0 {
		return
	}
	if _, err := s.credits.Refund(ctx, job.UserID, amount, job.ID, note); err != nil {
		if errors.Is(err, credits.ErrAlreadyRefunded) {
			return
		}
		logger.Error("scrape refund failed", "job_id", job.ID, "amount", amount, "error", err)
	}
}

func (s *Service) overdue(job *domain.ScrapeJob) bool {
	if s.maxDuration <= 0 || job.StartedAt == nil {
		return false
	}
	return s.now().Sub(*job.StartedAt) > s.maxDuration
}
