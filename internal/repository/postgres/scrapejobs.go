package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leadforge/leadforge/internal/domain"
	"github.com/leadforge/leadforge/internal/service/scrape"
)

// ScrapeJobRepo implements scrape.Repository against PostgreSQL.
type ScrapeJobRepo struct{ db *sql.DB }

// NewScrapeJobRepo creates a Postgres-backed scrape job repository.
func NewScrapeJobRepo(db *sql.DB) *ScrapeJobRepo { return &ScrapeJobRepo{db: db} }

const jobCols = `id, user_id, COALESCE(engine_job_id,''), query, COALESCE(location,''),
	       max_results, status, leads_found, credits_charged, COALESCE(error,''),
	       started_at, finished_at, created_at, updated_at`

func scanJob(row interface{ Scan(...interface{}) error }) (*domain.ScrapeJob, error) {
	j := &domain.ScrapeJob{}
	err := row.Scan(
		&j.ID, &j.UserID, &j.EngineJobID, &j.Query, &j.Location,
		&j.MaxResults, &j.Status, &j.LeadsFound, &j.CreditsCharged, &j.Error,
		&j.StartedAt, &j.FinishedAt, &j.CreatedAt, &j.UpdatedAt,
	)
	return j, err
}

func (r *ScrapeJobRepo) Get(ctx context.Context, id string) (*domain.ScrapeJob, error) {
	j, err := scanJob(r.db.QueryRowContext(ctx,
		`SELECT `+jobCols+` FROM scrape_jobs WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, scrape.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get scrape job: %w", err)
	}
	return j, nil
}

func (r *ScrapeJobRepo) List(ctx context.Context, userID string, limit, offset int) ([]domain.ScrapeJob, int, error) {
	if limit <= 0 {
		limit = 50
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM scrape_jobs WHERE user_id = $1
	`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count scrape jobs: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+jobCols+`
		FROM scrape_jobs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list scrape jobs: %w", err)
	}
	defer rows.Close()

	var out []domain.ScrapeJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan scrape job: %w", err)
		}
		out = append(out, *j)
	}
	return out, total, nil
}

func (r *ScrapeJobRepo) ListActive(ctx context.Context) ([]domain.ScrapeJob, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+jobCols+`
		FROM scrape_jobs
		WHERE status NOT IN ($1, $2, $3)
		ORDER BY created_at ASC
	`, domain.JobCompleted, domain.JobFailed, domain.JobCancelled)
	if err != nil {
		return nil, fmt.Errorf("list active jobs: %w", err)
	}
	defer rows.Close()

	var out []domain.ScrapeJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scrape job: %w", err)
		}
		out = append(out, *j)
	}
	return out, nil
}

func (r *ScrapeJobRepo) Create(ctx context.Context, job *domain.ScrapeJob) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scrape_jobs
			(id, user_id, engine_job_id, query, location, max_results, status,
			 leads_found, credits_charged, started_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`, job.ID, job.UserID, job.EngineJobID, job.Query, job.Location,
		job.MaxResults, job.Status, job.LeadsFound, job.CreditsCharged, job.StartedAt)
	if err != nil {
		return fmt.Errorf("create scrape job: %w", err)
	}
	return nil
}

func (r *ScrapeJobRepo) Update(ctx context.Context, job *domain.ScrapeJob) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE scrape_jobs
		SET status = $1, leads_found = $2, error = $3, finished_at = $4, updated_at = NOW()
		WHERE id = $5
	`, job.Status, job.LeadsFound, job.Error, job.FinishedAt, job.ID)
	if err != nil {
		return fmt.Errorf("update scrape job: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return scrape.ErrNotFound
	}
	return nil
}
