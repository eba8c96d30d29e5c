package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/leadforge/leadforge/internal/domain"
	"github.com/leadforge/leadforge/internal/service/leads"
)

// LeadRepo implements leads.Repository against PostgreSQL.
type LeadRepo struct{ db *sql.DB }

// NewLeadRepo creates a Postgres-backed lead repository.
func NewLeadRepo(db *sql.DB) *LeadRepo { return &LeadRepo{db: db} }

const leadCols = `id, job_id, user_id, COALESCE(company_name,''), COALESCE(website,''),
	       COALESCE(company_linkedin_url,''), COALESCE(first_name,''), COALESCE(last_name,''),
	       COALESCE(email,''), COALESCE(email_status,''), created_at`

func scanLead(row interface{ Scan(...interface{}) error }) (*domain.Lead, error) {
	l := &domain.Lead{}
	err := row.Scan(
		&l.ID, &l.JobID, &l.UserID, &l.CompanyName, &l.Website,
		&l.CompanyLinkedInURL, &l.FirstName, &l.LastName,
		&l.Email, &l.EmailStatus, &l.CreatedAt,
	)
	return l, err
}

func (r *LeadRepo) Get(ctx context.Context, id string) (*domain.Lead, error) {
	l, err := scanLead(r.db.QueryRowContext(ctx,
		`SELECT `+leadCols+` FROM leads WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, leads.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

func (r *LeadRepo) List(ctx context.Context, f leads.ListFilter) ([]domain.Lead, int, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	where := []string{}
	args := []interface{}{}
	add := func(cond string, val interface{}) {
		args = append(args, val)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.UserID != "" {
		add("user_id = $%d", f.UserID)
	}
	if f.JobID != "" {
		add("job_id = $%d", f.JobID)
	}
	if f.Status != "" {
		add("email_status = $%d", f.Status)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	q := fmt.Sprintf(`SELECT %s FROM leads%s ORDER BY created_at ASC LIMIT $%d OFFSET $%d`,
		leadCols, clause, len(args)+1, len(args)+2)
	args = append(args, limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var out []domain.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		out = append(out, *l)
	}
	return out, total, nil
}

func (r *LeadRepo) ListForExport(ctx context.Context, userID, jobID string) ([]domain.Lead, error) {
	q := `SELECT ` + leadCols + ` FROM leads WHERE user_id = $1`
	args := []interface{}{userID}
	if jobID != "" {
		q += ` AND job_id = $2`
		args = append(args, jobID)
	}
	q += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads for export: %w", err)
	}
	defer rows.Close()

	var out []domain.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		out = append(out, *l)
	}
	return out, nil
}

// InsertBatch writes the whole batch in one multi-row INSERT.
func (r *LeadRepo) InsertBatch(ctx context.Context, batch []domain.Lead) error {
	if len(batch) == 0 {
		return nil
	}

	const fields = 10
	values := make([]string, 0, len(batch))
	args := make([]interface{}, 0, len(batch)*fields)
	for i, l := range batch {
		base := i * fields
		values = append(values, fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,NOW())",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10))
		args = append(args, l.ID, l.JobID, l.UserID, l.CompanyName, l.Website,
			l.CompanyLinkedInURL, l.FirstName, l.LastName, l.Email, l.EmailStatus)
	}

	q := `INSERT INTO leads
		(id, job_id, user_id, company_name, website, company_linkedin_url,
		 first_name, last_name, email, email_status, created_at)
	VALUES ` + strings.Join(values, ",")

	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert leads: %w", err)
	}
	return nil
}

func (r *LeadRepo) UpdateEmail(ctx context.Context, id, email string, status domain.EmailStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE leads SET email = $1, email_status = $2 WHERE id = $3
	`, email, status, id)
	if err != nil {
		return fmt.Errorf("update lead email: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return leads.ErrNotFound
	}
	return nil
}
