package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leadforge/leadforge/internal/domain"
	"github.com/leadforge/leadforge/internal/service/users"
)

// UserRepo implements users.Repository against PostgreSQL.
type UserRepo struct{ db *sql.DB }

// NewUserRepo creates a Postgres-backed user repository.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userCols = `id, email, name, status, role, invited_by, approved_by, approved_at, created_at, updated_at`

func (r *UserRepo) Get(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepo) getBy(ctx context.Context, col, val string) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userCols, col), val,
	).Scan(
		&u.ID, &u.Email, &u.Name, &u.Status, &u.Role,
		&u.InvitedBy, &u.ApprovedBy, &u.ApprovedAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, users.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) List(ctx context.Context, f users.ListFilter) ([]domain.User, int, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	countQ := `SELECT COUNT(*) FROM users`
	args := []interface{}{}
	if f.Status != "" {
		countQ += ` WHERE status = $1`
		args = append(args, f.Status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	q := `SELECT ` + userCols + ` FROM users`
	qArgs := []interface{}{}
	idx := 1
	if f.Status != "" {
		q += fmt.Sprintf(" WHERE status = $%d", idx)
		qArgs = append(qArgs, f.Status)
		idx++
	}
	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	qArgs = append(qArgs, limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, q, qArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.Name, &u.Status, &u.Role,
			&u.InvitedBy, &u.ApprovedBy, &u.ApprovedAt, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, total, nil
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, status, role, invited_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`, u.ID, u.Email, u.Name, u.Status, u.Role, u.InvitedBy)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdateStatus applies the transition only while the current status still
// matches from; a zero row count means either a missing user or a stale
// status, disambiguated with a follow-up lookup.
func (r *UserRepo) UpdateStatus(ctx context.Context, id string, from, to domain.UserStatus, adminID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET status = $1, approved_by = $2, approved_at = NOW(), updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, to, adminID, id, from)
	if err != nil {
		return fmt.Errorf("update user status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return users.ErrInvalidTransition
	}
	return nil
}
