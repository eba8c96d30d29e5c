package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/leadforge/leadforge/internal/domain"
	"github.com/leadforge/leadforge/internal/service/invites"
)

// InviteRepo implements invites.Repository against PostgreSQL.
type InviteRepo struct{ db *sql.DB }

// NewInviteRepo creates a Postgres-backed invite repository.
func NewInviteRepo(db *sql.DB) *InviteRepo { return &InviteRepo{db: db} }

const inviteCols = `id, code, email, created_by, credits, status, expires_at, redeemed_at, created_at`

func (r *InviteRepo) Get(ctx context.Context, id string) (*domain.Invite, error) {
	return r.getBy(ctx, "id", id)
}

func (r *InviteRepo) GetByCode(ctx context.Context, code string) (*domain.Invite, error) {
	return r.getBy(ctx, "code", code)
}

func (r *InviteRepo) getBy(ctx context.Context, col, val string) (*domain.Invite, error) {
	inv := &domain.Invite{}
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM invites WHERE %s = $1`, inviteCols, col), val,
	).Scan(
		&inv.ID, &inv.Code, &inv.Email, &inv.CreatedBy, &inv.Credits,
		&inv.Status, &inv.ExpiresAt, &inv.RedeemedAt, &inv.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, invites.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get invite: %w", err)
	}
	return inv, nil
}

func (r *InviteRepo) List(ctx context.Context, limit, offset int) ([]domain.Invite, int, error) {
	if limit <= 0 {
		limit = 50
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM invites`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invites: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+inviteCols+`
		FROM invites
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list invites: %w", err)
	}
	defer rows.Close()

	var out []domain.Invite
	for rows.Next() {
		var inv domain.Invite
		if err := rows.Scan(
			&inv.ID, &inv.Code, &inv.Email, &inv.CreatedBy, &inv.Credits,
			&inv.Status, &inv.ExpiresAt, &inv.RedeemedAt, &inv.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan invite: %w", err)
		}
		out = append(out, inv)
	}
	return out, total, nil
}

func (r *InviteRepo) Create(ctx context.Context, inv *domain.Invite) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invites (id, code, email, created_by, credits, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`, inv.ID, inv.Code, inv.Email, inv.CreatedBy, inv.Credits, inv.Status, inv.ExpiresAt)
	if err != nil {
		return fmt.Errorf("create invite: %w", err)
	}
	return nil
}

// MarkRedeemed flips a pending invite to redeemed; the status guard in the
// WHERE clause makes a double redemption lose the race cleanly.
func (r *InviteRepo) MarkRedeemed(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invites SET status = $1, redeemed_at = $2
		WHERE id = $3 AND status = $4
	`, domain.InviteRedeemed, at, id, domain.InvitePending)
	if err != nil {
		return fmt.Errorf("mark redeemed: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return invites.ErrAlreadyRedeemed
	}
	return nil
}

func (r *InviteRepo) UpdateStatus(ctx context.Context, id string, status domain.InviteStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invites SET status = $1 WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("update invite status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return invites.ErrNotFound
	}
	return nil
}
