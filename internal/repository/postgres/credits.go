package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leadforge/leadforge/internal/domain"
	"github.com/leadforge/leadforge/internal/service/credits"
)

// CreditRepo implements credits.Repository against PostgreSQL. The ledger
// table is append-only; balances are sums over deltas.
type CreditRepo struct{ db *sql.DB }

// NewCreditRepo creates a Postgres-backed credit ledger.
func NewCreditRepo(db *sql.DB) *CreditRepo { return &CreditRepo{db: db} }

func (r *CreditRepo) Insert(ctx context.Context, e *domain.CreditEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO credit_ledger (id, user_id, delta, reason, ref, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`, e.ID, e.UserID, e.Delta, e.Reason, e.Ref, e.Note)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// Charge checks the balance and inserts the debit inside one transaction.
// Concurrent charges for the same user are serialized with an advisory
// lock keyed on the user id (released at commit/rollback); a row lock on
// the ledger would not block concurrent inserts.
func (r *CreditRepo) Charge(ctx context.Context, e *domain.CreditEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin charge: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		SELECT pg_advisory_xact_lock(hashtext($1))
	`, e.UserID); err != nil {
		return fmt.Errorf("lock ledger: %w", err)
	}

	var balance int64
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(delta), 0) FROM credit_ledger WHERE user_id = $1
	`, e.UserID).Scan(&balance)
	if err != nil {
		return fmt.Errorf("read balance: %w", err)
	}
	if balance+e.Delta < 0 {
		return credits.ErrInsufficientCredits
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO credit_ledger (id, user_id, delta, reason, ref, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`, e.ID, e.UserID, e.Delta, e.Reason, e.Ref, e.Note)
	if err != nil {
		return fmt.Errorf("insert charge: %w", err)
	}
	return tx.Commit()
}

func (r *CreditRepo) Balance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(delta), 0) FROM credit_ledger WHERE user_id = $1
	`, userID).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("balance: %w", err)
	}
	return balance, nil
}

func (r *CreditRepo) History(ctx context.Context, userID string, limit, offset int) ([]domain.CreditEntry, int, error) {
	if limit <= 0 {
		limit = 50
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM credit_ledger WHERE user_id = $1
	`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count ledger: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, delta, reason, COALESCE(ref,''), COALESCE(note,''), created_at
		FROM credit_ledger
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()

	var out []domain.CreditEntry
	for rows.Next() {
		var e domain.CreditEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Delta, &e.Reason, &e.Ref, &e.Note, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, e)
	}
	return out, total, nil
}

func (r *CreditRepo) RefundExists(ctx context.Context, userID, ref string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM credit_ledger
			WHERE user_id = $1 AND ref = $2 AND reason = $3
		)
	`, userID, ref, domain.CreditRefund).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check refund: %w", err)
	}
	return exists, nil
}
