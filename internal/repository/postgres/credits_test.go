package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leadforge/leadforge/internal/domain"
	"github.com/leadforge/leadforge/internal/service/credits"
)

func setupTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return db, mock, func() { db.Close() }
}

func TestCreditRepo_ChargeWithinBalance(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(hashtext\(\$1\)\)`).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	// Anchored: the balance read must not carry a locking clause, which
	// PostgreSQL rejects on aggregates (0A000).
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(delta\), 0\) FROM credit_ledger WHERE user_id = \$1\s*$`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(100))
	mock.ExpectExec(`INSERT INTO credit_ledger`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewCreditRepo(db)
	err := repo.Charge(context.Background(), &domain.CreditEntry{
		ID:     "e1",
		UserID: "user-1",
		Delta:  -40,
		Reason: domain.CreditChargeScrape,
		Ref:    "job-1",
	})
	if err != nil {
		t.Fatalf("Charge() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreditRepo_ChargeInsufficientRollsBack(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(hashtext\(\$1\)\)`).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(delta\), 0\) FROM credit_ledger WHERE user_id = \$1\s*$`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(10))
	mock.ExpectRollback()

	repo := NewCreditRepo(db)
	err := repo.Charge(context.Background(), &domain.CreditEntry{
		ID:     "e1",
		UserID: "user-1",
		Delta:  -40,
		Reason: domain.CreditChargeScrape,
	})
	if err != credits.ErrInsufficientCredits {
		t.Fatalf("Charge() error = %v, want ErrInsufficientCredits", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreditRepo_Balance(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(delta\), 0\) FROM credit_ledger`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(60))

	repo := NewCreditRepo(db)
	got, err := repo.Balance(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Balance() error = %v", err)
	}
	if got != 60 {
		t.Errorf("Balance() = %d, want 60", got)
	}
}

func TestCreditRepo_RefundExists(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("user-1", "job-1", string(domain.CreditRefund)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := NewCreditRepo(db)
	got, err := repo.RefundExists(context.Background(), "user-1", "job-1")
	if err != nil {
		t.Fatalf("RefundExists() error = %v", err)
	}
	if !got {
		t.Error("RefundExists() = false, want true")
	}
}
