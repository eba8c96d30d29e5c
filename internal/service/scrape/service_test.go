package scrape_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/leadforge/leadforge/internal/domain"
	"github.com/leadforge/leadforge/internal/service/credits"
	"github.com/leadforge/leadforge/internal/service/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memJobs struct {
	mu   sync.Mutex
	byID map[string]*domain.ScrapeJob
}

func newMemJobs() *memJobs {
	return &memJobs{byID: make(map[string]*domain.ScrapeJob)}
}

func (m *memJobs) Get(_ context.Context, id string) (*domain.ScrapeJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.byID[id]
	if !ok {
		return nil, scrape.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *memJobs) List(_ context.Context, userID string, limit, offset int) ([]domain.ScrapeJob, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ScrapeJob
	for _, j := range m.byID {
		if j.UserID == userID {
			out = append(out, *j)
		}
	}
	return out, len(out), nil
}

func (m *memJobs) ListActive(_ context.Context) ([]domain.ScrapeJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ScrapeJob
	for _, j := range m.byID {
		if !j.Status.Terminal() {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (m *memJobs) Create(_ context.Context, job *domain.ScrapeJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *job
	m.byID[cp.ID] = &cp
	return nil
}

func (m *memJobs) Update(_ context.Context, job *domain.ScrapeJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[job.ID]; !ok {
		return scrape.ErrNotFound
	}
	cp := *job
	m.byID[cp.ID] = &cp
	return nil
}

// fakeEngine scripts the engine's answers.
type fakeEngine struct {
	submitErr error
	state     scrape.EngineJobState
	results   []scrape.EngineLead
	cancelled []string
	submitted []scrape.EngineRequest
}

func (f *fakeEngine) Submit(_ context.Context, req scrape.EngineRequest) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submitted = append(f.submitted, req)
	return "eng-1", nil
}

func (f *fakeEngine) Status(_ context.Context, _ string) (*scrape.EngineJobState, error) {
	st := f.state
	return &st, nil
}

func (f *fakeEngine) Results(_ context.Context, _ string) ([]scrape.EngineLead, error) {
	return f.results, nil
}

func (f *fakeEngine) Cancel(_ context.Context, id string) error {
	f.cancelled = append(f.cancelled, id)
	return nil
}

type memLeads struct {
	mu    sync.Mutex
	leads []domain.Lead
}

func (m *memLeads) InsertBatch(_ context.Context, leads []domain.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads = append(m.leads, leads...)
	return nil
}

// fakeLedger enforces a balance and at most one refund per ref.
type fakeLedger struct {
	mu       sync.Mutex
	balance  int64
	refunded map[string]bool
	charges  []int64
	refunds  []int64
}

func newFakeLedger(balance int64) *fakeLedger {
	return &fakeLedger{balance: balance, refunded: make(map[string]bool)}
}

func (f *fakeLedger) Charge(_ context.Context, userID string, amount int64, reason domain.CreditReason, ref, note string) (*domain.CreditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.balance < amount {
		return nil, credits.ErrInsufficientCredits
	}
	f.balance -= amount
	f.charges = append(f.charges, amount)
	return &domain.CreditEntry{UserID: userID, Delta: -amount, Reason: reason, Ref: ref}, nil
}

func (f *fakeLedger) Refund(_ context.Context, userID string, amount int64, ref, note string) (*domain.CreditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refunded[ref] {
		return nil, credits.ErrAlreadyRefunded
	}
	f.refunded[ref] = true
	f.balance += amount
	f.refunds = append(f.refunds, amount)
	return &domain.CreditEntry{UserID: userID, Delta: amount, Reason: domain.CreditRefund, Ref: ref}, nil
}

func TestCreateChargesEstimateAndSubmits(t *testing.T) {
	repo := newMemJobs()
	engine := &fakeEngine{}
	ledger := newFakeLedger(100)
	svc := scrape.NewService(repo, engine, &memLeads{}, ledger, 2, time.Hour)

	job, err := svc.Create(context.Background(), "user-1", "plumbers", "Austin, TX", 10)
	require.NoError(t, err)

	assert.Equal(t, domain.JobQueued, job.Status)
	assert.Equal(t, "eng-1", job.EngineJobID)
	assert.Equal(t, int64(20), job.CreditsCharged)
	assert.Equal(t, int64(80), ledger.balance)
	require.Len(t, engine.submitted, 1)
	assert.Equal(t, 10, engine.submitted[0].MaxResults)
}

func TestCreateInsufficientCredits(t *testing.T) {
	engine := &fakeEngine{}
	svc := scrape.NewService(newMemJobs(), engine, &memLeads{}, newFakeLedger(5), 2, time.Hour)

	_, err := svc.Create(context.Background(), "user-1", "plumbers", "", 10)
	assert.ErrorIs(t, err, credits.ErrInsufficientCredits)
	assert.Empty(t, engine.submitted, "nothing submitted without a charge")
}

func TestCreateSubmitFailureRefunds(t *testing.T) {
	ledger := newFakeLedger(100)
	engine := &fakeEngine{submitErr: errors.New("engine down")}
	svc := scrape.NewService(newMemJobs(), engine, &memLeads{}, ledger, 2, time.Hour)

	_, err := svc.Create(context.Background(), "user-1", "plumbers", "", 10)
	require.Error(t, err)
	assert.Equal(t, int64(100), ledger.balance, "upfront charge refunded")
}

// brokenCreateJobs fails every Create, like a store outage after the
// engine has already accepted the job.
type brokenCreateJobs struct {
	*memJobs
}

func (b *brokenCreateJobs) Create(context.Context, *domain.ScrapeJob) error {
	return errors.New("store unavailable")
}

func TestCreatePersistFailureRefundsAndCancelsEngine(t *testing.T) {
	ledger := newFakeLedger(100)
	engine := &fakeEngine{}
	svc := scrape.NewService(&brokenCreateJobs{newMemJobs()}, engine, &memLeads{}, ledger, 2, time.Hour)

	_, err := svc.Create(context.Background(), "user-1", "plumbers", "", 10)
	require.Error(t, err)

	assert.Equal(t, []int64{20}, ledger.charges, "estimate charged before submit")
	assert.Equal(t, []int64{20}, ledger.refunds, "full estimate refunded")
	assert.Equal(t, int64(100), ledger.balance)
	assert.Equal(t, []string{"eng-1"}, engine.cancelled, "accepted engine job stopped")
}

func TestCreateRejectsBadInput(t *testing.T) {
	svc := scrape.NewService(newMemJobs(), &fakeEngine{}, &memLeads{}, newFakeLedger(100), 2, time.Hour)

	_, err := svc.Create(context.Background(), "user-1", "  ", "", 10)
	assert.ErrorIs(t, err, scrape.ErrInvalidJob)
	_, err = svc.Create(context.Background(), "user-1", "plumbers", "", 0)
	assert.ErrorIs(t, err, scrape.ErrInvalidJob)
}

func TestReconcileCompletedImportsAndRefundsUnused(t *testing.T) {
	repo := newMemJobs()
	leads := &memLeads{}
	ledger := newFakeLedger(100)
	engine := &fakeEngine{}
	svc := scrape.NewService(repo, engine, leads, ledger, 2, time.Hour)
	ctx := context.Background()

	job, err := svc.Create(ctx, "user-1", "plumbers", "", 10)
	require.NoError(t, err)

	engine.state = scrape.EngineJobState{Status: domain.JobCompleted}
	engine.results = []scrape.EngineLead{
		{CompanyName: "Acme Plumbing", Website: "acme.com", FirstName: "Jo", LastName: "Pipe", Email: "jo@acme.com"},
		{CompanyName: "Drains R Us", Website: "drains.example"},
	}

	require.NoError(t, svc.ReconcileActive(ctx))

	stored, err := repo.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, stored.Status)
	assert.Equal(t, 2, stored.LeadsFound)
	assert.NotNil(t, stored.FinishedAt)

	require.Len(t, leads.leads, 2)
	assert.Equal(t, job.ID, leads.leads[0].JobID)
	assert.Equal(t, "user-1", leads.leads[0].UserID)

	// Charged 20 for 10 leads, got 2, so 16 comes back.
	assert.Equal(t, []int64{16}, ledger.refunds)
	assert.Equal(t, int64(96), ledger.balance)
}

func TestReconcileFailedRefundsFull(t *testing.T) {
	repo := newMemJobs()
	ledger := newFakeLedger(100)
	engine := &fakeEngine{}
	svc := scrape.NewService(repo, engine, &memLeads{}, ledger, 2, time.Hour)
	ctx := context.Background()

	job, err := svc.Create(ctx, "user-1", "plumbers", "", 10)
	require.NoError(t, err)

	engine.state = scrape.EngineJobState{Status: domain.JobFailed, Error: "blocked"}
	require.NoError(t, svc.ReconcileActive(ctx))

	stored, _ := repo.Get(ctx, job.ID)
	assert.Equal(t, domain.JobFailed, stored.Status)
	assert.Equal(t, "blocked", stored.Error)
	assert.Equal(t, int64(100), ledger.balance)

	// A retried reconcile pass must not refund twice.
	require.NoError(t, svc.Reconcile(ctx, stored))
	assert.Equal(t, int64(100), ledger.balance)
}

func TestReconcileRunningUpdatesProgress(t *testing.T) {
	repo := newMemJobs()
	engine := &fakeEngine{}
	svc := scrape.NewService(repo, engine, &memLeads{}, newFakeLedger(100), 2, time.Hour)
	ctx := context.Background()

	job, err := svc.Create(ctx, "user-1", "plumbers", "", 10)
	require.NoError(t, err)

	engine.state = scrape.EngineJobState{Status: domain.JobRunning, LeadsFound: 4}
	require.NoError(t, svc.ReconcileActive(ctx))

	stored, _ := repo.Get(ctx, job.ID)
	assert.Equal(t, domain.JobRunning, stored.Status)
	assert.Equal(t, 4, stored.LeadsFound)
}

func TestReconcileOverdueJobFails(t *testing.T) {
	repo := newMemJobs()
	ledger := newFakeLedger(0)
	engine := &fakeEngine{}
	svc := scrape.NewService(repo, engine, &memLeads{}, ledger, 0, time.Hour)
	ctx := context.Background()

	started := time.Now().Add(-2 * time.Hour)
	job := &domain.ScrapeJob{
		ID:             "job-1",
		UserID:         "user-1",
		EngineJobID:    "eng-1",
		Query:          "plumbers",
		MaxResults:     10,
		Status:         domain.JobRunning,
		CreditsCharged: 20,
		StartedAt:      &started,
	}
	require.NoError(t, repo.Create(ctx, job))

	require.NoError(t, svc.ReconcileActive(ctx))

	stored, _ := repo.Get(ctx, "job-1")
	assert.Equal(t, domain.JobFailed, stored.Status)
	assert.Equal(t, "exceeded max run duration", stored.Error)
	assert.Equal(t, []string{"eng-1"}, engine.cancelled)
	assert.Equal(t, []int64{20}, ledger.refunds)
}

func TestCancelRefundsAndStopsEngine(t *testing.T) {
	repo := newMemJobs()
	ledger := newFakeLedger(100)
	engine := &fakeEngine{}
	svc := scrape.NewService(repo, engine, &memLeads{}, ledger, 2, time.Hour)
	ctx := context.Background()

	job, err := svc.Create(ctx, "user-1", "plumbers", "", 10)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobCancelled, cancelled.Status)
	assert.Equal(t, []string{"eng-1"}, engine.cancelled)
	assert.Equal(t, int64(100), ledger.balance)

	_, err = svc.Cancel(ctx, job.ID)
	assert.ErrorIs(t, err, scrape.ErrJobTerminal)
}
