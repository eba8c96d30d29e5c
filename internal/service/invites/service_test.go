package invites_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leadforge/leadforge/internal/domain"
	"github.com/leadforge/leadforge/internal/service/invites"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memInvites struct {
	mu   sync.Mutex
	byID map[string]*domain.Invite
}

func newMemInvites() *memInvites {
	return &memInvites{byID: make(map[string]*domain.Invite)}
}

func (m *memInvites) Get(_ context.Context, id string) (*domain.Invite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.byID[id]
	if !ok {
		return nil, invites.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *memInvites) GetByCode(_ context.Context, code string) (*domain.Invite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.byID {
		if inv.Code == code {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, invites.ErrNotFound
}

func (m *memInvites) List(_ context.Context, limit, offset int) ([]domain.Invite, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Invite
	for _, inv := range m.byID {
		out = append(out, *inv)
	}
	return out, len(out), nil
}

func (m *memInvites) Create(_ context.Context, inv *domain.Invite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *inv
	m.byID[cp.ID] = &cp
	return nil
}

func (m *memInvites) MarkRedeemed(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.byID[id]
	if !ok {
		return invites.ErrNotFound
	}
	if inv.Status != domain.InvitePending {
		return invites.ErrAlreadyRedeemed
	}
	inv.Status = domain.InviteRedeemed
	inv.RedeemedAt = &at
	return nil
}

func (m *memInvites) UpdateStatus(_ context.Context, id string, status domain.InviteStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.byID[id]
	if !ok {
		return invites.ErrNotFound
	}
	inv.Status = status
	return nil
}

type fakeUsers struct {
	provisioned []domain.User
}

func (f *fakeUsers) Provision(_ context.Context, email, name string, invitedBy *string) (*domain.User, error) {
	u := domain.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		Status:    domain.UserPending,
		InvitedBy: invitedBy,
	}
	f.provisioned = append(f.provisioned, u)
	return &u, nil
}

type fakeGranter struct {
	grants []domain.CreditEntry
}

func (f *fakeGranter) Grant(_ context.Context, userID string, amount int64, reason domain.CreditReason, ref, note string) (*domain.CreditEntry, error) {
	e := domain.CreditEntry{UserID: userID, Delta: amount, Reason: reason, Ref: ref}
	f.grants = append(f.grants, e)
	return &e, nil
}

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) SendInvite(_ context.Context, inv *domain.Invite) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, inv.Email)
	return nil
}

func TestCreateSendsInvite(t *testing.T) {
	repo := newMemInvites()
	sender := &fakeSender{}
	svc := invites.NewService(repo, &fakeUsers{}, &fakeGranter{}, sender, 7*24*time.Hour, 50)

	inv, err := svc.Create(context.Background(), "admin-1", " Prospect@Acme.com ", 0)
	require.NoError(t, err)

	assert.Equal(t, "prospect@acme.com", inv.Email)
	assert.Equal(t, int64(50), inv.Credits, "zero credits falls back to default grant")
	assert.Len(t, inv.Code, 32)
	assert.Equal(t, domain.InvitePending, inv.Status)
	assert.Equal(t, []string{"prospect@acme.com"}, sender.sent)
}

func TestCreateSurvivesSendFailure(t *testing.T) {
	repo := newMemInvites()
	svc := invites.NewService(repo, &fakeUsers{}, &fakeGranter{}, &fakeSender{err: errors.New("ses down")}, time.Hour, 50)

	inv, err := svc.Create(context.Background(), "admin-1", "prospect@acme.com", 25)
	require.NoError(t, err)

	stored, err := repo.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitePending, stored.Status)
}

func TestRedeemProvisionsAndGrants(t *testing.T) {
	repo := newMemInvites()
	usersSvc := &fakeUsers{}
	granter := &fakeGranter{}
	svc := invites.NewService(repo, usersSvc, granter, nil, time.Hour, 50)
	ctx := context.Background()

	inv, err := svc.Create(ctx, "admin-1", "prospect@acme.com", 75)
	require.NoError(t, err)

	u, err := svc.Redeem(ctx, inv.Code, "Pat Prospect")
	require.NoError(t, err)

	assert.Equal(t, "prospect@acme.com", u.Email)
	require.NotNil(t, u.InvitedBy)
	assert.Equal(t, "admin-1", *u.InvitedBy)

	require.Len(t, granter.grants, 1)
	assert.Equal(t, int64(75), granter.grants[0].Delta)
	assert.Equal(t, domain.CreditGrantInvite, granter.grants[0].Reason)
	assert.Equal(t, inv.ID, granter.grants[0].Ref)

	stored, err := repo.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InviteRedeemed, stored.Status)
	assert.NotNil(t, stored.RedeemedAt)
}

func TestRedeemTwiceFails(t *testing.T) {
	repo := newMemInvites()
	granter := &fakeGranter{}
	svc := invites.NewService(repo, &fakeUsers{}, granter, nil, time.Hour, 50)
	ctx := context.Background()

	inv, err := svc.Create(ctx, "admin-1", "prospect@acme.com", 10)
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, inv.Code, "Pat")
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, inv.Code, "Pat")
	assert.ErrorIs(t, err, invites.ErrAlreadyRedeemed)
	assert.Len(t, granter.grants, 1)
}

func TestRedeemExpiredInvite(t *testing.T) {
	repo := newMemInvites()
	svc := invites.NewService(repo, &fakeUsers{}, &fakeGranter{}, nil, -time.Minute, 50)
	ctx := context.Background()

	inv, err := svc.Create(ctx, "admin-1", "prospect@acme.com", 10)
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, inv.Code, "Pat")
	assert.ErrorIs(t, err, invites.ErrExpired)

	stored, err := repo.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InviteExpired, stored.Status, "expiry persisted lazily")
}

func TestRevoke(t *testing.T) {
	repo := newMemInvites()
	svc := invites.NewService(repo, &fakeUsers{}, &fakeGranter{}, nil, time.Hour, 50)
	ctx := context.Background()

	inv, err := svc.Create(ctx, "admin-1", "prospect@acme.com", 10)
	require.NoError(t, err)

	revoked, err := svc.Revoke(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InviteRevoked, revoked.Status)

	_, err = svc.Redeem(ctx, inv.Code, "Pat")
	assert.ErrorIs(t, err, invites.ErrRevoked)
}

func TestRevokeRedeemedFails(t *testing.T) {
	repo := newMemInvites()
	svc := invites.NewService(repo, &fakeUsers{}, &fakeGranter{}, nil, time.Hour, 50)
	ctx := context.Background()

	inv, err := svc.Create(ctx, "admin-1", "prospect@acme.com", 10)
	require.NoError(t, err)
	_, err = svc.Redeem(ctx, inv.Code, "Pat")
	require.NoError(t, err)

	_, err = svc.Revoke(ctx, inv.ID)
	assert.ErrorIs(t, err, invites.ErrAlreadyRedeemed)
}

func TestRedeemUnknownCode(t *testing.T) {
	svc := invites.NewService(newMemInvites(), &fakeUsers{}, &fakeGranter{}, nil, time.Hour, 50)
	_, err := svc.Redeem(context.Background(), "nope", "Pat")
	assert.ErrorIs(t, err, invites.ErrNotFound)
}
