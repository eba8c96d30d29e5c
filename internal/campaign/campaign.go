// Package campaign pushes verified leads into outbound email platforms
// (Instantly, Smartlead, PlusVibe) and bills the export.
package campaign

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/leadforge/leadforge/internal/domain"
	"github.com/leadforge/leadforge/internal/export"
	"github.com/leadforge/leadforge/internal/pkg/logger"
	"github.com/leadforge/leadforge/internal/service/credits"
)

// Sentinel errors for the campaign export layer.
var (
	ErrUnknownPlatform = errors.New("unknown campaign platform")
	ErrBadFilter       = errors.New("unknown export filter")
	ErrNoLeads         = errors.New("no leads match the export filter")
)

// Entry is the platform-neutral lead payload.
type Entry struct {
	Email       string
	FirstName   string
	LastName    string
	CompanyName string
	Website     string
}

// Pusher delivers entries into one platform's campaign and reports how
// many the platform accepted.
type Pusher interface {
	Name() string
	Push(ctx context.Context, campaignID string, entries []Entry) (int, error)
}

// LeadSource loads the leads eligible for export. Implemented by the
// leads repository.
type LeadSource interface {
	ListForExport(ctx context.Context, userID, jobID string) ([]domain.Lead, error)
}

// Charger is the slice of the credits service this package needs.
type Charger interface {
	Charge(ctx context.Context, userID string, amount int64, reason domain.CreditReason, ref, note string) (*domain.CreditEntry, error)
	Refund(ctx context.Context, userID string, amount int64, ref, note string) (*domain.CreditEntry, error)
}

// Result summarizes one finished campaign export.
type Result struct {
	ExportID       string `json:"export_id"`
	Platform       string `json:"platform"`
	CampaignID     string `json:"campaign_id"`
	Requested      int    `json:"requested"`
	Accepted       int    `json:"accepted"`
	CreditsCharged int64  `json:"credits_charged"`
}

// Exporter filters leads and pushes them to a registered platform.
type Exporter struct {
	source      LeadSource
	credits     Charger
	pushers     map[string]Pusher
	costPerLead int64
}

// NewExporter creates an exporter over the given platform pushers.
func NewExporter(source LeadSource, charger Charger, costPerLead int64, pushers ...Pusher) *Exporter {
	m := make(map[string]Pusher, len(pushers))
	for _, p := range pushers {
		m[p.Name()] = p
	}
	return &Exporter{source: source, credits: charger, pushers: m, costPerLead: costPerLead}
}

// Platforms lists the registered platform names.
func (e *Exporter) Platforms() []string {
	out := make([]string, 0, len(e.pushers))
	for name := range e.pushers {
		out = append(out, name)
	}
	return out
}

// Export filters the user's leads, charges the export, and pushes the
// batch to the target campaign. Leads the platform turned away are
// refunded; a push that fails outright refunds the whole charge.
func (e *Exporter) Export(ctx context.Context, userID, jobID, platform, campaignID string, filter export.ValidityFilter) (*Result, error) {
	pusher, ok := e.pushers[platform]
	if !ok {
		return nil, ErrUnknownPlatform
	}
	if !filter.Valid() {
		return nil, ErrBadFilter
	}

	all, err := e.source.ListForExport(ctx, userID, jobID)
	if err != nil {
		return nil, fmt.Errorf("load leads: %w", err)
	}

	var entries []Entry
	for _, l := range all {
		if !export.Matches(l.EmailStatus, filter) {
			continue
		}
		entries = append(entries, Entry{
			Email:       l.Email,
			FirstName:   l.FirstName,
			LastName:    l.LastName,
			CompanyName: l.CompanyName,
			Website:     l.Website,
		})
	}
	if len(entries) == 0 {
		return nil, ErrNoLeads
	}

	res := &Result{
		ExportID:   uuid.New().String(),
		Platform:   platform,
		CampaignID: campaignID,
		Requested:  len(entries),
	}

	charge := int64(len(entries)) * e.costPerLead
	if charge > 0 {
		if _, err := e.credits.Charge(ctx, userID, charge, domain.CreditChargeExport, res.ExportID, fmt.Sprintf("export %d leads to %s", len(entries), platform)); err != nil {
			return nil, err
		}
		res.CreditsCharged = charge
	}

	accepted, err := pusher.Push(ctx, campaignID, entries)
	res.Accepted = accepted
	if err != nil {
		e.refund(ctx, userID, int64(len(entries)-accepted)*e.costPerLead, res.ExportID, "campaign push failed")
		return res, fmt.Errorf("push to %s: %w", platform, err)
	}
	if accepted < len(entries) {
		e.refund(ctx, userID, int64(len(entries)-accepted)*e.costPerLead, res.ExportID, "platform skipped leads")
	}

	logger.Info("campaign export finished", "platform", platform, "campaign_id", campaignID,
		"requested", res.Requested, "accepted", res.Accepted)
	return res, nil
}

func (e *Exporter) refund(ctx context.Context, userID string, amount int64, ref, note string) {
	if amount <= 0 {
		return
	}
	if _, err := e.credits.Refund(ctx, userID, amount, ref, note); err != nil {
		if errors.Is(err, credits.ErrAlreadyRefunded) {
			return
		}
		logger.Error("export refund failed", "ref", ref, "amount", amount, "error", err)
	}
}
