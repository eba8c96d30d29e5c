package campaign

import (
	"context"

	"github.com/leadforge/leadforge/internal/instantly"
	"github.com/leadforge/leadforge/internal/plusvibe"
	"github.com/leadforge/leadforge/internal/smartlead"
)

// InstantlyPusher adapts the Instantly client to the Pusher interface.
type InstantlyPusher struct{ Client *instantly.Client }

func (p InstantlyPusher) Name() string { return "instantly" }

func (p InstantlyPusher) Push(ctx context.Context, campaignID string, entries []Entry) (int, error) {
	leads := make([]instantly.Lead, len(entries))
	for i, e := range entries {
		leads[i] = instantly.Lead{
			Email:       e.Email,
			FirstName:   e.FirstName,
			LastName:    e.LastName,
			CompanyName: e.CompanyName,
			Website:     e.Website,
		}
	}
	return p.Client.AddLeads(ctx, campaignID, leads)
}

// SmartleadPusher adapts the Smartlead client to the Pusher interface.
type SmartleadPusher struct{ Client *smartlead.Client }

func (p SmartleadPusher) Name() string { return "smartlead" }

func (p SmartleadPusher) Push(ctx context.Context, campaignID string, entries []Entry) (int, error) {
	leads := make([]smartlead.Lead, len(entries))
	for i, e := range entries {
		leads[i] = smartlead.Lead{
			Email:       e.Email,
			FirstName:   e.FirstName,
			LastName:    e.LastName,
			CompanyName: e.CompanyName,
			Website:     e.Website,
		}
	}
	return p.Client.AddLeads(ctx, campaignID, leads)
}

// PlusVibePusher adapts the PlusVibe client to the Pusher interface.
type PlusVibePusher struct{ Client *plusvibe.Client }

func (p PlusVibePusher) Name() string { return "plusvibe" }

func (p PlusVibePusher) Push(ctx context.Context, campaignID string, entries []Entry) (int, error) {
	leads := make([]plusvibe.Lead, len(entries))
	for i, e := range entries {
		leads[i] = plusvibe.Lead{
			Email:       e.Email,
			FirstName:   e.FirstName,
			LastName:    e.LastName,
			CompanyName: e.CompanyName,
			Website:     e.Website,
		}
	}
	return p.Client.AddLeads(ctx, campaignID, leads)
}
