package api

import (
	"github.com/leadforge/leadforge/internal/campaign"
	"github.com/leadforge/leadforge/internal/service/credits"
	"github.com/leadforge/leadforge/internal/service/invites"
	"github.com/leadforge/leadforge/internal/service/leads"
	"github.com/leadforge/leadforge/internal/service/scrape"
	"github.com/leadforge/leadforge/internal/service/users"
)

// Handlers bundles the service layer for the HTTP handlers. Any field may
// be nil when its feature is disabled; routes for nil services are not
// registered.
type Handlers struct {
	users    *users.Service
	invites  *invites.Service
	credits  *credits.Service
	scrape   *scrape.Service
	leads    *leads.Service
	exporter *campaign.Exporter
	health   *HealthChecker
}

// NewHandlers creates the handler set.
func NewHandlers(
	usersSvc *users.Service,
	invitesSvc *invites.Service,
	creditsSvc *credits.Service,
	scrapeSvc *scrape.Service,
	leadsSvc *leads.Service,
	exporter *campaign.Exporter,
	health *HealthChecker,
) *Handlers {
	return &Handlers{
		users:    usersSvc,
		invites:  invitesSvc,
		credits:  creditsSvc,
		scrape:   scrapeSvc,
		leads:    leadsSvc,
		exporter: exporter,
		health:   health,
	}
}
