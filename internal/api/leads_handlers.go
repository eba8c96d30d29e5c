package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/leadforge/leadforge/internal/auth"
	"github.com/leadforge/leadforge/internal/campaign"
	"github.com/leadforge/leadforge/internal/domain"
	"github.com/leadforge/leadforge/internal/export"
	"github.com/leadforge/leadforge/internal/pkg/httputil"
	"github.com/leadforge/leadforge/internal/service/credits"
	"github.com/leadforge/leadforge/internal/service/leads"
)

// HandleListLeads serves GET /api/leads?job_id=&status=.
func (h *Handlers) HandleListLeads(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	p := ParsePagination(r, 100, 500)
	list, total, err := h.leads.List(r.Context(), leads.ListFilter{
		UserID: session.UserID,
		JobID:  r.URL.Query().Get("job_id"),
		Status: domain.EmailStatus(r.URL.Query().Get("status")),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, NewPaginatedResponse(list, p, total))
}

// HandleGetLead serves GET /api/leads/{id}.
func (h *Handlers) HandleGetLead(w http.ResponseWriter, r *http.Request) {
	lead, err := h.getOwnedLead(w, r)
	if err != nil {
		return
	}
	httputil.OK(w, lead)
}

// HandleLeadCandidates serves GET /api/leads/{id}/candidates?middle_name=.
func (h *Handlers) HandleLeadCandidates(w http.ResponseWriter, r *http.Request) {
	if _, err := h.getOwnedLead(w, r); err != nil {
		return
	}
	cands, err := h.leads.Candidates(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("middle_name"))
	if err != nil {
		writeLeadErr(w, err)
		return
	}
	httputil.OK(w, map[string]interface{}{"candidates": cands})
}

// HandleVerifyLead serves POST /api/leads/{id}/verify.
func (h *Handlers) HandleVerifyLead(w http.ResponseWriter, r *http.Request) {
	if _, err := h.getOwnedLead(w, r); err != nil {
		return
	}
	lead, err := h.leads.VerifyLead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeLeadErr(w, err)
		return
	}
	httputil.OK(w, lead)
}

// HandleExportLeads serves GET /api/leads/export. Query params: filter,
// job_id, columns (comma list), archive. The response body is the CSV.
func (h *Handlers) HandleExportLeads(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	filter := export.ValidityFilter(r.URL.Query().Get("filter"))
	if filter == "" {
		filter = export.FilterValidCatchAll
	}
	cols := parseColumns(r.URL.Query().Get("columns"))
	archive := r.URL.Query().Get("archive") == "true"

	res, err := h.leads.Export(r.Context(), session.UserID, r.URL.Query().Get("job_id"), filter, cols, archive)
	if err != nil {
		writeLeadErr(w, err)
		return
	}

	if res.ArchiveURL != "" {
		w.Header().Set("X-Archive-Location", res.ArchiveURL)
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="leads-%s.csv"`, time.Now().UTC().Format("20060102")))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(res.Body))
}

type campaignExportRequest struct {
	Platform   string `json:"platform"`
	CampaignID string `json:"campaign_id"`
	JobID      string `json:"job_id"`
	Filter     string `json:"filter"`
}

// HandleCampaignExport serves POST /api/leads/export/campaign.
func (h *Handlers) HandleCampaignExport(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		httputil.BadRequest(w, "no campaign platform is configured")
		return
	}

	var req campaignExportRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if req.Platform == "" || req.CampaignID == "" {
		httputil.BadRequest(w, "platform and campaign_id are required")
		return
	}
	filter := export.ValidityFilter(req.Filter)
	if req.Filter == "" {
		filter = export.FilterValidCatchAll
	}

	session := auth.SessionFromContext(r.Context())
	res, err := h.exporter.Export(r.Context(), session.UserID, req.JobID, req.Platform, req.CampaignID, filter)
	if err != nil {
		switch {
		case errors.Is(err, campaign.ErrUnknownPlatform):
			httputil.BadRequest(w, "unknown platform: "+req.Platform)
		case errors.Is(err, campaign.ErrBadFilter):
			httputil.BadRequest(w, "filter must be valid, valid_catchall, or catchall")
		case errors.Is(err, campaign.ErrNoLeads):
			httputil.BadRequest(w, "no leads match the export filter")
		case errors.Is(err, credits.ErrInsufficientCredits):
			httputil.PaymentRequired(w, "insufficient credits")
		default:
			httputil.InternalError(w, err)
		}
		return
	}
	httputil.OK(w, res)
}

// getOwnedLead loads the lead and enforces ownership; it writes the error
// response itself so callers just bail on error.
func (h *Handlers) getOwnedLead(w http.ResponseWriter, r *http.Request) (*domain.Lead, error) {
	lead, err := h.leads.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeLeadErr(w, err)
		return nil, err
	}
	if lead.UserID != auth.SessionFromContext(r.Context()).UserID {
		httputil.NotFound(w, "lead not found")
		return nil, leads.ErrNotFound
	}
	return lead, nil
}

// parseColumns maps a comma-separated column list to a selection. An
// empty list enables every column; unknown names are ignored.
func parseColumns(raw string) export.ColumnSelection {
	if raw == "" {
		return export.ColumnSelection{CompanyName: true, CompanyWebsite: true, LinkedInURL: true, ContactEmail: true}
	}
	var cols export.ColumnSelection
	for _, name := range strings.Split(raw, ",") {
		switch strings.TrimSpace(name) {
		case "company_name":
			cols.CompanyName = true
		case "company_website":
			cols.CompanyWebsite = true
		case "linkedin_url":
			cols.LinkedInURL = true
		case "contact_email":
			cols.ContactEmail = true
		}
	}
	return cols
}

func writeLeadErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, leads.ErrNotFound):
		httputil.NotFound(w, "lead not found")
	case errors.Is(err, leads.ErrBadFilter):
		httputil.BadRequest(w, "filter must be valid, valid_catchall, or catchall")
	default:
		httputil.InternalError(w, err)
	}
}
