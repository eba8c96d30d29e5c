package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leadforge/leadforge/internal/auth"
	"github.com/leadforge/leadforge/internal/pkg/httputil"
	"github.com/leadforge/leadforge/internal/service/credits"
	"github.com/leadforge/leadforge/internal/service/scrape"
)

type createJobRequest struct {
	Query      string `json:"query"`
	Location   string `json:"location"`
	MaxResults int    `json:"max_results"`
}

// HandleCreateJob serves POST /api/jobs.
func (h *Handlers) HandleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	session := auth.SessionFromContext(r.Context())
	job, err := h.scrape.Create(r.Context(), session.UserID, req.Query, req.Location, req.MaxResults)
	if err != nil {
		writeJobErr(w, err)
		return
	}
	httputil.Created(w, job)
}

// HandleListJobs serves GET /api/jobs.
func (h *Handlers) HandleListJobs(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	p := ParsePagination(r, 50, 200)
	jobs, total, err := h.scrape.List(r.Context(), session.UserID, p.Limit, p.Offset)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, NewPaginatedResponse(jobs, p, total))
}

// HandleGetJob serves GET /api/jobs/{id}.
func (h *Handlers) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.scrape.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJobErr(w, err)
		return
	}
	if job.UserID != auth.SessionFromContext(r.Context()).UserID {
		httputil.NotFound(w, "scrape job not found")
		return
	}
	httputil.OK(w, job)
}

// HandleCancelJob serves POST /api/jobs/{id}/cancel.
func (h *Handlers) HandleCancelJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.scrape.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJobErr(w, err)
		return
	}
	if job.UserID != auth.SessionFromContext(r.Context()).UserID {
		httputil.NotFound(w, "scrape job not found")
		return
	}

	cancelled, err := h.scrape.Cancel(r.Context(), job.ID)
	if err != nil {
		writeJobErr(w, err)
		return
	}
	httputil.OK(w, cancelled)
}

func writeJobErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scrape.ErrNotFound):
		httputil.NotFound(w, "scrape job not found")
	case errors.Is(err, scrape.ErrInvalidJob):
		httputil.BadRequest(w, "query and a positive max_results are required")
	case errors.Is(err, scrape.ErrJobTerminal):
		httputil.Conflict(w, "scrape job already finished")
	case errors.Is(err, credits.ErrInsufficientCredits):
		httputil.PaymentRequired(w, "insufficient credits")
	default:
		httputil.InternalError(w, err)
	}
}
