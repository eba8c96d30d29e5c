package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leadforge/leadforge/internal/auth"
	"github.com/leadforge/leadforge/internal/domain"
	"github.com/leadforge/leadforge/internal/pkg/httputil"
)

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

type grantCreditsRequest struct {
	Amount int64  `json:"amount"`
	Note   string `json:"note"`
}

// HandleGetBalance serves GET /api/credits/balance.
func (h *Handlers) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	balance, err := h.credits.Balance(r.Context(), session.UserID)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, balanceResponse{Balance: balance})
}

// HandleCreditHistory serves GET /api/credits/history.
func (h *Handlers) HandleCreditHistory(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	p := ParsePagination(r, 50, 200)
	entries, total, err := h.credits.History(r.Context(), session.UserID, p.Limit, p.Offset)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, NewPaginatedResponse(entries, p, total))
}

// HandleGrantCredits serves POST /api/admin/users/{id}/credits.
func (h *Handlers) HandleGrantCredits(w http.ResponseWriter, r *http.Request) {
	var req grantCreditsRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if req.Amount <= 0 {
		httputil.BadRequest(w, "amount must be positive")
		return
	}

	session := auth.SessionFromContext(r.Context())
	entry, err := h.credits.Grant(r.Context(), chi.URLParam(r, "id"), req.Amount,
		domain.CreditGrantManual, session.UserID, req.Note)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.Created(w, entry)
}
