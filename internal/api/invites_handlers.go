package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leadforge/leadforge/internal/auth"
	"github.com/leadforge/leadforge/internal/pkg/httputil"
	"github.com/leadforge/leadforge/internal/service/invites"
)

type createInviteRequest struct {
	Email   string `json:"email"`
	Credits int64  `json:"credits"`
}

type redeemInviteRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// HandleCreateInvite serves POST /api/admin/invites.
func (h *Handlers) HandleCreateInvite(w http.ResponseWriter, r *http.Request) {
	var req createInviteRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if req.Email == "" {
		httputil.BadRequest(w, "email is required")
		return
	}

	session := auth.SessionFromContext(r.Context())
	inv, err := h.invites.Create(r.Context(), session.UserID, req.Email, req.Credits)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.Created(w, inv)
}

// HandleListInvites serves GET /api/admin/invites.
func (h *Handlers) HandleListInvites(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r, 50, 200)
	list, total, err := h.invites.List(r.Context(), p.Limit, p.Offset)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, NewPaginatedResponse(list, p, total))
}

// HandleRevokeInvite serves POST /api/admin/invites/{id}/revoke.
func (h *Handlers) HandleRevokeInvite(w http.ResponseWriter, r *http.Request) {
	inv, err := h.invites.Revoke(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeInviteErr(w, err)
		return
	}
	httputil.OK(w, inv)
}

// HandleRedeemInvite serves POST /auth/redeem. Unauthenticated: the
// prospect has a code, not an account.
func (h *Handlers) HandleRedeemInvite(w http.ResponseWriter, r *http.Request) {
	var req redeemInviteRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if req.Code == "" {
		httputil.BadRequest(w, "code is required")
		return
	}

	u, err := h.invites.Redeem(r.Context(), req.Code, req.Name)
	if err != nil {
		writeInviteErr(w, err)
		return
	}
	httputil.OK(w, u)
}

func writeInviteErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, invites.ErrNotFound):
		httputil.NotFound(w, "invite not found")
	case errors.Is(err, invites.ErrAlreadyRedeemed):
		httputil.Conflict(w, "invite already redeemed")
	case errors.Is(err, invites.ErrRevoked):
		httputil.Conflict(w, "invite revoked")
	case errors.Is(err, invites.ErrExpired):
		httputil.Conflict(w, "invite expired")
	default:
		httputil.InternalError(w, err)
	}
}
