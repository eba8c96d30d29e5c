package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leadforge/leadforge/internal/auth"
	"github.com/leadforge/leadforge/internal/pkg/httputil"
	"github.com/leadforge/leadforge/internal/service/users"
)

// HandleListUsers serves GET /api/admin/users?status=pending.
func (h *Handlers) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r, 50, 200)
	list, total, err := h.users.List(r.Context(), users.ListFilter{
		Status: r.URL.Query().Get("status"),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, NewPaginatedResponse(list, p, total))
}

// HandleGetUser serves GET /api/admin/users/{id}.
func (h *Handlers) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUserErr(w, err)
		return
	}
	httputil.OK(w, u)
}

// HandleApproveUser serves POST /api/admin/users/{id}/approve.
func (h *Handlers) HandleApproveUser(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	u, err := h.users.Approve(r.Context(), session.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeUserErr(w, err)
		return
	}
	httputil.OK(w, u)
}

// HandleRejectUser serves POST /api/admin/users/{id}/reject.
func (h *Handlers) HandleRejectUser(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	u, err := h.users.Reject(r.Context(), session.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeUserErr(w, err)
		return
	}
	httputil.OK(w, u)
}

// HandleSuspendUser serves POST /api/admin/users/{id}/suspend.
func (h *Handlers) HandleSuspendUser(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	u, err := h.users.Suspend(r.Context(), session.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeUserErr(w, err)
		return
	}
	httputil.OK(w, u)
}

// HandleReinstateUser serves POST /api/admin/users/{id}/reinstate.
func (h *Handlers) HandleReinstateUser(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	u, err := h.users.Reinstate(r.Context(), session.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeUserErr(w, err)
		return
	}
	httputil.OK(w, u)
}

func writeUserErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, users.ErrNotFound):
		httputil.NotFound(w, "user not found")
	case errors.Is(err, users.ErrInvalidTransition):
		httputil.Conflict(w, "invalid status transition")
	default:
		httputil.InternalError(w, err)
	}
}
