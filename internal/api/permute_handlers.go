package api

import (
	"errors"
	"net/http"

	"github.com/leadforge/leadforge/internal/permute"
	"github.com/leadforge/leadforge/internal/pkg/httputil"
)

type permuteRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	MiddleName string `json:"middle_name"`
	Domain     string `json:"domain"`
}

type candidatesResponse struct {
	Candidates []permute.Candidate `json:"candidates"`
}

// The candidate edit endpoints are stateless: the client holds the working
// list and posts it back with each edit. That keeps the permutation flow
// usable before a lead exists in the database.
type editCandidatesRequest struct {
	Candidates []permute.Candidate `json:"candidates"`
	Index      int                 `json:"index"`
	Email      string              `json:"email"`
	Domain     string              `json:"domain"`
}

// HandleGeneratePermutations serves POST /api/permute.
func (h *Handlers) HandleGeneratePermutations(w http.ResponseWriter, r *http.Request) {
	var req permuteRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	cands := permute.Generate(permute.NameParts{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		MiddleName: req.MiddleName,
	}, req.Domain)
	httputil.OK(w, candidatesResponse{Candidates: cands})
}

// HandleAddCustomCandidate serves POST /api/permute/custom.
func (h *Handlers) HandleAddCustomCandidate(w http.ResponseWriter, r *http.Request) {
	var req editCandidatesRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	httputil.OK(w, candidatesResponse{Candidates: permute.AddCustom(req.Candidates, req.Domain)})
}

// HandleRemoveCandidate serves POST /api/permute/remove.
func (h *Handlers) HandleRemoveCandidate(w http.ResponseWriter, r *http.Request) {
	var req editCandidatesRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	cands, err := permute.Remove(req.Candidates, req.Index)
	if err != nil {
		writePermuteErr(w, err)
		return
	}
	httputil.OK(w, candidatesResponse{Candidates: cands})
}

// HandleUpdateCandidate serves POST /api/permute/update.
func (h *Handlers) HandleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	var req editCandidatesRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	cands, err := permute.UpdateEmail(req.Candidates, req.Index, req.Email)
	if err != nil {
		writePermuteErr(w, err)
		return
	}
	httputil.OK(w, candidatesResponse{Candidates: cands})
}

func writePermuteErr(w http.ResponseWriter, err error) {
	if errors.Is(err, permute.ErrIndexOutOfRange) {
		httputil.BadRequest(w, "candidate index out of range")
		return
	}
	httputil.InternalError(w, err)
}
