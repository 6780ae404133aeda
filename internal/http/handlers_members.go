package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"savings/internal/auth"
	"savings/internal/core"
	"savings/internal/ledger"
)

type createMemberRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type membersResponse struct {
	Members    []core.MemberTotal `json:"members"`
	GrandTotal core.Money         `json:"grandTotal"`
}

// handleListMembers returns every member with their accumulated total, plus
// the ledger-wide grand total. The grand total can exceed the sum of member
// totals when unattributable records exist.
func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot error", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to load ledger")
		return
	}

	writeJSON(w, r, http.StatusOK, membersResponse{
		Members:    core.PerMemberTotals(snap.Members, snap.Records),
		GrandTotal: core.GrandTotal(snap.Records),
	})
}

func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	role := core.Role(req.Role)
	if req.Role == "" {
		role = core.RoleMember
	}

	m, err := s.svc.RegisterMember(r.Context(), sanitizeInput(req.Name), sanitizeInput(req.Email), req.Password, role)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrDuplicateEmail):
			writeError(w, r, http.StatusConflict, err.Error())
		case errors.Is(err, core.ErrEmptyName),
			errors.Is(err, core.ErrInvalidEmail),
			errors.Is(err, core.ErrInvalidRole),
			errors.Is(err, auth.ErrBadCredentials):
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Member create error", "error", err)
			writeError(w, r, http.StatusInternalServerError, "failed to create member")
		}
		return
	}

	// A new member shows up in the summary with a zero total right away.
	s.summaryCache.Purge()

	writeJSON(w, r, http.StatusCreated, m)
}
