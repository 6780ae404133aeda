package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"savings/internal/core"
)

type createContributionRequest struct {
	MemberID string `json:"memberId"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
}

type contributionsResponse struct {
	Records []core.Contribution `json:"records"`
	Total   core.Money          `json:"total"`
}

func (s *Server) handleListContributions(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot error", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to load ledger")
		return
	}

	records := snap.Records
	if memberID := strings.TrimSpace(r.URL.Query().Get("member")); memberID != "" {
		filtered := make([]core.Contribution, 0, len(records))
		for _, rec := range records {
			if rec.Member.ID == memberID {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	writeJSON(w, r, http.StatusOK, contributionsResponse{
		Records: records,
		Total:   core.GrandTotal(records),
	})
}

// handleCreateContribution records a deposit. The amount arrives as a
// decimal string and is parsed strictly; only positive values are accepted.
func (s *Server) handleCreateContribution(w http.ResponseWriter, r *http.Request) {
	var req createContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid amount")
		return
	}
	date, err := core.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
		return
	}

	c, err := s.svc.RecordContribution(r.Context(), strings.TrimSpace(req.MemberID), core.Money{Cents: cents}, date)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEmptyMember),
			errors.Is(err, core.ErrInvalidAmount),
			errors.Is(err, core.ErrInvalidDate):
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Contribution create error", "error", err)
			writeError(w, r, http.StatusInternalServerError, "failed to record contribution")
		}
		return
	}

	// New records change every cached report.
	s.summaryCache.Purge()

	writeJSON(w, r, http.StatusCreated, c)
}

// handleMyContributions gives a member their own history grouped by date.
func (s *Server) handleMyContributions(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	if session == nil {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot error", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to load ledger")
		return
	}

	writeJSON(w, r, http.StatusOK, core.GroupByDateForMember(snap.Records, session.MemberID))
}
