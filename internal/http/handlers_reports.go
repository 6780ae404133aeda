package http

import (
	"log/slog"
	"net/http"

	"savings/internal/core"
	applog "savings/internal/log"
)

type summaryResponse struct {
	GrandTotal core.Money         `json:"grandTotal"`
	Members    []core.MemberTotal `json:"members"`
	RangeTotal *core.Money        `json:"rangeTotal,omitempty"`
	Start      string             `json:"start,omitempty"`
	End        string             `json:"end,omitempty"`
}

// handleSummary builds the admin report: grand total, per-member totals,
// and optionally the total over an inclusive date range. A range with only
// one bound supplied reports zero rather than guessing the other end.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rng, err := parseDateRange(r.URL.Query())
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	key := rng.cacheKey()
	if cached, found := s.summaryCache.Get(key); found {
		applog.FromContext(r.Context()).Debug("Summary cache hit", "range", key)
		writeJSON(w, r, http.StatusOK, cached)
		return
	}

	result, err, _ := s.reportGroup.Do(key, func() (any, error) {
		snap, err := s.store.Snapshot(r.Context())
		if err != nil {
			return nil, err
		}

		resp := summaryResponse{
			GrandTotal: core.GrandTotal(snap.Records),
			Members:    core.PerMemberTotals(snap.Members, snap.Records),
		}
		if rng.requested() {
			total := core.DateRangeTotal(snap.Records, rng.start, rng.end)
			resp.RangeTotal = &total
			resp.Start = rng.startRaw
			resp.End = rng.endRaw
		}
		s.summaryCache.Set(key, resp)
		return resp, nil
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary build error", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to build summary")
		return
	}

	writeJSON(w, r, http.StatusOK, result.(summaryResponse))
}
