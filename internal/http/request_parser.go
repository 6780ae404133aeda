package http

import (
	"fmt"
	"net/url"
	"strings"

	"savings/internal/core"
)

// dateRange holds the parsed start/end bounds of a report query. Both raw
// strings are kept for echoing back in the response.
type dateRange struct {
	start    core.Date
	end      core.Date
	startRaw string
	endRaw   string
}

// requested reports whether the caller supplied at least one bound. A
// half-open range is still "requested"; its total is zero by definition.
func (r dateRange) requested() bool {
	return r.startRaw != "" || r.endRaw != ""
}

func (r dateRange) cacheKey() string {
	if !r.requested() {
		return "summary"
	}
	return "summary:" + r.startRaw + ":" + r.endRaw
}

// parseDateRange extracts start/end query parameters. Empty bounds are
// allowed; malformed ones are not.
func parseDateRange(query url.Values) (dateRange, error) {
	rng := dateRange{
		startRaw: strings.TrimSpace(query.Get("start")),
		endRaw:   strings.TrimSpace(query.Get("end")),
	}

	if rng.startRaw != "" {
		d, err := core.ParseDate(rng.startRaw)
		if err != nil {
			return dateRange{}, fmt.Errorf("invalid start date %q, expected YYYY-MM-DD", rng.startRaw)
		}
		rng.start = d
	}
	if rng.endRaw != "" {
		d, err := core.ParseDate(rng.endRaw)
		if err != nil {
			return dateRange{}, fmt.Errorf("invalid end date %q, expected YYYY-MM-DD", rng.endRaw)
		}
		rng.end = d
	}
	return rng, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
