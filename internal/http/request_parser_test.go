package http

import (
	"net/url"
	"testing"
)

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantErr   bool
		requested bool
	}{
		{"both bounds", "start=2025-01-01&end=2025-12-31", false, true},
		{"start only", "start=2025-01-01", false, true},
		{"end only", "end=2025-12-31", false, true},
		{"no bounds", "", false, false},
		{"whitespace bounds", "start=%20%20&end=", false, false},
		{"malformed start", "start=garbage&end=2025-12-31", true, false},
		{"malformed end", "start=2025-01-01&end=31-12-2025", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			rng, err := parseDateRange(q)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rng.requested() != tt.requested {
				t.Errorf("requested() = %v, want %v", rng.requested(), tt.requested)
			}
		})
	}
}

func TestDateRangeCacheKey(t *testing.T) {
	q, _ := url.ParseQuery("start=2025-01-01&end=2025-06-30")
	rng, err := parseDateRange(q)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rng.cacheKey() != "summary:2025-01-01:2025-06-30" {
		t.Errorf("cacheKey = %q", rng.cacheKey())
	}

	empty, _ := parseDateRange(url.Values{})
	if empty.cacheKey() != "summary" {
		t.Errorf("empty cacheKey = %q", empty.cacheKey())
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Ann  ", "Ann"},
		{"Ann\x00Smith", "AnnSmith"},
		{"line\nbreak", "line\nbreak"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
