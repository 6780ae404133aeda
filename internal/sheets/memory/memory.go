package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"savings/internal/core"
	ports "savings/internal/sheets"
)

// Store is an in-memory ledger export, used when no spreadsheet is
// configured and in tests.
type Store struct {
	mu      sync.Mutex
	entries []ports.Entry
}

var (
	_ ports.ContributionAppender = (*Store)(nil)
	_ ports.TotalsReader         = (*Store)(nil)
)

func New() *Store {
	return &Store{}
}

// Append stores the entry and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, e ports.Entry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return fmt.Sprintf("mem:%d", len(s.entries)), nil
}

// ReadYearTotal sums entries whose date falls in the given year.
func (s *Store) ReadYearTotal(_ context.Context, year int) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, e := range s.entries {
		if len(e.Date) < 4 {
			continue
		}
		if y, err := strconv.Atoi(e.Date[0:4]); err == nil && y == year {
			total += e.Amount.Cents
		}
	}
	return core.Money{Cents: total}, nil
}

// Entries returns a copy of everything appended so far.
func (s *Store) Entries() []ports.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.Entry(nil), s.entries...)
}
