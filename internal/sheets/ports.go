package sheets

import (
	"context"
	"errors"

	"savings/internal/core"
)

// Entry is one exported ledger row. MemberName may be empty when the
// contribution could not be attributed to a known member.
type Entry struct {
	ContributionID string
	MemberName     string
	Date           string // YYYY-MM-DD
	Amount         core.Money
}

func (e Entry) Validate() error {
	if e.ContributionID == "" {
		return errors.New("entry missing contribution id")
	}
	if e.Date == "" {
		return errors.New("entry missing date")
	}
	return nil
}

// Ports for outbound adapters.
type (
	ContributionAppender interface {
		Append(ctx context.Context, e Entry) (rowRef string, err error)
	}

	// TotalsReader reads back the exported ledger for reconciliation.
	TotalsReader interface {
		ReadYearTotal(ctx context.Context, year int) (core.Money, error)
	}
)
