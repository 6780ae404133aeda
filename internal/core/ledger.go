package core

// Snapshot is an immutable, point-in-time view of the ledger: the member
// collection and the contribution records, as handed over by the data-access
// layer. Aggregations never observe a snapshot mid-refresh; callers build a
// new snapshot after a refresh completes.
type Snapshot struct {
	Members []Member       `json:"members"`
	Records []Contribution `json:"records"`
}

// MemberTotal pairs a member with their accumulated contributions.
type MemberTotal struct {
	Member
	Total Money `json:"total"`
}

// MemberStatement is one member's contribution history grouped by calendar
// date. ByDate is keyed by Date.Key and carries per-day sums; display
// ordering is the consumer's concern.
type MemberStatement struct {
	MemberID string           `json:"memberId"`
	ByDate   map[string]Money `json:"byDate"`
	Total    Money            `json:"total"`
}

// GrandTotal sums every record's amount. Attribution does not matter here:
// a record whose member reference resolves to nobody still counts.
func GrandTotal(records []Contribution) Money {
	var total Money
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total
}

// PerMemberTotals computes each member's total over the records attributable
// to them. The result is parallel to the input member slice and keeps its
// order; members without records get a zero total. Records that resolve to
// no listed member are silently left out.
func PerMemberTotals(members []Member, records []Contribution) []MemberTotal {
	totals := make([]MemberTotal, len(members))
	index := make(map[string]int, len(members))
	for i, m := range members {
		totals[i] = MemberTotal{Member: m}
		index[m.ID] = i
	}
	for _, r := range records {
		i, ok := index[r.Member.ID]
		if !ok {
			continue
		}
		totals[i].Total = totals[i].Total.Add(r.Amount)
	}
	return totals
}

// DateRangeTotal sums the records whose date falls within [start, end],
// inclusive on both ends. A range with either bound unset is not a range;
// the total is zero. Comparison is on normalized calendar dates, so two
// records written with different string representations of the same day
// compare equal.
func DateRangeTotal(records []Contribution, start, end Date) Money {
	var total Money
	if start.IsZero() || end.IsZero() {
		return total
	}
	for _, r := range records {
		if r.Date.IsZero() {
			continue
		}
		if r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		total = total.Add(r.Amount)
	}
	return total
}

// GroupByDateForMember filters the records attributable to memberID and
// buckets them by calendar date, summing within each bucket. An empty
// statement is a valid outcome for a member with no records.
func GroupByDateForMember(records []Contribution, memberID string) MemberStatement {
	stmt := MemberStatement{
		MemberID: memberID,
		ByDate:   make(map[string]Money),
	}
	if memberID == "" {
		return stmt
	}
	for _, r := range records {
		if r.Member.ID != memberID {
			continue
		}
		key := r.Date.Key()
		stmt.ByDate[key] = stmt.ByDate[key].Add(r.Amount)
		stmt.Total = stmt.Total.Add(r.Amount)
	}
	return stmt
}
