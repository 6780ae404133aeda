package core

import (
	"encoding/json"
	"testing"
	"time"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Members: []Member{
			{ID: "m1", Name: "Ann", Email: "ann@example.com"},
			{ID: "m2", Name: "Bo", Email: "bo@example.com"},
		},
		Records: []Contribution{
			{ID: "r1", Member: MemberRef{ID: "m1"}, Amount: Money{Cents: 10000}, Date: NewDate(2025, time.January, 1)},
			{ID: "r2", Member: MemberRef{ID: "m1"}, Amount: Money{Cents: 5000}, Date: NewDate(2025, time.January, 2)},
			{ID: "r3", Member: MemberRef{ID: "m2"}, Amount: Money{Cents: 7500}, Date: NewDate(2025, time.January, 1)},
		},
	}
}

func TestGrandTotal(t *testing.T) {
	snap := testSnapshot()
	if got := GrandTotal(snap.Records); got.Cents != 22500 {
		t.Fatalf("grand total = %d cents, want 22500", got.Cents)
	}
	if got := GrandTotal(nil); got.Cents != 0 {
		t.Fatalf("empty grand total = %d cents, want 0", got.Cents)
	}
}

func TestGrandTotalCountsUnattributableRecords(t *testing.T) {
	snap := testSnapshot()
	records := append(snap.Records, Contribution{
		ID: "r4", Member: MemberRef{ID: "ghost"}, Amount: Money{Cents: 100}, Date: NewDate(2025, time.January, 3),
	})

	if got := GrandTotal(records); got.Cents != 22600 {
		t.Fatalf("grand total = %d cents, want 22600", got.Cents)
	}

	// The unattributable record must not leak into any per-member total.
	totals := PerMemberTotals(snap.Members, records)
	var sum int64
	for _, mt := range totals {
		sum += mt.Total.Cents
	}
	if sum != 22500 {
		t.Fatalf("sum of member totals = %d cents, want 22500", sum)
	}
}

func TestPerMemberTotals(t *testing.T) {
	snap := testSnapshot()
	totals := PerMemberTotals(snap.Members, snap.Records)
	if len(totals) != 2 {
		t.Fatalf("want 2 entries, got %d", len(totals))
	}
	// Input member ordering is preserved, never re-sorted by total.
	if totals[0].ID != "m1" || totals[0].Total.Cents != 15000 {
		t.Fatalf("entry 0 = %s/%d, want m1/15000", totals[0].ID, totals[0].Total.Cents)
	}
	if totals[1].ID != "m2" || totals[1].Total.Cents != 7500 {
		t.Fatalf("entry 1 = %s/%d, want m2/7500", totals[1].ID, totals[1].Total.Cents)
	}
	if totals[0].Name != "Ann" || totals[1].Name != "Bo" {
		t.Fatalf("member attributes not carried through: %+v", totals)
	}
}

func TestPerMemberTotalsNoRecords(t *testing.T) {
	members := []Member{{ID: "m9", Name: "Idle", Email: "idle@example.com"}}
	totals := PerMemberTotals(members, nil)
	if len(totals) != 1 || totals[0].Total.Cents != 0 {
		t.Fatalf("member without records should total 0, got %+v", totals)
	}
}

func TestDateRangeTotal(t *testing.T) {
	records := testSnapshot().Records
	cases := []struct {
		name       string
		start, end Date
		want       int64
	}{
		{"single day", NewDate(2025, time.January, 1), NewDate(2025, time.January, 1), 17500},
		{"full span", NewDate(2025, time.January, 1), NewDate(2025, time.January, 2), 22500},
		{"inclusive end", NewDate(2024, time.December, 31), NewDate(2025, time.January, 2), 22500},
		{"outside", NewDate(2025, time.February, 1), NewDate(2025, time.February, 28), 0},
		{"missing start", Date{}, NewDate(2025, time.January, 2), 0},
		{"missing end", NewDate(2025, time.January, 1), Date{}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DateRangeTotal(records, tc.start, tc.end); got.Cents != tc.want {
				t.Fatalf("range total = %d, want %d", got.Cents, tc.want)
			}
		})
	}
}

func TestDateRangeTotalMonotonic(t *testing.T) {
	records := testSnapshot().Records
	narrow := DateRangeTotal(records, NewDate(2025, time.January, 1), NewDate(2025, time.January, 1))
	wide := DateRangeTotal(records, NewDate(2024, time.January, 1), NewDate(2026, time.January, 1))
	if wide.Cents < narrow.Cents {
		t.Fatalf("widening the range decreased the total: %d < %d", wide.Cents, narrow.Cents)
	}
}

func TestGroupByDateForMember(t *testing.T) {
	records := testSnapshot().Records
	stmt := GroupByDateForMember(records, "m1")
	if stmt.Total.Cents != 15000 {
		t.Fatalf("total = %d, want 15000", stmt.Total.Cents)
	}
	if len(stmt.ByDate) != 2 {
		t.Fatalf("want 2 buckets, got %d: %v", len(stmt.ByDate), stmt.ByDate)
	}
	if stmt.ByDate["2025-01-01"].Cents != 10000 || stmt.ByDate["2025-01-02"].Cents != 5000 {
		t.Fatalf("unexpected buckets: %v", stmt.ByDate)
	}

	// Bucket sum always equals the member's PerMemberTotals entry.
	var bucketSum int64
	for _, v := range stmt.ByDate {
		bucketSum += v.Cents
	}
	if bucketSum != stmt.Total.Cents {
		t.Fatalf("bucket sum %d != statement total %d", bucketSum, stmt.Total.Cents)
	}
}

func TestGroupByDateForMemberSumsSameDay(t *testing.T) {
	records := []Contribution{
		{Member: MemberRef{ID: "m1"}, Amount: Money{Cents: 100}, Date: NewDate(2025, time.March, 5)},
		{Member: MemberRef{ID: "m1"}, Amount: Money{Cents: 250}, Date: NewDate(2025, time.March, 5)},
	}
	stmt := GroupByDateForMember(records, "m1")
	if len(stmt.ByDate) != 1 || stmt.ByDate["2025-03-05"].Cents != 350 {
		t.Fatalf("same-day records not merged: %v", stmt.ByDate)
	}
}

func TestGroupByDateForMemberEmpty(t *testing.T) {
	stmt := GroupByDateForMember(testSnapshot().Records, "nobody")
	if stmt.Total.Cents != 0 || len(stmt.ByDate) != 0 {
		t.Fatalf("expected empty statement, got %+v", stmt)
	}
}

func TestMemberRefNormalization(t *testing.T) {
	// The same record arrives with a bare id in one export and an embedded
	// member object in another; attribution must be identical.
	raw := []byte(`{
		"members": [{"id": "m1", "name": "Ann", "email": "ann@example.com"}],
		"records": [
			{"id": "r1", "member": "m1", "amount": 100, "date": "2025-01-01"},
			{"id": "r2", "member": {"_id": "m1", "name": "Ann"}, "amount": 50, "date": "2025-01-02"},
			{"id": "r3", "member": {"id": "m1"}, "amount": 25, "date": "2025-01-03"}
		]
	}`)
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	totals := PerMemberTotals(snap.Members, snap.Records)
	if totals[0].Total.Cents != 17500 {
		t.Fatalf("dual-shape refs not normalized, total = %d cents", totals[0].Total.Cents)
	}
}

func TestSnapshotDecodeMalformedAmounts(t *testing.T) {
	raw := []byte(`{
		"members": [{"id": "m1", "name": "Ann", "email": "ann@example.com"}],
		"records": [
			{"id": "r1", "member": "m1", "amount": "120.50", "date": "2025-01-01"},
			{"id": "r2", "member": "m1", "amount": "not-a-number", "date": "2025-01-01"},
			{"id": "r3", "member": "m1", "date": "2025-01-01"}
		]
	}`)
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if got := GrandTotal(snap.Records); got.Cents != 12050 {
		t.Fatalf("grand total = %d cents, want 12050 (bad amounts count as 0)", got.Cents)
	}
}

// The end-to-end scenario: two members, three records.
func TestLedgerScenario(t *testing.T) {
	snap := testSnapshot()

	if GrandTotal(snap.Records).Cents != 22500 {
		t.Fatalf("grand total mismatch")
	}

	totals := PerMemberTotals(snap.Members, snap.Records)
	if totals[0].Total.Cents != 15000 || totals[1].Total.Cents != 7500 {
		t.Fatalf("per-member totals mismatch: %+v", totals)
	}

	day1 := NewDate(2025, time.January, 1)
	if DateRangeTotal(snap.Records, day1, day1).Cents != 17500 {
		t.Fatalf("single-day range total mismatch")
	}

	stmt := GroupByDateForMember(snap.Records, "m1")
	if stmt.ByDate["2025-01-01"].Cents != 10000 || stmt.ByDate["2025-01-02"].Cents != 5000 || stmt.Total.Cents != 15000 {
		t.Fatalf("member statement mismatch: %+v", stmt)
	}
}
