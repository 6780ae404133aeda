package memory

import (
	"context"
	"fmt"
	"testing"

	"savings/internal/core"
	ports "savings/internal/sheets"
)

func TestAppendAndReadYearTotal(t *testing.T) {
	s := New()
	ctx := context.Background()

	entries := []ports.Entry{
		{ContributionID: "c1", MemberName: "Ann", Date: "2025-01-01", Amount: core.Money{Cents: 10000}},
		{ContributionID: "c2", MemberName: "Bo", Date: "2025-02-01", Amount: core.Money{Cents: 5000}},
		{ContributionID: "c3", MemberName: "Ann", Date: "2024-12-31", Amount: core.Money{Cents: 7500}},
	}
	for i, e := range entries {
		ref, err := s.Append(ctx, e)
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		if want := fmt.Sprintf("mem:%d", i+1); ref != want {
			t.Errorf("ref = %q, want %q", ref, want)
		}
	}

	total, err := s.ReadYearTotal(ctx, 2025)
	if err != nil {
		t.Fatalf("read year total: %v", err)
	}
	if total.Cents != 15000 {
		t.Errorf("2025 total = %d, want 15000", total.Cents)
	}

	total, err = s.ReadYearTotal(ctx, 2023)
	if err != nil {
		t.Fatalf("read year total: %v", err)
	}
	if total.Cents != 0 {
		t.Errorf("2023 total = %d, want 0", total.Cents)
	}
}

func TestAppendRejectsInvalidEntry(t *testing.T) {
	s := New()
	if _, err := s.Append(context.Background(), ports.Entry{Date: "2025-01-01"}); err == nil {
		t.Fatal("expected error for entry without contribution id")
	}
	if _, err := s.Append(context.Background(), ports.Entry{ContributionID: "c1"}); err == nil {
		t.Fatal("expected error for entry without date")
	}
	if len(s.Entries()) != 0 {
		t.Fatal("invalid entries should not be stored")
	}
}
