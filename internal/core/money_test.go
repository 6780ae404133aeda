package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyUnmarshalLenient(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{`100`, 10000},
		{`120.5`, 12050},
		{`"75"`, 7500},
		{`"12,34"`, 1234},
		{`null`, 0},
		{`"oops"`, 0},
		{`true`, 0},
		{`{"value": 3}`, 0},
	}
	for _, tc := range cases {
		var m Money
		if err := json.Unmarshal([]byte(tc.in), &m); err != nil {
			t.Fatalf("%s: unexpected error %v", tc.in, err)
		}
		if m.Cents != tc.want {
			t.Fatalf("%s decoded to %d cents, want %d", tc.in, m.Cents, tc.want)
		}
	}
}

func TestMoneyMarshal(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{10000, "100"},
		{12050, "120.5"},
		{1234, "12.34"},
		{0, "0"},
	}
	for _, tc := range cases {
		out, err := json.Marshal(Money{Cents: tc.cents})
		if err != nil {
			t.Fatalf("marshal %d: %v", tc.cents, err)
		}
		if string(out) != tc.want {
			t.Fatalf("%d cents marshaled to %s, want %s", tc.cents, out, tc.want)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
}
