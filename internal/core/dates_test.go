package core

import (
	"errors"
	"testing"
)

func TestInRangeOutboundOnly(t *testing.T) {
	cases := []struct {
		name       string
		date       string
		start, end string
		want       bool
	}{
		{"no filter", "2025-03-10", "", "", true},
		{"inside", "2025-03-10", "2025-03-01", "2025-03-31", true},
		{"on start bound", "2025-03-01", "2025-03-01", "2025-03-31", true},
		{"on end bound", "2025-03-31", "2025-03-01", "2025-03-31", true},
		{"before start", "2025-02-28", "2025-03-01", "2025-03-31", false},
		{"after end", "2025-04-01", "2025-03-01", "2025-03-31", false},
		{"start only", "2025-05-01", "2025-03-01", "", true},
		{"end only", "2025-02-01", "", "2025-03-01", true},
		{"end only excluded", "2025-03-02", "", "2025-03-01", false},
		{"empty date", "", "2025-03-01", "2025-03-31", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := InRange(tc.date, tc.start, tc.end, ""); got != tc.want {
				t.Fatalf("InRange(%q, %q, %q) = %v, want %v", tc.date, tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestInRangeEitherLeg(t *testing.T) {
	cases := []struct {
		name          string
		outbound, ret string
		want          bool
	}{
		{"outbound inside", "2025-06-10", "2025-07-20", true},
		{"return inside", "2025-05-20", "2025-06-05", true},
		{"neither inside", "2025-05-01", "2025-05-10", false},
		{"spans window", "2025-05-01", "2025-07-01", false},
		{"return before outbound still checked", "2025-07-01", "2025-06-15", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := InRange(tc.outbound, "2025-06-01", "2025-06-30", tc.ret); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestInRangeMalformed(t *testing.T) {
	cases := []struct{ date, start, end, ret string }{
		{"10/03/2025", "2025-03-01", "2025-03-31", ""},
		{"2025-03-10", "march", "2025-03-31", ""},
		{"2025-03-10", "2025-03-01", "2025-13-40", ""},
		{"2025-02-10", "2025-03-01", "2025-03-31", "soon"},
	}
	for _, tc := range cases {
		ok, err := InRangeChecked(tc.date, tc.start, tc.end, tc.ret)
		if ok {
			t.Fatalf("%+v: expected false", tc)
		}
		if !errors.Is(err, ErrParse) {
			t.Fatalf("%+v: expected ErrParse, got %v", tc, err)
		}
		if InRange(tc.date, tc.start, tc.end, tc.ret) {
			t.Fatalf("%+v: InRange must be false", tc)
		}
	}
}

func TestFormatDateForDisplay(t *testing.T) {
	if got := FormatDateForDisplay("2025-03-10"); got != "10/03/2025" {
		t.Fatalf("got %q", got)
	}
	if got := FormatDateForDisplay("garbage"); got != "garbage" {
		t.Fatalf("got %q", got)
	}
	if !IsCalendarDate("2024-02-29") || IsCalendarDate("2025-02-29") {
		t.Fatal("leap day handling is wrong")
	}
}
