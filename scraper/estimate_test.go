package scraper

import (
	"errors"
	"math"
	"testing"
)

func TestParseRentRange(t *testing.T) {
	tests := []struct {
		text     string
		low      float64
		high     float64
	}{
		{"Rental estimate $520 - $600 /week based on similar homes", 520, 600},
		{"$520 - $600 per week", 520, 600},
		{"Rent estimate is $480 - $540 in this suburb", 480, 540},
		{"HomesEstimate for this home: $840K - $945K", 840000, 945000},
		{"Property estimate $1.1M - $1.3M", 1100000, 1300000},
		{"Somewhere in the text: $600 - $520 /week", 520, 600}, // reversed bounds
	}

	for _, tt := range tests {
		est, err := ParseRentRange(tt.text)
		if err != nil {
			t.Errorf("ParseRentRange(%q) failed: %v", tt.text, err)
			continue
		}
		if est.WeeklyLow != tt.low || est.WeeklyHigh != tt.high {
			t.Errorf("ParseRentRange(%q) = %v-%v; want %v-%v",
				tt.text, est.WeeklyLow, est.WeeklyHigh, tt.low, tt.high)
		}
	}
}

func TestParseRentRangeMedian(t *testing.T) {
	est, err := ParseRentRange("$840K - $945K")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if est.Median() != 892500 {
		t.Errorf("median = %v; want 892500", est.Median())
	}
}

func TestParseRentRangeNoMatch(t *testing.T) {
	for _, text := range []string{"", "No estimate available", "Price by negotiation"} {
		if _, err := ParseRentRange(text); !errors.Is(err, ErrExtraction) {
			t.Errorf("ParseRentRange(%q) error = %v; want ErrExtraction", text, err)
		}
	}
}

func TestGrossYieldPct(t *testing.T) {
	est := RentEstimate{WeeklyLow: 520, WeeklyHigh: 600}
	got := est.GrossYieldPct(650000)
	want := 560.0 * 52 / 650000 * 100
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("yield = %v; want %v", got, want)
	}
	if est.GrossYieldPct(0) != 0 {
		t.Error("yield with zero purchase price must be 0")
	}
}
