package pricing

import "testing"

const testDefaultPrice = 650000

func TestExtractAskingPrice(t *testing.T) {
	e := NewExtractor(testDefaultPrice)

	tests := []struct {
		text string
		want float64
	}{
		{"Asking price $599,900", 599900},
		{"Asking price $1,250,000", 1250000},
		{"ASKING PRICE $720000", 720000},
		{"Asking   price  549,000", 549000},
	}

	for _, tt := range tests {
		if got := e.Extract(tt.text); got != tt.want {
			t.Errorf("Extract(%q) = %v; want %v", tt.text, got, tt.want)
		}
	}
}

func TestExtractExplicitAmount(t *testing.T) {
	e := NewExtractor(testDefaultPrice)

	tests := []struct {
		text string
		want float64
	}{
		{"$599,900", 599900},
		{"Offers over $1,200,000", 1200000},
		{"599900", 599900},
		{"599,900", 599900},
		{"Deadline sale, was 850,000", 850000},
		{"Listed 12/05/2024 for 599900", 599900}, // year must not win
	}

	for _, tt := range tests {
		if got := e.Extract(tt.text); got != tt.want {
			t.Errorf("Extract(%q) = %v; want %v", tt.text, got, tt.want)
		}
	}
}

func TestExtractRangeUsesLowerBound(t *testing.T) {
	e := NewExtractor(testDefaultPrice)

	tests := []struct {
		text string
		want float64
	}{
		{"$500,000 - $550,000", 500000},
		{"$500,000–$550,000", 500000},
		{"550,000 - 500,000", 500000}, // reversed bounds
		{"Asking price $500,000 - $550,000", 500000},
	}

	for _, tt := range tests {
		if got := e.Extract(tt.text); got != tt.want {
			t.Errorf("Extract(%q) = %v; want %v", tt.text, got, tt.want)
		}
	}
}

func TestExtractFallsBackToDefault(t *testing.T) {
	e := NewExtractor(testDefaultPrice)

	for _, text := range []string{
		"",
		"Auction",
		"Enquire now",
		"Price by negotiation",
		"Tender closes 2pm Wed",
		"$1 reserve",
	} {
		if got := e.Extract(text); got != testDefaultPrice {
			t.Errorf("Extract(%q) = %v; want default %v", text, got, testDefaultPrice)
		}
	}
}

func TestMatchKinds(t *testing.T) {
	e := NewExtractor(testDefaultPrice)

	tests := []struct {
		text string
		want MatchKind
	}{
		{"Asking price $599,900", MatchAskingPrice},
		{"$500,000 - $550,000", MatchPriceRange},
		{"$599,900", MatchExplicitAmount},
		{"599900", MatchExplicitAmount},
		{"Auction", MatchNone},
	}

	for _, tt := range tests {
		if got := e.Match(tt.text).Kind; got != tt.want {
			t.Errorf("Match(%q).Kind = %q; want %q", tt.text, got, tt.want)
		}
	}
}
