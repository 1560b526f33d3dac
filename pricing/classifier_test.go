package pricing

import "testing"

func TestHasStressKeywords(t *testing.T) {
	cl := NewClassifier(DefaultRates())

	tests := []struct {
		title string
		want  bool
	}{
		{"Mortgagee Sale - Must Sell", true}, // matches both mortgagee and must sell
		{"MUST BE SOLD this weekend", true},
		{"Urgent sale, vendor relocated overseas", true},
		{"Auction 12pm Saturday", true},
		{"Relationship split forces sale", true},
		{"Sunny 3-bed family home", false},
		{"Charming do-up opportunity", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := cl.HasStressKeywords(tt.title); got != tt.want {
			t.Errorf("HasStressKeywords(%q) = %v; want %v", tt.title, got, tt.want)
		}
	}
}

func TestStressKeywordsAreSubstrings(t *testing.T) {
	cl := NewClassifier(DefaultRates())

	// Inline phrase inside a longer word run still matches; whole-word
	// matching is deliberately not used.
	if !cl.HasStressKeywords("PRE-AUCTION offers invited") {
		t.Error("expected substring match inside hyphenated phrase")
	}
}
