package pricing

import (
	"regexp"
	"strconv"
	"strings"
)

// MatchKind tags which pattern produced an extracted price.
type MatchKind string

const (
	MatchAskingPrice    MatchKind = "asking_price"
	MatchPriceRange     MatchKind = "price_range"
	MatchExplicitAmount MatchKind = "explicit_amount"
	MatchNone           MatchKind = "none"
)

// Match is the outcome of running the pattern matchers over a price text.
type Match struct {
	Kind   MatchKind
	Amount float64
}

var (
	askingPriceRegex = regexp.MustCompile(`(?i)asking\s+price\s*\$?\s*([\d,]+(?:\.\d+)?)`)
	priceRangeRegex  = regexp.MustCompile(`\$?\s*([\d,]+(?:\.\d+)?)\s*[-\x{2013}]\s*\$?\s*([\d,]+(?:\.\d+)?)`)
	dollarRegex      = regexp.MustCompile(`\$\s*([\d,]+(?:\.\d+)?)`)
	bareNumberRegex  = regexp.MustCompile(`\b(\d[\d,]{3,})\b`)
)

// Sanity floors mirroring the vendor data: tiny numbers in price text are
// bed counts, percentages or dates, not prices.
const (
	minLabelledPrice = 1000
	minBarePrice     = 10000
)

// Extractor parses free-form vendor price text into a usable purchase
// price. It never fails: texts with no recognizable amount ("Auction",
// "Enquire now", "") fall back to the configured default.
type Extractor struct {
	defaultPrice float64
}

func NewExtractor(defaultPrice float64) *Extractor {
	return &Extractor{defaultPrice: defaultPrice}
}

// Extract returns the purchase price for the given price text, falling back
// to the configured default when nothing matches.
func (e *Extractor) Extract(priceText string) float64 {
	if m := e.Match(priceText); m.Kind != MatchNone {
		return m.Amount
	}
	return e.defaultPrice
}

// Match runs the tagged pattern matchers in priority order and reports the
// first hit. Matchers are ordered most to least specific so new vendor
// formats slot in without disturbing existing ones.
func (e *Extractor) Match(priceText string) Match {
	text := strings.TrimSpace(priceText)
	if text == "" {
		return Match{Kind: MatchNone}
	}

	matchers := []func(string) (Match, bool){
		matchAskingPrice,
		matchPriceRange,
		matchDollarAmount,
		matchBareNumber,
	}
	for _, match := range matchers {
		if m, ok := match(text); ok {
			return m
		}
	}
	return Match{Kind: MatchNone}
}

// "Asking price $599,900" and equivalents.
func matchAskingPrice(text string) (Match, bool) {
	sub := askingPriceRegex.FindStringSubmatch(text)
	if sub == nil {
		return Match{}, false
	}
	amount, ok := parseAmount(sub[1])
	if !ok || amount < minLabelledPrice {
		return Match{}, false
	}
	return Match{Kind: MatchAskingPrice, Amount: amount}, true
}

// "$500,000 - $550,000": ranges resolve to the lower bound. The vendor data
// never says which end is negotiable, so the conservative entry price is
// the documented policy.
func matchPriceRange(text string) (Match, bool) {
	sub := priceRangeRegex.FindStringSubmatch(text)
	if sub == nil {
		return Match{}, false
	}
	low, okLow := parseAmount(sub[1])
	high, okHigh := parseAmount(sub[2])
	if !okLow || !okHigh {
		return Match{}, false
	}
	if high < low {
		low = high
	}
	if low < minLabelledPrice {
		return Match{}, false
	}
	return Match{Kind: MatchPriceRange, Amount: low}, true
}

// Any explicit dollar amount: "$599,900", "Offers over $1,200,000". The
// first amount clearing the sanity floor wins, so "$1 reserve" noise is
// skipped over.
func matchDollarAmount(text string) (Match, bool) {
	for _, sub := range dollarRegex.FindAllStringSubmatch(text, -1) {
		if amount, ok := parseAmount(sub[1]); ok && amount >= minLabelledPrice {
			return Match{Kind: MatchExplicitAmount, Amount: amount}, true
		}
	}
	return Match{}, false
}

// Unlabelled large numbers like "599900" or "599,900".
func matchBareNumber(text string) (Match, bool) {
	for _, sub := range bareNumberRegex.FindAllStringSubmatch(text, -1) {
		if amount, ok := parseAmount(sub[1]); ok && amount >= minBarePrice {
			return Match{Kind: MatchExplicitAmount, Amount: amount}, true
		}
	}
	return Match{}, false
}

func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
