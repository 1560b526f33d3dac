package pricing

import "strings"

// Classifier derives the good-deal and stress-sale flags. Pure functions of
// the breakdown and title text.
type Classifier struct {
	threshold float64
	keywords  []string
}

func NewClassifier(rates Rates) *Classifier {
	keywords := make([]string, len(rates.StressKeywords))
	for i, kw := range rates.StressKeywords {
		keywords[i] = strings.ToLower(kw)
	}
	return &Classifier{
		threshold: rates.GoodDealThresholdPct,
		keywords:  keywords,
	}
}

// IsGoodDeal reports whether projected profit strictly exceeds the
// threshold share of the purchase price.
func (c *Classifier) IsGoodDeal(b Breakdown) bool {
	return b.Profit > c.threshold*b.PurchasePrice
}

// HasStressKeywords reports whether the title contains any stress-sale
// phrase. Substring matching, not whole-word: vendors embed these phrases
// inline ("Mortgagee Sale - Must Sell!").
func (c *Classifier) HasStressKeywords(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range c.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
