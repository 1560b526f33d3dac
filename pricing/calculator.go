package pricing

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidPrice reports a purchase price that is not a positive finite
// number. Bulk callers drop the row and keep going; the single-URL path
// fails the whole operation.
var ErrInvalidPrice = errors.New("invalid purchase price")

// Breakdown is the cost/profit projection for one purchase price. All
// fields keep full precision; rounding happens only at presentation.
type Breakdown struct {
	PurchasePrice    float64
	RenovationBudget float64
	HoldingCosts     float64
	DisposalCosts    float64
	Contingency      float64
	SalePrice        float64
	Profit           float64
}

// Calculator applies a rate regime to purchase prices. The formulas
// themselves never change; swapping the regime is a configuration concern.
type Calculator struct {
	rates Rates
}

func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Calculate produces the full breakdown for a purchase price.
func (c *Calculator) Calculate(purchasePrice float64) (Breakdown, error) {
	if math.IsNaN(purchasePrice) || math.IsInf(purchasePrice, 0) || purchasePrice <= 0 {
		return Breakdown{}, fmt.Errorf("%w: %v", ErrInvalidPrice, purchasePrice)
	}

	b := Breakdown{
		PurchasePrice:    purchasePrice,
		RenovationBudget: c.rates.RenovationPct * purchasePrice,
		HoldingCosts:     c.rates.HoldingPct * purchasePrice,
		SalePrice:        c.rates.SalePrice,
	}
	b.DisposalCosts = c.rates.DisposalPct * b.SalePrice
	b.Contingency = c.rates.ContingencyPct * b.RenovationBudget
	b.Profit = b.SalePrice - b.PurchasePrice - b.RenovationBudget - b.HoldingCosts - b.DisposalCosts - b.Contingency

	return b, nil
}
