package pricing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rates is a named percentage regime for the projection. Keeping every
// constant in one structure means an alternate regime (say, a rental-yield
// mode) is a config swap, not a code change.
type Rates struct {
	DefaultPurchasePrice float64  `yaml:"default_purchase_price"`
	SalePrice            float64  `yaml:"sale_price"`
	RenovationPct        float64  `yaml:"renovation_pct"`
	HoldingPct           float64  `yaml:"holding_pct"`
	DisposalPct          float64  `yaml:"disposal_pct"`
	ContingencyPct       float64  `yaml:"contingency_pct"`
	GoodDealThresholdPct float64  `yaml:"good_deal_threshold_pct"`
	StressKeywords       []string `yaml:"stress_keywords"`
}

// DefaultRates is the standard flip regime.
func DefaultRates() Rates {
	return Rates{
		DefaultPurchasePrice: 650000,
		SalePrice:            730000,
		RenovationPct:        0.15,
		HoldingPct:           0.04,
		DisposalPct:          0.025,
		ContingencyPct:       0.015,
		GoodDealThresholdPct: 0.20,
		StressKeywords: []string{
			"must sell",
			"must be sold",
			"urgent sale",
			"mortgagee",
			"auction",
			"foreclosure",
			"distressed",
			"vendor relocated",
			"relationship split",
		},
	}
}

// LoadRates reads a regime file over the defaults, so partial files only
// override the fields they name.
func LoadRates(path string) (Rates, error) {
	rates := DefaultRates()

	data, err := os.ReadFile(path)
	if err != nil {
		return rates, fmt.Errorf("read rates file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rates); err != nil {
		return rates, fmt.Errorf("parse rates file %s: %w", path, err)
	}
	return rates, nil
}
