package models

// CalculationResult is the flip projection for a single listing. It is built
// once per surviving listing and never mutated; the profit identity
// (profit = sale - purchase - renovation - holding - disposal - contingency)
// holds exactly, with no rounding of stored values.
type CalculationResult struct {
	// Passthrough listing fields.
	PropertyAddress string `json:"property_address"`
	PropertyTitle   string `json:"property_title"`
	Price           string `json:"price"` // original raw text
	Bedrooms        string `json:"bedrooms,omitempty"`
	Bathrooms       string `json:"bathrooms,omitempty"`
	Area            string `json:"area,omitempty"`
	PropertyLink    string `json:"property_link,omitempty"`
	DateGMT         string `json:"date_gmt,omitempty"`
	ListingDate     string `json:"listing_date,omitempty"`
	AgentName       string `json:"agent_name,omitempty"`
	AgencyName      string `json:"agency_name,omitempty"`
	OpenHomeStatus  string `json:"open_home_status,omitempty"`
	Position        string `json:"position,omitempty"`
	JobLink         string `json:"job_link,omitempty"`
	OriginURL       string `json:"origin_url,omitempty"`

	// Calculated values.
	PotentialPurchasePrice float64 `json:"potential_purchase_price"`
	RenovationBudget       float64 `json:"renovation_budget"`
	HoldingCosts           float64 `json:"holding_costs"`
	DisposalCosts          float64 `json:"disposal_costs"`
	Contingency            float64 `json:"contingency"`
	PotentialSalePrice     float64 `json:"potential_sale_price"`
	Profit                 float64 `json:"profit"`

	// Rental estimate enrichment, present only when the estimate scrape
	// succeeded on the single-URL path.
	RentalYieldPct *float64 `json:"rental_yield_percentage,omitempty"`
	WeeklyRentLow  *float64 `json:"weekly_rent_low,omitempty"`
	WeeklyRentHigh *float64 `json:"weekly_rent_high,omitempty"`

	// Flags.
	IsGoodDeal        bool `json:"is_good_deal"`
	HasStressKeywords bool `json:"has_stress_keywords"`
}

// Report is the bulk-path envelope: the ordered result list plus aggregate
// counts for the batch.
type Report struct {
	Results           []CalculationResult `json:"results"`
	TotalProperties   int                 `json:"total_properties"`
	GoodDealsCount    int                 `json:"good_deals_count"`
	StressSalesCount  int                 `json:"stress_sales_count"`
	DuplicatesRemoved int                 `json:"duplicates_removed"`
	RowsSkipped       int                 `json:"rows_skipped"`
	InvalidPrices     int                 `json:"invalid_prices"`
}
