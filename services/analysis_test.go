package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"nz_propper/ingest"
	"nz_propper/models"
	"nz_propper/pricing"
	"nz_propper/scraper"
)

type fakeFetcher struct {
	listing *models.Listing
	err     error
}

func (f *fakeFetcher) Fetch(ctx context.Context, pageURL string) (*models.Listing, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.listing, nil
}

type fakeEstimator struct {
	est *scraper.RentEstimate
	err error
}

func (f *fakeEstimator) EstimateRent(ctx context.Context, pageURL string) (*scraper.RentEstimate, error) {
	return f.est, f.err
}

func row(address, title, price, dateGMT string) ingest.Row {
	return ingest.Row{
		ingest.ColAddress: address,
		ingest.ColTitle:   title,
		ingest.ColPrice:   price,
		ingest.ColDateGMT: dateGMT,
	}
}

func TestAnalyzeRows(t *testing.T) {
	a := NewAnalyzer(pricing.DefaultRates(), nil)

	rows := []ingest.Row{
		row("123 Main St, Auckland", "Do up opportunity", "Asking price $450,000", "2024-05-01 10:00:00"),
		row("45 Queen St, Wellington", "Mortgagee sale", "Asking price $599,900", "2024-05-02 10:00:00"),
		row("", "no address here", "$500,000", "2024-05-03 10:00:00"),
		row("123 main st,  AUCKLAND", "Do up opportunity (relisted)", "Asking price $460,000", "2024-06-01 10:00:00"),
		row("9 Harbour View Rd", "Sunny family home", "Auction", ""),
	}

	report, err := a.AnalyzeRows(context.Background(), rows, "test.csv")
	if err != nil {
		t.Fatalf("AnalyzeRows failed: %v", err)
	}

	if report.TotalProperties != 3 {
		t.Errorf("TotalProperties = %d; want 3", report.TotalProperties)
	}
	if report.RowsSkipped != 1 {
		t.Errorf("RowsSkipped = %d; want 1", report.RowsSkipped)
	}
	if report.DuplicatesRemoved != 1 {
		t.Errorf("DuplicatesRemoved = %d; want 1", report.DuplicatesRemoved)
	}
	if report.GoodDealsCount != 1 {
		t.Errorf("GoodDealsCount = %d; want 1", report.GoodDealsCount)
	}
	if report.StressSalesCount != 1 {
		t.Errorf("StressSalesCount = %d; want 1", report.StressSalesCount)
	}

	// Duplicate resolution kept the later listing in the first slot.
	if got := report.Results[0].PotentialPurchasePrice; got != 460000 {
		t.Errorf("results[0] purchase price = %v; want the relisted copy at 460000", got)
	}

	// The auction listing fell back to the default purchase price.
	if got := report.Results[2].PotentialPurchasePrice; got != 650000 {
		t.Errorf("results[2] purchase price = %v; want default 650000", got)
	}

	// The 599,900 scenario.
	r := report.Results[1]
	if math.Abs(r.Profit-(-3480.775)) > 1e-6 {
		t.Errorf("profit = %v; want -3480.775", r.Profit)
	}
	if r.IsGoodDeal {
		t.Error("599,900 purchase must not be a good deal")
	}
	if !r.HasStressKeywords {
		t.Error("mortgagee title must flag as stress sale")
	}
}

func TestAnalyzeRowsInvalidPriceSkipped(t *testing.T) {
	rates := pricing.DefaultRates()
	rates.DefaultPurchasePrice = 0 // unextractable prices now fail validation
	a := NewAnalyzer(rates, nil)

	rows := []ingest.Row{
		row("1 First Ave", "Auction", "Price by negotiation", ""),
		row("2 Second Ave", "Plain sale", "Asking price $500,000", ""),
	}

	report, err := a.AnalyzeRows(context.Background(), rows, "test.csv")
	if err != nil {
		t.Fatalf("AnalyzeRows failed: %v", err)
	}
	if report.InvalidPrices != 1 {
		t.Errorf("InvalidPrices = %d; want 1", report.InvalidPrices)
	}
	if report.TotalProperties != 1 {
		t.Errorf("TotalProperties = %d; want 1 (invalid row dropped)", report.TotalProperties)
	}
	if report.Results[0].PropertyAddress != "2 Second Ave" {
		t.Errorf("surviving result = %q; want 2 Second Ave", report.Results[0].PropertyAddress)
	}
}

func TestAnalyzeRowsEmpty(t *testing.T) {
	a := NewAnalyzer(pricing.DefaultRates(), nil)
	report, err := a.AnalyzeRows(context.Background(), nil, "empty.csv")
	if err != nil {
		t.Fatalf("AnalyzeRows failed: %v", err)
	}
	if report.TotalProperties != 0 || len(report.Results) != 0 {
		t.Errorf("empty input produced %d results", len(report.Results))
	}
}

func TestAnalyzeURL(t *testing.T) {
	fetcher := &fakeFetcher{listing: &models.Listing{
		Address:   "123 Main St, Point Chevalier, Auckland",
		Title:     "Mortgagee Sale - Must Sell",
		PriceText: "Asking price $599,900",
	}}
	a := NewAnalyzer(pricing.DefaultRates(), fetcher)

	result, err := a.AnalyzeURL(context.Background(), "https://example.com/listing/1")
	if err != nil {
		t.Fatalf("AnalyzeURL failed: %v", err)
	}
	if result.PotentialPurchasePrice != 599900 {
		t.Errorf("purchase price = %v; want 599900", result.PotentialPurchasePrice)
	}
	if math.Abs(result.Profit-(-3480.775)) > 1e-6 {
		t.Errorf("profit = %v; want -3480.775", result.Profit)
	}
	if !result.HasStressKeywords {
		t.Error("expected stress keywords flag")
	}
	if result.WeeklyRentLow != nil {
		t.Error("rental fields must be absent without an estimator")
	}
}

func TestAnalyzeURLFetchErrorAborts(t *testing.T) {
	wrapped := fmt.Errorf("%w: navigation to page timed out", scraper.ErrNavigationTimeout)
	a := NewAnalyzer(pricing.DefaultRates(), &fakeFetcher{err: wrapped})

	result, err := a.AnalyzeURL(context.Background(), "https://example.com/listing/1")
	if !errors.Is(err, scraper.ErrNavigationTimeout) {
		t.Fatalf("error = %v; want ErrNavigationTimeout", err)
	}
	if result != nil {
		t.Error("failed fetch must not produce a result")
	}
}

func TestAnalyzeURLRentEstimate(t *testing.T) {
	fetcher := &fakeFetcher{listing: &models.Listing{
		Address:   "7 Beach Rd",
		Title:     "Coastal do-up",
		PriceText: "Asking price $650,000",
	}}
	a := NewAnalyzer(pricing.DefaultRates(), fetcher)
	a.SetEstimator(&fakeEstimator{est: &scraper.RentEstimate{WeeklyLow: 520, WeeklyHigh: 600}})

	result, err := a.AnalyzeURL(context.Background(), "https://example.com/listing/2")
	if err != nil {
		t.Fatalf("AnalyzeURL failed: %v", err)
	}
	if result.WeeklyRentLow == nil || *result.WeeklyRentLow != 520 {
		t.Fatalf("WeeklyRentLow = %v; want 520", result.WeeklyRentLow)
	}
	if result.WeeklyRentHigh == nil || *result.WeeklyRentHigh != 600 {
		t.Fatalf("WeeklyRentHigh = %v; want 600", result.WeeklyRentHigh)
	}
	wantYield := 560.0 * 52 / 650000 * 100
	if result.RentalYieldPct == nil || math.Abs(*result.RentalYieldPct-wantYield) > 1e-9 {
		t.Errorf("RentalYieldPct = %v; want %v", result.RentalYieldPct, wantYield)
	}
}

func TestAnalyzeURLEstimateFailureIsSoft(t *testing.T) {
	fetcher := &fakeFetcher{listing: &models.Listing{
		Address:   "7 Beach Rd",
		Title:     "Coastal do-up",
		PriceText: "Asking price $650,000",
	}}
	a := NewAnalyzer(pricing.DefaultRates(), fetcher)
	a.SetEstimator(&fakeEstimator{err: fmt.Errorf("%w: no rent range found", scraper.ErrExtraction)})

	result, err := a.AnalyzeURL(context.Background(), "https://example.com/listing/2")
	if err != nil {
		t.Fatalf("a failed estimate must not fail the analysis: %v", err)
	}
	if result.RentalYieldPct != nil {
		t.Error("rental fields must be absent when the estimate fails")
	}
}
