package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"nz_propper/ingest"
	"nz_propper/models"
	"nz_propper/pricing"
	"nz_propper/scraper"
	"nz_propper/storage"
)

const defaultWorkers = 4

// Analyzer runs the analysis pipeline: normalize rows, resolve duplicates,
// extract prices, project flip economics and classify each listing. The same
// pricing components back both the bulk path and the single-URL path.
type Analyzer struct {
	extractor  *pricing.Extractor
	calculator *pricing.Calculator
	classifier *pricing.Classifier

	fetcher   scraper.PageFetcher
	estimator scraper.RentEstimator
	runs      *storage.RunStore
	workers   int
}

// NewAnalyzer creates an Analyzer over the given rate regime and page
// fetcher. Run recording and rent estimation are off until injected.
func NewAnalyzer(rates pricing.Rates, fetcher scraper.PageFetcher) *Analyzer {
	return &Analyzer{
		extractor:  pricing.NewExtractor(rates.DefaultPurchasePrice),
		calculator: pricing.NewCalculator(rates),
		classifier: pricing.NewClassifier(rates),
		fetcher:    fetcher,
		workers:    defaultWorkers,
	}
}

// SetRunStore enables operational run recording.
func (a *Analyzer) SetRunStore(runs *storage.RunStore) {
	a.runs = runs
}

// SetEstimator enables rental estimate enrichment on the single-URL path.
func (a *Analyzer) SetEstimator(estimator scraper.RentEstimator) {
	a.estimator = estimator
}

// SetWorkers bounds the calculation fan-out for bulk batches.
func (a *Analyzer) SetWorkers(n int) {
	if n > 0 {
		a.workers = n
	}
}

// AnalyzeRows runs the bulk pipeline over decoded export rows. Rows without
// a usable address are skipped and counted, never fatal. Listings whose
// extracted price fails validation are likewise dropped and counted.
func (a *Analyzer) AnalyzeRows(ctx context.Context, rows []ingest.Row, source string) (*models.Report, error) {
	run := a.startRun(ctx, source)

	listings := make([]*models.Listing, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		listing, err := ingest.FromRow(row)
		if err != nil {
			skipped++
			a.logRun(ctx, run, models.LogLevelWarn, err.Error())
			continue
		}
		listings = append(listings, listing)
	}

	deduped, removed := ResolveDuplicates(listings)

	if err := ctx.Err(); err != nil {
		a.finishRun(ctx, run, nil, err)
		return nil, err
	}

	results, invalid := a.calculateAll(deduped)

	report := &models.Report{
		Results:           results,
		TotalProperties:   len(results),
		DuplicatesRemoved: removed,
		RowsSkipped:       skipped,
		InvalidPrices:     invalid,
	}
	for i := range results {
		if results[i].IsGoodDeal {
			report.GoodDealsCount++
		}
		if results[i].HasStressKeywords {
			report.StressSalesCount++
		}
	}

	log.Printf("[analysis] %s: %d properties, %d good deals, %d stress sales, %d duplicates removed, %d rows skipped, %d invalid prices",
		source, report.TotalProperties, report.GoodDealsCount, report.StressSalesCount,
		report.DuplicatesRemoved, report.RowsSkipped, report.InvalidPrices)

	a.finishRun(ctx, run, report, nil)
	return report, nil
}

// calculateAll projects every listing concurrently while preserving the
// deduplicated input order. Listings with an invalid extracted price are
// dropped and counted.
func (a *Analyzer) calculateAll(listings []*models.Listing) ([]models.CalculationResult, int) {
	slots := make([]*models.CalculationResult, len(listings))

	var wg sync.WaitGroup
	sem := make(chan struct{}, a.workers)
	for i, listing := range listings {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, listing *models.Listing) {
			defer wg.Done()
			defer func() { <-sem }()

			price := a.extractor.Extract(listing.PriceText)
			breakdown, err := a.calculator.Calculate(price)
			if err != nil {
				log.Printf("[analysis] skipping %q: %v", listing.Address, err)
				return
			}
			result := a.buildResult(listing, breakdown)
			slots[i] = &result
		}(i, listing)
	}
	wg.Wait()

	results := make([]models.CalculationResult, 0, len(listings))
	invalid := 0
	for _, slot := range slots {
		if slot == nil {
			invalid++
			continue
		}
		results = append(results, *slot)
	}
	return results, invalid
}

// AnalyzeURL runs the single-listing pipeline: scrape the page, extract the
// price and project the flip. Unlike the bulk path, any failure aborts the
// whole operation. A failed rent estimate is the one soft spot: the result
// ships without the rental fields.
func (a *Analyzer) AnalyzeURL(ctx context.Context, pageURL string) (*models.CalculationResult, error) {
	if a.fetcher == nil {
		return nil, errors.New("analyzer has no page fetcher")
	}

	listing, err := a.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	price := a.extractor.Extract(listing.PriceText)
	breakdown, err := a.calculator.Calculate(price)
	if err != nil {
		return nil, fmt.Errorf("calculate %q: %w", pageURL, err)
	}

	result := a.buildResult(listing, breakdown)

	if a.estimator != nil {
		if est, err := a.estimator.EstimateRent(ctx, pageURL); err != nil {
			log.Printf("[analysis] rent estimate unavailable for %s: %v", pageURL, err)
		} else {
			yield := est.GrossYieldPct(breakdown.PurchasePrice)
			result.WeeklyRentLow = &est.WeeklyLow
			result.WeeklyRentHigh = &est.WeeklyHigh
			result.RentalYieldPct = &yield
		}
	}

	return &result, nil
}

func (a *Analyzer) buildResult(listing *models.Listing, b pricing.Breakdown) models.CalculationResult {
	return models.CalculationResult{
		PropertyAddress: listing.Address,
		PropertyTitle:   listing.Title,
		Price:           listing.PriceText,
		Bedrooms:        listing.Bedrooms,
		Bathrooms:       listing.Bathrooms,
		Area:            listing.Area,
		PropertyLink:    listing.Link,
		DateGMT:         listing.DateGMT,
		ListingDate:     listing.ListingDate,
		AgentName:       listing.AgentName,
		AgencyName:      listing.AgencyName,
		OpenHomeStatus:  listing.OpenHomeStatus,
		Position:        listing.Position,
		JobLink:         listing.JobLink,
		OriginURL:       listing.OriginURL,

		PotentialPurchasePrice: b.PurchasePrice,
		RenovationBudget:       b.RenovationBudget,
		HoldingCosts:           b.HoldingCosts,
		DisposalCosts:          b.DisposalCosts,
		Contingency:            b.Contingency,
		PotentialSalePrice:     b.SalePrice,
		Profit:                 b.Profit,

		IsGoodDeal:        a.classifier.IsGoodDeal(b),
		HasStressKeywords: a.classifier.HasStressKeywords(listing.Title),
	}
}

// startRun opens an operational run record if a store is wired.
func (a *Analyzer) startRun(ctx context.Context, source string) *models.AnalysisRun {
	if a.runs == nil {
		return nil
	}
	run, err := a.runs.CreateRun(ctx, source)
	if err != nil {
		log.Printf("[analysis] create run record: %v", err)
		return nil
	}
	return run
}

func (a *Analyzer) finishRun(ctx context.Context, run *models.AnalysisRun, report *models.Report, runErr error) {
	if run == nil {
		return
	}
	now := time.Now()
	run.FinishedAt = &now
	if runErr != nil {
		run.Status = models.RunStatusFailed
		run.ErrorMessage = runErr.Error()
	} else {
		run.Status = models.RunStatusCompleted
	}
	if report != nil {
		run.TotalProperties = report.TotalProperties
		run.GoodDeals = report.GoodDealsCount
		run.StressSales = report.StressSalesCount
		run.DuplicatesRemoved = report.DuplicatesRemoved
		run.RowsSkipped = report.RowsSkipped
		run.ErrorsCount = report.RowsSkipped + report.InvalidPrices
	}
	if err := a.runs.UpdateRun(ctx, run); err != nil {
		log.Printf("[analysis] update run record: %v", err)
	}
}

func (a *Analyzer) logRun(ctx context.Context, run *models.AnalysisRun, level models.LogLevel, message string) {
	if run == nil {
		return
	}
	if err := a.runs.Log(ctx, run.ID, level, message); err != nil {
		log.Printf("[analysis] write run log: %v", err)
	}
}
