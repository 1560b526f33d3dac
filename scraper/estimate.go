package scraper

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"
)

// RentEstimate is the weekly rent range published on a listing's estimate
// panel.
type RentEstimate struct {
	WeeklyLow  float64
	WeeklyHigh float64
}

// Median is the midpoint of the range, the figure the yield projection uses.
func (e RentEstimate) Median() float64 {
	return (e.WeeklyLow + e.WeeklyHigh) / 2
}

// GrossYieldPct converts a weekly rent estimate into an annual gross yield
// percentage against the purchase price.
func (e RentEstimate) GrossYieldPct(purchasePrice float64) float64 {
	if purchasePrice <= 0 {
		return 0
	}
	return e.Median() * 52 / purchasePrice * 100
}

// RentEstimator scrapes a weekly rent estimate for a property link.
// Estimate failures are soft: callers log and carry on without the fields.
type RentEstimator interface {
	EstimateRent(ctx context.Context, pageURL string) (*RentEstimate, error)
}

// PlaywrightEstimator fetches the listing page fresh (no cross-request
// cache) and scans its text for a rent range.
type PlaywrightEstimator struct {
	timeout time.Duration
}

func NewPlaywrightEstimator(timeout time.Duration) *PlaywrightEstimator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &PlaywrightEstimator{timeout: timeout}
}

func (e *PlaywrightEstimator) EstimateRent(ctx context.Context, pageURL string) (*RentEstimate, error) {
	if err := ValidateURL(pageURL); err != nil {
		return nil, err
	}

	var est *RentEstimate
	err := withBrowserPage(ctx, pageURL, e.timeout, func(page playwright.Page) error {
		html, err := page.Content()
		if err != nil {
			return fmt.Errorf("%w: read page content: %v", ErrExtraction, err)
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return fmt.Errorf("%w: parse page: %v", ErrExtraction, err)
		}

		est, err = ParseRentRange(doc.Find("body").Text())
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[estimate] %s: $%.0f - $%.0f per week", pageURL, est.WeeklyLow, est.WeeklyHigh)
	return est, nil
}

// Range patterns tried most to least specific. Amounts may carry K/M
// suffixes ("$840K - $945K").
var rentRangeRegexps = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\$?\s*([\d,]+(?:\.\d+)?)\s*([KM]?)\s*-\s*\$?\s*([\d,]+(?:\.\d+)?)\s*([KM]?)\s*/\s*week`),
	regexp.MustCompile(`(?i)\$?\s*([\d,]+(?:\.\d+)?)\s*([KM]?)\s*-\s*\$?\s*([\d,]+(?:\.\d+)?)\s*([KM]?)\s*per\s+week`),
	regexp.MustCompile(`(?i)rent\s+estimate[^$]*\$\s*([\d,]+(?:\.\d+)?)\s*([KM]?)\s*-\s*\$?\s*([\d,]+(?:\.\d+)?)\s*([KM]?)`),
	regexp.MustCompile(`(?i)homesestimate[^$]*\$\s*([\d,]+(?:\.\d+)?)\s*([KM]?)\s*-\s*\$?\s*([\d,]+(?:\.\d+)?)\s*([KM]?)`),
	regexp.MustCompile(`(?i)property\s+estimate[^$]*\$\s*([\d,]+(?:\.\d+)?)\s*([KM]?)\s*-\s*\$?\s*([\d,]+(?:\.\d+)?)\s*([KM]?)`),
	regexp.MustCompile(`\$\s*([\d,]+(?:\.\d+)?)\s*([KM]?)\s*-\s*\$\s*([\d,]+(?:\.\d+)?)\s*([KM]?)`),
}

// ParseRentRange finds the first recognizable price range in page text.
func ParseRentRange(text string) (*RentEstimate, error) {
	for _, re := range rentRangeRegexps {
		sub := re.FindStringSubmatch(text)
		if sub == nil {
			continue
		}
		low, okLow := parseSuffixedAmount(sub[1], sub[2])
		high, okHigh := parseSuffixedAmount(sub[3], sub[4])
		if !okLow || !okHigh {
			continue
		}
		if high < low {
			low, high = high, low
		}
		return &RentEstimate{WeeklyLow: low, WeeklyHigh: high}, nil
	}
	return nil, fmt.Errorf("%w: no rent range found on page", ErrExtraction)
}

func parseSuffixedAmount(value, suffix string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToUpper(suffix) {
	case "K":
		v *= 1000
	case "M":
		v *= 1000000
	}
	return v, true
}
