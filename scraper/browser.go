package scraper

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"
	"nz_propper/models"
)

// PlaywrightFetcher drives a headless Chromium session to fetch one listing
// page. Every Fetch call acquires its own browser session and tears it down
// on all exit paths, so navigation state never bleeds between requests.
type PlaywrightFetcher struct {
	timeout time.Duration
}

func NewPlaywrightFetcher(timeout time.Duration) *PlaywrightFetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &PlaywrightFetcher{timeout: timeout}
}

// Fetch runs the Idle -> Navigating -> Extracting -> Success/Failed state
// machine for a single URL. One navigation attempt per call; retries belong
// to the caller.
func (f *PlaywrightFetcher) Fetch(ctx context.Context, pageURL string) (*models.Listing, error) {
	if err := ValidateURL(pageURL); err != nil {
		return nil, err
	}

	state := phaseIdle
	log.Printf("[scraper] %s: session for %s", state, pageURL)

	var rec *models.Listing
	err := withBrowserPage(ctx, pageURL, f.timeout, func(page playwright.Page) error {
		state = phaseExtracting
		log.Printf("[scraper] %s: extracting fields from %s", state, pageURL)

		html, err := page.Content()
		if err != nil {
			return fmt.Errorf("%w: read page content: %v", ErrExtraction, err)
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return fmt.Errorf("%w: parse page: %v", ErrExtraction, err)
		}

		rec, err = extractListing(doc, pageURL)
		return err
	})
	if err != nil {
		state = phaseFailed
		log.Printf("[scraper] %s: %s: %v", state, pageURL, err)
		return nil, err
	}

	state = phaseSuccess
	log.Printf("[scraper] %s: %s (%q)", state, pageURL, rec.Title)
	return rec, nil
}

// withBrowserPage launches a headless browser, navigates to pageURL with a
// hard timeout, runs fn on the loaded page, and guarantees teardown whether
// fn succeeds, fails, or the context is cancelled mid-navigation.
func withBrowserPage(ctx context.Context, pageURL string, timeout time.Duration, fn func(playwright.Page) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrNavigationTimeout, err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return fmt.Errorf("create page: %w", err)
	}

	log.Printf("[scraper] %s: %s (timeout %s)", phaseNavigating, pageURL, timeout)

	// Goto has its own timeout; the goroutine lets a cancelled context win
	// the race, with the deferred Close calls reaping the session.
	navDone := make(chan error, 1)
	go func() {
		_, gotoErr := page.Goto(pageURL, playwright.PageGotoOptions{
			Timeout:   playwright.Float(float64(timeout.Milliseconds())),
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		})
		navDone <- gotoErr
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrNavigationTimeout, ctx.Err())
	case err := <-navDone:
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNavigationTimeout, err)
		}
	}

	return fn(page)
}
