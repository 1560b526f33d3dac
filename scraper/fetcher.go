package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"nz_propper/models"
)

// PageFetcher fetches a single live listing page and returns the same
// structured record a tabular export row would yield. Implementations own
// their browser session for the duration of one call; callers decide about
// retries. The narrow interface keeps the site-specific selectors — the part
// most likely to break — swappable without touching the pipeline.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (*models.Listing, error)
}

// Failure kinds for a fetch, distinguishable with errors.Is so callers can
// render distinct messages.
var (
	// ErrInvalidURL: the URL is not well-formed http/https. Raised before
	// any browser action.
	ErrInvalidURL = errors.New("invalid listing url")
	// ErrNavigationTimeout: the page failed to load within the timeout
	// budget (covers network failures during navigation too).
	ErrNavigationTimeout = errors.New("listing page failed to load in time")
	// ErrExtraction: the page loaded but a required field (title or price
	// text) could not be located.
	ErrExtraction = errors.New("could not extract listing details")
)

// fetch phases, for logging.
type phase string

const (
	phaseIdle       phase = "idle"
	phaseNavigating phase = "navigating"
	phaseExtracting phase = "extracting"
	phaseSuccess    phase = "success"
	phaseFailed     phase = "failed"
)

// ValidateURL rejects anything that is not a well-formed absolute http or
// https URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return nil
}
