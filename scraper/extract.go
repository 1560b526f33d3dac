package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"nz_propper/models"
)

// Element lookups for the target listing site. Each field tries its
// selectors in order and takes the first non-empty text. These are the
// most fragile part of the scraper and the only thing that should need
// touching when the site changes its markup.
var (
	titleSelectors = []string{
		"h1.tm-property-listing-body__title",
		"h1[class*='listing-title']",
		"h1",
	}
	priceSelectors = []string{
		".tm-property-listing-body__price",
		"[class*='property-price']",
		"[class*='listing-price']",
		"h2[class*='price']",
	}
	addressSelectors = []string{
		".tm-property-listing-body__location",
		"[class*='property-address']",
		"[class*='listing-address']",
	}
	bedroomSelectors = []string{
		"[class*='bedroom'] [class*='value']",
		"[class*='bedroom']",
	}
	bathroomSelectors = []string{
		"[class*='bathroom'] [class*='value']",
		"[class*='bathroom']",
	}
	areaSelectors = []string{
		"[class*='floor-area']",
		"[class*='land-area']",
		"[class*='property-area']",
	}
	listingDateSelectors = []string{
		"[class*='listing-date']",
		"[class*='listed-date']",
	}
)

// extractListing reads the structured listing fields out of a loaded page.
// Title and price text are required; everything else degrades to empty.
func extractListing(doc *goquery.Document, pageURL string) (*models.Listing, error) {
	title := firstText(doc, titleSelectors)
	if title == "" {
		return nil, fmt.Errorf("%w: listing title not found", ErrExtraction)
	}

	priceText := firstText(doc, priceSelectors)
	if priceText == "" {
		return nil, fmt.Errorf("%w: price text not found", ErrExtraction)
	}

	return &models.Listing{
		Address:     firstText(doc, addressSelectors),
		Title:       title,
		PriceText:   priceText,
		Bedrooms:    firstText(doc, bedroomSelectors),
		Bathrooms:   firstText(doc, bathroomSelectors),
		Area:        firstText(doc, areaSelectors),
		ListingDate: firstText(doc, listingDateSelectors),
		Link:        pageURL,
	}, nil
}

func firstText(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if text := cleanText(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
