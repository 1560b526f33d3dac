package models

import "time"

// Listing is one normalized property listing, produced either by the tabular
// ingest or by the live page scraper. Listings are value objects: created
// once, consumed by the analysis pipeline, never mutated.
type Listing struct {
	Address   string
	Title     string
	PriceText string
	ListedAt  time.Time // zero means unknown; treated as earliest on dedup

	Bedrooms  string
	Bathrooms string
	Area      string
	Link      string

	// Passthrough export columns, carried to output untouched.
	DateGMT        string
	ListingDate    string
	AgentName      string
	AgencyName     string
	OpenHomeStatus string
	Position       string
	JobLink        string
	OriginURL      string
}
