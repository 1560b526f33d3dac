package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"nz_propper/identity"
	"nz_propper/models"
)

// Expected export columns. Names are fixed and case-sensitive, matching the
// upstream scrape export.
const (
	ColDateGMT     = "Date (GMT)"
	ColJobLink     = "Job Link"
	ColOriginURL   = "Origin URL"
	ColPosition    = "Position"
	ColOpenHome    = "Open Home Status"
	ColAgentName   = "Agent Name"
	ColAgencyName  = "Agency Name"
	ColListingDate = "Listing Date"
	ColTitle       = "Property Title"
	ColAddress     = "Property Address"
	ColBedrooms    = "Bedrooms"
	ColBathrooms   = "Bathrooms"
	ColArea        = "Area"
	ColPrice       = "Price"
	ColLink        = "Property Link"
)

// ErrMissingAddress marks a row without a usable property address. Such
// rows are skipped and counted; they never abort the batch.
var ErrMissingAddress = errors.New("row has no property address")

// Row is one decoded export row, keyed by column name.
type Row map[string]string

// FromRow normalizes a decoded row into a Listing. Missing optional columns
// simply yield empty fields.
func FromRow(r Row) (*models.Listing, error) {
	address := strings.TrimSpace(r[ColAddress])
	if identity.Key(address) == "" {
		return nil, fmt.Errorf("%w (title %q)", ErrMissingAddress, r[ColTitle])
	}

	return &models.Listing{
		Address:        address,
		Title:          strings.TrimSpace(r[ColTitle]),
		PriceText:      strings.TrimSpace(r[ColPrice]),
		ListedAt:       parseDate(r[ColDateGMT]),
		Bedrooms:       strings.TrimSpace(r[ColBedrooms]),
		Bathrooms:      strings.TrimSpace(r[ColBathrooms]),
		Area:           strings.TrimSpace(r[ColArea]),
		Link:           strings.TrimSpace(r[ColLink]),
		DateGMT:        strings.TrimSpace(r[ColDateGMT]),
		ListingDate:    strings.TrimSpace(r[ColListingDate]),
		AgentName:      strings.TrimSpace(r[ColAgentName]),
		AgencyName:     strings.TrimSpace(r[ColAgencyName]),
		OpenHomeStatus: strings.TrimSpace(r[ColOpenHome]),
		Position:       strings.TrimSpace(r[ColPosition]),
		JobLink:        strings.TrimSpace(r[ColJobLink]),
		OriginURL:      strings.TrimSpace(r[ColOriginURL]),
	}, nil
}

// Export timestamps show up in a handful of shapes depending on which tool
// produced the file.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ReadCSV decodes a CSV export into rows keyed by the header line. Ragged
// lines are tolerated: short rows leave trailing columns empty, long rows
// drop the overflow.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\uFEFF"))
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip malformed lines, mirroring the tolerant decode of the
			// upstream exports.
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		row := make(Row, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
