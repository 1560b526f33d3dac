package services

import (
	"testing"
	"time"

	"nz_propper/models"
)

func listing(address string, listed time.Time, title string) *models.Listing {
	return &models.Listing{Address: address, ListedAt: listed, Title: title}
}

func TestResolveDuplicatesKeepsLatest(t *testing.T) {
	older := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	records := []*models.Listing{
		listing("123 Main St, Auckland", older, "old copy"),
		listing("45 Queen St, Wellington", newer, "other"),
		listing("123 main st,  auckland", newer, "new copy"),
	}

	out, removed := ResolveDuplicates(records)
	if removed != 1 {
		t.Fatalf("removed = %d; want 1", removed)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d; want 2", len(out))
	}
	// Survivor keeps the slot of the first appearance.
	if out[0].Title != "new copy" {
		t.Errorf("out[0].Title = %q; want the later-listed copy", out[0].Title)
	}
	if out[1].Address != "45 Queen St, Wellington" {
		t.Errorf("out[1].Address = %q; order not preserved", out[1].Address)
	}
}

func TestResolveDuplicatesTieLastWins(t *testing.T) {
	when := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	records := []*models.Listing{
		listing("7 Beach Rd", when, "first"),
		listing("7 Beach Rd", when, "second"),
	}

	out, removed := ResolveDuplicates(records)
	if removed != 1 || len(out) != 1 {
		t.Fatalf("got %d survivors, %d removed; want 1 and 1", len(out), removed)
	}
	if out[0].Title != "second" {
		t.Errorf("tie survivor = %q; want the later-seen record", out[0].Title)
	}
}

func TestResolveDuplicatesUndatedLosesToDated(t *testing.T) {
	when := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	records := []*models.Listing{
		listing("7 Beach Rd", when, "dated"),
		listing("7 Beach Rd", time.Time{}, "undated"),
	}

	out, _ := ResolveDuplicates(records)
	if out[0].Title != "dated" {
		t.Errorf("survivor = %q; want the dated record", out[0].Title)
	}
}

func TestResolveDuplicatesIdempotent(t *testing.T) {
	records := []*models.Listing{
		listing("1 First Ave", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "a"),
		listing("2 Second Ave", time.Time{}, "b"),
		listing("1 First Ave", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "c"),
	}

	once, _ := ResolveDuplicates(records)
	twice, removed := ResolveDuplicates(once)
	if removed != 0 {
		t.Fatalf("second pass removed %d; want 0", removed)
	}
	if len(twice) != len(once) {
		t.Fatalf("second pass changed length: %d vs %d", len(twice), len(once))
	}
	for i := range once {
		if twice[i] != once[i] {
			t.Errorf("second pass changed record %d", i)
		}
	}
}
