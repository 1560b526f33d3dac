package services

import (
	"log"

	"nz_propper/identity"
	"nz_propper/models"
)

// ResolveDuplicates collapses listings that share a normalized address down
// to one record each, keeping the most recently listed copy. When listing
// dates tie (or are both unknown), the later-seen record wins. Survivors
// keep the input order of their first appearance. Returns the survivors and
// the number of records removed.
func ResolveDuplicates(records []*models.Listing) ([]*models.Listing, int) {
	out := make([]*models.Listing, 0, len(records))
	seen := make(map[string]int, len(records))

	for _, rec := range records {
		key := identity.Key(rec.Address)
		idx, ok := seen[key]
		if !ok {
			seen[key] = len(out)
			out = append(out, rec)
			continue
		}
		// Zero ListedAt sorts as the earliest possible date, so a dated
		// copy always beats an undated one.
		if !rec.ListedAt.Before(out[idx].ListedAt) {
			out[idx] = rec
		}
	}

	removed := len(records) - len(out)
	if removed > 0 {
		log.Printf("[dedup] removed %d duplicate listings (%d unique addresses)", removed, len(out))
	}
	return out, removed
}
