// Package cache persists resolved observations keyed by coordinate and date.
// Archive data for a past date never changes, so entries have no expiry.
package cache

import "github.com/dhowell/climacast/internal/models"

// Store is a durable key to observation map. Get treats any unreadable or
// corrupt entry as a miss and never reports an error. Put is best-effort:
// implementations log and swallow persistence failures so a cache problem
// can never fail the surrounding fetch. Both must be safe for concurrent
// use; same-key puts are last-write-wins with no torn writes.
type Store interface {
	Get(key string) (*models.ObservationRecord, bool)
	Put(key string, rec models.ObservationRecord)
}
