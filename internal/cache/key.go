package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Key derives the cache key for a coordinate and calendar date. Coordinates
// are rounded to 0.01 degrees so repeated queries for nearby points share
// entries, and the digest is stable across processes.
func Key(lat, lon float64, date time.Time) string {
	s := fmt.Sprintf("%.2f|%.2f|%s", lat, lon, date.Format("2006-01-02"))
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
