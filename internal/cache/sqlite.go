package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/dhowell/climacast/internal/metrics"
	"github.com/dhowell/climacast/internal/models"
)

// SQLiteStore is the primary Store implementation, backed by an embedded
// SQLite database so entries survive process restarts.
type SQLiteStore struct {
	db *sql.DB
}

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "Initial schema",
		SQL: `
CREATE TABLE IF NOT EXISTS observation_cache (
    key TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`,
	},
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY, applied_at DATETIME DEFAULT CURRENT_TIMESTAMP)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if _, err := s.db.Exec(m.SQL); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		if _, err := s.db.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, m.Version); err != nil {
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		log.Printf("applied cache migration %d: %s", m.Version, m.Description)
	}
	return nil
}

func (s *SQLiteStore) Get(key string) (*models.ObservationRecord, bool) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM observation_cache WHERE key = ?`, key).Scan(&payload)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("cache read %s: %v", key, err)
		}
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var rec models.ObservationRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		// Corrupt entry reads as a miss.
		log.Printf("cache entry %s corrupt: %v", key, err)
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return &rec, true
}

func (s *SQLiteStore) Put(key string, rec models.ObservationRecord) {
	payload, err := json.Marshal(rec)
	if err != nil {
		log.Printf("cache marshal %s: %v", key, err)
		return
	}
	_, err = s.db.Exec(`
		INSERT INTO observation_cache (key, payload)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload
	`, key, string(payload))
	if err != nil {
		log.Printf("cache write %s: %v", key, err)
		metrics.CacheWriteFailuresTotal.Inc()
	}
}

// Compact drops the oldest entries beyond maxEntries. Entries are immutable
// historical facts, so this is an operational bound, not an expiry.
func (s *SQLiteStore) Compact(maxEntries int) (int64, error) {
	if maxEntries <= 0 {
		return 0, fmt.Errorf("maxEntries must be positive, got %d", maxEntries)
	}
	res, err := s.db.Exec(`
		DELETE FROM observation_cache WHERE key NOT IN (
			SELECT key FROM observation_cache ORDER BY created_at DESC, key LIMIT ?
		)
	`, maxEntries)
	if err != nil {
		return 0, fmt.Errorf("compact cache: %w", err)
	}
	return res.RowsAffected()
}

// Len reports the number of cached entries.
func (s *SQLiteStore) Len() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM observation_cache`).Scan(&n)
	return n, err
}
