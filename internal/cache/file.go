package cache

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/dhowell/climacast/internal/metrics"
	"github.com/dhowell/climacast/internal/models"
)

// FileStore is a Store backed by one JSON file per key. Writes go to a
// temporary file in the same directory and are published with an atomic
// rename, so concurrent same-key puts are last-write-wins with no torn
// reads.
type FileStore struct {
	dir string
}

// NewFileStore creates the cache directory if needed. A failure to create
// it is logged, not fatal: every Get will miss and every Put will no-op.
func NewFileStore(dir string) *FileStore {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("could not create cache directory %s: %v", dir, err)
	}
	return &FileStore{dir: dir}
}

func (c *FileStore) path(key string) string {
	return filepath.Join(c.dir, fmt.Sprintf("obs_%s.json", key))
}

func (c *FileStore) Get(key string) (*models.ObservationRecord, bool) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var rec models.ObservationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		log.Printf("cache entry %s corrupt: %v", key, err)
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return &rec, true
}

func (c *FileStore) Put(key string, rec models.ObservationRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		log.Printf("cache marshal %s: %v", key, err)
		return
	}

	tmp, err := os.CreateTemp(c.dir, "obs_*.tmp")
	if err != nil {
		log.Printf("cache write %s: %v", key, err)
		metrics.CacheWriteFailuresTotal.Inc()
		return
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		log.Printf("cache write %s: %v", key, err)
		metrics.CacheWriteFailuresTotal.Inc()
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		log.Printf("cache write %s: %v", key, err)
		metrics.CacheWriteFailuresTotal.Inc()
		return
	}

	if err := os.Rename(tmpName, c.path(key)); err != nil {
		os.Remove(tmpName)
		log.Printf("cache publish %s: %v", key, err)
		metrics.CacheWriteFailuresTotal.Inc()
	}
}

// Len reports the number of cached entries.
func (c *FileStore) Len() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			n++
		}
	}
	return n, nil
}
