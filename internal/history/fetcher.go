// Package history assembles the multi-year observation sample for one
// prediction request: per-year cache/remote/climatology resolution under a
// bounded worker pool with an overall deadline.
package history

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dhowell/climacast/internal/archive"
	"github.com/dhowell/climacast/internal/cache"
	"github.com/dhowell/climacast/internal/climatology"
	"github.com/dhowell/climacast/internal/metrics"
	"github.com/dhowell/climacast/internal/models"
)

var (
	ErrInvalidCoordinate = errors.New("latitude must be in [-90, 90] and longitude in [-180, 180]")
	ErrInvalidYears      = errors.New("years back must be positive")

	// ErrEmptySample guards the theoretically unreachable case of no year
	// resolving at all. The climatology estimator is total, so seeing this
	// error means the fallback chain itself is broken.
	ErrEmptySample = errors.New("no historical records could be resolved")
)

const (
	// DefaultWorkers bounds concurrent year fetches. The archive returns
	// server errors under higher concurrency; keep this at 5.
	DefaultWorkers = 5

	// DefaultDeadline bounds the whole fetch. Years still unresolved at
	// the deadline are backfilled synchronously from climatology.
	DefaultDeadline = 60 * time.Second
)

// resolution records how a year's record was obtained. Degraded years stay
// visible to logs and metrics without changing the success contract.
type resolution string

const (
	resolvedCache       resolution = "cache"
	resolvedRemote      resolution = "remote"
	resolvedClimatology resolution = "climatology"
)

type yearResult struct {
	record *models.ObservationRecord
	source resolution
	reason string // set when source is climatology
}

// Fetcher joins cache, remote archive and climatology fallback into the
// "always produce a record per requested year" contract.
type Fetcher struct {
	cache    cache.Store
	archive  archive.Client
	est      *climatology.Estimator
	workers  int
	deadline time.Duration
	now      func() time.Time
}

func NewFetcher(store cache.Store, client archive.Client) *Fetcher {
	return &Fetcher{
		cache:    store,
		archive:  client,
		est:      climatology.NewEstimator(),
		workers:  DefaultWorkers,
		deadline: DefaultDeadline,
		now:      time.Now,
	}
}

// Fetch returns one record per year in [currentYear-yearsBack, currentYear),
// ascending. It fails only on invalid input; every per-year failure below
// this boundary degrades to a climatology estimate.
func (f *Fetcher) Fetch(ctx context.Context, lat, lon float64, month, day, yearsBack int) (models.Sample, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("%w: (%.4f, %.4f)", ErrInvalidCoordinate, lat, lon)
	}
	if yearsBack <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidYears, yearsBack)
	}

	currentYear := f.now().Year()
	years := make([]int, yearsBack)
	for i := range years {
		years[i] = currentYear - yearsBack + i
	}

	results := make([]yearResult, yearsBack)

	fetchCtx, cancel := context.WithTimeout(ctx, f.deadline)
	defer cancel()

	g, gctx := errgroup.WithContext(fetchCtx)
	g.SetLimit(f.workers)
	for i, year := range years {
		i, year := i, year
		g.Go(func() error {
			results[i] = f.fetchYear(gctx, lat, lon, month, day, year)
			return nil
		})
	}
	g.Wait()

	sample := make(models.Sample, 0, yearsBack)
	for i, year := range years {
		r := results[i]
		if r.record == nil {
			// Task never ran before the deadline; backfill synchronously.
			rec := f.est.Estimate(lat, lon, month, year)
			r = yearResult{record: &rec, source: resolvedClimatology, reason: "fetch deadline exceeded"}
		}
		if r.source == resolvedClimatology {
			log.Printf("year %d resolved from climatology: %s", year, r.reason)
		}
		metrics.YearResolutionsTotal.WithLabelValues(string(r.source)).Inc()
		sample = append(sample, *r.record)
	}

	if len(sample) == 0 {
		return nil, ErrEmptySample
	}
	return sample, nil
}

// fetchYear resolves a single year: cache, then remote (persisting the
// result), then climatology. It never fails.
func (f *Fetcher) fetchYear(ctx context.Context, lat, lon float64, month, day, year int) yearResult {
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	key := cache.Key(lat, lon, date)

	if rec, ok := f.cache.Get(key); ok {
		return yearResult{record: rec, source: resolvedCache}
	}

	if err := ctx.Err(); err != nil {
		rec := f.est.Estimate(lat, lon, month, year)
		return yearResult{record: &rec, source: resolvedClimatology, reason: err.Error()}
	}

	rec, err := f.archive.FetchDay(ctx, lat, lon, date)
	if err != nil {
		est := f.est.Estimate(lat, lon, month, year)
		return yearResult{record: &est, source: resolvedClimatology, reason: err.Error()}
	}

	rec.Year = year
	rec.Clamp()
	f.cache.Put(key, *rec)
	return yearResult{record: rec, source: resolvedRemote}
}
