package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/dhowell/climacast/internal/archive"
	"github.com/dhowell/climacast/internal/cache"
	"github.com/dhowell/climacast/internal/history"
	"github.com/dhowell/climacast/internal/narrative"
	"github.com/dhowell/climacast/internal/predict"
)

type globals struct {
	Cache    string `env:"CLIMACAST_CACHE" enum:"sqlite,file" default:"sqlite" help:"Observation cache backend."`
	DB       string `env:"CLIMACAST_DB" default:"data/climacast.db" help:"Path to the SQLite observation cache."`
	CacheDir string `env:"CLIMACAST_CACHE_DIR" default:"data/cache" help:"Directory for the file cache backend."`
	Archive  string `env:"CLIMACAST_ARCHIVE" enum:"power,gsod" default:"power" help:"Remote archive transport."`
	GSODHost string `env:"CLIMACAST_GSOD_HOST" default:"" help:"FTP host for the gsod archive transport."`
}

type cli struct {
	globals

	Predict predictCmd `cmd:"" help:"Predict conditions for a coordinate and calendar date."`
	Serve   serveCmd   `cmd:"" help:"Expose metrics and run periodic cache compaction."`
	Compact compactCmd `cmd:"" help:"Compact the observation cache once and exit."`
}

type predictCmd struct {
	Lat       float64 `required:"" help:"Latitude in [-90, 90]."`
	Lon       float64 `required:"" help:"Longitude in [-180, 180]."`
	Date      string  `required:"" help:"Target date, YYYY-MM-DD."`
	Years     int     `default:"10" help:"Historical years to sample."`
	Narrative bool    `help:"Include trend analysis and notes."`
}

func (c *predictCmd) Run(g *globals) error {
	var store cache.Store
	if g.Cache == "file" {
		store = cache.NewFileStore(g.CacheDir)
	} else {
		sqlStore, db, err := openCache(g.DB)
		if err != nil {
			return err
		}
		defer db.Close()
		store = sqlStore
	}

	client, err := newArchiveClient(g)
	if err != nil {
		return err
	}

	fetcher := history.NewFetcher(store, client)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	result, err := predict.PredictForPoint(ctx, c.Lat, c.Lon, c.Date, c.Years, fetcher)
	if err != nil {
		return err
	}

	out := struct {
		*predict.PredictionResult
		TrendAnalysis string `json:"trendAnalysis,omitempty"`
		Notes         string `json:"notes,omitempty"`
	}{PredictionResult: result}

	if c.Narrative {
		text := narrative.TrendAnalysis(result.HistoricalData, result.Statistics)
		if gen, err := narrative.NewGenerator(); err != nil {
			log.Printf("narrative rewrite disabled: %v", err)
		} else if rewritten, err := gen.Rewrite(ctx, text); err != nil {
			log.Printf("keeping template narrative: %v", err)
		} else {
			text = rewritten
		}
		out.TrendAnalysis = text
		out.Notes = narrative.Notes(c.Lat, c.Lon, len(result.HistoricalData), result.Confidence)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

type serveCmd struct {
	Listen       string `default:":9090" help:"Metrics listen address."`
	CompactCron  string `default:"0 3 * * *" help:"Cron schedule for cache compaction."`
	CacheEntries int    `default:"100000" help:"Maximum cache entries kept after compaction."`
}

func (c *serveCmd) Run(g *globals) error {
	store, db, err := openCache(g.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	sched := cron.New()
	if _, err := sched.AddFunc(c.CompactCron, func() {
		removed, err := store.Compact(c.CacheEntries)
		if err != nil {
			log.Printf("cache compaction: %v", err)
			return
		}
		log.Printf("cache compaction removed %d entries", removed)
	}); err != nil {
		return fmt.Errorf("compaction schedule %q: %w", c.CompactCron, err)
	}
	sched.Start()
	defer sched.Stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: c.Listen, Handler: mux}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	log.Printf("serving metrics on %s", c.Listen)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

type compactCmd struct {
	CacheEntries int `default:"100000" help:"Maximum cache entries to keep."`
}

func (c *compactCmd) Run(g *globals) error {
	store, db, err := openCache(g.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	removed, err := store.Compact(c.CacheEntries)
	if err != nil {
		return err
	}
	log.Printf("removed %d cache entries", removed)
	return nil
}

func openCache(path string) (*cache.SQLiteStore, *sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache database: %w", err)
	}

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	store := cache.NewSQLiteStore(db)
	if err := store.Migrate(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate cache: %w", err)
	}
	return store, db, nil
}

func newArchiveClient(g *globals) (archive.Client, error) {
	switch g.Archive {
	case "gsod":
		if g.GSODHost == "" {
			return nil, fmt.Errorf("gsod transport requires --gsod-host")
		}
		return archive.NewGSODClient(g.GSODHost), nil
	default:
		creds := archive.Credentials{
			Username: os.Getenv("EARTHDATA_USERNAME"),
			Password: os.Getenv("EARTHDATA_PASSWORD"),
		}
		return archive.NewPowerClient(creds), nil
	}
}

func main() {
	var app cli
	ctx := kong.Parse(&app,
		kong.Name("climacast"),
		kong.Description("Historical weather prediction for a point and calendar date."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
		kong.UsageOnError(),
	)
	if err := ctx.Run(&app.globals); err != nil {
		log.Fatalf("%v", err)
	}
}
