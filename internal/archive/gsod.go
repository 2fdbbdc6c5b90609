package archive

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/dhowell/climacast/internal/metrics"
	"github.com/dhowell/climacast/internal/models"
)

// GSODClient fetches daily observations from an anonymous FTP mirror of
// global summary-of-day extracts. The mirror publishes one CSV per calendar
// day at /daily/YYYY/MMDD.csv, each row holding one grid point. The nearest
// grid point within maxGridDistance degrees is used.
type GSODClient struct {
	host string
}

const (
	gsodDialTimeout = 10 * time.Second

	// maxGridDistance is the largest coordinate distance (degrees, per
	// axis) accepted when matching a grid point to the request.
	maxGridDistance = 1.0
)

func NewGSODClient(host string) *GSODClient {
	return &GSODClient{host: host}
}

func (g *GSODClient) FetchDay(ctx context.Context, lat, lon float64, date time.Time) (*models.ObservationRecord, error) {
	start := time.Now()
	rec, err := g.fetchDay(ctx, lat, lon, date)
	metrics.ArchiveLatency.WithLabelValues("gsod").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ArchiveCallsTotal.WithLabelValues("gsod", "error").Inc()
		return nil, err
	}
	metrics.ArchiveCallsTotal.WithLabelValues("gsod", "ok").Inc()
	return rec, nil
}

func (g *GSODClient) fetchDay(ctx context.Context, lat, lon float64, date time.Time) (*models.ObservationRecord, error) {
	conn, err := ftp.Dial(g.host, ftp.DialWithTimeout(gsodDialTimeout), ftp.DialWithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("ftp dial: %w", err)
	}
	defer conn.Quit()

	if err := conn.Login("anonymous", "anonymous"); err != nil {
		return nil, fmt.Errorf("ftp login: %w", err)
	}

	path := fmt.Sprintf("/daily/%04d/%02d%02d.csv", date.Year(), int(date.Month()), date.Day())
	resp, err := conn.Retr(path)
	if err != nil {
		return nil, fmt.Errorf("ftp retr %s: %w", path, err)
	}
	defer resp.Close()

	body, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return decodeGSODDay(body, lat, lon, date)
}

func decodeGSODDay(body []byte, lat, lon float64, date time.Time) (*models.ObservationRecord, error) {
	r := csv.NewReader(strings.NewReader(string(body)))
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrNoData
	}

	cols := map[string]int{}
	for i, name := range rows[0] {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}

	field := func(row []string, name string) (float64, error) {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return 0, fmt.Errorf("%w: %s", ErrMissingVariable, name)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrMissingVariable, name)
		}
		return v, nil
	}

	// Pick the nearest grid point to the requested coordinate.
	var best []string
	bestDist := math.MaxFloat64
	for _, row := range rows[1:] {
		rowLat, err := field(row, "lat")
		if err != nil {
			continue
		}
		rowLon, err := field(row, "lon")
		if err != nil {
			continue
		}
		dLat, dLon := rowLat-lat, rowLon-lon
		if math.Abs(dLat) > maxGridDistance || math.Abs(dLon) > maxGridDistance {
			continue
		}
		dist := dLat*dLat + dLon*dLon
		if dist < bestDist {
			bestDist = dist
			best = row
		}
	}
	if best == nil {
		return nil, ErrNoData
	}

	var errs []error
	get := func(name string) float64 {
		v, err := field(best, name)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	temp := get("t2m")
	humidity := get("rh2m")
	windSpeed := get("ws2m")
	rec := &models.ObservationRecord{
		Year:           date.Year(),
		TemperatureC:   temp,
		TemperatureMax: get("t2m_max"),
		TemperatureMin: get("t2m_min"),
		TemperatureAvg: temp,
		HourMax:        14,
		HourMin:        6,
		Humidity:       humidity,
		WindSpeed:      windSpeed,
		WindDirection:  get("wd2m"),
		Precipitation:  get("prectot"),
		CloudCover:     get("cloud_amt"),
		Pressure:       get("ps_hpa"),
		DewPoint:       get("t2mdew"),
		UVIndex:        get("uv_index"),
		FeelsLike:      models.FeelsLikeC(temp, humidity, windSpeed),
	}
	if len(errs) > 0 {
		return nil, errs[0]
	}
	rec.Clamp()
	return rec, nil
}
