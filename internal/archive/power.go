package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"github.com/dhowell/climacast/internal/metrics"
	"github.com/dhowell/climacast/internal/models"
)

const (
	powerBaseURL = "https://power.larc.nasa.gov/api/temporal/daily/point"

	// powerParams is the daily variable set requested from the archive.
	powerParams = "T2M,T2M_MAX,T2M_MIN,RH2M,WS2M,WD2M,PRECTOTCORR,CLOUD_AMT,PS,T2MDEW,ALLSKY_SFC_UV_INDEX"

	// powerFillValue marks a missing observation in POWER responses.
	powerFillValue = -999

	// Per-call budget. Five workers times this must stay well under the
	// orchestrator's overall deadline.
	powerCallTimeout = 10 * time.Second
)

// PowerClient fetches daily observations from the NASA POWER archive over
// HTTP. Retries transient failures with exponential backoff and stops
// calling out entirely while the circuit breaker is open.
type PowerClient struct {
	baseURL string
	creds   Credentials
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewPowerClient(creds Credentials) *PowerClient {
	return &PowerClient{
		baseURL: powerBaseURL,
		creds:   creds,
		client:  &http.Client{Timeout: powerCallTimeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "nasa-power",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// SetBaseURL overrides the archive endpoint, for tests.
func (p *PowerClient) SetBaseURL(u string) {
	p.baseURL = u
}

type powerResponse struct {
	Properties struct {
		Parameter map[string]map[string]float64 `json:"parameter"`
	} `json:"properties"`
}

func (p *PowerClient) FetchDay(ctx context.Context, lat, lon float64, date time.Time) (*models.ObservationRecord, error) {
	start := time.Now()
	rec, err := p.fetchDay(ctx, lat, lon, date)
	metrics.ArchiveLatency.WithLabelValues("power").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ArchiveCallsTotal.WithLabelValues("power", "error").Inc()
		return nil, err
	}
	metrics.ArchiveCallsTotal.WithLabelValues("power", "ok").Inc()
	return rec, nil
}

func (p *PowerClient) fetchDay(ctx context.Context, lat, lon float64, date time.Time) (*models.ObservationRecord, error) {
	day := date.Format("20060102")
	q := url.Values{}
	q.Set("parameters", powerParams)
	q.Set("community", "RE")
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("start", day)
	q.Set("end", day)
	q.Set("format", "JSON")
	reqURL := p.baseURL + "?" + q.Encode()

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		if !p.creds.IsZero() {
			req.SetBasicAuth(p.creds.Username, p.creds.Password)
		}

		resp, err := p.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetch day: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("archive unavailable: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("fetch day: status %d: %s", resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		return nil
	}

	_, err := p.breaker.Execute(func() (interface{}, error) {
		bo := backoff.NewExponentialBackOff()
		bo.MaxElapsedTime = 8 * time.Second
		return nil, backoff.Retry(operation, backoff.WithContext(bo, ctx))
	})
	if err != nil {
		return nil, err
	}

	var data powerResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return decodePowerDay(data, date, day)
}

// decodePowerDay extracts one day's variables into an ObservationRecord.
// Every requested variable must be present and not the fill value; a
// partial day is an error, not a partial record.
func decodePowerDay(data powerResponse, date time.Time, day string) (*models.ObservationRecord, error) {
	params := data.Properties.Parameter
	if len(params) == 0 {
		return nil, ErrNoData
	}

	value := func(name string) (float64, error) {
		series, ok := params[name]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrMissingVariable, name)
		}
		v, ok := series[day]
		if !ok || v == powerFillValue {
			return 0, fmt.Errorf("%w: %s for %s", ErrMissingVariable, name, day)
		}
		return v, nil
	}

	var errs []error
	get := func(name string) float64 {
		v, err := value(name)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	temp := get("T2M")
	tempMax := get("T2M_MAX")
	tempMin := get("T2M_MIN")
	humidity := get("RH2M")
	windSpeed := get("WS2M")
	windDir := get("WD2M")
	precip := get("PRECTOTCORR")
	cloud := get("CLOUD_AMT")
	pressureKPa := get("PS")
	dewPoint := get("T2MDEW")
	uv := get("ALLSKY_SFC_UV_INDEX")
	if len(errs) > 0 {
		return nil, errs[0]
	}

	rec := &models.ObservationRecord{
		Year:           date.Year(),
		TemperatureC:   temp,
		TemperatureMax: tempMax,
		TemperatureMin: tempMin,
		TemperatureAvg: temp,
		HourMax:        14,
		HourMin:        6,
		Humidity:       humidity,
		WindSpeed:      windSpeed,
		WindDirection:  windDir,
		Precipitation:  precip,
		CloudCover:     cloud,
		Pressure:       pressureKPa * 10, // kPa to hPa
		DewPoint:       dewPoint,
		UVIndex:        uv,
		FeelsLike:      models.FeelsLikeC(temp, humidity, windSpeed),
	}
	rec.Clamp()
	return rec, nil
}
