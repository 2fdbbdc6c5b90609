package predict

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dhowell/climacast/internal/history"
)

// ErrInvalidDate is returned when the target date cannot be parsed.
var ErrInvalidDate = errors.New("target date must be formatted YYYY-MM-DD")

// DefaultYearsBack is how many historical years feed a prediction when the
// caller does not say otherwise.
const DefaultYearsBack = 10

// PredictForPoint is the surface the serving layer calls: it validates the
// request, assembles the historical sample through the fetcher and reduces
// it to a prediction. Only input errors surface; degraded years inside the
// fetch stay internal.
func PredictForPoint(ctx context.Context, lat, lon float64, targetDate string, yearsBack int, fetcher *history.Fetcher) (*PredictionResult, error) {
	date, err := time.Parse("2006-01-02", targetDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, targetDate)
	}
	if yearsBack <= 0 {
		yearsBack = DefaultYearsBack
	}

	sample, err := fetcher.Fetch(ctx, lat, lon, int(date.Month()), date.Day(), yearsBack)
	if err != nil {
		return nil, err
	}

	return NewEngine().Predict(sample, yearsBack)
}
