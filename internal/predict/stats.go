package predict

import (
	"math"

	"github.com/dhowell/climacast/internal/models"
)

// VariableStats summarizes one variable over the sample.
type VariableStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// PrecipitationStats adds the multi-year total on top of the usual summary.
type PrecipitationStats struct {
	VariableStats
	Total float64 `json:"total"`
}

// SampleStats holds the per-variable summaries the prediction is derived
// from; it is returned to the caller alongside the prediction itself.
type SampleStats struct {
	Temperature   VariableStats      `json:"temperature"`
	Humidity      VariableStats      `json:"humidity"`
	WindSpeed     VariableStats      `json:"windSpeed"`
	Precipitation PrecipitationStats `json:"precipitation"`
	CloudCover    VariableStats      `json:"cloudCover"`
	Pressure      VariableStats      `json:"pressure"`
	DewPoint      VariableStats      `json:"dewPoint"`
	UVIndex       VariableStats      `json:"uvIndex"`
	FeelsLike     VariableStats      `json:"feelsLike"`
}

func computeStats(sample models.Sample) SampleStats {
	extract := func(get func(models.ObservationRecord) float64) []float64 {
		vals := make([]float64, len(sample))
		for i, r := range sample {
			vals[i] = get(r)
		}
		return vals
	}

	precipVals := extract(func(r models.ObservationRecord) float64 { return r.Precipitation })
	total := 0.0
	for _, v := range precipVals {
		total += v
	}

	return SampleStats{
		Temperature:   variableStats(extract(func(r models.ObservationRecord) float64 { return r.TemperatureC })),
		Humidity:      variableStats(extract(func(r models.ObservationRecord) float64 { return r.Humidity })),
		WindSpeed:     variableStats(extract(func(r models.ObservationRecord) float64 { return r.WindSpeed })),
		Precipitation: PrecipitationStats{VariableStats: variableStats(precipVals), Total: round2(total)},
		CloudCover:    variableStats(extract(func(r models.ObservationRecord) float64 { return r.CloudCover })),
		Pressure:      variableStats(extract(func(r models.ObservationRecord) float64 { return r.Pressure })),
		DewPoint:      variableStats(extract(func(r models.ObservationRecord) float64 { return r.DewPoint })),
		UVIndex:       variableStats(extract(func(r models.ObservationRecord) float64 { return r.UVIndex })),
		FeelsLike:     variableStats(extract(func(r models.ObservationRecord) float64 { return r.FeelsLike })),
	}
}

// variableStats computes mean, sample standard deviation (n-1), min and
// max. A single-element sample has zero deviation.
func variableStats(vals []float64) VariableStats {
	if len(vals) == 0 {
		return VariableStats{}
	}

	sum := 0.0
	min := vals[0]
	max := vals[0]
	for _, v := range vals {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean := sum / float64(len(vals))

	std := 0.0
	if len(vals) > 1 {
		ss := 0.0
		for _, v := range vals {
			d := v - mean
			ss += d * d
		}
		std = math.Sqrt(ss / float64(len(vals)-1))
	}

	return VariableStats{
		Mean: round2(mean),
		Std:  round2(std),
		Min:  round2(min),
		Max:  round2(max),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
