package models

import "math"

// ObservationRecord is one year's resolved weather observation for a
// coordinate and calendar date. Records are built by the archive decoder,
// the cache, or the climatology estimator, and are immutable afterwards.
type ObservationRecord struct {
	Year           int     `json:"year"`
	TemperatureC   float64 `json:"temperatureC"`
	TemperatureMax float64 `json:"temperatureMax"`
	TemperatureMin float64 `json:"temperatureMin"`
	TemperatureAvg float64 `json:"temperatureAvg"`
	HourMax        int     `json:"hourMax"`
	HourMin        int     `json:"hourMin"`
	Humidity       float64 `json:"humidity"`
	WindSpeed      float64 `json:"windSpeed"`
	WindDirection  float64 `json:"windDirection"`
	Precipitation  float64 `json:"precipitation"`
	CloudCover     float64 `json:"cloudCover"`
	Pressure       float64 `json:"pressure"`
	DewPoint       float64 `json:"dewPoint"`
	UVIndex        float64 `json:"uvIndex"`
	FeelsLike      float64 `json:"feelsLike"`
}

// Clamp normalizes all bounded fields to their documented ranges. Every
// record passes through here before leaving the acquisition pipeline.
func (r *ObservationRecord) Clamp() {
	r.Humidity = clamp(r.Humidity, 0, 100)
	r.CloudCover = clamp(r.CloudCover, 0, 100)
	r.WindSpeed = math.Max(0, r.WindSpeed)
	r.WindDirection = NormalizeDegrees(r.WindDirection)
	r.Precipitation = math.Max(0, r.Precipitation)
	r.UVIndex = math.Max(0, r.UVIndex)
	r.HourMax = clampInt(r.HourMax, 0, 23)
	r.HourMin = clampInt(r.HourMin, 0, 23)
}

// Sample is the per-year set of records assembled for one prediction
// request, ordered by year ascending.
type Sample []ObservationRecord

// Years returns the years present in the sample, in sample order.
func (s Sample) Years() []int {
	years := make([]int, len(s))
	for i, r := range s {
		years[i] = r.Year
	}
	return years
}

// NormalizeDegrees reduces an angle to [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
