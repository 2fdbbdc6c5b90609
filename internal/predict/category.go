package predict

import "math"

// WeatherCategory is the coarse classification of a predicted day.
type WeatherCategory string

const (
	CategorySunny  WeatherCategory = "sunny"
	CategoryCloudy WeatherCategory = "cloudy"
	CategoryRainy  WeatherCategory = "rainy"
	CategorySnowy  WeatherCategory = "snowy"
	CategoryStormy WeatherCategory = "stormy"
	CategoryFoggy  WeatherCategory = "foggy"
)

// Classify picks the weather category by strict priority: the first rule
// that matches wins, so a stormy day never downgrades to snowy or rainy.
func Classify(tempC, humidityPct, precipMM, cloudCoverPct, windSpeedMS float64) WeatherCategory {
	switch {
	case precipMM > 10 && windSpeedMS > 15:
		return CategoryStormy
	case tempC < 2 && precipMM > 2:
		return CategorySnowy
	case precipMM > 5:
		return CategoryRainy
	case humidityPct > 90:
		return CategoryFoggy
	case cloudCoverPct > 60:
		return CategoryCloudy
	default:
		return CategorySunny
	}
}

// RainSnowProbabilities estimates precipitation chances from the predicted
// conditions. Humidity contributes up to 70 points, precipitation amount up
// to 30. Below 5 degrees part of the rain chance converts to snow chance in
// proportion to how far below 5 the temperature sits.
func RainSnowProbabilities(tempC, humidityPct, precipMM float64) (rain, snow float64) {
	humidityFactor := math.Max(0, math.Min(70, humidityPct-30))

	var precipFactor float64
	switch {
	case precipMM < 5:
		precipFactor = precipMM * 2 // 0-10
	case precipMM < 15:
		precipFactor = 10 + (precipMM-5)*1.5 // 10-25
	default:
		precipFactor = math.Min(30, 25+(precipMM-15)*0.5) // 25-30
	}

	rain = math.Min(100, math.Max(0, humidityFactor+precipFactor))

	if tempC < 5 {
		snow = rain * (5 - tempC) / 5
		rain = math.Max(0, rain-snow)
	}
	rain = math.Min(100, math.Max(0, rain))
	snow = math.Min(100, math.Max(0, snow))
	return rain, snow
}
