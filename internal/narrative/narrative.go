// Package narrative produces the human-readable analysis text that
// accompanies a prediction.
package narrative

import (
	"fmt"

	"github.com/dhowell/climacast/internal/models"
	"github.com/dhowell/climacast/internal/predict"
)

// TrendAnalysis summarizes the sample's temperature trend and overall
// pattern in prose.
func TrendAnalysis(sample models.Sample, stats predict.SampleStats) string {
	trendDesc := "Insufficient data to determine trend."
	if len(sample) > 1 {
		slope := temperatureSlope(sample)
		switch {
		case slope > 0.1:
			trendDesc = fmt.Sprintf("A warming trend of approximately %.2f°C per year is observed.", slope)
		case slope < -0.1:
			trendDesc = fmt.Sprintf("A cooling trend of approximately %.2f°C per year is observed.", -slope)
		default:
			trendDesc = "Temperature has remained relatively stable."
		}
	}

	precipProb := 10
	if stats.Precipitation.Mean > 0 {
		precipProb = int(stats.Precipitation.Mean / 5 * 100)
		if precipProb > 100 {
			precipProb = 100
		}
	}

	humidityLevel := "low"
	switch {
	case stats.Humidity.Mean > 70:
		humidityLevel = "high"
	case stats.Humidity.Mean > 50:
		humidityLevel = "moderate"
	}

	return fmt.Sprintf(
		"Based on analysis of the last %d years, a consistent pattern is observed for this date. "+
			"The historical average temperature is %.1f°C with a standard deviation of %.1f°C. "+
			"%s "+
			"Humidity tends to be %s (average %.1f%%) "+
			"and there is a %d%% probability of precipitation based on historical data. "+
			"Prevailing winds have an average speed of %.1f m/s.",
		len(sample),
		stats.Temperature.Mean, stats.Temperature.Std,
		trendDesc,
		humidityLevel, stats.Humidity.Mean,
		precipProb,
		stats.WindSpeed.Mean,
	)
}

// Notes explains how the prediction was produced and how far to trust it.
func Notes(lat, lon float64, dataPoints int, confidence float64) string {
	return fmt.Sprintf(
		"This prediction was generated using statistical analysis algorithms that evaluate historical patterns. "+
			"%d data points were analyzed for coordinates (Lat: %.2f, Lon: %.2f). "+
			"The confidence level of %.1f%% reflects the consistency of historical data. "+
			"It is recommended to verify updated forecasts closer to the target date.",
		dataPoints, lat, lon, confidence,
	)
}

// temperatureSlope fits a least-squares line through (year, temperature)
// and returns degrees per year.
func temperatureSlope(sample models.Sample) float64 {
	n := float64(len(sample))
	var sumX, sumY float64
	for _, r := range sample {
		sumX += float64(r.Year)
		sumY += r.TemperatureC
	}
	meanX, meanY := sumX/n, sumY/n

	var num, den float64
	for _, r := range sample {
		dx := float64(r.Year) - meanX
		num += dx * (r.TemperatureC - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}
