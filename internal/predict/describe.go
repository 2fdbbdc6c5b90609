package predict

import (
	"fmt"
	"strings"
)

var compassPoints = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// WindCompass converts a wind direction in degrees to its compass point.
func WindCompass(deg float64) string {
	idx := int((deg+22.5)/45) % 8
	if idx < 0 {
		idx += 8
	}
	return compassPoints[idx]
}

// DescribeConditions renders a short human-readable summary of the
// predicted conditions.
func DescribeConditions(tempC, humidityPct, precipMM float64) string {
	var parts []string

	switch {
	case tempC < 10:
		parts = append(parts, "cold")
	case tempC < 20:
		parts = append(parts, "mild")
	case tempC < 30:
		parts = append(parts, "warm")
	default:
		parts = append(parts, "hot")
	}

	switch {
	case precipMM > 5:
		parts = append(parts, "rainy")
	case precipMM > 1:
		parts = append(parts, "drizzly")
	case humidityPct > 80:
		parts = append(parts, "very humid")
	case humidityPct > 60:
		parts = append(parts, "humid")
	default:
		parts = append(parts, "dry")
	}

	switch {
	case humidityPct > 80:
		parts = append(parts, "overcast")
	case humidityPct > 60:
		parts = append(parts, "partly cloudy")
	default:
		parts = append(parts, "clear")
	}

	s := strings.Join(parts, ", ")
	return strings.ToUpper(s[:1]) + s[1:]
}

// DescribePrecipitation summarizes the precipitation outlook from the
// sample's mean daily amount.
func DescribePrecipitation(meanMM float64) string {
	switch {
	case meanMM < 0.5:
		return "Low probability (< 20%)"
	case meanMM < 2:
		return "Moderate probability (~40%)"
	case meanMM < 5:
		return "High probability (~60%)"
	default:
		return fmt.Sprintf("Very high probability (~80%%), expected precipitation: %.1fmm", meanMM)
	}
}

// DescribeVisibility estimates visibility from humidity and precipitation.
func DescribeVisibility(humidityPct, precipMM float64) string {
	switch {
	case precipMM > 5:
		return "Reduced (2-5 km)"
	case humidityPct > 90:
		return "Moderate (5-8 km)"
	case humidityPct > 70:
		return "Good (8-10 km)"
	default:
		return "Excellent (> 10 km)"
	}
}
