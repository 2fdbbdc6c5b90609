package models

// FeelsLikeC derives apparent temperature from air temperature, relative
// humidity and wind speed: a wind-chill adjustment on cold windy days, a
// humidity penalty on hot humid days, otherwise the raw temperature.
func FeelsLikeC(tempC, humidityPct, windSpeedMS float64) float64 {
	switch {
	case tempC < 10 && windSpeedMS > 5:
		return tempC - windSpeedMS*0.5
	case tempC > 27 && humidityPct > 40:
		return tempC + (humidityPct-40)*0.2
	default:
		return tempC
	}
}
