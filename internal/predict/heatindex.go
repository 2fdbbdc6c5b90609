package predict

// HeatIndexC computes the perceived temperature from heat and humidity
// using the Rothfusz regression. The regression only holds above 80F and
// 40% relative humidity; below either threshold the raw temperature is
// returned unchanged.
func HeatIndexC(tempC, humidityPct float64) float64 {
	tempF := tempC*9/5 + 32
	if tempF < 80 || humidityPct < 40 {
		return tempC
	}

	h := humidityPct
	hi := -42.379 + 2.04901523*tempF + 10.14333127*h
	hi += -0.22475541 * tempF * h
	hi += -0.00683783 * tempF * tempF
	hi += -0.05481717 * h * h
	hi += 0.00122874 * tempF * tempF * h
	hi += 0.00085282 * tempF * h * h
	hi += -0.00000199 * tempF * tempF * h * h

	return (hi - 32) * 5 / 9
}
