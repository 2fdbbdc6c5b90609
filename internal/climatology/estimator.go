// Package climatology synthesizes plausible daily observations from
// seasonal and latitudinal heuristics. It is the fallback of last resort:
// estimates are total, so a requested year always resolves to a record.
package climatology

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/dhowell/climacast/internal/models"
)

type Estimator struct{}

func NewEstimator() *Estimator {
	return &Estimator{}
}

// latitude zone baselines: base temperature and seasonal swing amplitude.
type zone struct {
	maxAbsLat float64
	base      func(absLat float64) float64
	variation float64
}

var zones = []zone{
	{23.5, func(l float64) float64 { return 25 + (23.5-l)*0.3 }, 5}, // tropical
	{35, func(l float64) float64 { return 20 + (35-l)*0.4 }, 8},     // subtropical
	{50, func(l float64) float64 { return 12 + (50-l)*0.5 }, 12},    // temperate
	{66.5, func(l float64) float64 { return 5 + (66.5-l)*0.3 }, 15}, // subpolar
	{math.Inf(1), func(l float64) float64 { return -10 }, 20},       // polar
}

// Estimate produces a synthetic observation for the coordinate, month and
// year. The random source is scoped to the call and seeded from the inputs,
// so concurrent estimates never share state.
func (e *Estimator) Estimate(lat, lon float64, month int, year int) models.ObservationRecord {
	rng := rand.New(rand.NewSource(seed(lat, lon, month, year)))

	absLat := math.Abs(lat)
	var base, variation float64
	for _, z := range zones {
		if absLat < z.maxAbsLat {
			base = z.base(absLat)
			variation = z.variation
			break
		}
	}

	// Southern hemisphere seasons run six months out of phase.
	effectiveMonth := month
	if lat < 0 {
		effectiveMonth = (month+6-1)%12 + 1
	}
	seasonal := math.Sin(2 * math.Pi * float64(effectiveMonth-3) / 12)

	// Interannual anomaly plus day-to-day noise on top of the zone curve.
	yearAnomaly := rng.NormFloat64() * 1.5
	temp := base + seasonal*variation + yearAnomaly + rng.NormFloat64()*2

	coastal := math.Abs(lon) > 150 || math.Abs(lon) < 30

	humidity := 70 - (temp-15)*1.5
	if coastal {
		humidity += 10
	}
	humidity = math.Max(20, math.Min(100, humidity+rng.NormFloat64()*8))

	windSpeed := 5 + math.Abs(absLat-45)*0.1
	if coastal {
		windSpeed += 3
	}
	windSpeed = math.Max(0, windSpeed+rng.NormFloat64()*3)

	// Westerly-biased in the mid-latitude belts, uniform elsewhere.
	var windDir float64
	if absLat > 30 && absLat < 60 {
		windDir = models.NormalizeDegrees(270 + rng.NormFloat64()*45)
	} else {
		windDir = rng.Float64() * 360
	}

	var precipRate float64
	switch {
	case humidity > 70:
		precipRate = 2.5
	case humidity > 50:
		precipRate = 1.0
	default:
		precipRate = 0.3
	}
	// Tropical wet season in summer, Mediterranean pattern in winter.
	if absLat < 35 && seasonal > 0 {
		precipRate *= 1.8
	} else if absLat > 35 && absLat < 45 && seasonal < 0 {
		precipRate *= 1.5
	}
	precipitation := math.Max(0, rng.ExpFloat64()*precipRate)

	cloudCover := math.Min(100, math.Max(0, humidity*0.8+rng.NormFloat64()*15))
	pressure := 1013 - absLat*0.5 + rng.NormFloat64()*10
	dewPoint := temp - (100-humidity)/5

	uvBase := 11 - absLat/9
	uvIndex := math.Max(0, math.Min(11, uvBase+seasonal*2-(cloudCover/100)*5))

	// Diurnal span around the daily mean, warmest mid-afternoon.
	diurnal := 3 + math.Abs(rng.NormFloat64())*1.5

	rec := models.ObservationRecord{
		Year:           year,
		TemperatureC:   round1(temp),
		TemperatureMax: round1(temp + diurnal),
		TemperatureMin: round1(temp - diurnal),
		TemperatureAvg: round1(temp),
		HourMax:        13 + rng.Intn(4),
		HourMin:        5 + rng.Intn(3),
		Humidity:       round1(humidity),
		WindSpeed:      round1(windSpeed),
		WindDirection:  round1(windDir),
		Precipitation:  round1(precipitation),
		CloudCover:     round1(cloudCover),
		Pressure:       round1(pressure),
		DewPoint:       round1(dewPoint),
		UVIndex:        round1(uvIndex),
		FeelsLike:      round1(models.FeelsLikeC(temp, humidity, windSpeed)),
	}
	rec.Clamp()
	return rec
}

// seed derives a call-scoped random seed from the estimate inputs, at the
// same coordinate rounding the cache key uses.
func seed(lat, lon float64, month, year int) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%.2f|%.2f|%d|%d", lat, lon, month, year)
	return int64(h.Sum64())
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
