// Package predict reduces a multi-year observation sample into a single
// calibrated day prediction with a confidence score.
package predict

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/dhowell/climacast/internal/metrics"
	"github.com/dhowell/climacast/internal/models"
)

// ErrEmptySample is returned when there is nothing to predict from.
var ErrEmptySample = errors.New("cannot predict from an empty sample")

// Noise scale factors applied to each variable's standard deviation when
// drawing the day-to-day variability term.
const (
	noiseScale       = 0.3
	precipNoiseScale = 0.5
)

// Confidence blend weights: data sufficiency, temperature consistency,
// humidity consistency.
const (
	weightSufficiency = 0.4
	weightTempTerm    = 0.3
	weightHumTerm     = 0.3
)

// Prediction is the predicted point value set for the requested day.
type Prediction struct {
	TemperatureC    float64         `json:"temperatureC"`
	Humidity        float64         `json:"humidity"`
	WindSpeed       float64         `json:"windSpeed"`
	WindDirection   float64         `json:"windDirection"`
	WindCompass     string          `json:"windCompass"`
	Precipitation   float64         `json:"precipitation"`
	HeatIndex       float64         `json:"heatIndex"`
	Conditions      string          `json:"conditions"`
	PrecipOutlook   string          `json:"precipitationOutlook"`
	Visibility      string          `json:"visibility"`
	WeatherType     WeatherCategory `json:"weatherType"`
	CloudCover      float64         `json:"cloudCover"`
	Pressure        float64         `json:"pressure"`
	DewPoint        float64         `json:"dewPoint"`
	UVIndex         float64         `json:"uvIndex"`
	FeelsLike       float64         `json:"feelsLike"`
	RainProbability float64         `json:"rainProbability"`
	SnowProbability float64         `json:"snowProbability"`
}

// PredictionResult is the full payload for one request: the prediction,
// its confidence, the summary statistics it came from, and the underlying
// sample for transparency.
type PredictionResult struct {
	Prediction     Prediction    `json:"prediction"`
	Confidence     float64       `json:"confidence"`
	Statistics     SampleStats   `json:"statistics"`
	HistoricalData models.Sample `json:"historicalData"`
}

// Engine turns samples into predictions. It carries only its random source
// and keeps no state between calls.
type Engine struct {
	rng *rand.Rand
}

func NewEngine() *Engine {
	return NewEngineWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewEngineWithSource allows a fixed source, for tests.
func NewEngineWithSource(src rand.Source) *Engine {
	return &Engine{rng: rand.New(src)}
}

// Predict derives the point prediction from the sample. yearsRequested
// feeds the data-sufficiency term of the confidence score; pass the number
// of years the caller asked for, or zero to use the sample size.
func (e *Engine) Predict(sample models.Sample, yearsRequested int) (*PredictionResult, error) {
	if len(sample) == 0 {
		return nil, ErrEmptySample
	}
	if yearsRequested <= 0 {
		yearsRequested = len(sample)
	}

	stats := computeStats(sample)

	noisy := func(s VariableStats) float64 {
		return s.Mean + e.rng.NormFloat64()*s.Std*noiseScale
	}

	temp := clampRange(noisy(stats.Temperature), -50, 60)
	humidity := clampRange(noisy(stats.Humidity), 0, 100)
	windSpeed := clampRange(noisy(stats.WindSpeed), 0, 50)
	precip := math.Max(0, stats.Precipitation.Mean+e.rng.NormFloat64()*stats.Precipitation.Std*precipNoiseScale)
	cloudCover := clampRange(noisy(stats.CloudCover), 0, 100)
	pressure := clampRange(noisy(stats.Pressure), 950, 1050)
	dewPoint := noisy(stats.DewPoint)
	uvIndex := clampRange(noisy(stats.UVIndex), 0, 11)
	feelsLike := noisy(stats.FeelsLike)

	// Wind direction takes the raw mean of the sample, no noise.
	dirSum := 0.0
	for _, r := range sample {
		dirSum += r.WindDirection
	}
	windDir := models.NormalizeDegrees(dirSum / float64(len(sample)))

	category := Classify(temp, humidity, precip, cloudCover, windSpeed)
	rain, snow := RainSnowProbabilities(temp, humidity, precip)
	heatIndex := HeatIndexC(temp, humidity)
	confidence := e.confidence(len(sample), yearsRequested, stats.Temperature.Std, stats.Humidity.Std)

	metrics.PredictionsTotal.Inc()

	return &PredictionResult{
		Prediction: Prediction{
			TemperatureC:    round1(temp),
			Humidity:        round1(humidity),
			WindSpeed:       round1(windSpeed),
			WindDirection:   round1(windDir),
			WindCompass:     WindCompass(windDir),
			Precipitation:   round1(precip),
			HeatIndex:       round1(heatIndex),
			Conditions:      DescribeConditions(temp, humidity, precip),
			PrecipOutlook:   DescribePrecipitation(stats.Precipitation.Mean),
			Visibility:      DescribeVisibility(humidity, precip),
			WeatherType:     category,
			CloudCover:      round1(cloudCover),
			Pressure:        round1(pressure),
			DewPoint:        round1(dewPoint),
			UVIndex:         round1(uvIndex),
			FeelsLike:       round1(feelsLike),
			RainProbability: round1(rain),
			SnowProbability: round1(snow),
		},
		Confidence:     round1(confidence),
		Statistics:     stats,
		HistoricalData: sample,
	}, nil
}

// confidence blends a data-sufficiency term with temperature and humidity
// consistency terms, expressed as a 0-100 percentage.
func (e *Engine) confidence(sampleSize, yearsRequested int, tempStd, humStd float64) float64 {
	sufficiency := math.Min(float64(sampleSize)/float64(yearsRequested), 1.0)
	tempTerm := math.Max(0, 1-tempStd/10)
	humTerm := math.Max(0, 1-humStd/20)
	return (weightSufficiency*sufficiency + weightTempTerm*tempTerm + weightHumTerm*humTerm) * 100
}

func clampRange(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
