package predict

import (
	"errors"
	"math"
	"testing"

	"github.com/dhowell/climacast/internal/models"
)

// uniformSample builds a sample where every year is identical, which makes
// every standard deviation zero and the prediction fully deterministic.
func uniformSample(n int, rec models.ObservationRecord) models.Sample {
	sample := make(models.Sample, n)
	for i := range sample {
		r := rec
		r.Year = 2019 + i
		sample[i] = r
	}
	return sample
}

func baseRecord() models.ObservationRecord {
	return models.ObservationRecord{
		TemperatureC:   25,
		TemperatureMax: 30,
		TemperatureMin: 20,
		TemperatureAvg: 25,
		HourMax:        14,
		HourMin:        6,
		Humidity:       55,
		WindSpeed:      4,
		WindDirection:  270,
		Precipitation:  0,
		CloudCover:     20,
		Pressure:       1013,
		DewPoint:       15,
		UVIndex:        8,
		FeelsLike:      25,
	}
}

func TestPredictEmptySample(t *testing.T) {
	_, err := NewEngine().Predict(nil, 5)
	if !errors.Is(err, ErrEmptySample) {
		t.Errorf("err = %v, want ErrEmptySample", err)
	}
}

func TestPredictZeroVarianceSample(t *testing.T) {
	sample := uniformSample(5, baseRecord())

	result, err := NewEngine().Predict(sample, 5)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}

	p := result.Prediction
	if p.TemperatureC != 25 {
		t.Errorf("TemperatureC = %v, want 25 (zero variance, zero noise)", p.TemperatureC)
	}
	if p.Humidity != 55 {
		t.Errorf("Humidity = %v, want 55", p.Humidity)
	}
	if p.WindDirection != 270 {
		t.Errorf("WindDirection = %v, want 270", p.WindDirection)
	}
	if p.WindCompass != "W" {
		t.Errorf("WindCompass = %q, want W", p.WindCompass)
	}
	if p.WeatherType != CategorySunny {
		t.Errorf("WeatherType = %q, want sunny", p.WeatherType)
	}
	if p.HeatIndex != 25 {
		t.Errorf("HeatIndex = %v, want 25 (below regression thresholds)", p.HeatIndex)
	}

	// Full sample, zero deviations: every confidence term is maximal.
	if result.Confidence != 100 {
		t.Errorf("Confidence = %v, want 100", result.Confidence)
	}

	if len(result.HistoricalData) != 5 {
		t.Errorf("HistoricalData size = %d, want 5", len(result.HistoricalData))
	}
}

func TestPredictConfidenceRange(t *testing.T) {
	rec := baseRecord()
	sample := make(models.Sample, 8)
	for i := range sample {
		r := rec
		r.Year = 2016 + i
		r.TemperatureC = 10 + float64(i)*4 // wide spread
		r.Humidity = 30 + float64(i)*8
		sample[i] = r
	}

	result, err := NewEngine().Predict(sample, 10)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if result.Confidence < 0 || result.Confidence > 100 {
		t.Errorf("Confidence = %v, want within [0,100]", result.Confidence)
	}
	if result.Confidence >= 100 {
		t.Errorf("Confidence = %v, want below 100 for a noisy short sample", result.Confidence)
	}
}

func TestPredictClampsToPhysicalRanges(t *testing.T) {
	rec := baseRecord()
	rec.TemperatureC = 70 // implausible input still yields bounded output
	rec.Humidity = 100
	rec.WindSpeed = 80
	rec.Pressure = 1100
	rec.UVIndex = 11

	result, err := NewEngine().Predict(uniformSample(3, rec), 3)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}

	p := result.Prediction
	if p.TemperatureC > 60 {
		t.Errorf("TemperatureC = %v, want <= 60", p.TemperatureC)
	}
	if p.WindSpeed > 50 {
		t.Errorf("WindSpeed = %v, want <= 50", p.WindSpeed)
	}
	if p.Pressure > 1050 {
		t.Errorf("Pressure = %v, want <= 1050", p.Pressure)
	}
	if p.UVIndex > 11 {
		t.Errorf("UVIndex = %v, want <= 11", p.UVIndex)
	}
}

func TestPredictWindDirectionMean(t *testing.T) {
	rec := baseRecord()
	sample := uniformSample(4, rec)
	dirs := []float64{80, 90, 100, 110}
	for i := range sample {
		sample[i].WindDirection = dirs[i]
	}

	result, err := NewEngine().Predict(sample, 4)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if math.Abs(result.Prediction.WindDirection-95) > 1e-9 {
		t.Errorf("WindDirection = %v, want 95 (raw mean)", result.Prediction.WindDirection)
	}
}

func TestVariableStats(t *testing.T) {
	stats := variableStats([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if stats.Mean != 5 {
		t.Errorf("Mean = %v, want 5", stats.Mean)
	}
	// Sample standard deviation (n-1) of this classic set is ~2.14.
	if math.Abs(stats.Std-2.14) > 0.01 {
		t.Errorf("Std = %v, want ~2.14", stats.Std)
	}
	if stats.Min != 2 || stats.Max != 9 {
		t.Errorf("Min/Max = %v/%v, want 2/9", stats.Min, stats.Max)
	}

	single := variableStats([]float64{3.3})
	if single.Std != 0 {
		t.Errorf("single-element Std = %v, want 0", single.Std)
	}
}

func TestComputeStatsPrecipTotal(t *testing.T) {
	sample := uniformSample(4, baseRecord())
	for i := range sample {
		sample[i].Precipitation = float64(i + 1)
	}

	stats := computeStats(sample)
	if stats.Precipitation.Total != 10 {
		t.Errorf("Precipitation.Total = %v, want 10", stats.Precipitation.Total)
	}
	if stats.Precipitation.Mean != 2.5 {
		t.Errorf("Precipitation.Mean = %v, want 2.5", stats.Precipitation.Mean)
	}
}
