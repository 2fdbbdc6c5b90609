package predict

import (
	"math"
	"testing"
)

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		name                                string
		temp, humidity, precip, cloud, wind float64
		want                                WeatherCategory
	}{
		{"stormy wins over snowy", 1, 50, 12, 80, 16, CategoryStormy},
		{"stormy needs wind", 25, 50, 12, 80, 10, CategoryRainy},
		{"snowy", 1, 50, 3, 80, 5, CategorySnowy},
		{"cold but dry is not snowy", 1, 50, 1, 80, 5, CategoryCloudy},
		{"rainy", 15, 50, 6, 50, 5, CategoryRainy},
		{"foggy", 15, 95, 1, 50, 2, CategoryFoggy},
		{"cloudy", 15, 70, 1, 65, 2, CategoryCloudy},
		{"sunny", 25, 40, 0, 20, 3, CategorySunny},
		{"boundary precip 10 wind 16 is not stormy", 20, 50, 10, 80, 16, CategoryRainy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.temp, tt.humidity, tt.precip, tt.cloud, tt.wind)
			if got != tt.want {
				t.Errorf("Classify = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRainSnowProbabilities(t *testing.T) {
	t.Run("humidity only", func(t *testing.T) {
		rain, snow := RainSnowProbabilities(20, 80, 0)
		if math.Abs(rain-50) > 1e-9 {
			t.Errorf("rain = %v, want 50", rain)
		}
		if snow != 0 {
			t.Errorf("snow = %v, want 0 above 5 degrees", snow)
		}
	})

	t.Run("humidity factor caps at 70", func(t *testing.T) {
		rain, _ := RainSnowProbabilities(20, 100, 0)
		if math.Abs(rain-70) > 1e-9 {
			t.Errorf("rain = %v, want 70", rain)
		}
	})

	t.Run("cold shifts mass to snow", func(t *testing.T) {
		rain, snow := RainSnowProbabilities(-2, 80, 0)
		if snow <= 0 {
			t.Fatalf("snow = %v, want positive below 5 degrees", snow)
		}
		// At -2C the snow share is (5-(-2))/5 = 1.4x the rain mass; the
		// rain side floors at zero.
		if math.Abs(snow-70) > 1e-9 {
			t.Errorf("snow = %v, want 70", snow)
		}
		if rain != 0 {
			t.Errorf("rain = %v, want 0 when snow share exceeds the whole", rain)
		}
		if rain+snow > 100 {
			t.Errorf("rain+snow = %v, must not exceed 100", rain+snow)
		}
	})

	t.Run("moderate cold splits mass", func(t *testing.T) {
		rain, snow := RainSnowProbabilities(2.5, 80, 0)
		if math.Abs(snow-25) > 1e-9 {
			t.Errorf("snow = %v, want 25 (half of 50)", snow)
		}
		if math.Abs(rain-25) > 1e-9 {
			t.Errorf("rain = %v, want 25", rain)
		}
	})

	t.Run("precip factor piecewise", func(t *testing.T) {
		tests := []struct {
			precip float64
			want   float64
		}{
			{0, 0},
			{2.5, 5},
			{5, 10},
			{10, 17.5},
			{15, 25},
			{25, 30},
			{100, 30},
		}
		for _, tt := range tests {
			rain, _ := RainSnowProbabilities(20, 30, tt.precip)
			if math.Abs(rain-tt.want) > 1e-9 {
				t.Errorf("precip %v: rain = %v, want %v", tt.precip, rain, tt.want)
			}
		}
	})

	t.Run("never exceeds 100", func(t *testing.T) {
		rain, snow := RainSnowProbabilities(20, 100, 50)
		if rain > 100 || snow > 100 {
			t.Errorf("rain/snow = %v/%v, want <= 100", rain, snow)
		}
	})
}
