package cache

import (
	"testing"
	"time"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestKeyDeterministic(t *testing.T) {
	a := Key(40.71, -74.01, date(2023, 7, 4))
	b := Key(40.71, -74.01, date(2023, 7, 4))
	if a != b {
		t.Errorf("identical inputs produced different keys: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(a))
	}
}

func TestKeyRounding(t *testing.T) {
	// Coordinates within 0.01 degrees share a key.
	a := Key(40.712, -74.006, date(2023, 7, 4))
	b := Key(40.708, -74.011, date(2023, 7, 4))
	if a != b {
		t.Errorf("nearby coordinates should share a key")
	}

	c := Key(40.72, -74.01, date(2023, 7, 4))
	if a == c {
		t.Errorf("distinct rounded coordinates should not share a key")
	}

	d := Key(40.71, -74.01, date(2022, 7, 4))
	if a == d {
		t.Errorf("distinct dates should not share a key")
	}
}
