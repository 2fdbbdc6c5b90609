package cache

import (
	"database/sql"
	"fmt"
	"reflect"
	"sync"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/dhowell/climacast/internal/models"
)

func setupSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := NewSQLiteStore(db)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func testRecord(year int) models.ObservationRecord {
	return models.ObservationRecord{
		Year:           year,
		TemperatureC:   21.5,
		TemperatureMax: 26.1,
		TemperatureMin: 16.2,
		TemperatureAvg: 21.5,
		HourMax:        14,
		HourMin:        6,
		Humidity:       64,
		WindSpeed:      4.2,
		WindDirection:  270,
		Precipitation:  1.1,
		CloudCover:     40,
		Pressure:       1014,
		DewPoint:       14.5,
		UVIndex:        7,
		FeelsLike:      21.5,
	}
}

func TestSQLiteStorePutGet(t *testing.T) {
	store := setupSQLiteStore(t)
	key := Key(40.71, -74.01, date(2023, 7, 4))

	if _, ok := store.Get(key); ok {
		t.Fatal("Get on empty store should miss")
	}

	rec := testRecord(2023)
	store.Put(key, rec)

	got, ok := store.Get(key)
	if !ok {
		t.Fatal("Get after Put should hit")
	}
	if !reflect.DeepEqual(*got, rec) {
		t.Errorf("Get = %+v, want %+v", *got, rec)
	}
}

func TestSQLiteStoreOverwrite(t *testing.T) {
	store := setupSQLiteStore(t)
	key := Key(40.71, -74.01, date(2023, 7, 4))

	store.Put(key, testRecord(2023))

	updated := testRecord(2023)
	updated.TemperatureC = 30
	store.Put(key, updated)

	got, ok := store.Get(key)
	if !ok {
		t.Fatal("Get after overwrite should hit")
	}
	if got.TemperatureC != 30 {
		t.Errorf("TemperatureC = %v, want 30 (last write wins)", got.TemperatureC)
	}
}

func TestSQLiteStoreCorruptEntryIsMiss(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := NewSQLiteStore(db)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if _, err := db.Exec(`INSERT INTO observation_cache (key, payload) VALUES (?, ?)`, "bad", "{not json"); err != nil {
		t.Fatalf("insert corrupt entry: %v", err)
	}

	if _, ok := store.Get("bad"); ok {
		t.Error("corrupt entry should read as a miss")
	}
}

func TestSQLiteStoreConcurrentPuts(t *testing.T) {
	store := setupSQLiteStore(t)
	key := Key(40.71, -74.01, date(2023, 7, 4))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := testRecord(2023)
			rec.TemperatureC = float64(20 + i)
			store.Put(key, rec)
		}(i)
	}
	wg.Wait()

	got, ok := store.Get(key)
	if !ok {
		t.Fatal("Get after concurrent Puts should hit")
	}
	if got.TemperatureC < 20 || got.TemperatureC > 29 {
		t.Errorf("TemperatureC = %v, want one of the written values", got.TemperatureC)
	}
}

func TestSQLiteStoreCompact(t *testing.T) {
	store := setupSQLiteStore(t)

	for i := 0; i < 20; i++ {
		store.Put(fmt.Sprintf("key-%02d", i), testRecord(2000+i))
	}

	removed, err := store.Compact(5)
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}
	if removed != 15 {
		t.Errorf("removed = %d, want 15", removed)
	}

	n, err := store.Len()
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if n != 5 {
		t.Errorf("Len = %d, want 5", n)
	}

	if _, err := store.Compact(0); err == nil {
		t.Error("Compact(0) should fail")
	}
}
