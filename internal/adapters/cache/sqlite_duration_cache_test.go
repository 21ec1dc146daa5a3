package cache

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"itinerary-watch-service/internal/adapters/google"
	"itinerary-watch-service/internal/timeutil"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func TestSqliteDurationCacheStoresAndServes(t *testing.T) {
	db := openTestDB(t)

	inner := &google.MockRouteProvider{Pairs: []google.MockRoutePair{
		{OriginLat: 35.68, OriginLng: 139.76, DestLat: 35.70, DestLng: 139.77, Seconds: 900},
	}}
	c := NewSqliteDurationCache(db, inner)

	arrival, _ := timeutil.Parse("2026-02-14T20:30:00+09:00")
	ctx := context.Background()

	got, err := c.GetTransitDuration(ctx, 35.68, 139.76, 35.70, 139.77, arrival)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 900 {
		t.Fatalf("duration = %d, want 900", got)
	}

	// Break the inner provider; the cached leg must still resolve.
	inner.Err = errors.New("routes api down")
	got, err = c.GetTransitDuration(ctx, 35.68, 139.76, 35.70, 139.77, arrival)
	if err != nil {
		t.Fatalf("unexpected error on cached leg: %v", err)
	}
	if got != 900 {
		t.Fatalf("cached duration = %d, want 900", got)
	}
}

func TestSqliteDurationCacheMissPropagatesError(t *testing.T) {
	db := openTestDB(t)

	inner := &google.MockRouteProvider{Err: errors.New("routes api down")}
	c := NewSqliteDurationCache(db, inner)

	arrival, _ := timeutil.Parse("2026-02-14T20:30:00+09:00")
	if _, err := c.GetTransitDuration(context.Background(), 1, 2, 3, 4, arrival); err == nil {
		t.Fatal("expected error for uncached leg with failing provider")
	}
}

func TestSqliteDurationCacheDistinguishesArrivals(t *testing.T) {
	db := openTestDB(t)

	inner := &google.MockRouteProvider{Pairs: []google.MockRoutePair{
		{OriginLat: 1, OriginLng: 2, DestLat: 3, DestLng: 4, Seconds: 600},
	}}
	c := NewSqliteDurationCache(db, inner)
	ctx := context.Background()

	a1, _ := timeutil.Parse("2026-02-14T20:30:00+09:00")
	if _, err := c.GetTransitDuration(ctx, 1, 2, 3, 4, a1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A different arrival must be a distinct cache key: with the provider now
	// failing, the lookup is a miss and the error surfaces.
	inner.Err = errors.New("routes api down")
	a2, _ := timeutil.Parse("2026-02-14T21:30:00+09:00")
	if _, err := c.GetTransitDuration(ctx, 1, 2, 3, 4, a2); err == nil {
		t.Fatal("expected miss for a different arrival instant")
	}
}
