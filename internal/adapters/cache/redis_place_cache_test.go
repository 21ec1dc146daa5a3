package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"itinerary-watch-service/internal/domain"
	"itinerary-watch-service/internal/timeutil"
)

type countingDetailProvider struct {
	detail *domain.PlaceDetail
	calls  int
}

func (p *countingDetailProvider) GetPlaceDetail(ctx context.Context, placeID string) (*domain.PlaceDetail, error) {
	p.calls++
	return p.detail, nil
}

func (p *countingDetailProvider) SearchNearby(ctx context.Context, lat, lng float64, radiusMeters, maxResults int) ([]domain.PlaceSummary, error) {
	return nil, nil
}

func (p *countingDetailProvider) SearchByText(ctx context.Context, query string) (*domain.PlaceSummary, error) {
	return nil, nil
}

func (p *countingDetailProvider) Autocomplete(ctx context.Context, input string, lat, lng float64) ([]domain.AutocompletePrediction, error) {
	return nil, nil
}

func TestRedisPlaceCacheHitSkipsInner(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	closeTime, _ := timeutil.Parse("2026-02-14T21:00:00+09:00")
	inner := &countingDetailProvider{detail: &domain.PlaceDetail{
		PlaceID:   "p1",
		Name:      "Bookstore",
		Lat:       35.68,
		Lng:       139.76,
		Address:   "Chiyoda, Tokyo",
		CloseTime: &closeTime,
	}}

	c := NewRedisPlaceCache(inner, rdb)
	ctx := context.Background()

	first, err := c.GetPlaceDetail(ctx, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("inner calls = %d, want 1", inner.calls)
	}

	second, err := c.GetPlaceDetail(ctx, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("inner calls after hit = %d, want 1", inner.calls)
	}

	if second.Name != first.Name || second.PlaceID != first.PlaceID {
		t.Fatalf("cached detail mismatch: %+v vs %+v", second, first)
	}
	if second.CloseTime == nil || second.CloseTime.String() != "2026-02-14T21:00:00+09:00" {
		t.Fatalf("closeTime lost in cache round trip: %v", second.CloseTime)
	}
}

func TestRedisPlaceCacheUnavailableDegradesToInner(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	inner := &countingDetailProvider{detail: &domain.PlaceDetail{PlaceID: "p1", Name: "Bookstore"}}
	c := NewRedisPlaceCache(inner, rdb)

	detail, err := c.GetPlaceDetail(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail == nil || detail.Name != "Bookstore" {
		t.Fatalf("detail = %+v, want inner result", detail)
	}
}
