package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"itinerary-watch-service/internal/domain"
	"itinerary-watch-service/internal/ports"
)

// Place details change rarely within a day; a short TTL still saves most of
// the repeated detail calls a compile makes.
const placeDetailTTL = 15 * time.Minute

// RedisPlaceCache is a read-through cache in front of a PlaceProvider. Only
// detail lookups are cached; search results depend on the query position and
// pass through. Cache failures degrade to the inner provider.
type RedisPlaceCache struct {
	inner ports.PlaceProvider
	rdb   *redis.Client
}

func NewRedisPlaceCache(inner ports.PlaceProvider, rdb *redis.Client) *RedisPlaceCache {
	return &RedisPlaceCache{inner: inner, rdb: rdb}
}

func detailKey(placeID string) string { return "place:detail:" + placeID }

func (c *RedisPlaceCache) GetPlaceDetail(ctx context.Context, placeID string) (*domain.PlaceDetail, error) {
	key := detailKey(placeID)

	raw, err := c.rdb.Get(ctx, key).Result()
	if err == nil {
		var detail domain.PlaceDetail
		if jerr := json.Unmarshal([]byte(raw), &detail); jerr == nil {
			return &detail, nil
		}
		log.Printf("place cache: corrupt entry for %q, refetching", placeID)
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("place cache: get %q failed: %v", placeID, err)
	}

	detail, err := c.inner.GetPlaceDetail(ctx, placeID)
	if err != nil || detail == nil {
		return detail, err
	}

	if raw, jerr := json.Marshal(detail); jerr == nil {
		if serr := c.rdb.SetEx(ctx, key, raw, placeDetailTTL).Err(); serr != nil {
			log.Printf("place cache: set %q failed: %v", placeID, serr)
		}
	}
	return detail, nil
}

func (c *RedisPlaceCache) SearchNearby(ctx context.Context, lat, lng float64, radiusMeters, maxResults int) ([]domain.PlaceSummary, error) {
	return c.inner.SearchNearby(ctx, lat, lng, radiusMeters, maxResults)
}

func (c *RedisPlaceCache) SearchByText(ctx context.Context, query string) (*domain.PlaceSummary, error) {
	return c.inner.SearchByText(ctx, query)
}

func (c *RedisPlaceCache) Autocomplete(ctx context.Context, input string, lat, lng float64) ([]domain.AutocompletePrediction, error) {
	return c.inner.Autocomplete(ctx, input, lat, lng)
}
