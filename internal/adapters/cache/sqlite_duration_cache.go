package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"itinerary-watch-service/internal/ports"
	"itinerary-watch-service/internal/timeutil"
)

// SQLite backed cache for transit durations, wrapping a RouteProvider.
// Legs are keyed by rounded coordinates plus the arrival instant so repeated
// compiles of the same itinerary hit the cache instead of the API.
type SqliteDurationCache struct {
	DB    *sql.DB
	inner ports.RouteProvider
}

func NewSqliteDurationCache(db *sql.DB, inner ports.RouteProvider) *SqliteDurationCache {
	return &SqliteDurationCache{DB: db, inner: inner}
}

// InitSchema creates the cache table when missing.
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS transit_cache (
        leg TEXT PRIMARY KEY,
        duration_seconds INTEGER NOT NULL
    );
	`)
	if err != nil {
		return fmt.Errorf("init transit cache schema: %w", err)
	}
	return nil
}

// legKey normalizes coordinates to 5 decimal places (~1m) so float noise does
// not defeat the cache.
func legKey(originLat, originLng, destLat, destLng float64, arrival timeutil.Instant) string {
	return fmt.Sprintf("%.5f,%.5f|%.5f,%.5f|%s", originLat, originLng, destLat, destLng, arrival.String())
}

func (c *SqliteDurationCache) GetTransitDuration(
	ctx context.Context,
	originLat, originLng, destLat, destLng float64,
	arrival timeutil.Instant,
) (int, error) {
	if c.DB == nil {
		return 0, errors.New("duration cache: db is nil")
	}

	key := legKey(originLat, originLng, destLat, destLng, arrival)

	var seconds int
	err := c.DB.QueryRowContext(ctx,
		`SELECT duration_seconds FROM transit_cache WHERE leg = ?;`, key,
	).Scan(&seconds)
	if err == nil {
		return seconds, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Printf("duration cache: query leg=%q failed: %v", key, err)
	}

	seconds, err = c.inner.GetTransitDuration(ctx, originLat, originLng, destLat, destLng, arrival)
	if err != nil {
		return 0, err
	}

	if _, werr := c.DB.ExecContext(ctx,
		`INSERT OR REPLACE INTO transit_cache (leg, duration_seconds) VALUES (?, ?);`,
		key, seconds,
	); werr != nil {
		log.Printf("duration cache: insert leg=%q failed: %v", key, werr)
	}

	return seconds, nil
}
