package ports

import (
	"context"

	"itinerary-watch-service/internal/timeutil"
)

// Contract for retrieving transit travel duration between two points.
type RouteProvider interface {
	// Return the transit duration in seconds for a leg arriving at arrival.
	// An error means no usable duration; callers degrade to a fixed buffer.
	GetTransitDuration(ctx context.Context, originLat, originLng, destLat, destLng float64, arrival timeutil.Instant) (int, error)
}
