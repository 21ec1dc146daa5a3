package ports

import (
	"context"

	"itinerary-watch-service/internal/domain"
)

// Contract for place search and detail lookups.
type PlaceProvider interface {
	// Return up to maxResults points of interest within radiusMeters of a point.
	SearchNearby(ctx context.Context, lat, lng float64, radiusMeters, maxResults int) ([]domain.PlaceSummary, error)

	// Resolve a free-text name to its best match, or (nil, nil) when nothing matches.
	SearchByText(ctx context.Context, query string) (*domain.PlaceSummary, error)

	// Fetch place detail including today's closing instant, or (nil, nil) when
	// the place is unknown.
	GetPlaceDetail(ctx context.Context, placeID string) (*domain.PlaceDetail, error)

	// Suggest completions for a partially typed place name. Coordinates bias
	// the results when non-zero.
	Autocomplete(ctx context.Context, input string, lat, lng float64) ([]domain.AutocompletePrediction, error)
}
