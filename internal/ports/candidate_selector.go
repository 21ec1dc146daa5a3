package ports

import (
	"context"

	"itinerary-watch-service/internal/domain"
	"itinerary-watch-service/internal/timeutil"
)

// Contract for picking detour candidates out of a search pool.
type CandidateSelector interface {
	// Select at most 3 candidates. nextStart is nil when the broken item has
	// no successor. Proposed times are trusted verbatim.
	SelectDetourCandidates(ctx context.Context, pool []domain.PlaceSummary, now timeutil.Instant, nextStart *timeutil.Instant, lat, lng float64) ([]domain.DetourCandidate, error)
}
