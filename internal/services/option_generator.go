package services

import (
	"context"
	"log"

	"itinerary-watch-service/internal/domain"
	"itinerary-watch-service/internal/ports"
	"itinerary-watch-service/internal/timeutil"
)

const (
	detourSearchRadiusM = 1000
	detourPoolSize      = 20
	maxDetourCandidates = 3
)

// GenerateRemedyOptions builds the remedy set for a broken item: CONTINUE and
// ABANDON always, DETOUR only when nearby places exist and the selector
// returns candidates. Any failure in the detour path degrades to the
// two-option result; it never fails the whole check.
func GenerateRemedyOptions(
	ctx context.Context,
	items []domain.ItineraryItem,
	targetIndex int,
	now timeutil.Instant,
	currentLat, currentLng float64,
	places ports.PlaceProvider,
	selector ports.CandidateSelector,
) []domain.RemedyOption {
	options := []domain.RemedyOption{domain.ContinueOption()}

	candidates := generateDetourCandidates(ctx, items, targetIndex, now, currentLat, currentLng, places, selector)
	if len(candidates) > 0 {
		options = append(options, domain.DetourOption(candidates))
	}

	options = append(options, domain.AbandonOption())
	return options
}

func generateDetourCandidates(
	ctx context.Context,
	items []domain.ItineraryItem,
	targetIndex int,
	now timeutil.Instant,
	currentLat, currentLng float64,
	places ports.PlaceProvider,
	selector ports.CandidateSelector,
) []domain.DetourCandidate {
	pool, err := places.SearchNearby(ctx, currentLat, currentLng, detourSearchRadiusM, detourPoolSize)
	if err != nil {
		log.Printf("generate options: nearby search failed, omitting DETOUR: %v", err)
		return nil
	}
	if len(pool) == 0 {
		log.Printf("generate options: nearby search returned no places, omitting DETOUR")
		return nil
	}

	var nextStart *timeutil.Instant
	if targetIndex+1 < len(items) {
		nextStart = &items[targetIndex+1].StartTime
	}

	candidates, err := selector.SelectDetourCandidates(ctx, pool, now, nextStart, currentLat, currentLng)
	if err != nil {
		log.Printf("generate options: candidate selection failed, omitting DETOUR: %v", err)
		return nil
	}

	if len(candidates) > maxDetourCandidates {
		candidates = candidates[:maxDetourCandidates]
	}
	return candidates
}
