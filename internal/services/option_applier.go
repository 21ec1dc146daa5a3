package services

import (
	"errors"
	"fmt"

	"itinerary-watch-service/internal/domain"
)

// Domain precondition violations. These surface to the caller as a structured
// error result, not as a transport fault.
var (
	ErrNoItinerary         = errors.New("no itinerary exists for this traveler")
	ErrNoFailureRecord     = errors.New("no failure record exists; DETOUR cannot be applied")
	ErrNoDetourOption      = errors.New("the failure record contains no DETOUR option")
	ErrNoMatchingCandidate = errors.New("no detour candidate matches the chosen place")
	ErrUnknownChoiceKind   = errors.New("unknown remedy choice kind")
)

// IsPrecondition reports whether err is a domain precondition violation rather
// than an infrastructure fault.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrNoItinerary) ||
		errors.Is(err, ErrNoFailureRecord) ||
		errors.Is(err, ErrNoDetourOption) ||
		errors.Is(err, ErrNoMatchingCandidate) ||
		errors.Is(err, ErrUnknownChoiceKind)
}

// ApplyRemedyOption produces the updated itinerary for the traveler's choice.
//
// CONTINUE echoes the itinerary back unchanged. ABANDON drops the target item.
// DETOUR replaces the target in place (same id, same position) with the chosen
// candidate from the failure record; the replacement's closing time and
// deadline stay unset because this pass does not recompute feasibility.
func ApplyRemedyOption(
	itin *domain.Itinerary,
	targetItemID string,
	choice domain.RemedyChoice,
	record *domain.FailureRecord,
) (*domain.Itinerary, error) {
	switch choice.Kind {
	case domain.RemedyContinue:
		return itin, nil

	case domain.RemedyAbandon:
		kept := make([]domain.ItineraryItem, 0, len(itin.Items))
		for _, item := range itin.Items {
			if item.ID != targetItemID {
				kept = append(kept, item)
			}
		}
		updated := *itin
		updated.Items = kept
		return &updated, nil

	case domain.RemedyDetour:
		if record == nil {
			return nil, ErrNoFailureRecord
		}

		detour := record.DetourOption()
		if detour == nil {
			return nil, ErrNoDetourOption
		}

		var candidate *domain.DetourCandidate
		for i := range detour.Candidates {
			if detour.Candidates[i].PlaceID == choice.DetourPlaceID {
				candidate = &detour.Candidates[i]
				break
			}
		}
		if candidate == nil {
			return nil, fmt.Errorf("detourPlaceId %q: %w", choice.DetourPlaceID, ErrNoMatchingCandidate)
		}

		replaced := make([]domain.ItineraryItem, len(itin.Items))
		for i, item := range itin.Items {
			if item.ID != targetItemID {
				replaced[i] = item
				continue
			}
			replaced[i] = domain.ItineraryItem{
				ID:          item.ID,
				Name:        candidate.Name,
				PlaceID:     candidate.PlaceID,
				Lat:         candidate.Lat,
				Lng:         candidate.Lng,
				Address:     candidate.Address,
				StartTime:   candidate.StartTime,
				StayMinutes: candidate.StayMinutes,
			}
		}
		updated := *itin
		updated.Items = replaced
		return &updated, nil

	default:
		return nil, fmt.Errorf("%q: %w", choice.Kind, ErrUnknownChoiceKind)
	}
}
