package services

import (
	"itinerary-watch-service/internal/domain"
	"itinerary-watch-service/internal/geo"
	"itinerary-watch-service/internal/timeutil"
)

// Status classifies itinerary health at poll time.
type Status string

const (
	StatusOK     Status = "ok"
	StatusWarn   Status = "warn"
	StatusBroken Status = "broken"
)

const (
	// Distance within which the traveler counts as still at the previous stop.
	nearPreviousThresholdM = 400

	// Upper bound of the warn window in minutes to deadline.
	warnMaxMinutes = 15
)

// Evaluation identifies the single most at-risk item and its classification.
// TargetIndex is -1 for a plain ok.
type Evaluation struct {
	Status            Status
	TargetItemID      string
	TargetIndex       int
	MinutesToDeadline int
}

type riskCandidate struct {
	index        int
	itemID       string
	minutes      int
	nearPrevious bool
}

// EvaluateItinerary classifies the itinerary given the current time and
// position. Items are assumed sorted ascending by start time.
//
// Only interior items (neither first nor last) with both a closing time and a
// deadline are considered. The candidate with the smallest minutes-to-deadline
// wins, first-found on ties. Deadline pressure only counts when the traveler
// is still within 400 m of the previous stop; otherwise they have plausibly
// already left and the signal is noise.
func EvaluateItinerary(items []domain.ItineraryItem, now timeutil.Instant, currentLat, currentLng float64) Evaluation {
	ok := Evaluation{Status: StatusOK, TargetIndex: -1}

	n := len(items)
	if n < 3 {
		return ok
	}

	var target *riskCandidate
	for i := 1; i <= n-2; i++ {
		item := items[i]
		if !item.Constrained() {
			continue
		}

		minutes := timeutil.MinutesBetween(now, *item.Deadline)

		prev := items[i-1]
		dist := geo.HaversineDistance(currentLat, currentLng, prev.Lat, prev.Lng)

		c := riskCandidate{
			index:        i,
			itemID:       item.ID,
			minutes:      minutes,
			nearPrevious: dist <= nearPreviousThresholdM,
		}
		if target == nil || c.minutes < target.minutes {
			target = &c
		}
	}

	if target == nil {
		return ok
	}

	if !target.nearPrevious {
		return ok
	}

	if target.minutes <= 0 {
		return Evaluation{
			Status:            StatusBroken,
			TargetItemID:      target.itemID,
			TargetIndex:       target.index,
			MinutesToDeadline: target.minutes,
		}
	}

	if target.minutes <= warnMaxMinutes {
		return Evaluation{
			Status:            StatusWarn,
			TargetItemID:      target.itemID,
			TargetIndex:       target.index,
			MinutesToDeadline: target.minutes,
		}
	}

	return ok
}
