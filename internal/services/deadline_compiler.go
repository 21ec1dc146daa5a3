package services

import (
	"context"
	"log"

	"itinerary-watch-service/internal/domain"
	"itinerary-watch-service/internal/ports"
	"itinerary-watch-service/internal/timeutil"
)

// prepBufferMinutes is both the departure-preparation buffer for the first stop
// and the fallback transit buffer when the route lookup fails.
const prepBufferMinutes = 10

// StopInput is one user-entered stop before resolution.
type StopInput struct {
	ID          string
	Name        string
	StartTime   timeutil.Instant
	StayMinutes int
	PlaceID     string // optional; skips the text search when known
}

// CompileDeadlines resolves raw stops into itinerary items with deadlines.
//
// Pass 1 resolves each stop independently (place id or text search, then
// detail for the closing time). A stop whose lookups fail stays in the result
// with zero coordinates and no closing time; it is unconstrained, not dropped.
// Resolved stops are then sorted by start time.
//
// Pass 2 walks the sorted items in order, because each leg's transit lookup
// needs the previous resolved stop's coordinates. The first item's deadline is
// its start time minus the preparation buffer. Later items with a closing time
// get deadline = closeTime - stayMinutes - transit duration, falling back to a
// fixed buffer when the route call fails. Items without a closing time get no
// deadline but still serve as the next leg's origin.
func CompileDeadlines(
	ctx context.Context,
	stops []StopInput,
	places ports.PlaceProvider,
	routes ports.RouteProvider,
) []domain.ItineraryItem {
	items := make([]domain.ItineraryItem, 0, len(stops))

	for _, stop := range stops {
		items = append(items, resolveStop(ctx, stop, places))
	}

	itin := domain.Itinerary{Items: items}
	itin.SortItemsByStartTime()
	items = itin.Items

	for i := range items {
		curr := &items[i]

		if i == 0 {
			// No predecessor: only departure preparation applies.
			d := curr.StartTime.SubMinutes(prepBufferMinutes)
			curr.Deadline = &d
			continue
		}

		if curr.CloseTime == nil {
			continue
		}

		arrival := curr.CloseTime.SubMinutes(curr.StayMinutes)
		prev := items[i-1]

		seconds, err := routes.GetTransitDuration(ctx, prev.Lat, prev.Lng, curr.Lat, curr.Lng, arrival)
		if err != nil {
			log.Printf("compile deadlines: transit lookup failed for %q, using %dmin buffer: %v",
				curr.Name, prepBufferMinutes, err)
			d := arrival.SubMinutes(prepBufferMinutes)
			curr.Deadline = &d
			continue
		}

		d := arrival.SubSeconds(seconds)
		curr.Deadline = &d
	}

	return items
}

// resolveStop fills in place identity, coordinates, and closing time for one
// stop, degrading to an unconstrained item when lookups fail.
func resolveStop(ctx context.Context, stop StopInput, places ports.PlaceProvider) domain.ItineraryItem {
	item := domain.ItineraryItem{
		ID:          stop.ID,
		Name:        stop.Name,
		StartTime:   stop.StartTime,
		StayMinutes: stop.StayMinutes,
	}

	if stop.PlaceID != "" {
		detail, err := places.GetPlaceDetail(ctx, stop.PlaceID)
		if err != nil || detail == nil {
			log.Printf("compile deadlines: place detail failed for placeId=%q: %v", stop.PlaceID, err)
			return item
		}
		item.PlaceID = detail.PlaceID
		item.Name = detail.Name
		item.Lat = detail.Lat
		item.Lng = detail.Lng
		item.Address = detail.Address
		item.CloseTime = detail.CloseTime
		return item
	}

	result, err := places.SearchByText(ctx, stop.Name)
	if err != nil || result == nil {
		log.Printf("compile deadlines: place search failed for %q: %v", stop.Name, err)
		return item
	}

	item.PlaceID = result.PlaceID
	item.Name = result.Name
	item.Lat = result.Lat
	item.Lng = result.Lng
	item.Address = result.Address

	// Closing time comes only from the detail lookup.
	detail, err := places.GetPlaceDetail(ctx, result.PlaceID)
	if err != nil {
		log.Printf("compile deadlines: place detail failed for %q: %v", result.PlaceID, err)
		return item
	}
	if detail != nil {
		item.CloseTime = detail.CloseTime
	}

	return item
}
