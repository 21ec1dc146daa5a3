package domain

import "itinerary-watch-service/internal/timeutil"

// PlaceSummary is one place-search result.
type PlaceSummary struct {
	PlaceID string   `json:"placeId"`
	Name    string   `json:"name"`
	Lat     float64  `json:"lat"`
	Lng     float64  `json:"lng"`
	Address string   `json:"address"`
	Types   []string `json:"types"`
}

// PlaceDetail is the detail lookup result, including today's resolved closing
// instant when the venue's opening hours allow one to be computed.
type PlaceDetail struct {
	PlaceID   string            `json:"placeId"`
	Name      string            `json:"name"`
	Lat       float64           `json:"lat"`
	Lng       float64           `json:"lng"`
	Address   string            `json:"address"`
	CloseTime *timeutil.Instant `json:"closeTime,omitempty"`
}

// AutocompletePrediction is one suggestion for a partially typed place name.
type AutocompletePrediction struct {
	PlaceID       string `json:"placeId"`
	MainText      string `json:"mainText"`
	SecondaryText string `json:"secondaryText"`
	FullText      string `json:"fullText"`
}

// OpeningHours is a venue's schedule as reported by the place detail source:
// free-text per-weekday descriptions, structured periods, or both.
type OpeningHours struct {
	// WeekdayDescriptions are indexed by day of week, 0=Sunday.
	WeekdayDescriptions []string
	Periods             []OpeningPeriod
}

// OpeningPeriod is one structured open/close pair. CloseHour is -1 when the
// source reported no close for the period (e.g. always open).
type OpeningPeriod struct {
	OpenDay     int // 0=Sunday .. 6=Saturday
	CloseHour   int
	CloseMinute int
}
