package dto

import (
	"itinerary-watch-service/internal/domain"
	"itinerary-watch-service/internal/timeutil"
)

// Statuses returned in response bodies. "error" covers domain precondition
// violations, which are part of the contract and not transport faults.
const (
	StatusOK     = "ok"
	StatusWarn   = "warn"
	StatusBroken = "broken"
	StatusError  = "error"
)

type StopRequest struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	StartTime   *timeutil.Instant `json:"startTime"`
	StayMinutes *int              `json:"stayMinutes"`
	PlaceID     string            `json:"placeId"`
}

type CompileItineraryRequest struct {
	TravelerID  string            `json:"travelerId"`
	ItineraryID string            `json:"itineraryId"`
	CreatedAt   *timeutil.Instant `json:"createdAt"`
	Stops       []StopRequest     `json:"stops"`
}

type CompileItineraryResponse struct {
	Status    string            `json:"status"`
	Itinerary *domain.Itinerary `json:"itinerary,omitempty"`
	Message   string            `json:"message,omitempty"`
}

type CheckItineraryRequest struct {
	TravelerID string            `json:"travelerId"`
	Now        *timeutil.Instant `json:"now"`
	CurrentLat *float64          `json:"currentLat"`
	CurrentLng *float64          `json:"currentLng"`
}

type CheckItineraryResponse struct {
	Status            string                `json:"status"`
	TargetItemID      string                `json:"targetItemId,omitempty"`
	MinutesToDeadline int                   `json:"minutesToDeadline,omitempty"`
	Options           []domain.RemedyOption `json:"options,omitempty"`
}

type ApplyRemedyRequest struct {
	TravelerID   string              `json:"travelerId"`
	TargetItemID string              `json:"targetItemId"`
	Choice       domain.RemedyChoice `json:"choice"`
}

type ApplyRemedyResponse struct {
	Status           string            `json:"status"`
	UpdatedItinerary *domain.Itinerary `json:"updatedItinerary,omitempty"`
	Message          string            `json:"message,omitempty"`
}
