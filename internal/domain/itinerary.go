package domain

import (
	"sort"

	"itinerary-watch-service/internal/timeutil"
)

// ItineraryItem is one planned stop. Identity is the stable id, never the
// place id: a detour replacement keeps the id while every other field changes.
//
// CloseTime and Deadline are optional. An item missing either is a valid
// "unconstrained" stop: it stays in the itinerary but is never evaluated for
// risk.
type ItineraryItem struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`

	PlaceID string  `json:"placeId" bson:"placeId"`
	Lat     float64 `json:"lat" bson:"lat"`
	Lng     float64 `json:"lng" bson:"lng"`
	Address string  `json:"address,omitempty" bson:"address,omitempty"`

	StartTime   timeutil.Instant `json:"startTime" bson:"startTime"`
	StayMinutes int              `json:"stayMinutes" bson:"stayMinutes"`

	CloseTime *timeutil.Instant `json:"closeTime,omitempty" bson:"closeTime,omitempty"`
	Deadline  *timeutil.Instant `json:"deadline,omitempty" bson:"deadline,omitempty"`
}

// Constrained reports whether the item carries both fields risk evaluation needs.
func (it ItineraryItem) Constrained() bool {
	return it.CloseTime != nil && it.Deadline != nil
}

// Itinerary is the ordered stop list for one traveler, ascending by start time.
type Itinerary struct {
	ItineraryID string           `json:"itineraryId" bson:"itineraryId"`
	CreatedAt   timeutil.Instant `json:"createdAt" bson:"createdAt"`
	Items       []ItineraryItem  `json:"items" bson:"items"`
}

// SortItemsByStartTime restores the ascending start-time invariant in place.
// The sort is stable so equal start times keep their input order.
func (p *Itinerary) SortItemsByStartTime() {
	sort.SliceStable(p.Items, func(i, j int) bool {
		return p.Items[i].StartTime.Before(p.Items[j].StartTime)
	})
}

// ItemIndex returns the position of the item with the given id, or -1.
func (p *Itinerary) ItemIndex(id string) int {
	for i, it := range p.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// TravelerDoc is the persisted per-traveler document. FailureRecord is present
// only between a broken classification and the next applied remedy.
type TravelerDoc struct {
	Itinerary     *Itinerary       `json:"itinerary,omitempty" bson:"itinerary,omitempty"`
	FailureRecord *FailureRecord   `json:"failureRecord,omitempty" bson:"failureRecord,omitempty"`
	UpdatedAt     timeutil.Instant `json:"updatedAt" bson:"updatedAt"`
}
