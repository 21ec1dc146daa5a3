package ports

import (
	"context"

	"itinerary-watch-service/internal/domain"
)

// Port: per-traveler document persistence with merge semantics. Saves touch
// only their own field (plus updatedAt); absent optional fields are omitted
// from the stored document, never written as null.
type DocumentStore interface {
	// Load returns (nil, nil) when no document exists for the traveler.
	Load(ctx context.Context, travelerID string) (*domain.TravelerDoc, error)

	SaveItinerary(ctx context.Context, travelerID string, itin *domain.Itinerary) error

	SaveFailureRecord(ctx context.Context, travelerID string, rec *domain.FailureRecord) error

	// ClearFailureRecord removes the field entirely; clearing an absent record
	// is not an error.
	ClearFailureRecord(ctx context.Context, travelerID string) error
}
