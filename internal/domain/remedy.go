package domain

import (
	"fmt"

	"itinerary-watch-service/internal/timeutil"
)

// RemedyKind tags the variants of RemedyOption and RemedyChoice.
type RemedyKind string

const (
	RemedyContinue RemedyKind = "CONTINUE"
	RemedyDetour   RemedyKind = "DETOUR"
	RemedyAbandon  RemedyKind = "ABANDON"
)

// DetourCandidate is one proposed replacement stop. All fields come from the
// candidate selector verbatim; the core does not re-check feasibility.
type DetourCandidate struct {
	PlaceID string  `json:"placeId" bson:"placeId"`
	Name    string  `json:"name" bson:"name"`
	Lat     float64 `json:"lat" bson:"lat"`
	Lng     float64 `json:"lng" bson:"lng"`
	Address string  `json:"address" bson:"address"`

	Reason string `json:"reason" bson:"reason"`

	StartTime   timeutil.Instant `json:"startTime" bson:"startTime"`
	StayMinutes int              `json:"stayMinutes" bson:"stayMinutes"`
}

// RemedyOption is a tagged variant: Candidates is populated only for DETOUR.
type RemedyOption struct {
	Kind       RemedyKind        `json:"kind" bson:"kind"`
	Reason     string            `json:"reason" bson:"reason"`
	Candidates []DetourCandidate `json:"candidates,omitempty" bson:"candidates,omitempty"`
}

// ContinueOption and AbandonOption carry fixed text and never call out.
func ContinueOption() RemedyOption {
	return RemedyOption{
		Kind:   RemedyContinue,
		Reason: "Head straight to the next stop to keep the rest of the plan.",
	}
}

func AbandonOption() RemedyOption {
	return RemedyOption{
		Kind:   RemedyAbandon,
		Reason: "Give up on this stop and get ready for the next one.",
	}
}

func DetourOption(candidates []DetourCandidate) RemedyOption {
	return RemedyOption{
		Kind:       RemedyDetour,
		Reason:     "Detour suggestions that still fit before the next stop.",
		Candidates: candidates,
	}
}

// FailureRecord snapshots the remedy options computed at the moment an
// itinerary went broken. It is the only channel a later DETOUR application has
// for recovering the candidates; they are never recomputed.
type FailureRecord struct {
	CreatedAt    timeutil.Instant `json:"createdAt" bson:"createdAt"`
	TargetItemID string           `json:"targetItemId" bson:"targetItemId"`
	Options      []RemedyOption   `json:"options" bson:"options"`
}

// DetourOption returns the DETOUR variant from the record, or nil.
func (f *FailureRecord) DetourOption() *RemedyOption {
	for i := range f.Options {
		if f.Options[i].Kind == RemedyDetour {
			return &f.Options[i]
		}
	}
	return nil
}

// RemedyChoice mirrors RemedyOption but carries only the selected detour's
// place id; the full candidate is recovered from the FailureRecord.
type RemedyChoice struct {
	Kind          RemedyKind `json:"kind"`
	DetourPlaceID string     `json:"detourPlaceId,omitempty"`
}

// Validate enforces variant-specific fields per the tag.
func (c RemedyChoice) Validate() error {
	switch c.Kind {
	case RemedyContinue, RemedyAbandon:
		return nil
	case RemedyDetour:
		if c.DetourPlaceID == "" {
			return fmt.Errorf("remedy choice: DETOUR requires detourPlaceId")
		}
		return nil
	default:
		return fmt.Errorf("remedy choice: unknown kind %q", c.Kind)
	}
}
