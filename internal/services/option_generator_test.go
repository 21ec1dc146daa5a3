package services_test

import (
	"context"
	"errors"
	"testing"

	"itinerary-watch-service/internal/adapters/google"
	"itinerary-watch-service/internal/domain"
	"itinerary-watch-service/internal/services"
)

func brokenItems(t *testing.T) []domain.ItineraryItem {
	t.Helper()
	return []domain.ItineraryItem{
		{ID: "first", StartTime: mustInstant(t, "2026-02-14T09:00:00+09:00")},
		{ID: "target", StartTime: mustInstant(t, "2026-02-14T12:00:00+09:00")},
		{ID: "last", StartTime: mustInstant(t, "2026-02-14T18:00:00+09:00")},
	}
}

func kinds(options []domain.RemedyOption) []domain.RemedyKind {
	out := make([]domain.RemedyKind, len(options))
	for i, o := range options {
		out[i] = o.Kind
	}
	return out
}

func TestGenerateRemedyOptionsFullSet(t *testing.T) {
	now := mustInstant(t, "2026-02-14T11:00:00+09:00")
	places := &google.MockPlaceProvider{
		Nearby: []domain.PlaceSummary{{PlaceID: "n1", Name: "Cafe"}},
	}
	selector := &google.MockCandidateSelector{Candidates: []domain.DetourCandidate{
		{PlaceID: "n1", Name: "Cafe", StartTime: now, StayMinutes: 30},
	}}

	options := services.GenerateRemedyOptions(context.Background(), brokenItems(t), 1, now, 35.68, 139.76, places, selector)

	got := kinds(options)
	want := []domain.RemedyKind{domain.RemedyContinue, domain.RemedyDetour, domain.RemedyAbandon}
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", got, want)
		}
	}

	if len(options[1].Candidates) != 1 || options[1].Candidates[0].PlaceID != "n1" {
		t.Errorf("detour candidates = %+v", options[1].Candidates)
	}
	if selector.LastNextStart == nil {
		t.Fatal("selector must receive the next stop's start time")
	}
	if selector.LastNextStart.String() != "2026-02-14T18:00:00+09:00" {
		t.Errorf("next start = %s", selector.LastNextStart)
	}
}

func TestGenerateRemedyOptionsNoNearbyPlaces(t *testing.T) {
	now := mustInstant(t, "2026-02-14T11:00:00+09:00")
	places := &google.MockPlaceProvider{} // empty nearby
	selector := &google.MockCandidateSelector{}

	options := services.GenerateRemedyOptions(context.Background(), brokenItems(t), 1, now, 35.68, 139.76, places, selector)

	got := kinds(options)
	if len(got) != 2 || got[0] != domain.RemedyContinue || got[1] != domain.RemedyAbandon {
		t.Errorf("kinds = %v, want [CONTINUE ABANDON]", got)
	}
}

func TestGenerateRemedyOptionsSearchFailureDegrades(t *testing.T) {
	now := mustInstant(t, "2026-02-14T11:00:00+09:00")
	places := &google.MockPlaceProvider{NearbyErr: errors.New("places api down")}
	selector := &google.MockCandidateSelector{}

	options := services.GenerateRemedyOptions(context.Background(), brokenItems(t), 1, now, 35.68, 139.76, places, selector)
	if len(options) != 2 {
		t.Errorf("options = %v, want two-option degradation", kinds(options))
	}
}

func TestGenerateRemedyOptionsSelectorFailureDegrades(t *testing.T) {
	now := mustInstant(t, "2026-02-14T11:00:00+09:00")
	places := &google.MockPlaceProvider{
		Nearby: []domain.PlaceSummary{{PlaceID: "n1", Name: "Cafe"}},
	}
	selector := &google.MockCandidateSelector{Err: errors.New("selector down")}

	options := services.GenerateRemedyOptions(context.Background(), brokenItems(t), 1, now, 35.68, 139.76, places, selector)
	if len(options) != 2 {
		t.Errorf("options = %v, want two-option degradation", kinds(options))
	}
}

func TestGenerateRemedyOptionsTruncatesCandidates(t *testing.T) {
	now := mustInstant(t, "2026-02-14T11:00:00+09:00")
	places := &google.MockPlaceProvider{
		Nearby: []domain.PlaceSummary{{PlaceID: "n1"}},
	}
	selector := &google.MockCandidateSelector{Candidates: []domain.DetourCandidate{
		{PlaceID: "c1"}, {PlaceID: "c2"}, {PlaceID: "c3"}, {PlaceID: "c4"}, {PlaceID: "c5"},
	}}

	options := services.GenerateRemedyOptions(context.Background(), brokenItems(t), 1, now, 35.68, 139.76, places, selector)
	if len(options) != 3 {
		t.Fatalf("kinds = %v", kinds(options))
	}
	if len(options[1].Candidates) != 3 {
		t.Errorf("candidates = %d, want at most 3", len(options[1].Candidates))
	}
}

func TestGenerateRemedyOptionsLastItemHasNoNextStart(t *testing.T) {
	now := mustInstant(t, "2026-02-14T11:00:00+09:00")
	places := &google.MockPlaceProvider{
		Nearby: []domain.PlaceSummary{{PlaceID: "n1"}},
	}
	selector := &google.MockCandidateSelector{Candidates: []domain.DetourCandidate{{PlaceID: "c1"}}}

	items := brokenItems(t)
	services.GenerateRemedyOptions(context.Background(), items, len(items)-1, now, 35.68, 139.76, places, selector)

	if selector.LastNextStart != nil {
		t.Errorf("next start = %v, want nil for the final item", selector.LastNextStart)
	}
}
