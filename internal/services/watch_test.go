package services_test

import (
	"context"
	"errors"
	"testing"

	"itinerary-watch-service/internal/adapters/google"
	"itinerary-watch-service/internal/domain"
	"itinerary-watch-service/internal/services"
)

// fakeStore is an in-memory DocumentStore for service tests.
type fakeStore struct {
	docs map[string]*domain.TravelerDoc

	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: map[string]*domain.TravelerDoc{}}
}

func (s *fakeStore) Load(ctx context.Context, travelerID string) (*domain.TravelerDoc, error) {
	return s.docs[travelerID], nil
}

func (s *fakeStore) SaveItinerary(ctx context.Context, travelerID string, itin *domain.Itinerary) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	doc := s.docs[travelerID]
	if doc == nil {
		doc = &domain.TravelerDoc{}
		s.docs[travelerID] = doc
	}
	doc.Itinerary = itin
	return nil
}

func (s *fakeStore) SaveFailureRecord(ctx context.Context, travelerID string, rec *domain.FailureRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	doc := s.docs[travelerID]
	if doc == nil {
		doc = &domain.TravelerDoc{}
		s.docs[travelerID] = doc
	}
	doc.FailureRecord = rec
	return nil
}

func (s *fakeStore) ClearFailureRecord(ctx context.Context, travelerID string) error {
	if doc := s.docs[travelerID]; doc != nil {
		doc.FailureRecord = nil
	}
	return nil
}

func TestCompileItinerarySavesResolvedItems(t *testing.T) {
	store := newFakeStore()
	places := &google.MockPlaceProvider{
		ByText:  map[string]domain.PlaceSummary{"Station": {PlaceID: "p1", Name: "Station", Lat: 35.68, Lng: 139.76}},
		Details: map[string]*domain.PlaceDetail{"p1": {PlaceID: "p1", Name: "Station", Lat: 35.68, Lng: 139.76}},
	}
	routes := &google.MockRouteProvider{}
	selector := &google.MockCandidateSelector{}

	req := services.CompileRequest{
		TravelerID:  "t1",
		ItineraryID: "itin-1",
		CreatedAt:   mustInstant(t, "2026-02-14T08:00:00+09:00"),
		Stops: []services.StopInput{
			{ID: "a", Name: "Station", StartTime: mustInstant(t, "2026-02-14T10:00:00+09:00"), StayMinutes: 30},
		},
	}

	itin, err := services.CompileItinerary(context.Background(), req, store, places, routes, selector, services.WatchConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if itin.ItineraryID != "itin-1" || len(itin.Items) != 1 {
		t.Fatalf("itinerary = %+v", itin)
	}

	doc := store.docs["t1"]
	if doc == nil || doc.Itinerary == nil {
		t.Fatal("itinerary not persisted")
	}
	if doc.Itinerary.Items[0].PlaceID != "p1" {
		t.Errorf("persisted item = %+v", doc.Itinerary.Items[0])
	}
}

func TestCompileItinerarySaveFailureSurfaces(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("mongo down")

	req := services.CompileRequest{TravelerID: "t1", ItineraryID: "itin-1"}
	_, err := services.CompileItinerary(context.Background(), req, store,
		&google.MockPlaceProvider{}, &google.MockRouteProvider{}, &google.MockCandidateSelector{}, services.WatchConfig{})
	if err == nil {
		t.Fatal("expected a storage error")
	}
}

func TestCheckItineraryNoDocumentIsOK(t *testing.T) {
	store := newFakeStore()

	res, err := services.CheckItinerary(context.Background(), services.CheckRequest{TravelerID: "ghost"},
		store, &google.MockPlaceProvider{}, &google.MockCandidateSelector{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != services.StatusOK {
		t.Errorf("status = %s, want ok for unknown traveler", res.Status)
	}
}

func TestCheckItineraryBrokenPersistsFailureRecord(t *testing.T) {
	now := mustInstant(t, "2026-02-14T11:00:00+09:00")
	store := newFakeStore()
	store.docs["t1"] = &domain.TravelerDoc{Itinerary: &domain.Itinerary{
		ItineraryID: "itin-1",
		Items:       threeStops(t, now, -5, 35.68, 139.76),
	}}

	places := &google.MockPlaceProvider{
		Nearby: []domain.PlaceSummary{{PlaceID: "n1", Name: "Cafe"}},
	}
	selector := &google.MockCandidateSelector{Candidates: []domain.DetourCandidate{
		{PlaceID: "n1", Name: "Cafe"},
	}}

	res, err := services.CheckItinerary(context.Background(), services.CheckRequest{
		TravelerID: "t1", Now: now, CurrentLat: 35.68, CurrentLng: 139.76,
	}, store, places, selector)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Status != services.StatusBroken || res.TargetItemID != "target" {
		t.Fatalf("result = %+v, want broken targeting %q", res, "target")
	}
	if len(res.Options) != 3 {
		t.Errorf("options = %d, want CONTINUE/DETOUR/ABANDON", len(res.Options))
	}

	rec := store.docs["t1"].FailureRecord
	if rec == nil {
		t.Fatal("failure record not persisted")
	}
	if rec.TargetItemID != "target" || len(rec.Options) != len(res.Options) {
		t.Errorf("persisted record = %+v", rec)
	}
}

func TestCheckItineraryWarnDoesNotPersist(t *testing.T) {
	now := mustInstant(t, "2026-02-14T11:00:00+09:00")
	store := newFakeStore()
	store.docs["t1"] = &domain.TravelerDoc{Itinerary: &domain.Itinerary{
		Items: threeStops(t, now, 10, 35.68, 139.76),
	}}

	res, err := services.CheckItinerary(context.Background(), services.CheckRequest{
		TravelerID: "t1", Now: now, CurrentLat: 35.68, CurrentLng: 139.76,
	}, store, &google.MockPlaceProvider{}, &google.MockCandidateSelector{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Status != services.StatusWarn || res.MinutesToDeadline != 10 {
		t.Fatalf("result = %+v, want warn at 10 minutes", res)
	}
	if store.docs["t1"].FailureRecord != nil {
		t.Error("warn must not write a failure record")
	}
}

func TestApplyRemedyRoundTrip(t *testing.T) {
	now := mustInstant(t, "2026-02-14T11:00:00+09:00")
	store := newFakeStore()
	store.docs["t1"] = &domain.TravelerDoc{
		Itinerary: &domain.Itinerary{
			ItineraryID: "itin-1",
			Items:       threeStops(t, now, -5, 35.68, 139.76),
		},
		FailureRecord: detourRecord(t),
	}

	updated, err := services.ApplyRemedy(context.Background(), services.ApplyRequest{
		TravelerID:   "t1",
		TargetItemID: "target",
		Choice:       domain.RemedyChoice{Kind: domain.RemedyDetour, DetourPlaceID: "alt-1"},
	}, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Items[1].PlaceID != "alt-1" {
		t.Errorf("updated item = %+v", updated.Items[1])
	}

	doc := store.docs["t1"]
	if doc.Itinerary.Items[1].PlaceID != "alt-1" {
		t.Error("updated itinerary not persisted")
	}
	if doc.FailureRecord != nil {
		t.Error("failure record must be cleared after a successful apply")
	}
}

func TestApplyRemedyNoItinerary(t *testing.T) {
	store := newFakeStore()

	_, err := services.ApplyRemedy(context.Background(), services.ApplyRequest{
		TravelerID: "ghost",
		Choice:     domain.RemedyChoice{Kind: domain.RemedyContinue},
	}, store)
	if !errors.Is(err, services.ErrNoItinerary) {
		t.Errorf("err = %v, want services.ErrNoItinerary", err)
	}
}

func TestApplyRemedyPreconditionLeavesRecord(t *testing.T) {
	now := mustInstant(t, "2026-02-14T11:00:00+09:00")
	store := newFakeStore()
	store.docs["t1"] = &domain.TravelerDoc{
		Itinerary: &domain.Itinerary{
			Items: threeStops(t, now, -5, 35.68, 139.76),
		},
		FailureRecord: detourRecord(t),
	}

	_, err := services.ApplyRemedy(context.Background(), services.ApplyRequest{
		TravelerID:   "t1",
		TargetItemID: "target",
		Choice:       domain.RemedyChoice{Kind: domain.RemedyDetour, DetourPlaceID: "not-a-candidate"},
	}, store)
	if !errors.Is(err, services.ErrNoMatchingCandidate) {
		t.Fatalf("err = %v, want services.ErrNoMatchingCandidate", err)
	}

	if store.docs["t1"].FailureRecord == nil {
		t.Error("failed apply must not clear the failure record")
	}
}
