package google

import (
	"context"
	"fmt"

	"itinerary-watch-service/internal/domain"
	"itinerary-watch-service/internal/timeutil"
)

// In-memory collaborators for tests: fixed answers, optional forced errors.

type MockPlaceProvider struct {
	ByText      map[string]domain.PlaceSummary
	Details     map[string]*domain.PlaceDetail
	Nearby      []domain.PlaceSummary
	Predictions []domain.AutocompletePrediction

	TextErr   error
	DetailErr error
	NearbyErr error
}

func (m *MockPlaceProvider) SearchNearby(ctx context.Context, lat, lng float64, radiusMeters, maxResults int) ([]domain.PlaceSummary, error) {
	if m.NearbyErr != nil {
		return nil, m.NearbyErr
	}
	if len(m.Nearby) > maxResults {
		return m.Nearby[:maxResults], nil
	}
	return m.Nearby, nil
}

func (m *MockPlaceProvider) SearchByText(ctx context.Context, query string) (*domain.PlaceSummary, error) {
	if m.TextErr != nil {
		return nil, m.TextErr
	}
	if s, ok := m.ByText[query]; ok {
		return &s, nil
	}
	return nil, nil
}

func (m *MockPlaceProvider) GetPlaceDetail(ctx context.Context, placeID string) (*domain.PlaceDetail, error) {
	if m.DetailErr != nil {
		return nil, m.DetailErr
	}
	return m.Details[placeID], nil
}

func (m *MockPlaceProvider) Autocomplete(ctx context.Context, input string, lat, lng float64) ([]domain.AutocompletePrediction, error) {
	return m.Predictions, nil
}

type MockRoutePair struct {
	OriginLat, OriginLng float64
	DestLat, DestLng     float64
	Seconds              int
}

type MockRouteProvider struct {
	Pairs []MockRoutePair
	Err   error
}

func (m *MockRouteProvider) GetTransitDuration(ctx context.Context, originLat, originLng, destLat, destLng float64, arrival timeutil.Instant) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	for _, p := range m.Pairs {
		if p.OriginLat == originLat && p.OriginLng == originLng && p.DestLat == destLat && p.DestLng == destLng {
			return p.Seconds, nil
		}
	}
	return 0, fmt.Errorf("missing route pair (%v,%v) -> (%v,%v)", originLat, originLng, destLat, destLng)
}

type MockCandidateSelector struct {
	Candidates []domain.DetourCandidate
	Err        error

	// Captured from the last call.
	LastPoolSize  int
	LastNextStart *timeutil.Instant
}

func (m *MockCandidateSelector) SelectDetourCandidates(ctx context.Context, pool []domain.PlaceSummary, now timeutil.Instant, nextStart *timeutil.Instant, lat, lng float64) ([]domain.DetourCandidate, error) {
	m.LastPoolSize = len(pool)
	m.LastNextStart = nextStart
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Candidates, nil
}
