package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"itinerary-watch-service/internal/domain"
	"itinerary-watch-service/internal/platform/obs"
	"itinerary-watch-service/internal/timeutil"
)

const (
	defaultGenaiBaseURL = "https://generativelanguage.googleapis.com"
	geminiModel         = "gemini-2.0-flash"
)

// The model is asked for raw JSON but sometimes wraps it in markdown fences.
var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// GeminiSelector implements ports.CandidateSelector by asking Gemini to pick
// detour candidates out of the search pool.
type GeminiSelector struct {
	session *Session
	baseURL string
	model   string
}

func NewGeminiSelector(session *Session) *GeminiSelector {
	return &GeminiSelector{
		session: session,
		baseURL: defaultGenaiBaseURL,
		model:   geminiModel,
	}
}

func (g *GeminiSelector) SelectDetourCandidates(
	ctx context.Context,
	pool []domain.PlaceSummary,
	now timeutil.Instant,
	nextStart *timeutil.Instant,
	lat, lng float64,
) (_ []domain.DetourCandidate, err error) {
	defer obs.Time(ctx, "gemini.SelectDetourCandidates")(&err)

	if len(pool) == 0 {
		return []domain.DetourCandidate{}, nil
	}

	prompt := buildSelectionPrompt(pool, now, nextStart, lat, lng)

	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("select candidates: encode request: %w", err)
	}

	endpoint := g.baseURL + "/v1beta/models/" + g.model + ":generateContent"
	resp, err := g.session.doWithRetry(ctx, func() (*http.Request, error) {
		return g.session.newRequest(ctx, http.MethodPost, endpoint, "", bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("select candidates: %w", err)
	}
	defer resp.Body.Close()

	var decoded struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("select candidates: decode response: %w", err)
	}

	var text string
	if len(decoded.Candidates) > 0 && len(decoded.Candidates[0].Content.Parts) > 0 {
		text = decoded.Candidates[0].Content.Parts[0].Text
	}

	raw := jsonArrayPattern.FindString(text)
	if raw == "" {
		return nil, fmt.Errorf("select candidates: no JSON array in model response")
	}

	var parsed []domain.DetourCandidate
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("select candidates: parse model response: %w", err)
	}

	if len(parsed) > 3 {
		parsed = parsed[:3]
	}
	return parsed, nil
}

func buildSelectionPrompt(
	pool []domain.PlaceSummary,
	now timeutil.Instant,
	nextStart *timeutil.Instant,
	lat, lng float64,
) string {
	var list strings.Builder
	for i, c := range pool {
		fmt.Fprintf(&list, "%d. name: %q, placeId: %q, lat: %v, lng: %v, address: %q, types: [%s]\n",
			i+1, c.Name, c.PlaceID, c.Lat, c.Lng, c.Address, strings.Join(c.Types, ", "))
	}

	next := "unknown"
	if nextStart != nil {
		next = nextStart.String()
	}

	return fmt.Sprintf(`You are a travel planner. The traveler's plan just broke down; suggest up to 3 detour stops.

## Context
- Current time: %s
- Next scheduled start time: %s
- Current position: lat=%v, lng=%v

## Candidates
%s
## Constraints
- Pick the best 3 from the candidates above (fewer if fewer exist).
- For each pick add:
  - reason: one sentence on why this place fits now
  - startTime: estimated arrival (ISO 8601, accounting for travel from the current position)
  - stayMinutes: suggested stay in minutes (integer)

## Output (raw JSON only, no markdown)
[
  {"placeId": "...", "name": "...", "lat": 0, "lng": 0, "address": "...", "reason": "...", "startTime": "...", "stayMinutes": 0}
]`,
		now.String(), next, lat, lng, list.String())
}
