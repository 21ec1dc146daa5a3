package google

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"itinerary-watch-service/internal/domain"
	"itinerary-watch-service/internal/platform/obs"
	"itinerary-watch-service/internal/services"
)

const defaultPlacesBaseURL = "https://places.googleapis.com"

// Place types considered worth suggesting as a detour.
var detourPlaceTypes = []string{
	"cafe",
	"restaurant",
	"book_store",
	"shopping_mall",
	"park",
	"museum",
	"art_gallery",
	"tourist_attraction",
}

// PlacesClient implements ports.PlaceProvider against the Places API (New).
type PlacesClient struct {
	session *Session
	baseURL string
	nowFn   func() time.Time
}

func NewPlacesClient(session *Session) *PlacesClient {
	return &PlacesClient{
		session: session,
		baseURL: defaultPlacesBaseURL,
		nowFn:   time.Now,
	}
}

type apiPlace struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	Location struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	FormattedAddress    string           `json:"formattedAddress"`
	Types               []string         `json:"types"`
	UTCOffsetMinutes    *int             `json:"utcOffsetMinutes"`
	CurrentOpeningHours *apiOpeningHours `json:"currentOpeningHours"`
	RegularOpeningHours *apiOpeningHours `json:"regularOpeningHours"`
}

type apiOpeningHours struct {
	WeekdayDescriptions []string `json:"weekdayDescriptions"`
	Periods             []struct {
		Open  *apiPeriodPoint `json:"open"`
		Close *apiPeriodPoint `json:"close"`
	} `json:"periods"`
}

type apiPeriodPoint struct {
	Day       *int   `json:"day"`
	DayOfWeek string `json:"dayOfWeek"`
	Hour      *int   `json:"hour"`
	Minute    *int   `json:"minute"`
}

func (c *PlacesClient) postJSON(
	ctx context.Context,
	path, fieldMask string,
	body any,
	out any,
) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	resp, err := c.session.doWithRetry(ctx, func() (*http.Request, error) {
		return c.session.newRequest(ctx, http.MethodPost, c.baseURL+path, fieldMask, bytes.NewReader(payload))
	})
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *PlacesClient) SearchNearby(
	ctx context.Context,
	lat, lng float64,
	radiusMeters, maxResults int,
) (_ []domain.PlaceSummary, err error) {
	defer obs.Time(ctx, "places.SearchNearby")(&err)

	body := map[string]any{
		"includedTypes":  detourPlaceTypes,
		"maxResultCount": maxResults,
		"locationRestriction": map[string]any{
			"circle": map[string]any{
				"center": map[string]float64{"latitude": lat, "longitude": lng},
				"radius": float64(radiusMeters),
			},
		},
	}

	var decoded struct {
		Places []apiPlace `json:"places"`
	}
	mask := "places.id,places.displayName,places.location,places.formattedAddress,places.types"
	if err := c.postJSON(ctx, "/v1/places:searchNearby", mask, body, &decoded); err != nil {
		return nil, fmt.Errorf("search nearby: %w", err)
	}

	out := make([]domain.PlaceSummary, 0, len(decoded.Places))
	for _, p := range decoded.Places {
		out = append(out, toSummary(p))
	}
	return out, nil
}

func (c *PlacesClient) SearchByText(ctx context.Context, query string) (_ *domain.PlaceSummary, err error) {
	defer obs.Time(ctx, "places.SearchByText")(&err)

	body := map[string]any{
		"textQuery":      query,
		"maxResultCount": 1,
		"languageCode":   "ja",
	}

	var decoded struct {
		Places []apiPlace `json:"places"`
	}
	mask := "places.id,places.displayName,places.location,places.formattedAddress,places.types"
	if err := c.postJSON(ctx, "/v1/places:searchText", mask, body, &decoded); err != nil {
		return nil, fmt.Errorf("search text: %w", err)
	}

	if len(decoded.Places) == 0 {
		return nil, nil
	}
	s := toSummary(decoded.Places[0])
	return &s, nil
}

func (c *PlacesClient) GetPlaceDetail(ctx context.Context, placeID string) (_ *domain.PlaceDetail, err error) {
	defer obs.Time(ctx, "places.GetPlaceDetail")(&err)

	mask := "id,displayName,location,formattedAddress,currentOpeningHours,regularOpeningHours,utcOffsetMinutes"
	endpoint := c.baseURL + "/v1/places/" + url.PathEscape(placeID)

	resp, err := c.session.doWithRetry(ctx, func() (*http.Request, error) {
		return c.session.newRequest(ctx, http.MethodGet, endpoint, mask, nil)
	})
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) && he.Code == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get place detail: %w", err)
	}
	defer resp.Body.Close()

	var p apiPlace
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("get place detail: decode response: %w", err)
	}

	offset := services.DefaultUTCOffsetMinutes
	if p.UTCOffsetMinutes != nil {
		offset = *p.UTCOffsetMinutes
	}

	now := c.nowFn()
	closeTime := services.ResolveClosingTime(toOpeningHours(p.CurrentOpeningHours), offset, now)
	if closeTime == nil {
		closeTime = services.ResolveClosingTime(toOpeningHours(p.RegularOpeningHours), offset, now)
	}

	detail := &domain.PlaceDetail{
		PlaceID:   p.ID,
		Name:      p.DisplayName.Text,
		Lat:       p.Location.Latitude,
		Lng:       p.Location.Longitude,
		Address:   p.FormattedAddress,
		CloseTime: closeTime,
	}
	if detail.PlaceID == "" {
		detail.PlaceID = placeID
	}
	return detail, nil
}

func (c *PlacesClient) Autocomplete(
	ctx context.Context,
	input string,
	lat, lng float64,
) (_ []domain.AutocompletePrediction, err error) {
	defer obs.Time(ctx, "places.Autocomplete")(&err)

	input = strings.TrimSpace(input)
	if len([]rune(input)) < 2 {
		return []domain.AutocompletePrediction{}, nil
	}

	body := map[string]any{
		"input":               input,
		"languageCode":        "ja",
		"includedRegionCodes": []string{"jp"},
	}
	if lat != 0 || lng != 0 {
		body["locationBias"] = map[string]any{
			"circle": map[string]any{
				"center": map[string]float64{"latitude": lat, "longitude": lng},
				"radius": 50000.0,
			},
		}
	}

	var decoded struct {
		Suggestions []struct {
			PlacePrediction *struct {
				PlaceID string `json:"placeId"`
				Place   string `json:"place"`
				Text    struct {
					Text string `json:"text"`
				} `json:"text"`
				StructuredFormat struct {
					MainText struct {
						Text string `json:"text"`
					} `json:"mainText"`
					SecondaryText struct {
						Text string `json:"text"`
					} `json:"secondaryText"`
				} `json:"structuredFormat"`
			} `json:"placePrediction"`
		} `json:"suggestions"`
	}
	mask := "suggestions.placePrediction.placeId,suggestions.placePrediction.text,suggestions.placePrediction.structuredFormat"
	if err := c.postJSON(ctx, "/v1/places:autocomplete", mask, body, &decoded); err != nil {
		return nil, fmt.Errorf("autocomplete: %w", err)
	}

	out := make([]domain.AutocompletePrediction, 0, len(decoded.Suggestions))
	for _, s := range decoded.Suggestions {
		pp := s.PlacePrediction
		if pp == nil {
			continue
		}

		placeID := pp.PlaceID
		if placeID == "" {
			placeID = strings.TrimPrefix(pp.Place, "places/")
		}
		if placeID == "" {
			continue
		}

		main := pp.StructuredFormat.MainText.Text
		if main == "" {
			main = pp.Text.Text
		}
		full := pp.Text.Text
		if full == "" {
			full = strings.TrimSpace(main + " " + pp.StructuredFormat.SecondaryText.Text)
		}

		out = append(out, domain.AutocompletePrediction{
			PlaceID:       placeID,
			MainText:      main,
			SecondaryText: pp.StructuredFormat.SecondaryText.Text,
			FullText:      full,
		})
	}
	return out, nil
}

func toSummary(p apiPlace) domain.PlaceSummary {
	return domain.PlaceSummary{
		PlaceID: p.ID,
		Name:    p.DisplayName.Text,
		Lat:     p.Location.Latitude,
		Lng:     p.Location.Longitude,
		Address: p.FormattedAddress,
		Types:   p.Types,
	}
}

var weekdayNames = map[string]int{
	"SUNDAY":    0,
	"MONDAY":    1,
	"TUESDAY":   2,
	"WEDNESDAY": 3,
	"THURSDAY":  4,
	"FRIDAY":    5,
	"SATURDAY":  6,
}

// toOpeningHours maps the API representation into the domain one consumed by
// the closing-time resolver.
func toOpeningHours(h *apiOpeningHours) *domain.OpeningHours {
	if h == nil {
		return nil
	}

	out := &domain.OpeningHours{WeekdayDescriptions: h.WeekdayDescriptions}
	for _, p := range h.Periods {
		if p.Open == nil || p.Close == nil || p.Close.Hour == nil {
			continue
		}

		openDay := -1
		if p.Open.Day != nil {
			openDay = *p.Open.Day
		} else if d, ok := weekdayNames[strings.ToUpper(p.Open.DayOfWeek)]; ok {
			openDay = d
		}
		if openDay < 0 {
			continue
		}

		minute := 0
		if p.Close.Minute != nil {
			minute = *p.Close.Minute
		}
		out.Periods = append(out.Periods, domain.OpeningPeriod{
			OpenDay:     openDay,
			CloseHour:   *p.Close.Hour,
			CloseMinute: minute,
		})
	}
	return out
}
