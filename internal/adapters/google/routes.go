package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"regexp"
	"strconv"

	"itinerary-watch-service/internal/platform/obs"
	"itinerary-watch-service/internal/timeutil"
)

const defaultRoutesBaseURL = "https://routes.googleapis.com"

// Duration strings come back as "165s".
var durationPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)s$`)

// RoutesClient implements ports.RouteProvider against the Routes API,
// transit mode only.
type RoutesClient struct {
	session *Session
	baseURL string

	// forceUnreachable pins every duration to 999999s so compiled deadlines
	// are always in the past. Threaded in from config, never read from env here.
	forceUnreachable bool
}

func NewRoutesClient(session *Session, forceUnreachable bool) *RoutesClient {
	if forceUnreachable {
		log.Printf("routes: debug mode, transit duration pinned to 999999s")
	}
	return &RoutesClient{
		session:          session,
		baseURL:          defaultRoutesBaseURL,
		forceUnreachable: forceUnreachable,
	}
}

func (c *RoutesClient) GetTransitDuration(
	ctx context.Context,
	originLat, originLng, destLat, destLng float64,
	arrival timeutil.Instant,
) (_ int, err error) {
	defer obs.Time(ctx, "routes.GetTransitDuration")(&err)

	if c.forceUnreachable {
		return 999999, nil
	}

	body := map[string]any{
		"origin": map[string]any{
			"location": map[string]any{
				"latLng": map[string]float64{"latitude": originLat, "longitude": originLng},
			},
		},
		"destination": map[string]any{
			"location": map[string]any{
				"latLng": map[string]float64{"latitude": destLat, "longitude": destLng},
			},
		},
		"travelMode":   "TRANSIT",
		"arrivalTime":  arrival.String(),
		"languageCode": "ja",
		"regionCode":   "jp",
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("get transit duration: encode request: %w", err)
	}

	endpoint := c.baseURL + "/directions/v2:computeRoutes"
	resp, err := c.session.doWithRetry(ctx, func() (*http.Request, error) {
		return c.session.newRequest(ctx, http.MethodPost, endpoint, "routes.duration", bytes.NewReader(payload))
	})
	if err != nil {
		return 0, fmt.Errorf("get transit duration: %w", err)
	}
	defer resp.Body.Close()

	var decoded struct {
		Routes []struct {
			Duration string `json:"duration"`
		} `json:"routes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("get transit duration: decode response: %w", err)
	}

	if len(decoded.Routes) == 0 || decoded.Routes[0].Duration == "" {
		return 0, fmt.Errorf("get transit duration: no routes returned")
	}

	m := durationPattern.FindStringSubmatch(decoded.Routes[0].Duration)
	if m == nil {
		return 0, fmt.Errorf("get transit duration: unexpected duration %q", decoded.Routes[0].Duration)
	}

	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("get transit duration: parse duration %q: %w", m[1], err)
	}
	return int(math.Ceil(f)), nil
}
