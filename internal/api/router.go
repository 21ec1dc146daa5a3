package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"itinerary-watch-service/internal/api/handlers"
	"itinerary-watch-service/internal/ports"
	"itinerary-watch-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	store ports.DocumentStore,
	places ports.PlaceProvider,
	routes ports.RouteProvider,
	selector ports.CandidateSelector,
	cfg services.WatchConfig,
) http.Handler {
	router := httprouter.New()

	watchHandler := &handlers.WatchHandler{
		Store:    store,
		Places:   places,
		Routes:   routes,
		Selector: selector,
		Cfg:      cfg,
	}
	placesHandler := &handlers.PlacesHandler{Places: places}

	router.HandlerFunc(http.MethodGet, "/health", handlers.Health)
	router.HandlerFunc(http.MethodPost, "/compile-itinerary", watchHandler.Compile)
	router.HandlerFunc(http.MethodPost, "/check-itinerary", watchHandler.Check)
	router.HandlerFunc(http.MethodPost, "/apply-remedy", watchHandler.Apply)
	router.HandlerFunc(http.MethodGet, "/places/autocomplete", placesHandler.Autocomplete)

	handler := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
	}).Handler(router)

	return requestIDMiddleware(loggingMiddleware(handler))
}
