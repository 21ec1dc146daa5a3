package handlers

import (
	"log"
	"net/http"
	"strconv"

	"itinerary-watch-service/internal/api/dto"
	"itinerary-watch-service/internal/domain"
	"itinerary-watch-service/internal/ports"
)

// PlacesHandler proxies place autocomplete for itinerary entry.
type PlacesHandler struct {
	Places ports.PlaceProvider
}

func (h *PlacesHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	input := q.Get("input")
	if input == "" {
		writeError(w, r, http.StatusBadRequest, "input is required")
		return
	}

	// Coordinates are optional; when present they bias the suggestions.
	var lat, lng float64
	if s := q.Get("lat"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "lat must be a number")
			return
		}
		lat = v
	}
	if s := q.Get("lng"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "lng must be a number")
			return
		}
		lng = v
	}

	preds, err := h.Places.Autocomplete(r.Context(), input, lat, lng)
	if err != nil {
		log.Printf("autocomplete failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if preds == nil {
		preds = []domain.AutocompletePrediction{}
	}

	writeJSON(w, r, http.StatusOK, dto.AutocompleteResponse{Predictions: preds})
}
