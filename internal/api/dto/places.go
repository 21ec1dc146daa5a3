package dto

import "itinerary-watch-service/internal/domain"

type AutocompleteResponse struct {
	Predictions []domain.AutocompletePrediction `json:"predictions"`
}
