package handlers

import (
	"log"
	"net/http"

	"itinerary-watch-service/internal/api/dto"
	"itinerary-watch-service/internal/domain"
	"itinerary-watch-service/internal/ports"
	"itinerary-watch-service/internal/services"
)

// WatchHandler exposes the compile / check / apply operations. Handlers only
// validate and translate; the semantics live in the services package.
type WatchHandler struct {
	Store    ports.DocumentStore
	Places   ports.PlaceProvider
	Routes   ports.RouteProvider
	Selector ports.CandidateSelector
	Cfg      services.WatchConfig
}

func (h *WatchHandler) Compile(w http.ResponseWriter, r *http.Request) {
	var req dto.CompileItineraryRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	if req.TravelerID == "" {
		writeError(w, r, http.StatusBadRequest, "travelerId is required")
		return
	}
	if req.ItineraryID == "" {
		writeError(w, r, http.StatusBadRequest, "itineraryId is required")
		return
	}
	if req.CreatedAt == nil {
		writeError(w, r, http.StatusBadRequest, "createdAt is required")
		return
	}
	if len(req.Stops) == 0 {
		writeError(w, r, http.StatusBadRequest, "stops must not be empty")
		return
	}

	stops := make([]services.StopInput, 0, len(req.Stops))
	for _, s := range req.Stops {
		if s.ID == "" || s.Name == "" {
			writeError(w, r, http.StatusBadRequest, "every stop needs an id and a name")
			return
		}
		if s.StartTime == nil {
			writeError(w, r, http.StatusBadRequest, "every stop needs a startTime")
			return
		}
		if s.StayMinutes == nil || *s.StayMinutes < 0 {
			writeError(w, r, http.StatusBadRequest, "stayMinutes must be present and non-negative")
			return
		}
		stops = append(stops, services.StopInput{
			ID:          s.ID,
			Name:        s.Name,
			StartTime:   *s.StartTime,
			StayMinutes: *s.StayMinutes,
			PlaceID:     s.PlaceID,
		})
	}

	itin, err := services.CompileItinerary(r.Context(), services.CompileRequest{
		TravelerID:  req.TravelerID,
		ItineraryID: req.ItineraryID,
		CreatedAt:   *req.CreatedAt,
		Stops:       stops,
	}, h.Store, h.Places, h.Routes, h.Selector, h.Cfg)
	if err != nil {
		log.Printf("compile itinerary failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.CompileItineraryResponse{
		Status:    dto.StatusOK,
		Itinerary: itin,
	})
}

func (h *WatchHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckItineraryRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	if req.TravelerID == "" {
		writeError(w, r, http.StatusBadRequest, "travelerId is required")
		return
	}
	if req.Now == nil {
		writeError(w, r, http.StatusBadRequest, "now is required")
		return
	}
	if req.CurrentLat == nil || req.CurrentLng == nil {
		writeError(w, r, http.StatusBadRequest, "currentLat and currentLng are required")
		return
	}

	res, err := services.CheckItinerary(r.Context(), services.CheckRequest{
		TravelerID: req.TravelerID,
		Now:        *req.Now,
		CurrentLat: *req.CurrentLat,
		CurrentLng: *req.CurrentLng,
	}, h.Store, h.Places, h.Selector)
	if err != nil {
		log.Printf("check itinerary failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.CheckItineraryResponse{
		Status:            string(res.Status),
		TargetItemID:      res.TargetItemID,
		MinutesToDeadline: res.MinutesToDeadline,
		Options:           res.Options,
	})
}

func (h *WatchHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplyRemedyRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	if req.TravelerID == "" {
		writeError(w, r, http.StatusBadRequest, "travelerId is required")
		return
	}
	if req.TargetItemID == "" {
		writeError(w, r, http.StatusBadRequest, "targetItemId is required")
		return
	}
	if err := req.Choice.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Choice.Kind != domain.RemedyDetour && req.Choice.DetourPlaceID != "" {
		writeError(w, r, http.StatusBadRequest, "detourPlaceId is only valid for DETOUR")
		return
	}

	updated, err := services.ApplyRemedy(r.Context(), services.ApplyRequest{
		TravelerID:   req.TravelerID,
		TargetItemID: req.TargetItemID,
		Choice:       req.Choice,
	}, h.Store)
	if services.IsPrecondition(err) {
		writeJSON(w, r, http.StatusOK, dto.ApplyRemedyResponse{
			Status:  dto.StatusError,
			Message: err.Error(),
		})
		return
	}
	if err != nil {
		log.Printf("apply remedy failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ApplyRemedyResponse{
		Status:           dto.StatusOK,
		UpdatedItinerary: updated,
	})
}
