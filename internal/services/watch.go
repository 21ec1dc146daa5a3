package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"itinerary-watch-service/internal/domain"
	"itinerary-watch-service/internal/platform/obs"
	"itinerary-watch-service/internal/ports"
	"itinerary-watch-service/internal/timeutil"
)

// WatchConfig carries the debug behavior threaded in from the composition
// root. Zero value is production behavior.
type WatchConfig struct {
	// CheckAfterCompile runs an immediate check after compile-itinerary saves,
	// using the first stop's coordinates as the current position.
	CheckAfterCompile bool
}

type CompileRequest struct {
	TravelerID  string
	ItineraryID string
	CreatedAt   timeutil.Instant
	Stops       []StopInput
}

// CompileItinerary resolves the stops, computes deadlines, and persists the
// itinerary. Per-stop lookup failures degrade to unconstrained items; only a
// storage fault fails the operation.
func CompileItinerary(
	ctx context.Context,
	req CompileRequest,
	store ports.DocumentStore,
	places ports.PlaceProvider,
	routes ports.RouteProvider,
	selector ports.CandidateSelector,
	cfg WatchConfig,
) (_ *domain.Itinerary, err error) {
	defer obs.Time(ctx, "watch.CompileItinerary")(&err)

	items := CompileDeadlines(ctx, req.Stops, places, routes)

	itin := &domain.Itinerary{
		ItineraryID: req.ItineraryID,
		CreatedAt:   req.CreatedAt,
		Items:       items,
	}

	if err := store.SaveItinerary(ctx, req.TravelerID, itin); err != nil {
		return nil, fmt.Errorf("compile itinerary: save: %w", err)
	}
	log.Printf("compile itinerary: traveler=%s items=%d", req.TravelerID, len(items))

	if cfg.CheckAfterCompile && len(items) > 0 {
		first := items[0]
		checkReq := CheckRequest{
			TravelerID: req.TravelerID,
			Now:        timeutil.FromTime(time.Now()),
			CurrentLat: first.Lat,
			CurrentLng: first.Lng,
		}
		if _, cerr := CheckItinerary(ctx, checkReq, store, places, selector); cerr != nil {
			log.Printf("compile itinerary: post-compile check failed: %v", cerr)
		}
	}

	return itin, nil
}

type CheckRequest struct {
	TravelerID string
	Now        timeutil.Instant
	CurrentLat float64
	CurrentLng float64
}

type CheckResult struct {
	Status            Status
	TargetItemID      string
	MinutesToDeadline int
	Options           []domain.RemedyOption
}

// CheckItinerary loads the traveler's itinerary and classifies it. A missing
// document or itinerary is ok, not an error. A broken classification generates
// remedy options and overwrites the failure record before returning.
func CheckItinerary(
	ctx context.Context,
	req CheckRequest,
	store ports.DocumentStore,
	places ports.PlaceProvider,
	selector ports.CandidateSelector,
) (_ CheckResult, err error) {
	defer obs.Time(ctx, "watch.CheckItinerary")(&err)

	doc, err := store.Load(ctx, req.TravelerID)
	if err != nil {
		return CheckResult{}, fmt.Errorf("check itinerary: load: %w", err)
	}
	if doc == nil || doc.Itinerary == nil {
		return CheckResult{Status: StatusOK}, nil
	}

	eval := EvaluateItinerary(doc.Itinerary.Items, req.Now, req.CurrentLat, req.CurrentLng)

	switch eval.Status {
	case StatusBroken:
		options := GenerateRemedyOptions(
			ctx, doc.Itinerary.Items, eval.TargetIndex,
			req.Now, req.CurrentLat, req.CurrentLng,
			places, selector,
		)

		record := &domain.FailureRecord{
			CreatedAt:    req.Now,
			TargetItemID: eval.TargetItemID,
			Options:      options,
		}
		if err := store.SaveFailureRecord(ctx, req.TravelerID, record); err != nil {
			return CheckResult{}, fmt.Errorf("check itinerary: save failure record: %w", err)
		}
		log.Printf("check itinerary: broken traveler=%s target=%s options=%d",
			req.TravelerID, eval.TargetItemID, len(options))

		return CheckResult{
			Status:       StatusBroken,
			TargetItemID: eval.TargetItemID,
			Options:      options,
		}, nil

	case StatusWarn:
		return CheckResult{
			Status:            StatusWarn,
			TargetItemID:      eval.TargetItemID,
			MinutesToDeadline: eval.MinutesToDeadline,
		}, nil

	default:
		return CheckResult{Status: StatusOK}, nil
	}
}

type ApplyRequest struct {
	TravelerID   string
	TargetItemID string
	Choice       domain.RemedyChoice
}

// ApplyRemedy applies the traveler's choice to the persisted itinerary. On
// success the updated itinerary is saved and the failure record cleared.
func ApplyRemedy(
	ctx context.Context,
	req ApplyRequest,
	store ports.DocumentStore,
) (_ *domain.Itinerary, err error) {
	defer obs.Time(ctx, "watch.ApplyRemedy")(&err)

	doc, err := store.Load(ctx, req.TravelerID)
	if err != nil {
		return nil, fmt.Errorf("apply remedy: load: %w", err)
	}
	if doc == nil || doc.Itinerary == nil {
		return nil, ErrNoItinerary
	}

	updated, err := ApplyRemedyOption(doc.Itinerary, req.TargetItemID, req.Choice, doc.FailureRecord)
	if err != nil {
		return nil, err
	}

	if err := store.SaveItinerary(ctx, req.TravelerID, updated); err != nil {
		return nil, fmt.Errorf("apply remedy: save itinerary: %w", err)
	}
	if err := store.ClearFailureRecord(ctx, req.TravelerID); err != nil {
		return nil, fmt.Errorf("apply remedy: clear failure record: %w", err)
	}
	log.Printf("apply remedy: traveler=%s target=%s kind=%s",
		req.TravelerID, req.TargetItemID, req.Choice.Kind)

	return updated, nil
}
