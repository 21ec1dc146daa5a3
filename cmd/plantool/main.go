package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"itinerary-watch-service/internal/adapters/store"
	"itinerary-watch-service/internal/config"
	"itinerary-watch-service/internal/domain"
	"itinerary-watch-service/internal/platform/db"
	"itinerary-watch-service/internal/timeutil"
)

// plantool seeds a demo traveler document for local runs and prints what was
// stored. No external API keys are needed; the demo items are pre-resolved.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	mongoURI := config.Get("MONGODB_URI", "mongodb://localhost:27017")
	dbName := config.Get("MONGODB_DATABASE", "itinerary_watch")
	travelerID := config.Get("SEED_TRAVELER_ID", "demo-traveler")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := db.Open(ctx, mongoURI)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	documentStore := store.NewMongoDocumentStore(client.Database(dbName))

	log.Printf("Seeding traveler %q...", travelerID)
	if err := documentStore.SaveItinerary(ctx, travelerID, demoItinerary()); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	if err := documentStore.ClearFailureRecord(ctx, travelerID); err != nil {
		log.Fatalf("clearing stale failure record failed: %v", err)
	}

	doc, err := documentStore.Load(ctx, travelerID)
	if err != nil {
		log.Fatalf("reading back failed: %v", err)
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Fatalf("rendering document failed: %v", err)
	}
	log.Printf("Stored document:\n%s", out)
}

// demoItinerary is a three-stop Tokyo afternoon with one constrained middle
// stop, enough for check-itinerary to have something to classify.
func demoItinerary() *domain.Itinerary {
	now := timeutil.FromTime(time.Now())

	start := func(minutesAhead int) timeutil.Instant {
		return now.SubMinutes(-minutesAhead)
	}

	closeTime := start(3 * 60)
	deadline := start(90)

	return &domain.Itinerary{
		ItineraryID: uuid.NewString(),
		CreatedAt:   now,
		Items: []domain.ItineraryItem{
			{
				ID:        uuid.NewString(),
				Name:      "Tokyo Station",
				PlaceID:   "ChIJC3Cf2PuLGGAROO00ukl8JwA",
				Lat:       35.6812,
				Lng:       139.7671,
				StartTime: start(30),
			},
			{
				ID:          uuid.NewString(),
				Name:        "Maruzen Marunouchi",
				PlaceID:     "ChIJ39Y-tdiLGGARX_d0B7jPzXA",
				Lat:         35.6822,
				Lng:         139.7648,
				StartTime:   start(2 * 60),
				StayMinutes: 45,
				CloseTime:   &closeTime,
				Deadline:    &deadline,
			},
			{
				ID:        uuid.NewString(),
				Name:      "Imperial Palace East Garden",
				PlaceID:   "ChIJwWcPFJqJGGARSfnchhIKLiI",
				Lat:       35.6864,
				Lng:       139.7560,
				StartTime: start(4 * 60),
			},
		},
	}
}
