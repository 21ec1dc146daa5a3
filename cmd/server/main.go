package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"itinerary-watch-service/internal/adapters/cache"
	"itinerary-watch-service/internal/adapters/google"
	"itinerary-watch-service/internal/adapters/store"
	"itinerary-watch-service/internal/api"
	"itinerary-watch-service/internal/config"
	"itinerary-watch-service/internal/platform/db"
	"itinerary-watch-service/internal/ports"
	"itinerary-watch-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (MongoDB, Google APIs, caches) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	mongoURI := config.Get("MONGODB_URI", "mongodb://localhost:27017")
	dbName := config.Get("MONGODB_DATABASE", "itinerary_watch")
	port := config.Get("PORT", "8080")

	mapsKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if strings.TrimSpace(mapsKey) == "" {
		log.Fatal("GOOGLE_MAPS_API_KEY is required")
	}
	geminiKey := os.Getenv("GEMINI_API_KEY")
	if strings.TrimSpace(geminiKey) == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}

	cfg := config.Load()
	if cfg.ForceUnreachableRoutes || cfg.CheckAfterCompile {
		log.Printf("debug mode on: forceUnreachableRoutes=%t checkAfterCompile=%t",
			cfg.ForceUnreachableRoutes, cfg.CheckAfterCompile)
	}

	ctx := context.Background()

	client, err := db.Open(ctx, mongoURI)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	documentStore := store.NewMongoDocumentStore(client.Database(dbName))

	mapsSession := google.NewSession(mapsKey)
	geminiSession := google.NewSession(geminiKey)

	var places ports.PlaceProvider = google.NewPlacesClient(mapsSession)
	var routes ports.RouteProvider = google.NewRoutesClient(mapsSession, cfg.ForceUnreachableRoutes)
	selector := google.NewGeminiSelector(geminiSession)

	// Optional caches, enabled per environment.
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("parse REDIS_URL: %v", err)
		}
		places = cache.NewRedisPlaceCache(places, redis.NewClient(opts))
		log.Println("place detail cache: redis")
	}
	if cachePath := os.Getenv("CACHE_DB_PATH"); cachePath != "" {
		cacheDB, err := openCacheDB(cachePath)
		if err != nil {
			log.Fatal(err)
		}
		defer cacheDB.Close()
		routes = cache.NewSqliteDurationCache(cacheDB, routes)
		log.Println("transit duration cache: sqlite")
	}

	router := api.NewRouter(documentStore, places, routes, selector,
		services.WatchConfig{CheckAfterCompile: cfg.CheckAfterCompile})

	// Timeouts are tuned for compile requests that fan out to external APIs.
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening addr=:%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func openCacheDB(path string) (*sql.DB, error) {
	cacheDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database %q: %w", path, err)
	}
	if err := cacheDB.Ping(); err != nil {
		return nil, fmt.Errorf("verify cache database %q: %w", path, err)
	}
	if err := cache.InitSchema(cacheDB); err != nil {
		return nil, err
	}
	return cacheDB, nil
}
