package config

import "os"

// Get reads an environment variable with a fallback.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Config carries process-wide knobs resolved once at startup. Core logic never
// reads the environment; these values are threaded into the components that
// need them at construction.
type Config struct {
	// ForceUnreachableRoutes pins every transit duration to 999999 seconds so
	// any compiled itinerary breaks immediately. For end-to-end failure tests.
	ForceUnreachableRoutes bool

	// CheckAfterCompile runs a check against the first stop's coordinates
	// right after compile-itinerary persists.
	CheckAfterCompile bool
}

// Load resolves the debug knobs from WATCH_DEBUG_MODE.
func Load() Config {
	debug := os.Getenv("WATCH_DEBUG_MODE")
	on := debug == "1" || debug == "true"
	return Config{
		ForceUnreachableRoutes: on,
		CheckAfterCompile:      on,
	}
}
