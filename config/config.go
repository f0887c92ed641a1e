// Package config loads process configuration for the itinerary planner core.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every environment-driven knob the core reads at startup.
// Field names follow §6/§8 of the specification: per-item budget fraction,
// per-class candidate K, accommodation rating floor, adaptive-radius tiers.
type Config struct {
	Environment string

	DatabaseURL string
	RedisURL    string

	ArtifactDir      string
	ReordererEnabled bool
	ReordererBackend string // "seq2seq" (default) or "llm"

	DefaultRadiusKM    int
	MaxItineraryDays   int
	GroundSpeedKPH     float64
	BudgetFraction     float64
	CandidateK         int
	AccommodationFloor float64
	AccommodationCap   int
	AdaptiveRadiiM     []float64

	SoftDeadlineSeconds int

	GoogleMapsAPIKey string
	GeminiAPIKey     string

	AllowedOrigins []string
}

// Load reads a local .env file if present (ignored if absent, unlike the
// teacher's fatal-on-missing behavior: absence of a .env is normal in
// production where real env vars are injected by the platform) then
// populates Config from the process environment, applying the defaults
// spec.md §6 calls out.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded, using process environment")
	}

	env := getenv("APP_ENV", "development")

	cfg := Config{
		Environment: env,
		DatabaseURL: resolveDatabaseURL(env),
		RedisURL:    getenv("REDIS_URL", ""),

		ArtifactDir:      getenv("ARTIFACT_DIR", "./artifacts"),
		ReordererEnabled: getenvBool("REORDERER_ENABLED", true),
		ReordererBackend: getenv("REORDERER_BACKEND", "seq2seq"),

		DefaultRadiusKM:    getenvInt("DEFAULT_RADIUS_KM", 15),
		MaxItineraryDays:   getenvInt("MAX_ITINERARY_DAYS", 30),
		GroundSpeedKPH:     getenvFloat("GROUND_SPEED_KPH", 30.0),
		BudgetFraction:     getenvFloat("BUDGET_FRACTION", 0.10),
		CandidateK:         getenvInt("CANDIDATE_K", 10),
		AccommodationFloor: getenvFloat("ACCOMMODATION_RATING_FLOOR", 3.5),
		AccommodationCap:   getenvInt("ACCOMMODATION_FETCH_CAP", 30),
		AdaptiveRadiiM:     getenvFloatList("ADAPTIVE_RADII_M", []float64{0, 50000, 100000}),

		SoftDeadlineSeconds: getenvInt("SOFT_DEADLINE_SECONDS", 15),

		GoogleMapsAPIKey: os.Getenv("GOOGLE_API_KEY"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),

		AllowedOrigins: getenvList("ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:3001",
		}),
	}

	return cfg
}

func resolveDatabaseURL(env string) string {
	if env == "test" {
		if v := os.Getenv("TEST_DB_URL"); v != "" {
			return v
		}
		slog.Warn("TEST_DB_URL not set in test environment")
		return ""
	}
	v := os.Getenv("DB_URL")
	if v == "" {
		slog.Warn("DB_URL not set")
	}
	return v
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func getenvFloatList(key string, fallback []float64) []float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fallback
		}
		out = append(out, f)
	}
	return out
}
