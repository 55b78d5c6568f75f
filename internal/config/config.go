package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings loaded from env vars. It is passed explicitly
// into the constructors that need it; there is no ambient global state.
type Config struct {
	HTTPAddr    string
	Environment string
	LogLevel    string
	LogFormat   string

	GoogleMapsAPIKey string
	ProviderTimeout  time.Duration

	CacheBackend  string // "file" or "redis"
	CacheDir      string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// PaginationBackoff is the wait before a continuation token becomes
	// usable on the places provider.
	PaginationBackoff  time.Duration
	GeocodeConcurrency int
}

// Load reads the .env file (if present) and returns a populated Config.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return Config{
		HTTPAddr:    envOr("HTTP_ADDR", ":8080"),
		Environment: envOr("ENVIRONMENT", "development"),
		LogLevel:    envOr("LOG_LEVEL", "info"),
		LogFormat:   envOr("LOG_FORMAT", "json"),

		GoogleMapsAPIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
		ProviderTimeout:  envDuration("PROVIDER_TIMEOUT", 10*time.Second),

		CacheBackend:  envOr("CACHE_BACKEND", "file"),
		CacheDir:      envOr("CACHE_DIR", "./cache"),
		CacheTTL:      envDuration("CACHE_TTL", 7*24*time.Hour),
		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		PaginationBackoff:  envDuration("PAGINATION_BACKOFF", 2*time.Second),
		GeocodeConcurrency: envInt("GEOCODE_CONCURRENCY", 1),
	}
}

// Validate checks that all required configuration is present and valid.
func (c Config) Validate() error {
	if c.GoogleMapsAPIKey == "" {
		return fmt.Errorf("GOOGLE_MAPS_API_KEY is required")
	}
	if c.CacheBackend != "file" && c.CacheBackend != "redis" {
		return fmt.Errorf("CACHE_BACKEND must be \"file\" or \"redis\", got %q", c.CacheBackend)
	}
	if c.GeocodeConcurrency < 1 {
		return fmt.Errorf("GEOCODE_CONCURRENCY must be at least 1")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
