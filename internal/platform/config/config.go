package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

type Config struct {
	Addr                    string
	BackendURL              string
	BackendTimeout          time.Duration
	Environment             string
	LogLevel                string
	SessionStore            string
	SQLiteDSN               string
	DatabaseURL             string
	MongoURI                string
	MongoDatabase           string
	SessionSecret           string
	SessionCookie           string
	SessionIdleTTL          time.Duration
	SessionSweepInterval    time.Duration
	MaxBodyBytes            int64
	LoginRateLimitPerMinute int
	DefaultLocale           string
	GeoFallbackLat          float64
	GeoFallbackLng          float64
	ProfileImageMaxPx       int
	MetricsEnabled          bool
}

// Load reads the process environment, after merging a local .env file when one exists.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	return Config{
		Addr:                    getEnv("PORTAL_ADDR", ":3000"),
		BackendURL:              strings.TrimRight(getEnv("BACKEND_URL", ""), "/"),
		BackendTimeout:          getEnvDuration("BACKEND_TIMEOUT", 30*time.Second),
		Environment:             getEnv("APP_ENV", "development"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		SessionStore:            strings.ToLower(getEnv("SESSION_STORE", StoreSQLite)),
		SQLiteDSN:               getEnv("SQLITE_DSN", "file:portal.db?_pragma=busy_timeout(5000)"),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		MongoURI:                getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:           getEnv("MONGO_DATABASE", "hrms_portal"),
		SessionSecret:           getEnv("SESSION_SECRET", ""),
		SessionCookie:           getEnv("SESSION_COOKIE", "hrms_sid"),
		SessionIdleTTL:          getEnvDuration("SESSION_IDLE_TTL", 7*24*time.Hour),
		SessionSweepInterval:    getEnvDuration("SESSION_SWEEP_INTERVAL", time.Hour),
		MaxBodyBytes:            int64(getEnvInt("MAX_BODY_BYTES", 16*1024*1024)),
		LoginRateLimitPerMinute: getEnvInt("LOGIN_RATE_LIMIT_PER_MINUTE", 20),
		DefaultLocale:           getEnv("DEFAULT_LOCALE", "en"),
		GeoFallbackLat:          getEnvFloat("GEO_FALLBACK_LAT", 12.9716),
		GeoFallbackLng:          getEnvFloat("GEO_FALLBACK_LNG", 77.5946),
		ProfileImageMaxPx:       getEnvInt("PROFILE_IMAGE_MAX_PX", 512),
		MetricsEnabled:          getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.BackendURL) == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	switch c.SessionStore {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when SESSION_STORE is postgres")
		}
	case StoreMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			return fmt.Errorf("MONGO_URI is required when SESSION_STORE is mongo")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be one of memory, sqlite, postgres, mongo")
	}
	if c.IsProduction() {
		if strings.TrimSpace(c.SessionSecret) == "" {
			return fmt.Errorf("SESSION_SECRET must be set in production to seal stored sessions")
		}
		if c.SessionStore == StoreMemory {
			return fmt.Errorf("SESSION_STORE memory is not durable and cannot be used in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.LoginRateLimitPerMinute <= 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.BackendTimeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive")
	}
	if c.GeoFallbackLat < -90 || c.GeoFallbackLat > 90 || c.GeoFallbackLng < -180 || c.GeoFallbackLng > 180 {
		return fmt.Errorf("GEO_FALLBACK_LAT/GEO_FALLBACK_LNG must be a valid coordinate")
	}
	return nil
}
