// Package config reads mapty's runtime configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures runtime configuration values.
type Config struct {
	Port           string
	Env            string
	LogLevel       string
	RedisURL       string // selects the Redis store when set
	DatabaseURL    string // selects PostgreSQL when set
	SQLitePath     string // used when neither RedisURL nor DatabaseURL is set
	StoreKey       string
	GeoLat         *float64
	GeoLng         *float64
	GeolocationURL string
	GeoTimeout     time.Duration
	MapZoom        int
	OpenBrowser    bool
}

// Load reads environment variables into Config, applying defaults for a local run.
func Load() Config {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "dev"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		RedisURL:       getEnv("REDIS_URL", ""),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SQLitePath:     getEnv("SQLITE_PATH", "mapty.db"),
		StoreKey:       getEnv("STORE_KEY", "workouts"),
		GeoLat:         getFloatEnv("GEO_LAT"),
		GeoLng:         getFloatEnv("GEO_LNG"),
		GeolocationURL: getEnv("GEOLOCATION_URL", "http://ip-api.com/json/"),
		GeoTimeout:     getDurationEnv("GEOLOCATION_TIMEOUT", 5*time.Second),
		MapZoom:        getIntEnv("MAP_ZOOM", 13),
		OpenBrowser:    getBoolEnv("OPEN_BROWSER", false),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getFloatEnv(key string) *float64 {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return &parsed
		}
	}
	return nil
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
