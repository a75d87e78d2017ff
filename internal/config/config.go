// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Optional: when empty the
	// server runs on the in-memory store seeded with the sample survey.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// DataDir is where uploaded files are stored. Defaults to "data".
	DataDir string

	// MaxDataUploadBytes and MaxVideoUploadBytes cap upload sizes.
	// Set in megabytes via MAX_DATA_UPLOAD_MB (50) and MAX_VIDEO_UPLOAD_MB (500).
	MaxDataUploadBytes  int64
	MaxVideoUploadBytes int64

	// SummaryCacheTTL is how long the summary aggregate is cached. Defaults to 5m.
	SummaryCacheTTL time.Duration

	// ShutdownTimeout bounds graceful shutdown. Defaults to 15s.
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing every variable that is set but malformed.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		DataDir:     getEnv("DATA_DIR", "data"),
	}

	var invalid []string

	dataMB, err := getPositiveInt("MAX_DATA_UPLOAD_MB", 50)
	if err != nil {
		invalid = append(invalid, err.Error())
	}
	videoMB, err := getPositiveInt("MAX_VIDEO_UPLOAD_MB", 500)
	if err != nil {
		invalid = append(invalid, err.Error())
	}
	cfg.MaxDataUploadBytes = int64(dataMB) << 20
	cfg.MaxVideoUploadBytes = int64(videoMB) << 20

	if cfg.SummaryCacheTTL, err = getDuration("SUMMARY_CACHE_TTL", 5*time.Minute); err != nil {
		invalid = append(invalid, err.Error())
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 15*time.Second); err != nil {
		invalid = append(invalid, err.Error())
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		invalid = append(invalid, err.Error())
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, "; "))
	}

	return cfg, nil
}

// ParseLevel maps a LOG_LEVEL value onto a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %q is not one of debug, info, warn, error", s)
	}
	return l, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getPositiveInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback, fmt.Errorf("%s: %q is not a positive integer", key, v)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback, fmt.Errorf("%s: %q is not a duration", key, v)
	}
	return d, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
