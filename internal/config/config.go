package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort string
	DBPath  string

	QdrantURL            string
	QdrantAPIKey         string
	QdrantCollection     string
	SearchEnabled        bool
	SearchTimeout        time.Duration
	SearchWorkers        int
	SearchQueueSize      int
	SearchMaxAttempts    int
	SearchReindexOnStart bool

	S3Bucket        string
	S3Region        string
	S3PublicBaseURL string
	UploadFolder    string
	UploadMaxBytes  int64

	CORSAllowedOrigins []string
	LogLevel           slog.Level
	LogFormat          string
	ShutdownTimeout    time.Duration
}

// UploadsEnabled reports whether an S3 bucket is configured.
func (c *Config) UploadsEnabled() bool {
	return c.S3Bucket != ""
}

// Load reads configuration from environment variables and returns a Config struct.
// If a .env file exists in the current directory or a parent, it is loaded first.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	loadDotEnv()

	cfg, err := fromEnv(os.Getenv)
	if err != nil {
		return nil, err
	}

	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

func loadDotEnv() {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// fromEnv builds a Config from lookup, applying defaults and validating.
func fromEnv(lookup func(string) string) (*Config, error) {
	e := env{lookup: lookup}

	cfg := &Config{
		APIPort:              e.getString("API_PORT", "9000"),
		DBPath:               e.getString("DB_PATH", "./data/notegraph.db"),
		QdrantURL:            e.getString("QDRANT_URL", "http://localhost:6333"),
		QdrantAPIKey:         e.getString("QDRANT_API_KEY", ""),
		QdrantCollection:     e.getString("QDRANT_COLLECTION", "notes"),
		SearchEnabled:        e.getBool("SEARCH_ENABLED", true),
		SearchTimeout:        e.getDuration("SEARCH_TIMEOUT", 2*time.Second),
		SearchWorkers:        e.getInt("SEARCH_WORKERS", 4),
		SearchQueueSize:      e.getInt("SEARCH_QUEUE_SIZE", 256),
		SearchMaxAttempts:    e.getInt("SEARCH_MAX_ATTEMPTS", 2),
		SearchReindexOnStart: e.getBool("SEARCH_REINDEX_ON_START", false),
		S3Bucket:             e.getString("S3_BUCKET", ""),
		S3Region:             e.getString("S3_REGION", "us-east-1"),
		S3PublicBaseURL:      e.getString("S3_PUBLIC_BASE_URL", ""),
		UploadFolder:         e.getString("UPLOAD_FOLDER", "second-brain-notes"),
		UploadMaxBytes:       int64(e.getInt("UPLOAD_MAX_BYTES", 10<<20)),
		CORSAllowedOrigins:   e.getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		LogFormat:            strings.ToLower(e.getString("LOG_FORMAT", "text")),
		ShutdownTimeout:      e.getDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
	if e.err != nil {
		return nil, e.err
	}

	level, err := parseLogLevel(e.getString("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.APIPort == "":
		return fmt.Errorf("API_PORT is required")
	case c.SearchWorkers <= 0:
		return fmt.Errorf("SEARCH_WORKERS must be greater than 0")
	case c.SearchQueueSize <= 0:
		return fmt.Errorf("SEARCH_QUEUE_SIZE must be greater than 0")
	case c.SearchMaxAttempts <= 0:
		return fmt.Errorf("SEARCH_MAX_ATTEMPTS must be greater than 0")
	case c.SearchTimeout <= 0:
		return fmt.Errorf("SEARCH_TIMEOUT must be positive")
	case c.UploadMaxBytes <= 0:
		return fmt.Errorf("UPLOAD_MAX_BYTES must be greater than 0")
	case c.ShutdownTimeout <= 0:
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error: %w", err)
	}
	return level, nil
}

// env reads typed values and keeps the first parse error.
type env struct {
	lookup func(string) string
	err    error
}

func (e *env) getString(key, defaultValue string) string {
	if value := strings.TrimSpace(e.lookup(key)); value != "" {
		return value
	}
	return defaultValue
}

func (e *env) getInt(key string, defaultValue int) int {
	raw := e.getString(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		e.fail(fmt.Errorf("%s must be a valid integer: %w", key, err))
		return defaultValue
	}
	return v
}

func (e *env) getBool(key string, defaultValue bool) bool {
	raw := e.getString(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		e.fail(fmt.Errorf("%s must be a boolean: %w", key, err))
		return defaultValue
	}
	return v
}

func (e *env) getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := e.getString(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		e.fail(fmt.Errorf("%s must be a duration such as 2s: %w", key, err))
		return defaultValue
	}
	return v
}

func (e *env) getList(key string, defaultValue []string) []string {
	raw := e.getString(key, "")
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func (e *env) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}
