package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

const (
	defaultSourceURL = "https://dex.cocorahs.org/stations/SD-DV-38/obs-tables"
	defaultStationID = "SD-DV-38"
)

// Renderer backends.
const (
	RendererBrowser = "browser"
	RendererHTTP    = "http"
)

// Config holds all job settings, populated from environment variables.
type Config struct {
	SourceURL     string
	StationID     string
	Renderer      string
	RenderTimeout time.Duration
	Headless      bool
	ChromePath    string

	OutputPath     string
	Location       *time.Location
	DebugArtifacts bool
	DebugDir       string

	// Optional sinks; empty disables them.
	KafkaBrokers []string
	KafkaTopic   string
	DatabaseURL  string

	LogLevel        string
	LogFormat       string
	MetricsTextfile string
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is loaded first if present;
// variables already set in the environment take precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	renderTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("RENDER_TIMEOUT", "60s"))
	if err != nil || renderTimeout <= 0 {
		return nil, errors.New("invalid RENDER_TIMEOUT")
	}

	headless, err := parseBool("HEADLESS", true)
	if err != nil {
		return nil, err
	}
	debugArtifacts, err := parseBool("DEBUG_ARTIFACTS", false)
	if err != nil {
		return nil, err
	}

	tz := sharedcfg.EnvOrDefault("TIMEZONE", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}

	cfg := &Config{
		SourceURL:     strings.TrimSpace(sharedcfg.EnvOrDefault("SOURCE_URL", defaultSourceURL)),
		StationID:     strings.TrimSpace(sharedcfg.EnvOrDefault("STATION_ID", defaultStationID)),
		Renderer:      strings.ToLower(sharedcfg.EnvOrDefault("RENDERER", RendererBrowser)),
		RenderTimeout: renderTimeout,
		Headless:      headless,
		ChromePath:    os.Getenv("CHROME_PATH"),

		OutputPath:     sharedcfg.EnvOrDefault("OUTPUT_PATH", "rain_today.json"),
		Location:       loc,
		DebugArtifacts: debugArtifacts,
		DebugDir:       sharedcfg.EnvOrDefault("DEBUG_DIR", "."),

		KafkaTopic:  sharedcfg.EnvOrDefault("KAFKA_TOPIC", "rain-readings"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),

		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),
	}
	if brokers := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); brokers != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
	}

	if cfg.SourceURL == "" {
		return nil, errors.New("SOURCE_URL is required")
	}
	if cfg.Renderer != RendererBrowser && cfg.Renderer != RendererHTTP {
		return nil, fmt.Errorf("invalid RENDERER %q: want %q or %q", cfg.Renderer, RendererBrowser, RendererHTTP)
	}
	if cfg.OutputPath == "" {
		return nil, errors.New("OUTPUT_PATH is required")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// KafkaEnabled reports whether readings are mirrored to Kafka.
func (c *Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

// PostgresEnabled reports whether readings are mirrored to Postgres.
func (c *Config) PostgresEnabled() bool { return c.DatabaseURL != "" }

func parseBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
