package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://dex.cocorahs.org/stations/SD-DV-38/obs-tables", cfg.SourceURL)
	assert.Equal(t, "SD-DV-38", cfg.StationID)
	assert.Equal(t, RendererBrowser, cfg.Renderer)
	assert.Equal(t, 60*time.Second, cfg.RenderTimeout)
	assert.True(t, cfg.Headless)
	assert.Empty(t, cfg.ChromePath)
	assert.Equal(t, "rain_today.json", cfg.OutputPath)
	assert.Equal(t, time.Local, cfg.Location)
	assert.False(t, cfg.DebugArtifacts)
	assert.Equal(t, ".", cfg.DebugDir)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "rain-readings", cfg.KafkaTopic)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.MetricsTextfile)
	assert.False(t, cfg.KafkaEnabled())
	assert.False(t, cfg.PostgresEnabled())
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("SOURCE_URL", "https://example.test/obs")
	t.Setenv("STATION_ID", "CO-BO-1")
	t.Setenv("RENDERER", "HTTP")
	t.Setenv("RENDER_TIMEOUT", "15s")
	t.Setenv("HEADLESS", "false")
	t.Setenv("CHROME_PATH", "/usr/bin/chromium")
	t.Setenv("OUTPUT_PATH", "/tmp/rain.json")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("DEBUG_ARTIFACTS", "true")
	t.Setenv("DEBUG_DIR", "/tmp/debug")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-rain")
	t.Setenv("DATABASE_URL", "postgres://rain@localhost/rain")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("METRICS_TEXTFILE", "/var/lib/node_exporter/rain.prom")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/obs", cfg.SourceURL)
	assert.Equal(t, "CO-BO-1", cfg.StationID)
	assert.Equal(t, RendererHTTP, cfg.Renderer)
	assert.Equal(t, 15*time.Second, cfg.RenderTimeout)
	assert.False(t, cfg.Headless)
	assert.Equal(t, "/usr/bin/chromium", cfg.ChromePath)
	assert.Equal(t, "/tmp/rain.json", cfg.OutputPath)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.True(t, cfg.DebugArtifacts)
	assert.Equal(t, "/tmp/debug", cfg.DebugDir)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-rain", cfg.KafkaTopic)
	assert.Equal(t, "postgres://rain@localhost/rain", cfg.DatabaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "/var/lib/node_exporter/rain.prom", cfg.MetricsTextfile)
	assert.True(t, cfg.KafkaEnabled())
	assert.True(t, cfg.PostgresEnabled())
}

func TestLoad_InvalidRenderTimeout(t *testing.T) {
	t.Setenv("RENDER_TIMEOUT", "soon")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RENDER_TIMEOUT")
}

func TestLoad_NegativeRenderTimeout(t *testing.T) {
	t.Setenv("RENDER_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RENDER_TIMEOUT")
}

func TestLoad_InvalidRenderer(t *testing.T) {
	t.Setenv("RENDERER", "playwright")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RENDERER")
}

func TestLoad_InvalidHeadless(t *testing.T) {
	t.Setenv("HEADLESS", "maybe")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HEADLESS")
}

func TestLoad_InvalidDebugArtifacts(t *testing.T) {
	t.Setenv("DEBUG_ARTIFACTS", "yes please")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEBUG_ARTIFACTS")
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("TIMEZONE", "Mars/Olympus_Mons")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TIMEZONE")
}

func TestLoad_NamedTimezone(t *testing.T) {
	t.Setenv("TIMEZONE", "America/Denver")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "America/Denver", cfg.Location.String())
}
