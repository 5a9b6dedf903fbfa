// Command fetchrain renders a CoCoRaHS observation table, reads the most
// recent row, and writes the day's rainfall to a small JSON file. Optional
// Kafka and Postgres sinks receive a copy of the same reading.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/couchcryptid/rain-gauge-etl/internal/adapter/browser"
	"github.com/couchcryptid/rain-gauge-etl/internal/adapter/file"
	"github.com/couchcryptid/rain-gauge-etl/internal/adapter/httpfetch"
	kafkaadapter "github.com/couchcryptid/rain-gauge-etl/internal/adapter/kafka"
	"github.com/couchcryptid/rain-gauge-etl/internal/adapter/postgres"
	"github.com/couchcryptid/rain-gauge-etl/internal/config"
	"github.com/couchcryptid/rain-gauge-etl/internal/observability"
	"github.com/couchcryptid/rain-gauge-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("extraction failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (err error) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	if cfg.MetricsTextfile != "" {
		defer func() {
			if werr := observability.WriteTextfile(cfg.MetricsTextfile, reg); werr != nil {
				logger.Warn("metrics textfile not written", "path", cfg.MetricsTextfile, "error", werr)
			}
		}()
	}

	var sinks []pipeline.Sink

	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if cerr := writer.Close(); cerr != nil {
				logger.Error("kafka writer close error", "error", cerr)
				err = errors.Join(err, cerr)
			}
		}()
		sinks = append(sinks, pipeline.Sink{Name: "kafka", Loader: writer})
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	if cfg.PostgresEnabled() {
		store, perr := postgres.Open(ctx, cfg.DatabaseURL)
		if perr != nil {
			return perr
		}
		defer store.Close()
		sinks = append(sinks, pipeline.Sink{Name: "postgres", Loader: store})
		logger.Info("postgres sink enabled")
	}

	p := pipeline.New(
		pipeline.Options{SourceURL: cfg.SourceURL, Station: cfg.StationID},
		newRenderer(cfg, logger),
		pipeline.NewTransformer(cfg.Location, logger),
		file.NewWriter(cfg.OutputPath),
		sinks,
		logger,
		metrics,
	)
	if cfg.DebugArtifacts {
		p.WithArtifacts(file.NewArtifactWriter(cfg.DebugDir))
		logger.Info("debug artifacts enabled", "dir", cfg.DebugDir)
	}

	result, err := p.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("reading written",
		"path", cfg.OutputPath,
		"date", result.Reading.Date,
		"total_precip_in", result.Reading.TotalPrecipIn,
	)
	return nil
}

func newRenderer(cfg *config.Config, logger *slog.Logger) pipeline.Renderer {
	if cfg.Renderer == config.RendererHTTP {
		return httpfetch.NewRenderer(cfg.RenderTimeout, logger)
	}
	return browser.NewRenderer(browser.Options{
		Headless:   cfg.Headless,
		Timeout:    cfg.RenderTimeout,
		Screenshot: cfg.DebugArtifacts,
		ExecPath:   cfg.ChromePath,
	}, logger)
}
