package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/rain-gauge-etl/internal/domain"
	"github.com/couchcryptid/rain-gauge-etl/internal/observability"
)

// ErrRender marks a run that never got a usable page: navigation failed or
// the observation table did not appear before the render timeout.
var ErrRender = errors.New("render observation page")

// Renderer loads a URL and returns the document once waitSelector matches.
type Renderer interface {
	Render(ctx context.Context, url, waitSelector string) (domain.Page, error)
}

// Transformer turns a rendered page into a reading. It never fails; problems
// with the page content are reported as fallbacks.
type Transformer interface {
	Transform(page domain.Page) domain.Extraction
}

// Loader writes a finished result to a destination.
type Loader interface {
	Load(ctx context.Context, result domain.Result) error
}

// ArtifactWriter stores debugging material for a run.
type ArtifactWriter interface {
	WriteArtifacts(page domain.Page, ex domain.Extraction) error
}

// Sink is a named secondary destination that mirrors the output file.
type Sink struct {
	Name   string
	Loader Loader
}

// Options identify what the pipeline scrapes.
type Options struct {
	SourceURL string
	Station   string
}

// Pipeline runs a single render-extract-load pass.
type Pipeline struct {
	opts        Options
	renderer    Renderer
	transformer Transformer
	output      Loader
	sinks       []Sink
	artifacts   ArtifactWriter
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// New creates a Pipeline. output is the primary destination and its failure
// fails the run; sinks are attempted afterwards, in order.
func New(opts Options, r Renderer, t Transformer, output Loader, sinks []Sink, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		opts:        opts,
		renderer:    r,
		transformer: t,
		output:      output,
		sinks:       sinks,
		logger:      logger,
		metrics:     metrics,
	}
}

// WithArtifacts enables debug artifacts for every run.
func (p *Pipeline) WithArtifacts(w ArtifactWriter) *Pipeline {
	p.artifacts = w
	return p
}

// Run performs one extraction. Only a render failure, an output write
// failure, or a sink failure is returned as an error; content problems are
// absorbed into the reading's defaults. When a sink fails the returned result
// is still complete and the output file has been written.
func (p *Pipeline) Run(ctx context.Context) (domain.Result, error) {
	p.logger.Info("extraction started", "url", p.opts.SourceURL, "station", p.opts.Station)

	start := time.Now()
	page, err := p.renderer.Render(ctx, p.opts.SourceURL, domain.RowSelector)
	p.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		p.metrics.Runs.WithLabelValues(observability.OutcomeRenderError).Inc()
		return domain.Result{}, fmt.Errorf("%w: %w", ErrRender, err)
	}

	ex := p.transformer.Transform(page)
	for _, f := range ex.Fallbacks {
		p.metrics.Fallbacks.WithLabelValues(string(f)).Inc()
	}

	result := domain.Result{
		Station:     p.opts.Station,
		SourceURL:   p.opts.SourceURL,
		ExtractedAt: domain.Now().UTC(),
		Extraction:  ex,
	}

	if p.artifacts != nil {
		if err := p.artifacts.WriteArtifacts(page, ex); err != nil {
			p.logger.Warn("debug artifacts incomplete", "error", err)
		}
	}

	if err := p.output.Load(ctx, result); err != nil {
		p.metrics.Runs.WithLabelValues(observability.OutcomeOutputError).Inc()
		return result, fmt.Errorf("write output: %w", err)
	}
	p.metrics.PrecipInches.Set(result.Reading.TotalPrecipIn)

	if err := p.loadSinks(ctx, result); err != nil {
		p.metrics.Runs.WithLabelValues(observability.OutcomeSinkError).Inc()
		return result, err
	}

	p.metrics.Runs.WithLabelValues(observability.OutcomeSuccess).Inc()
	p.metrics.LastSuccess.Set(float64(result.ExtractedAt.Unix()))
	p.logger.Info("extraction complete",
		"date", result.Reading.Date,
		"total_precip_in", result.Reading.TotalPrecipIn,
		"fallbacks", len(ex.Fallbacks),
		"duration", time.Since(start),
	)
	return result, nil
}

// loadSinks writes the result to every sink, continuing past failures, and
// returns the joined errors.
func (p *Pipeline) loadSinks(ctx context.Context, result domain.Result) error {
	var errs []error
	for _, s := range p.sinks {
		if err := s.Loader.Load(ctx, result); err != nil {
			p.logger.Error("sink load failed", "sink", s.Name, "error", err)
			p.metrics.SinkErrors.WithLabelValues(s.Name).Inc()
			errs = append(errs, fmt.Errorf("%s sink: %w", s.Name, err))
			continue
		}
		p.logger.Debug("sink loaded", "sink", s.Name)
	}
	return errors.Join(errs...)
}
