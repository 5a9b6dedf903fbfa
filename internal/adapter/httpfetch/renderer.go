package httpfetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/couchcryptid/rain-gauge-etl/internal/domain"
)

const userAgent = "rain-gauge-etl/1.0 (+https://github.com/couchcryptid/rain-gauge-etl)"

// Renderer implements pipeline.Renderer with a plain HTTP GET. It does not run
// scripts, so it suits pages that ship their table in the initial HTML; on a
// script-rendered page the table arrives empty and extraction falls back to
// a zero reading.
type Renderer struct {
	client *resty.Client
	logger *slog.Logger
}

// NewRenderer creates an HTTP renderer whose requests are bounded by timeout.
func NewRenderer(timeout time.Duration, logger *slog.Logger) *Renderer {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml")
	return &Renderer{client: client, logger: logger}
}

// Render fetches url. waitSelector is ignored; there is nothing to wait for
// without a script engine.
func (r *Renderer) Render(ctx context.Context, url, _ string) (domain.Page, error) {
	res, err := r.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return domain.Page{}, fmt.Errorf("get %s: %w", url, err)
	}
	if res.IsError() {
		return domain.Page{}, fmt.Errorf("get %s: unexpected status %s", url, res.Status())
	}

	r.logger.Debug("page fetched", "url", url, "status", res.StatusCode(), "bytes", len(res.Body()), "elapsed", res.Time())
	return domain.Page{
		URL:       url,
		HTML:      res.Body(),
		FetchedAt: domain.Now(),
	}, nil
}
