package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/rain-gauge-etl/internal/domain"
)

var errStartTimeout = errors.New("browser did not start")

// Options configures the headless Chrome instance.
type Options struct {
	Headless   bool
	Timeout    time.Duration
	Screenshot bool
	ExecPath   string // empty uses chromedp's lookup
}

// Renderer implements pipeline.Renderer with a headless Chrome driven over
// the DevTools protocol. Each Render launches and tears down its own browser.
type Renderer struct {
	opts   Options
	logger *slog.Logger
	clock  clockwork.Clock
}

// NewRenderer creates a Chrome-backed renderer.
func NewRenderer(opts Options, logger *slog.Logger) *Renderer {
	return &Renderer{
		opts:   opts,
		logger: logger,
		clock:  clockwork.NewRealClock(),
	}
}

// Render navigates to url, waits for network activity to settle, then waits
// for waitSelector to exist. Browser start and page work each get the full
// timeout; running out of either is an error.
func (r *Renderer) Render(ctx context.Context, url, waitSelector string) (domain.Page, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, r.allocatorOptions()...)
	defer allocCancel()

	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(r.debugf),
		chromedp.WithErrorf(r.debugf),
	)
	defer tabCancel()

	// The browser is bound to the context of its first Run, so it starts on
	// the untimed tab context and a hung launch is cut off by cancelling it.
	if err := r.startWithin(func() error { return chromedp.Run(tabCtx) }, tabCancel); err != nil {
		return domain.Page{}, fmt.Errorf("start browser: %w", err)
	}

	runCtx, cancel := context.WithTimeout(tabCtx, r.opts.Timeout)
	defer cancel()

	tracker := newIdleTracker(r.clock)
	chromedp.ListenTarget(tabCtx, tracker.handle)

	r.logger.Debug("navigating", "url", url, "timeout", r.opts.Timeout)
	if err := chromedp.Run(runCtx,
		network.Enable(),
		chromedp.Navigate(url),
	); err != nil {
		return domain.Page{}, fmt.Errorf("navigate %s: %w", url, err)
	}

	if err := tracker.wait(runCtx); err != nil {
		return domain.Page{}, fmt.Errorf("wait for network idle: %w", err)
	}

	var html string
	if err := chromedp.Run(runCtx,
		chromedp.WaitReady(waitSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return domain.Page{}, fmt.Errorf("wait for %q: %w", waitSelector, err)
	}

	page := domain.Page{
		URL:       url,
		HTML:      []byte(html),
		FetchedAt: domain.Now(),
	}

	if r.opts.Screenshot {
		// quality 100 selects PNG.
		if err := chromedp.Run(runCtx, chromedp.FullScreenshot(&page.Screenshot, 100)); err != nil {
			r.logger.Warn("full page screenshot failed", "error", err)
		}
	}

	return page, nil
}

// startWithin runs start and waits at most the render timeout for it. On
// expiry it calls cancel, waits for start to return, and reports the timeout.
func (r *Renderer) startWithin(start func() error, cancel func()) error {
	done := make(chan error, 1)
	go func() { done <- start() }()

	select {
	case err := <-done:
		return err
	case <-r.clock.After(r.opts.Timeout):
		cancel()
		<-done
		return fmt.Errorf("%w after %s", errStartTimeout, r.opts.Timeout)
	}
}

func (r *Renderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", r.opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.NoSandbox,
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
	)
	if r.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.opts.ExecPath))
	}
	return opts
}

func (r *Renderer) debugf(format string, args ...any) {
	r.logger.Debug(fmt.Sprintf(format, args...), "component", "chromedp")
}
