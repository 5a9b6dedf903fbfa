package browser

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/jonboulle/clockwork"
)

const (
	// idleMaxInflight and idleWindow define "network idle": at most two
	// requests in flight for half a second.
	idleMaxInflight = 2
	idleWindow      = 500 * time.Millisecond
	idlePoll        = 100 * time.Millisecond
)

// idleTracker counts in-flight requests from network events and reports
// when the page has gone quiet.
type idleTracker struct {
	clock    clockwork.Clock
	mu       sync.Mutex
	inflight map[network.RequestID]struct{}
	quiet    time.Time // when inflight last dropped to idleMaxInflight or below; zero while busy
}

func newIdleTracker(clock clockwork.Clock) *idleTracker {
	return &idleTracker{
		clock:    clock,
		inflight: make(map[network.RequestID]struct{}),
		quiet:    clock.Now(),
	}
}

// handle is registered with chromedp.ListenTarget.
func (t *idleTracker) handle(ev any) {
	switch e := ev.(type) {
	case *network.EventRequestWillBeSent:
		t.started(e.RequestID)
	case *network.EventLoadingFinished:
		t.finished(e.RequestID)
	case *network.EventLoadingFailed:
		t.finished(e.RequestID)
	}
}

func (t *idleTracker) started(id network.RequestID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.inflight[id] = struct{}{}
	if len(t.inflight) > idleMaxInflight {
		t.quiet = time.Time{}
	}
}

func (t *idleTracker) finished(id network.RequestID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.inflight[id]; !ok {
		return
	}
	delete(t.inflight, id)
	if len(t.inflight) <= idleMaxInflight && t.quiet.IsZero() {
		t.quiet = t.clock.Now()
	}
}

func (t *idleTracker) idle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return !t.quiet.IsZero() && t.clock.Since(t.quiet) >= idleWindow
}

// wait blocks until the network is idle or ctx is done.
func (t *idleTracker) wait(ctx context.Context) error {
	ticker := t.clock.NewTicker(idlePoll)
	defer ticker.Stop()

	for {
		if t.idle() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
		}
	}
}
