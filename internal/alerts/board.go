// Package alerts implements the dashboard's transient notification
// banners: each success or danger banner fades after a fixed delay and is
// removed shortly after.
package alerts

import (
	"sync"
	"time"

	"github.com/HeerHirpara/healcard-dashboard/pkg/logging"
)

// Severity classifies a banner. Only success and danger banners are
// auto-dismissed; anything else is left alone.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityDanger  Severity = "danger"
)

// Banner is one notification rendered by the server.
type Banner struct {
	ID       string
	Severity Severity
	Text     string
}

// Surface is the render target for banner lifecycle transitions.
type Surface interface {
	Fade(id string)
	Remove(id string)
}

// Board owns the dismiss timers for a page's banners. Each banner's
// timers are independent; there is no ordering guarantee between banners.
type Board struct {
	surface      Surface
	dismissDelay time.Duration
	fadeDelay    time.Duration
	logger       *logging.Logger

	mu      sync.Mutex
	stopped bool
	quit    chan struct{}
	wg      sync.WaitGroup
}

// BoardOption is a functional option for configuring the Board.
type BoardOption func(*Board)

// WithDelays overrides the dismiss and fade delays.
func WithDelays(dismiss, fade time.Duration) BoardOption {
	return func(b *Board) {
		b.dismissDelay = dismiss
		b.fadeDelay = fade
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) BoardOption {
	return func(b *Board) {
		b.logger = logger
	}
}

// NewBoard creates a board with the dashboard's stock delays: banners
// fade at 1500ms and are removed 500ms later.
func NewBoard(surface Surface, opts ...BoardOption) *Board {
	b := &Board{
		surface:      surface,
		dismissDelay: 1500 * time.Millisecond,
		fadeDelay:    500 * time.Millisecond,
		logger:       logging.Default(),
		quit:         make(chan struct{}),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Attach arms an independent dismiss timer for every success or danger
// banner. Banners of any other severity are never touched. An empty slice
// is a no-op, as is attaching after Stop.
func (b *Board) Attach(banners []Banner) {
	for _, banner := range banners {
		if banner.Severity != SeveritySuccess && banner.Severity != SeverityDanger {
			continue
		}
		b.arm(banner)
	}
}

func (b *Board) arm(banner Banner) {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	b.wg.Add(1)
	b.mu.Unlock()

	b.logger.Debug("alerts: timer armed", "banner_id", banner.ID, "severity", string(banner.Severity))

	go func() {
		defer b.wg.Done()

		fade := time.NewTimer(b.dismissDelay)
		defer fade.Stop()
		select {
		case <-fade.C:
		case <-b.quit:
			return
		}
		b.surface.Fade(banner.ID)

		remove := time.NewTimer(b.fadeDelay)
		defer remove.Stop()
		select {
		case <-remove.C:
		case <-b.quit:
			return
		}
		b.surface.Remove(banner.ID)
	}()
}

// Wait blocks until every armed banner has been removed, or Stop has
// cancelled it.
func (b *Board) Wait() {
	b.wg.Wait()
}

// Stop cancels pending transitions and waits for in-flight ones, so no
// Fade or Remove fires after it returns. Banners already faded or removed
// stay that way.
func (b *Board) Stop() {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	b.stopped = true
	close(b.quit)
	b.mu.Unlock()
	b.wg.Wait()
}
