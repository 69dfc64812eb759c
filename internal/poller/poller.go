// Package poller drives the live map: it fetches the player list on a fixed
// interval and pushes each snapshot into the viewer. Errors are surfaced as
// transient notifications and retried only on the next tick.
package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/palworld-go/palmap/pkg/core"
)

// Fetcher retrieves the latest player snapshot.
type Fetcher func(ctx context.Context) ([]core.Player, error)

// Sink consumes player snapshots. Mounted must be checked after a fetch
// resolves: a slow response may come back after the viewer was torn down.
type Sink interface {
	Mounted() bool
	SetPlayers([]core.Player) error
}

// Metrics receives one observation per poll. Optional.
type Metrics interface {
	RecordPoll(duration time.Duration, playerCount int, err error)
}

// Poller polls the upstream on an interval and feeds the sink. In-flight
// polls are not deduplicated or sequenced; a slow response can apply stale
// data after a faster later one. Accepted eventual-consistency gap.
type Poller struct {
	fetch    Fetcher
	sink     Sink
	interval time.Duration
	logger   *slog.Logger
	notify   func(message string)
	metrics  Metrics

	lastError string
}

// Option configures a Poller.
type Option func(*Poller)

// WithNotify sets the callback that surfaces error messages to the user.
func WithNotify(fn func(message string)) Option {
	return func(p *Poller) { p.notify = fn }
}

// WithMetrics sets the per-poll metrics recorder.
func WithMetrics(m Metrics) Option {
	return func(p *Poller) { p.metrics = m }
}

// New creates a poller. interval must be positive.
func New(fetch Fetcher, sink Sink, interval time.Duration, logger *slog.Logger, opts ...Option) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Poller{
		fetch:    fetch,
		sink:     sink,
		interval: interval,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls until the context is cancelled. The first poll fires immediately.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	start := time.Now()
	players, err := p.fetch(ctx)
	elapsed := time.Since(start)

	if p.metrics != nil {
		p.metrics.RecordPoll(elapsed, len(players), err)
	}

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Warn("Player poll failed", "error", err, "duration", elapsed)
		// Only the most recent distinct message reaches the user.
		if msg := err.Error(); msg != p.lastError {
			p.lastError = msg
			if p.notify != nil {
				p.notify(msg)
			}
		}
		return
	}
	p.lastError = ""

	if !p.sink.Mounted() {
		p.logger.Debug("Dropping snapshot, viewer unmounted")
		return
	}
	if err := p.sink.SetPlayers(players); err != nil {
		p.logger.Error("Applying player snapshot failed", "error", err)
	}
}
