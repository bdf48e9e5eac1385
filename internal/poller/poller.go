// Package poller drives the fetch → normalize → filter → dedup → notify
// pipeline on a fixed cadence.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/quake-alert-service/internal/dedup"
	"github.com/couchcryptid/quake-alert-service/internal/domain"
	"github.com/couchcryptid/quake-alert-service/internal/observability"
)

// Source fetches the current batch of raw records from the upstream feed.
type Source interface {
	Fetch(ctx context.Context) ([]domain.RawRecord, error)
}

// Notifier delivers one rendered alert message.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Options carries the scheduling knobs for a Poller.
type Options struct {
	// Interval between cycle starts. The first cycle runs immediately.
	Interval time.Duration

	// DedupTTL is the retention window for notified event ids.
	DedupTTL time.Duration

	// DisplayLocation is the timezone alerts are rendered in. Defaults to
	// domain.DisplayLocation.
	DisplayLocation *time.Location

	// Clock defaults to the real clock; tests inject a fake to drive ticks.
	Clock clockwork.Clock
}

// Poller owns the poll timer and runs at most one cycle at a time. A tick
// that fires while a cycle is still in flight is dropped rather than queued:
// the next interval tick retries, so the retry cadence for fetch failures is
// exactly the poll interval.
type Poller struct {
	source   Source
	store    dedup.Store
	notifier Notifier
	policy   domain.Policy

	interval   time.Duration
	dedupTTL   time.Duration
	displayLoc *time.Location
	clock      clockwork.Clock

	logger  *slog.Logger
	metrics *observability.Metrics

	ready   atomic.Bool // at least one cycle completed without a fetch error
	inCycle atomic.Bool // guard: at most one cycle in flight
}

// New assembles a Poller. Zero-value Options fields get defaults.
func New(source Source, store dedup.Store, notifier Notifier, policy domain.Policy, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	if opts.DedupTTL <= 0 {
		opts.DedupTTL = 24 * time.Hour
	}
	if opts.DisplayLocation == nil {
		opts.DisplayLocation = domain.DisplayLocation()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Poller{
		source:     source,
		store:      store,
		notifier:   notifier,
		policy:     policy,
		interval:   opts.Interval,
		dedupTTL:   opts.DedupTTL,
		displayLoc: opts.DisplayLocation,
		clock:      opts.Clock,
		logger:     logger,
		metrics:    metrics,
	}
}

// CheckReadiness returns nil once at least one cycle has completed without a
// fetch error.
func (p *Poller) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no poll cycle has completed yet")
	}
	return nil
}

// Run executes poll cycles until the context is cancelled. The first cycle
// starts immediately; subsequent cycles start on interval ticks. Always
// returns nil: every per-cycle failure is handled inside the cycle.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("poller started", "interval", p.interval, "dedup_ttl", p.dedupTTL)
	p.metrics.PollerRunning.Set(1)
	defer p.metrics.PollerRunning.Set(0)

	p.RunOnce(ctx)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			p.RunOnce(ctx)
		}
	}
}

// RunOnce runs a single cycle: fetch, then process each record
// independently. If another cycle is still in flight the call is a no-op.
func (p *Poller) RunOnce(ctx context.Context) {
	if !p.inCycle.CompareAndSwap(false, true) {
		p.metrics.TicksSkipped.Inc()
		p.logger.Warn("tick skipped, previous cycle still running")
		return
	}
	defer p.inCycle.Store(false)

	start := p.clock.Now()

	records, err := p.source.Fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		// No retry within the cycle; the next tick is the retry.
		p.logger.Error("fetch failed", "error", err)
		p.metrics.Cycles.WithLabelValues("fetch_error").Inc()
		return
	}
	p.metrics.RecordsFetched.Add(float64(len(records)))

	for _, raw := range records {
		if ctx.Err() != nil {
			return
		}
		p.processRecord(ctx, raw)
	}

	p.metrics.CycleDuration.Observe(p.clock.Since(start).Seconds())
	p.metrics.Cycles.WithLabelValues("ok").Inc()
	p.ready.Store(true)
}

// processRecord takes one raw record through normalize, relevance, dedup,
// and send. Every failure is local to the record: siblings in the same batch
// are unaffected.
func (p *Poller) processRecord(ctx context.Context, raw domain.RawRecord) {
	event, err := domain.Normalize(raw)
	if err != nil {
		p.logger.Warn("record skipped", "error", err)
		p.metrics.NormalizeErrors.Inc()
		return
	}

	if !domain.IsRelevant(event, p.policy) {
		return
	}
	p.metrics.EventsRelevant.Inc()

	first, err := p.store.CheckAndMark(ctx, event.ID, p.dedupTTL)
	if err != nil {
		// With the store down we cannot tell a new event from an
		// already-notified one, so no alert goes out.
		p.logger.Warn("dedup check failed, notification skipped", "event_id", event.ID, "error", err)
		p.metrics.StoreErrors.Inc()
		return
	}
	if !first {
		p.metrics.DuplicatesSuppressed.Inc()
		p.logger.Debug("duplicate suppressed", "event_id", event.ID)
		return
	}

	text := domain.FormatAlert(event, p.policy.Center, p.displayLoc)
	if err := p.notifier.Send(ctx, text); err != nil {
		// The id is already marked, so a failed send is not retried and
		// the alert is dropped.
		p.logger.Error("send failed", "event_id", event.ID, "error", err)
		p.metrics.SendErrors.Inc()
		return
	}

	p.metrics.NotificationsSent.Inc()
	p.logger.Info("alert sent", "event_id", event.ID, "region", event.Region)
}
