package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// alert pipeline.
type Metrics struct {
	Cycles        *prometheus.CounterVec // label: outcome={ok,fetch_error}
	TicksSkipped  prometheus.Counter
	CycleDuration prometheus.Histogram
	PollerRunning prometheus.Gauge

	RecordsFetched       prometheus.Counter
	NormalizeErrors      prometheus.Counter
	EventsRelevant       prometheus.Counter
	DuplicatesSuppressed prometheus.Counter
	StoreErrors          prometheus.Counter

	NotificationsSent prometheus.Counter
	SendErrors        prometheus.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_alert",
			Name:      "cycles_total",
			Help:      "Completed poll cycles by outcome.",
		}, []string{"outcome"}),
		TicksSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_alert",
			Name:      "ticks_skipped_total",
			Help:      "Timer ticks dropped because a cycle was still in flight.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_alert",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a complete fetch-normalize-filter-notify cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		PollerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_alert",
			Name:      "poller_running",
			Help:      "1 when the poller is active, 0 when shut down.",
		}),
		RecordsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_alert",
			Name:      "records_fetched_total",
			Help:      "Raw records returned by the source adapter.",
		}),
		NormalizeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_alert",
			Name:      "normalize_errors_total",
			Help:      "Records dropped because no canonical event could be built.",
		}),
		EventsRelevant: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_alert",
			Name:      "events_relevant_total",
			Help:      "Events that passed the relevance policy.",
		}),
		DuplicatesSuppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_alert",
			Name:      "duplicates_suppressed_total",
			Help:      "Relevant events skipped because their id was already notified.",
		}),
		StoreErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_alert",
			Name:      "store_errors_total",
			Help:      "Dedup store failures; the affected record is skipped for the cycle.",
		}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_alert",
			Name:      "notifications_sent_total",
			Help:      "Alerts delivered to the notification sink.",
		}),
		SendErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_alert",
			Name:      "send_errors_total",
			Help:      "Sink delivery failures. Sends are not retried.",
		}),
	}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Cycles,
		m.TicksSkipped,
		m.CycleDuration,
		m.PollerRunning,
		m.RecordsFetched,
		m.NormalizeErrors,
		m.EventsRelevant,
		m.DuplicatesSuppressed,
		m.StoreErrors,
		m.NotificationsSent,
		m.SendErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
