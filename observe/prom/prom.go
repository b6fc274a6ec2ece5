package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exports scope activity as Prometheus collectors.
// It implements the timer.Observer interface; pass it to timer.WithObserver
// to instrument every scope of a timer.
type Metrics struct {
	started  prometheus.Counter
	active   prometheus.Gauge
	timeouts prometheus.Counter
	duration prometheus.Histogram
}

// New returns a Metrics observer with its collectors registered on reg.
// A nil reg falls back to the default registerer.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		started: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "timer",
			Name:      "scopes_started_total",
			Help:      "Total number of timing scopes entered.",
		}),
		active: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "timer",
			Name:      "scopes_active",
			Help:      "Number of timing scopes currently open.",
		}),
		timeouts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "timer",
			Name:      "scope_timeouts_total",
			Help:      "Total number of scopes that hit their own deadline.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "timer",
			Name:      "scope_duration_seconds",
			Help:      "Wall time spent inside timing scopes.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// ScopeStarted records scope entry.
func (m *Metrics) ScopeStarted(_ context.Context) {
	m.started.Inc()
	m.active.Inc()
}

// ScopeFinished records scope exit with its measured duration.
func (m *Metrics) ScopeFinished(_ context.Context, elapsed time.Duration, timedOut bool) {
	m.active.Dec()
	m.duration.Observe(elapsed.Seconds())
	if timedOut {
		m.timeouts.Inc()
	}
}
