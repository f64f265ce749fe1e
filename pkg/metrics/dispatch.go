package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DispatchMetrics records the outcome of transfer event dispatches.
type DispatchMetrics struct {
	duration        *prometheus.HistogramVec
	processed       *prometheus.CounterVec
	dropped         prometheus.Counter
	handlerFailures *prometheus.CounterVec
}

// NewDispatchMetrics registers the dispatch metrics on the provided registerer.
func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	if reg == nil {
		return &DispatchMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "transfer_dispatch_duration_seconds",
		Help:    "Duration of transfer dispatches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "transfers_processed_total",
		Help: "Transfers that passed admission filters, by outcome.",
	}, []string{"outcome"})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "transfers_dropped_total",
		Help: "Transfers rejected by an admission filter.",
	})
	handlerFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "transfer_handler_failures_total",
		Help: "Handler failures while processing a transfer.",
	}, []string{"handler"})
	reg.MustRegister(duration, processed, dropped, handlerFailures)
	return &DispatchMetrics{
		duration:        duration,
		processed:       processed,
		dropped:         dropped,
		handlerFailures: handlerFailures,
	}
}

// ObserveDuration records the duration of one dispatch.
func (d *DispatchMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if d == nil || d.duration == nil {
		return
	}
	d.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncProcessed increments the processed counter for the given outcome.
func (d *DispatchMetrics) IncProcessed(outcome string) {
	if d == nil || d.processed == nil {
		return
	}
	d.processed.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncDropped increments the filter-drop counter.
func (d *DispatchMetrics) IncDropped() {
	if d == nil || d.dropped == nil {
		return
	}
	d.dropped.Inc()
}

// IncHandlerFailure increments the failure counter for the named handler.
func (d *DispatchMetrics) IncHandlerFailure(handler string) {
	if d == nil || d.handlerFailures == nil {
		return
	}
	d.handlerFailures.WithLabelValues(normalizeLabel(handler)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
