// Package metrics exposes Prometheus instrumentation for the RPC layer:
// call volume and latency, event traffic, the pending-call table size, and
// responses dropped because their id matched no outstanding call.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	callsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portrpc",
			Subsystem: "controller",
			Name:      "calls_total",
			Help:      "Calls sent, by mode (notify or call).",
		},
		[]string{"mode", "topic"},
	)
	callDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "portrpc",
			Subsystem: "controller",
			Name:      "call_duration_seconds",
			Help:      "Correlated call round-trip time in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"topic"},
	)
	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portrpc",
			Name:      "events_total",
			Help:      "Events published, by direction (emit or receive).",
		},
		[]string{"direction", "topic"},
	)
	pendingCalls = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "portrpc",
			Subsystem: "controller",
			Name:      "pending_calls",
			Help:      "Outstanding correlated calls awaiting a response.",
		},
	)
	droppedResponses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "portrpc",
			Subsystem: "controller",
			Name:      "dropped_responses_total",
			Help:      "Responses whose id matched no pending call.",
		},
	)
)

// Register registers all collectors with the default registry. Idempotent.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(callsTotal, callDuration, eventsTotal, pendingCalls, droppedResponses)
	})
}

// RecordCall counts one outgoing call. mode is "notify" or "call".
func RecordCall(mode, topic string) {
	Register()
	callsTotal.WithLabelValues(mode, topic).Inc()
}

// RecordCallDuration observes one correlated call round trip.
func RecordCallDuration(topic string, d time.Duration) {
	Register()
	callDuration.WithLabelValues(topic).Observe(d.Seconds())
}

// RecordEvent counts one event. direction is "emit" or "receive".
func RecordEvent(direction, topic string) {
	Register()
	eventsTotal.WithLabelValues(direction, topic).Inc()
}

// SetPendingCalls tracks the correlation table size.
func SetPendingCalls(n int) {
	Register()
	pendingCalls.Set(float64(n))
}

// RecordDroppedResponse counts a response that matched no pending call.
func RecordDroppedResponse() {
	Register()
	droppedResponses.Inc()
}
