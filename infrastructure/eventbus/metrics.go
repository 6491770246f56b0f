package eventbus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for event dispatch. A nil *Metrics records nothing.
type Metrics struct {
	// Events published by event type
	Published *prometheus.CounterVec

	// Handler errors and panics by event type and handler
	HandlerFailures *prometheus.CounterVec

	// Handler latency by event type
	HandlerDuration *prometheus.HistogramVec
}

// NewMetrics registers the bus metrics against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Published: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hrkernel_eventbus_published_total",
			Help: "Total domain events published by event type",
		}, []string{"event_type"}),

		HandlerFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hrkernel_eventbus_handler_failures_total",
			Help: "Total handler errors and panics by event type and handler",
		}, []string{"event_type", "handler"}),

		HandlerDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hrkernel_eventbus_handler_duration_seconds",
			Help:    "Duration of a single handler invocation",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"event_type"}),
	}
}

func (m *Metrics) IncPublished(eventType string) {
	if m != nil {
		m.Published.WithLabelValues(eventType).Inc()
	}
}

func (m *Metrics) IncHandlerFailure(eventType, handler string) {
	if m != nil {
		m.HandlerFailures.WithLabelValues(eventType, handler).Inc()
	}
}

func (m *Metrics) ObserveHandler(eventType string, d time.Duration) {
	if m != nil {
		m.HandlerDuration.WithLabelValues(eventType).Observe(d.Seconds())
	}
}
