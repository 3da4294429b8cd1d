package httpapi

//
// Metrics definitions
//

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// outcomeSuccess is the outcome label of successful calls.
const outcomeSuccess = "success"

// Metrics collects per-endpoint request metrics. A nil *Metrics
// is valid and collects nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	inflight prometheus.Gauge
	duration *prometheus.SummaryVec
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fieldops_api_requests_total",
			Help: "Total number of API requests by endpoint key and outcome",
		}, []string{"key", "outcome"}),
		inflight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fieldops_api_requests_inflight",
			Help: "The number of API requests currently inflight",
		}),
		duration: factory.NewSummaryVec(prometheus.SummaryOpts{
			Name: "fieldops_api_request_duration_seconds",
			Help: "Summarizes the time to complete an API request (in seconds)",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.99: 0.001,
			},
		}, []string{"key"}),
	}
}

// begin accounts for a new request and returns the function to call
// once the request has completed with the given outcome.
func (m *Metrics) begin(key string) func(outcome string) {
	if m == nil {
		return func(string) {}
	}
	t0 := time.Now()
	m.inflight.Inc()
	return func(outcome string) {
		m.inflight.Dec()
		m.duration.WithLabelValues(key).Observe(time.Since(t0).Seconds())
		m.requests.WithLabelValues(key, outcome).Inc()
	}
}
