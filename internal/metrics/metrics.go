package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "salonathome"

// Refresh outcomes recorded on RefreshesTotal.
const (
	RefreshSucceeded = "succeeded"
	RefreshExpired   = "expired"
	RefreshTransient = "transient"
)

// ClientMetrics holds the Prometheus collectors for the API client.
type ClientMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RefreshesTotal  *prometheus.CounterVec
	LogoutSignals   prometheus.Counter
}

// NewClientMetrics creates the collectors and registers them on reg. A nil
// reg yields unregistered collectors, which is what tests and one-shot CLI
// runs want.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	factory := promauto.With(reg)
	return &ClientMetrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of API attempts by method and status",
			},
			[]string{"method", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "API attempt latency histogram",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14), // 5ms to ~40s
			},
			[]string{"method"},
		),
		RefreshesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "token_refreshes_total",
				Help:      "Token refresh attempts by outcome",
			},
			[]string{"outcome"},
		),
		LogoutSignals: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "logout_signals_total",
				Help:      "Number of session-expired logout signals dispatched",
			},
		),
	}
}

// ObserveAttempt records one network attempt. status 0 means transport failure.
func (m *ClientMetrics) ObserveAttempt(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.RequestsTotal.WithLabelValues(method, label).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveRefresh records a refresh outcome.
func (m *ClientMetrics) ObserveRefresh(outcome string) {
	if m == nil {
		return
	}
	m.RefreshesTotal.WithLabelValues(outcome).Inc()
}

// ObserveLogout records a dispatched logout signal.
func (m *ClientMetrics) ObserveLogout() {
	if m == nil {
		return
	}
	m.LogoutSignals.Inc()
}
