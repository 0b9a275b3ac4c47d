package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the SDK's Prometheus metrics
type Metrics struct {
	// Renewal metrics
	RenewalsTotal   *prometheus.CounterVec
	RenewalDuration prometheus.Histogram

	// Gateway metrics
	GatewayRequestsTotal *prometheus.CounterVec
	GatewayRetriesTotal  prometheus.Counter

	// Store metrics
	StoreOperationsTotal *prometheus.CounterVec

	// Session metrics
	SessionAuthenticated prometheus.Gauge
}

// NewMetrics creates and registers all SDK metrics on the given registry
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		RenewalsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trailquest_renewals_total",
				Help: "Total number of credential renewal attempts",
			},
			[]string{"result"},
		),
		RenewalDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "trailquest_renewal_duration_seconds",
				Help:    "Credential renewal duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		GatewayRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trailquest_gateway_requests_total",
				Help: "Total number of requests sent through the gateway",
			},
			[]string{"status_class", "authenticated"},
		),
		GatewayRetriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "trailquest_gateway_retries_total",
				Help: "Total number of requests re-sent after a credential rejection",
			},
		),
		StoreOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trailquest_store_operations_total",
				Help: "Total number of credential store operations",
			},
			[]string{"operation", "result"},
		),
		SessionAuthenticated: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "trailquest_session_authenticated",
				Help: "Whether the session is currently authenticated (1) or not (0)",
			},
		),
	}

	registry.MustRegister(
		m.RenewalsTotal,
		m.RenewalDuration,
		m.GatewayRequestsTotal,
		m.GatewayRetriesTotal,
		m.StoreOperationsTotal,
		m.SessionAuthenticated,
	)

	return m
}

// ObserveRenewal records one renewal attempt. Nil-safe.
func (m *Metrics) ObserveRenewal(result string, seconds float64) {
	if m == nil {
		return
	}
	m.RenewalsTotal.WithLabelValues(result).Inc()
	m.RenewalDuration.Observe(seconds)
}

// ObserveGatewayRequest records one request sent through the gateway.
// Nil-safe.
func (m *Metrics) ObserveGatewayRequest(statusClass string, authenticated bool) {
	if m == nil {
		return
	}
	auth := "false"
	if authenticated {
		auth = "true"
	}
	m.GatewayRequestsTotal.WithLabelValues(statusClass, auth).Inc()
}

// ObserveGatewayRetry records one retry after a credential rejection.
// Nil-safe.
func (m *Metrics) ObserveGatewayRetry() {
	if m == nil {
		return
	}
	m.GatewayRetriesTotal.Inc()
}

// ObserveStoreOperation records one store operation. Nil-safe.
func (m *Metrics) ObserveStoreOperation(operation, result string) {
	if m == nil {
		return
	}
	m.StoreOperationsTotal.WithLabelValues(operation, result).Inc()
}

// SetAuthenticated records the current session phase. Nil-safe.
func (m *Metrics) SetAuthenticated(authenticated bool) {
	if m == nil {
		return
	}
	if authenticated {
		m.SessionAuthenticated.Set(1)
	} else {
		m.SessionAuthenticated.Set(0)
	}
}
