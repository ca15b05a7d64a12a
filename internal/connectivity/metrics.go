package connectivity

import "github.com/prometheus/client_golang/prometheus"

const namespace = "sponsortrack"

// Metrics exposes connection health to Prometheus. A nil *Metrics is a no-op.
type Metrics struct {
	connected  prometheus.Gauge
	attempts   *prometheus.CounterVec
	selections *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "primary_connected",
			Help:      "1 if the primary database is serving requests, 0 otherwise.",
		}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connect_attempts_total",
			Help:      "Connection attempts to the primary database by result.",
		}, []string{"result"}),
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_selections_total",
			Help:      "Requests served per data source.",
		}, []string{"source"}),
	}

	reg.MustRegister(m.connected, m.attempts, m.selections)
	return m
}

func (m *Metrics) connectAttempt(ok bool) {
	if m == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	m.attempts.WithLabelValues(result).Inc()
	m.setConnected(ok)
}

func (m *Metrics) setConnected(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.connected.Set(1)
		return
	}
	m.connected.Set(0)
}

func (m *Metrics) storeSelected(source string) {
	if m == nil {
		return
	}
	m.selections.WithLabelValues(source).Inc()
}
