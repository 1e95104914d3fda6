package runner

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus collectors updated by a Runner.
type Metrics struct {
	SeriesTotal    *prometheus.CounterVec
	SignalsTotal   *prometheus.CounterVec
	ComputeSeconds prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SeriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "argo_signal_series_total", Help: "Series processed by status"},
			[]string{"status"},
		),
		SignalsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "argo_signal_signals_total", Help: "Signals emitted by side"},
			[]string{"side"},
		),
		ComputeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "argo_signal_compute_seconds",
			Help:    "Time spent computing one series",
			Buckets: prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(m.SeriesTotal, m.SignalsTotal, m.ComputeSeconds)
	}

	return m
}

func (m *Metrics) observeSuccess(buys, sells int, seconds float64) {
	m.SeriesTotal.WithLabelValues("ok").Inc()
	m.SignalsTotal.WithLabelValues("buy").Add(float64(buys))
	m.SignalsTotal.WithLabelValues("sell").Add(float64(sells))
	m.ComputeSeconds.Observe(seconds)
}

func (m *Metrics) observeFailure() {
	m.SeriesTotal.WithLabelValues("error").Inc()
}
