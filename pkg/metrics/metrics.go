package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cloudrent"

// Metrics holds the collectors exported on /metrics. Each instance owns its registry
// so tests can build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	ProvisionTotal    *prometheus.CounterVec
	CompensationTotal *prometheus.CounterVec
	SweepRecords      *prometheus.CounterVec
	SweepDuration     prometheus.Histogram
	SweepNextRun      prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ProvisionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provision_total",
			Help:      "Provisioning sagas by rental kind and outcome.",
		}, []string{"kind", "outcome"}),
		CompensationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compensation_total",
			Help:      "Compensating actions executed, by saga, step and outcome.",
		}, []string{"saga", "step", "outcome"}),
		SweepRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expiry_sweep_records_total",
			Help:      "Expired rentals processed by the sweep, by outcome.",
		}, []string{"outcome"}),
		SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "expiry_sweep_duration_seconds",
			Help:      "Wall time of one expiry sweep.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		SweepNextRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "expiry_sweep_next_run_timestamp_seconds",
			Help:      "Unix time of the next scheduled expiry sweep.",
		}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ProvisionTotal,
		m.CompensationTotal,
		m.SweepRecords,
		m.SweepDuration,
		m.SweepNextRun,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
