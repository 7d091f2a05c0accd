package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts construction outcomes per schema.
type Metrics struct {
	registry      *prometheus.Registry
	constructions *prometheus.CounterVec
	issues        *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

// NewMetrics registers the service metrics on a private registry.
func NewMetrics(prefix string) *Metrics {
	if prefix == "" {
		prefix = "skema"
	}
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		constructions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_constructions_total",
				Help: "Instances constructed, by schema and result",
			},
			[]string{"schema", "result"},
		),
		issues: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_issues_total",
				Help: "Validation issues reported, by schema and code",
			},
			[]string{"schema", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_construct_duration_seconds",
				Help:    "Time spent decoding and constructing an instance",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"schema"},
		),
	}
	reg.MustRegister(m.constructions, m.issues, m.duration)
	return m
}

// Registry exposes the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
