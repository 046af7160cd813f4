package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	episodes *prometheus.CounterVec
	steps    *prometheus.CounterVec
	sessions prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		episodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ltmb",
			Name:      "episodes_total",
			Help:      "Finished episodes by task and outcome.",
		}, []string{"task", "outcome"}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ltmb",
			Name:      "steps_total",
			Help:      "Steps taken by task.",
		}, []string{"task"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ltmb",
			Name:      "sessions_active",
			Help:      "Environment sessions currently open.",
		}),
	}
	reg.MustRegister(m.episodes, m.steps, m.sessions)
	return m
}
