package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var Observer = NewMetrics()

// Metrics keeps the collectors in their own registry.
type Metrics struct {
	registry   *prometheus.Registry
	prometheus Prometheus
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	p := NewPrometheusMetrics()
	registry.MustRegister(p.Renders, p.Duration)
	return &Metrics{
		registry:   registry,
		prometheus: p,
	}
}

// Observe records a rendered view.
func (m *Metrics) Observe(view string, status int, duration time.Duration) {
	m.prometheus.Renders.WithLabelValues(view, strconv.Itoa(status)).Inc()
	m.prometheus.Duration.WithLabelValues(view).Observe(duration.Seconds())
}

// Handler exposes the collected metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
