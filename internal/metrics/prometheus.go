package metrics

import "github.com/prometheus/client_golang/prometheus"

type Prometheus struct {
	Renders  *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "devcluster",
				Name:      "renders_total",
				Help:      "Number of rendered views by status.",
			}, []string{"view", "status"}),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "devcluster",
				Name:      "render_seconds",
				Help:      "Time to run the pipeline for a view.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"view"}),
	}
}
