package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tartampluch/go-historic/internal/config"
)

// Metrics holds the Prometheus collectors of one server. Each server owns
// its registry so that several servers can live in one process.
type Metrics struct {
	registry     *prometheus.Registry
	Conversions  *prometheus.CounterVec
	FeedRequests *prometheus.CounterVec
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Conversions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: config.MetricsNamespace,
				Name:      config.MetricConversions,
				Help:      config.MetricConversionsHelp,
			},
			[]string{config.MetricLabelFrom, config.MetricLabelTo, config.MetricLabelResult},
		),
		FeedRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: config.MetricsNamespace,
				Name:      config.MetricFeedRequests,
				Help:      config.MetricFeedHelp,
			},
			[]string{config.MetricLabelStatus},
		),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
