// Package metrics exposes Prometheus collectors for dispatched board commands.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Commands records per-operation outcomes and delegate latency on its own registry.
type Commands struct {
	registry *prometheus.Registry
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	handler  http.Handler
}

// NewCommands creates the command collectors. A nil registry gets a fresh one
// with the Go and process collectors registered.
func NewCommands(registry *prometheus.Registry) *Commands {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	c := &Commands{
		registry: registry,
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "m5node",
			Name:      "commands_total",
			Help:      "Board commands handled, by operation and outcome",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "m5node",
			Name:      "command_duration_seconds",
			Help:      "Time spent handling a board command, validation included",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"operation"}),
	}
	registry.MustRegister(c.total, c.duration)
	c.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})

	return c
}

// Observe records one handled command.
func (c *Commands) Observe(operation, outcome string, d time.Duration) {
	c.total.WithLabelValues(operation, outcome).Inc()
	c.duration.WithLabelValues(operation).Observe(d.Seconds())
}

// Registry returns the registry the collectors live on.
func (c *Commands) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns the HTTP handler serving the registry in exposition format.
func (c *Commands) Handler() http.Handler {
	return c.handler
}
