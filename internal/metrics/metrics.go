// Package metrics exposes Prometheus counters for the calculator, the recipe
// generator and the cuisine menu.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "recipe_companion"

// Metrics holds the application collectors and the registry they live in
type Metrics struct {
	registry *prometheus.Registry

	calorieCalculations *prometheus.CounterVec
	recipeRequests      *prometheus.CounterVec
	recipeDuration      prometheus.Histogram
	menuEvents          *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
}

// New creates a Metrics instance on its own registry so tests can build as
// many as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		calorieCalculations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calorie_calculations_total",
				Help:      "Calorie calculations by outcome (ok or a validation code)",
			},
			[]string{"outcome"},
		),
		recipeRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recipe_requests_total",
				Help:      "Recipe generation requests by outcome",
			},
			[]string{"outcome"},
		),
		recipeDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "recipe_request_duration_seconds",
				Help:      "Latency of calls to the recipe generation API",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		menuEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cuisine_menu_events_total",
				Help:      "Cuisine menu interactions by action",
			},
			[]string{"action"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
	}
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) CalorieCalculation(outcome string) {
	m.calorieCalculations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecipeRequest(outcome string, elapsed time.Duration) {
	m.recipeRequests.WithLabelValues(outcome).Inc()
	m.recipeDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) MenuEvent(action string) {
	m.menuEvents.WithLabelValues(action).Inc()
}

func (m *Metrics) HTTPRequest(method, route, status string) {
	m.httpRequests.WithLabelValues(method, route, status).Inc()
}
