// Package metrics owns the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eugenenazirov/ui-config/internal/uiconfig"
)

// Metrics bundles the collectors and the registry they are registered on.
type Metrics struct {
	registry *prometheus.Registry

	// HTTPRequestsTotal tracks requests by method, route and status code
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration tracks request latency in seconds
	HTTPRequestDuration *prometheus.HistogramVec

	// ConfigInfo is 1 for the labels of the served snapshot
	ConfigInfo *prometheus.GaugeVec

	// ConfigOverrideKeys is the number of top-level keys set by the host override
	ConfigOverrideKeys prometheus.Gauge
}

// New creates the collectors on a dedicated registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "route"},
		),
		ConfigInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ui_config_info",
				Help: "Served UI configuration (always 1), labelled by edition, server status and build mode",
			},
			[]string{"edition", "server_status", "production"},
		),
		ConfigOverrideKeys: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "ui_config_override_keys",
				Help: "Number of top-level settings supplied by the host override",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ConfigInfo,
		m.ConfigOverrideKeys,
	)
	return m
}

// ObserveSnapshot records the identity of the served snapshot.
func (m *Metrics) ObserveSnapshot(snap *uiconfig.Snapshot) {
	m.ConfigInfo.Reset()
	m.ConfigInfo.WithLabelValues(
		snap.String(uiconfig.KeyEdition),
		snap.String(uiconfig.KeyServerStatus),
		strconv.FormatBool(snap.IsProduction()),
	).Set(1)
	m.ConfigOverrideKeys.Set(float64(len(snap.OverrideKeys())))
}

// ObserveRequest records one completed request.
func (m *Metrics) ObserveRequest(method, route string, status int, seconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// Registry returns the registry, primarily for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
