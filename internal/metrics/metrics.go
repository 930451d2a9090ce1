// Package metrics exposes report pipeline counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the daemon's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	ReportsGenerated *prometheus.CounterVec
	ReportFailures   *prometheus.CounterVec
	Placeholders     *prometheus.CounterVec
	RunDuration      *prometheus.HistogramVec
	PeriodEvents     *prometheus.GaugeVec
	LastSuccess      *prometheus.GaugeVec
	ConfigReloads    *prometheus.CounterVec
}

// New creates and registers every collector.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		ReportsGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hawk_reports_generated_total",
				Help: "Reports rendered successfully",
			},
			[]string{"kind", "mode"},
		),
		ReportFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hawk_report_failures_total",
				Help: "Report runs that ended in an error",
			},
			[]string{"kind"},
		),
		Placeholders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hawk_narrative_placeholders_total",
				Help: "Reports whose narrative was replaced by a placeholder",
			},
			[]string{"kind"},
		),
		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hawk_report_run_duration_seconds",
				Help:    "Wall time of one report run, generation included",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~100s
			},
			[]string{"kind"},
		),
		PeriodEvents: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hawk_report_period_events",
				Help: "Events aggregated by the latest report of each kind",
			},
			[]string{"kind"},
		),
		LastSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hawk_report_last_success_timestamp_seconds",
				Help: "Unix time of the latest successful report of each kind",
			},
			[]string{"kind"},
		),
		ConfigReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hawk_config_reloads_total",
				Help: "Config file reloads by outcome",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		m.ReportsGenerated,
		m.ReportFailures,
		m.Placeholders,
		m.RunDuration,
		m.PeriodEvents,
		m.LastSuccess,
		m.ConfigReloads,
	)
	return m
}

// ObserveRun records the outcome of one report run.
func (m *Metrics) ObserveRun(kind, mode string, placeholder bool, events int, took time.Duration, err error) {
	m.RunDuration.WithLabelValues(kind).Observe(took.Seconds())
	if err != nil {
		m.ReportFailures.WithLabelValues(kind).Inc()
		return
	}
	m.ReportsGenerated.WithLabelValues(kind, mode).Inc()
	m.PeriodEvents.WithLabelValues(kind).Set(float64(events))
	m.LastSuccess.WithLabelValues(kind).SetToCurrentTime()
	if placeholder {
		m.Placeholders.WithLabelValues(kind).Inc()
	}
}

// ObserveReload records a config reload attempt.
func (m *Metrics) ObserveReload(err error) {
	if err != nil {
		m.ConfigReloads.WithLabelValues("error").Inc()
		return
	}
	m.ConfigReloads.WithLabelValues("ok").Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Server returns an HTTP server exposing /metrics on addr.
func (m *Metrics) Server(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
