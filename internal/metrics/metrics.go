// Package metrics holds Prometheus instruments that are used across Folio.
// All collectors are registered with the global registry, so mounting
// promhttp.Handler() in the serve command is enough to expose them on
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Contact form submit attempts, by outcome (accepted or rejected).",
		}, []string{"outcome"})

	FieldErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_field_errors_total",
			Help: "Field validation failures raised by submit, by field.",
		}, []string{"field"})

	StatusTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_status_transitions_total",
			Help: "Contact form status transitions, by source and target status.",
		}, []string{"from", "to"})

	DispatchErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "contact_dispatch_errors_total",
			Help: "Delivery runs that reported at least one failed action.",
		})

	ActiveForms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "contact_active_forms",
			Help: "Number of visitor forms currently held in memory.",
		})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served, by route pattern and status code.",
		}, []string{"route", "code"})

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency, by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"})
)

func init() {
	prometheus.MustRegister(
		SubmissionsTotal,
		FieldErrorsTotal,
		StatusTransitionsTotal,
		DispatchErrorsTotal,
		ActiveForms,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
