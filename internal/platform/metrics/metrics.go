// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics declares the Prometheus collectors exported on /metrics.
//
// Collectors are package-level and registered on the default registry by
// promauto, so callers only import the package and record.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// # HTTP

var (
	// HTTPRequestsTotal counts requests by method, route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libris_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "libris_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	// HTTPRequestsInFlight tracks requests currently being served.
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "libris_http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)

// # Domain

var (
	// AccessDecisionsTotal counts authorization outcomes.
	// outcome is "allow" or the deny reason.
	AccessDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libris_access_decisions_total",
			Help: "Authorization decisions by resource kind, action and outcome",
		},
		[]string{"kind", "action", "outcome"},
	)

	// OrderingFallbacksTotal counts list requests whose ordering parameter
	// contained no allow-listed field and fell back to the default.
	OrderingFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libris_ordering_fallbacks_total",
			Help: "List requests that fell back to the default ordering",
		},
		[]string{"resource"},
	)

	// SessionsTotal counts web session lifecycle events ("started", "ended", "expired").
	SessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libris_web_sessions_total",
			Help: "Web session lifecycle events",
		},
		[]string{"event"},
	)
)
