// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/libris/internal/platform/metrics"
)

// Metrics records request count, latency and in-flight gauge.
//
// Requests are labelled by chi route pattern, not raw path, so ids in URLs
// do not explode label cardinality.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			startTime := time.Now()
			recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(recorder, request)

			route := "unmatched"
			if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
				if pattern := routeContext.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			metrics.HTTPRequestsTotal.
				WithLabelValues(request.Method, route, strconv.Itoa(recorder.status)).
				Inc()
			metrics.HTTPRequestDuration.
				WithLabelValues(request.Method, route).
				Observe(time.Since(startTime).Seconds())
		})
	}
}
