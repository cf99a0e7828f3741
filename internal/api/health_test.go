// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/libris/internal/api"
)

/*
TestReadiness reports 503 as soon as one dependency is down.
*/
func TestReadiness(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	healthy := func(context.Context) error { return nil }
	broken := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name   string
		deps   api.HealthDependencies
		status int
		body   string
	}{
		{"all_up", api.HealthDependencies{CheckDatabase: healthy, CheckCache: healthy}, http.StatusOK, `"ready"`},
		{"redis_down", api.HealthDependencies{CheckDatabase: healthy, CheckCache: broken}, http.StatusServiceUnavailable, `"degraded"`},
		{"nothing_checked", api.HealthDependencies{}, http.StatusOK, `"ready"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			liveness, readiness := api.NewHealthHandlers(tt.deps, logger)

			recorder := httptest.NewRecorder()
			readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.status, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.body)

			recorder = httptest.NewRecorder()
			liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, http.StatusOK, recorder.Code)
		})
	}
}
