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
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/access"
	"github.com/taibuivan/libris/internal/api"
	"github.com/taibuivan/libris/internal/blog/comment"
	"github.com/taibuivan/libris/internal/blog/post"
	"github.com/taibuivan/libris/internal/catalog/author"
	"github.com/taibuivan/libris/internal/catalog/book"
	"github.com/taibuivan/libris/internal/catalog/library"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/config"
	"github.com/taibuivan/libris/internal/platform/constants"
	"github.com/taibuivan/libris/internal/platform/sec"
	"github.com/taibuivan/libris/internal/users/account"
	"github.com/taibuivan/libris/internal/users/auth"
	"github.com/taibuivan/libris/internal/web"
)

type rejectAll struct{}

func (rejectAll) VerifyToken(string) (*sec.AuthClaims, error) {
	return nil, errors.New("no tokens in this test")
}

func (rejectAll) ResolveSession(context.Context, string) (*sec.AuthClaims, error) {
	return nil, apperr.Unauthorized("Session expired")
}

// newServer wires every route with nil services; only requests stopped by
// middleware before reaching a service may be sent to it.
func newServer(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	pages, err := web.NewHandler(web.Dependencies{Guard: access.NewGuard(access.DefaultPolicy)}, logger)
	require.NoError(t, err)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{}, logger)
	comments := comment.NewHandler(nil)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(nil),
		Account:   account.NewHandler(nil),
		Author:    author.NewHandler(nil),
		Book:      book.NewHandler(nil),
		Library:   library.NewHandler(nil),
		Post:      post.NewHandler(nil, comments.PostRoutes()),
		Comment:   comments,
		Web:       pages,
	}

	cfg := &config.Config{ServerPort: "0", Environment: "test"}
	return api.NewServer(t.Context(), cfg, logger, rejectAll{}, rejectAll{}, handlers).Handler()
}

/*
TestServer_AnonymousWrites contrasts the two surfaces for the same action:
the API answers 401 JSON, the pages redirect to the login form.
*/
func TestServer_AnonymousWrites(t *testing.T) {
	server := newServer(t)

	tests := []struct {
		name     string
		method   string
		target   string
		status   int
		location string
	}{
		{"api_create_book", http.MethodPost, "/api/v1/books", http.StatusUnauthorized, ""},
		{"api_create_post", http.MethodPost, "/api/v1/posts", http.StatusUnauthorized, ""},
		{"api_comment_on_post", http.MethodPost, "/api/v1/posts/0b9d4f3e-8a34-4c5e-9a51-1f2b3c4d5e6f/comments", http.StatusUnauthorized, ""},
		{"api_account", http.MethodGet, "/api/v1/account/me", http.StatusUnauthorized, ""},
		{"web_create_book", http.MethodPost, "/books/new", http.StatusSeeOther, "/login?next=%2Fbooks%2Fnew"},
		{"web_dashboard", http.MethodGet, "/dashboard/admin", http.StatusSeeOther, "/login?next=%2Fdashboard%2Fadmin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, httptest.NewRequest(tt.method, tt.target, nil))

			assert.Equal(t, tt.status, recorder.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, recorder.Header().Get("Location"))
			} else {
				assert.Contains(t, recorder.Body.String(), apperr.CodeUnauthorized)
			}
		})
	}
}

/*
TestServer_Probes answers the health endpoints without authentication.
*/
func TestServer_Probes(t *testing.T) {
	server := newServer(t)

	for _, target := range []string{"/health", "/ready"} {
		recorder := httptest.NewRecorder()
		server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusOK, recorder.Code, target)
	}
}

/*
TestServer_PageSecurityHeaders hardens the HTML pages and leaves the JSON
API alone.
*/
func TestServer_PageSecurityHeaders(t *testing.T) {
	server := newServer(t)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "DENY", recorder.Header().Get(constants.HeaderFrameOptions))
	assert.Equal(t, "nosniff", recorder.Header().Get(constants.HeaderContentTypeOptions))
	assert.Equal(t, "same-origin", recorder.Header().Get(constants.HeaderReferrerPolicy))

	recorder = httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, recorder.Header().Get(constants.HeaderFrameOptions))
}
