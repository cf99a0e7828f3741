// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the composition root for HTTP transport (chi router).
  - The JSON API lives under /api/v1 and authenticates with bearer tokens.
  - The HTML pages live at the root and authenticate with the session cookie.
  - Only this package and cmd/api import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taibuivan/libris/internal/blog/comment"
	"github.com/taibuivan/libris/internal/blog/post"
	"github.com/taibuivan/libris/internal/catalog/author"
	"github.com/taibuivan/libris/internal/catalog/book"
	"github.com/taibuivan/libris/internal/catalog/library"
	"github.com/taibuivan/libris/internal/platform/config"
	"github.com/taibuivan/libris/internal/platform/constants"
	"github.com/taibuivan/libris/internal/platform/middleware"
	"github.com/taibuivan/libris/internal/users/account"
	"github.com/taibuivan/libris/internal/users/auth"
	"github.com/taibuivan/libris/internal/web"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler; it answers 200 while the process runs.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; it answers 200 when all deps are healthy.
	Readiness http.HandlerFunc

	Auth    *auth.Handler
	Account *account.Handler

	Author  *author.Handler
	Book    *book.Handler
	Library *library.Handler

	Post    *post.Handler
	Comment *comment.Handler

	// Web serves the HTML pages.
	Web *web.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// # Parameters
//   - context: Bounds the rate limiter's cleanup goroutine.
//   - verifier: Checks bearer tokens on /api/v1.
//   - sessions: Resolves the session cookie on the HTML pages.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, sessions middleware.SessionResolver, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery())
	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics())
	}
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.CORS(cfg))
		api.Use(middleware.Authenticate(verifier))

		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/account", h.Account.Routes())
		api.Mount("/authors", h.Author.Routes())
		api.Mount("/books", h.Book.Routes())
		api.Mount("/libraries", h.Library.Routes())
		api.Mount("/posts", h.Post.Routes())
		api.Mount("/tags", h.Post.TagRoutes())
		api.Mount("/comments", h.Comment.Routes())
	})

	// # HTML Pages
	r.Group(func(pages chi.Router) {
		pages.Use(middleware.SecurityHeaders())
		pages.Use(middleware.SessionAuthenticate(sessions))
		pages.Mount("/", h.Web.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the root router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
