// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Libris server. It serves the JSON
// API under /api/v1 and the HTML pages at the root.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire repositories, services and handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/libris/internal/access"
	"github.com/taibuivan/libris/internal/api"
	"github.com/taibuivan/libris/internal/blog/comment"
	"github.com/taibuivan/libris/internal/blog/post"
	"github.com/taibuivan/libris/internal/catalog/author"
	"github.com/taibuivan/libris/internal/catalog/book"
	"github.com/taibuivan/libris/internal/catalog/library"
	"github.com/taibuivan/libris/internal/platform/config"
	"github.com/taibuivan/libris/internal/platform/constants"
	"github.com/taibuivan/libris/internal/platform/migration"
	pgstore "github.com/taibuivan/libris/internal/platform/postgres"
	redisstore "github.com/taibuivan/libris/internal/platform/redis"
	"github.com/taibuivan/libris/internal/platform/sec"
	"github.com/taibuivan/libris/internal/users/account"
	"github.com/taibuivan/libris/internal/users/auth"
	"github.com/taibuivan/libris/internal/web"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("metrics", cfg.MetricsEnabled),
	)

	// Startup deadline so that misconfiguration fails fast.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("postgres_pool_closing")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("redis_client_closing")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log, cfg.Debug), "run migrations")

	// ── 6. Security ───────────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	guard := access.NewGuard(access.DefaultPolicy)

	// ── 7. Health handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	users := auth.NewUserRepository(pool)
	authService := auth.NewService(users, auth.NewSessionRepository(rdb), tokens, cfg.SessionTTL, log)
	accountService := account.NewService(users, account.NewPostgresRepository(pool), guard, log)

	authorService := author.NewService(author.NewPostgresRepository(pool), guard, log)
	bookService := book.NewService(book.NewPostgresRepository(pool), guard, log)
	libraryService := library.NewService(library.NewPostgresRepository(pool), guard, log)

	commentService := comment.NewService(comment.NewPostgresRepository(pool), guard, log)
	postService := post.NewService(post.NewPostgresRepository(pool), commentService, guard, log)

	commentHandler := comment.NewHandler(commentService)

	pages, err := web.NewHandler(web.Dependencies{
		Auth:          authService,
		Accounts:      accountService,
		Authors:       authorService,
		Books:         bookService,
		Libraries:     libraryService,
		Posts:         postService,
		Comments:      commentService,
		Guard:         guard,
		SecureCookies: cfg.SessionCookieSecure,
	}, log)
	must(log, err, "parse page templates")

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(accountService),
		Author:    author.NewHandler(authorService),
		Book:      book.NewHandler(bookService),
		Library:   library.NewHandler(libraryService),
		Post:      post.NewHandler(postService, commentHandler.PostRoutes()),
		Comment:   commentHandler,
		Web:       pages,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, tokens, authService, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
