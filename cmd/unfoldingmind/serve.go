// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"unfoldingmind/internal/auth"
	"unfoldingmind/internal/blog"
	"unfoldingmind/internal/cache"
	"unfoldingmind/internal/config"
	"unfoldingmind/internal/database"
	"unfoldingmind/internal/handlers"
	"unfoldingmind/internal/middleware"
	"unfoldingmind/internal/router"
	"unfoldingmind/internal/store"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server (default)",
		Run: func(cmd *cobra.Command, args []string) {
			serveRun(commonRun())
		},
	}
}

func serveRun(cfg *config.Config) {
	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)
	if cfg.IsDev() && cfg.SecretKey == config.DevSecretKey {
		slog.Warn("SECRET_KEY not set, using the development signing key")
	}

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if posts already exist).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Token revocations live in Valkey when configured so they survive
	// restarts and are shared across instances.
	var revoked auth.Revocations
	if cfg.ValkeyEnabled() {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		revoked = cache.NewRevokedTokens(valkeyClient)
		slog.Info("token revocations stored in valkey", "addr", cfg.ValkeyAddr())
	} else {
		revoked = auth.NewMemoryRevocations()
		slog.Warn("valkey not configured, token revocations kept in memory")
	}

	postStore := store.NewPostStore(db)
	adminStore := store.NewAdminStore(db)

	posts := blog.NewService(postStore, cfg.SlugFollowsTitle)
	tokens := auth.NewTokens(cfg.SecretKey, cfg.TokenTTL)

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, time.Minute)
	loginLimiter.TrustProxy = cfg.TrustProxy
	defer loginLimiter.Stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := router.New(router.Deps{
		Public: handlers.NewPublic(posts),
		Admin:  handlers.NewAdmin(posts),
		Auth:   handlers.NewAuth(adminStore, tokens, revoked),
		Feed: handlers.NewFeed(posts, handlers.FeedInfo{
			Title:       cfg.SiteTitle,
			SiteURL:     cfg.SiteURL,
			Description: cfg.SiteDescription,
		}),
		Health:         handlers.Health(db),
		RequireAdmin:   middleware.RequireAdmin(tokens, adminStore, revoked),
		LoginLimiter:   loginLimiter,
		Metrics:        middleware.NewMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		CORSOrigins:    cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("server failed to start", "error", err)
		os.Exit(1)
	}

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
