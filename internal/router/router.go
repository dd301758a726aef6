// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// blog API. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"unfoldingmind/internal/handlers"
	"unfoldingmind/internal/middleware"
)

// Deps are the handler groups and middleware the router wires together.
type Deps struct {
	Public *handlers.Public
	Admin  *handlers.Admin
	Auth   *handlers.Auth
	Feed   *handlers.Feed
	Health http.HandlerFunc

	// RequireAdmin guards every /api/admin route except login.
	RequireAdmin func(http.Handler) http.Handler
	// LoginLimiter throttles login attempts per client IP.
	LoginLimiter *middleware.RateLimiter

	Metrics        *middleware.Metrics
	MetricsHandler http.Handler

	CORSOrigins []string
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(d.Metrics.Middleware)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(d.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/blogs", http.StatusTemporaryRedirect)
	})
	r.Get("/health", d.Health)
	r.Method(http.MethodGet, "/metrics", d.MetricsHandler)

	r.Route("/api", func(r chi.Router) {
		// Public reads. "latest" is a static segment, so chi matches it
		// before the {slug} parameter.
		r.Get("/blogs", d.Public.List)
		r.Get("/blogs/latest", d.Public.Latest)
		r.Get("/blogs/{slug}", d.Public.BySlug)
		r.Get("/feed.xml", d.Feed.RSS)

		r.Route("/admin", func(r chi.Router) {
			r.With(d.LoginLimiter.Middleware).Post("/login", d.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(d.RequireAdmin)

				r.Post("/logout", d.Auth.Logout)
				r.Get("/me", d.Auth.Me)

				r.Route("/blogs", func(r chi.Router) {
					r.Get("/", d.Admin.List)
					r.Post("/", d.Admin.Create)
					r.Get("/{id}", d.Admin.Get)
					r.Put("/{id}", d.Admin.Update)
					r.Delete("/{id}", d.Admin.Delete)
				})
			})
		})
	})

	return r
}
