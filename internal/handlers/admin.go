// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"unfoldingmind/internal/blog"
	"unfoldingmind/internal/middleware"
)

// Admin groups the authenticated post management endpoints. All routes
// must be mounted behind middleware.RequireAdmin.
type Admin struct {
	posts *blog.Service
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(posts *blog.Service) *Admin {
	return &Admin{posts: posts}
}

// List returns every post including drafts, newest first.
func (a *Admin) List(w http.ResponseWriter, r *http.Request) {
	posts, err := a.posts.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err, msgAdminNotFound)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// Get returns one post by ID regardless of publish state.
func (a *Admin) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	post, err := a.posts.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, msgAdminNotFound)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Create stores a new post and returns it with 201.
func (a *Admin) Create(w http.ResponseWriter, r *http.Request) {
	var in blog.CreateInput
	if !decodeJSON(w, r, &in) {
		return
	}

	post, err := a.posts.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err, msgAdminNotFound)
		return
	}

	slog.Info("post created", "id", post.ID, "slug", post.Slug, "admin", adminName(r))
	writeJSON(w, http.StatusCreated, post)
}

// Update applies a partial update to a post.
func (a *Admin) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var in blog.UpdateInput
	if !decodeJSON(w, r, &in) {
		return
	}

	post, err := a.posts.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err, msgAdminNotFound)
		return
	}

	slog.Info("post updated", "id", post.ID, "slug", post.Slug, "admin", adminName(r))
	writeJSON(w, http.StatusOK, post)
}

// Delete removes a post and returns 204.
func (a *Admin) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := a.posts.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, msgAdminNotFound)
		return
	}

	slog.Info("post deleted", "id", id, "admin", adminName(r))
	w.WriteHeader(http.StatusNoContent)
}

// parseID reads the {id} URL parameter. On failure it writes a 400 and
// returns false.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.WriteDetail(w, http.StatusBadRequest, "Invalid blog id.")
		return 0, false
	}
	return id, true
}

func adminName(r *http.Request) string {
	if admin := middleware.AdminFromCtx(r.Context()); admin != nil {
		return admin.Username
	}
	return ""
}
