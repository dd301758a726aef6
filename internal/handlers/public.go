// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"unfoldingmind/internal/blog"
)

// Public groups the unauthenticated post endpoints. Only published posts
// are ever returned.
type Public struct {
	posts *blog.Service
}

// NewPublic creates a new Public handler group.
func NewPublic(posts *blog.Service) *Public {
	return &Public{posts: posts}
}

// List returns all published posts, newest first.
func (p *Public) List(w http.ResponseWriter, r *http.Request) {
	posts, err := p.posts.ListPublished(r.Context())
	if err != nil {
		writeError(w, r, err, msgPublicNotFound)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// Latest returns the newest published post, or JSON null when there is none.
func (p *Public) Latest(w http.ResponseWriter, r *http.Request) {
	post, err := p.posts.Latest(r.Context())
	if err != nil {
		writeError(w, r, err, msgPublicNotFound)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// BySlug returns one published post. Drafts are reported exactly like
// missing posts.
func (p *Public) BySlug(w http.ResponseWriter, r *http.Request) {
	post, err := p.posts.GetPublished(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err, msgPublicNotFound)
		return
	}
	writeJSON(w, http.StatusOK, post)
}
