// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Posts live in an in-memory repository so no database is needed.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"unfoldingmind/internal/auth"
	"unfoldingmind/internal/blog"
	"unfoldingmind/internal/blog/blogtest"
	"unfoldingmind/internal/middleware"
	"unfoldingmind/internal/models"
)

// fakeAdmins is an in-memory middleware.AdminFinder.
type fakeAdmins struct {
	admins map[string]*models.Admin
	err    error
}

func (f *fakeAdmins) FindByUsername(_ context.Context, username string) (*models.Admin, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.admins[username], nil
}

// newPostService returns a blog service over an empty in-memory repository.
func newPostService(t *testing.T) (*blog.Service, *blogtest.Memory) {
	t.Helper()
	repo := blogtest.NewMemory()
	return blog.NewService(repo, true), repo
}

// seedPost stores a post directly through the service.
func seedPost(t *testing.T, svc *blog.Service, in blog.CreateInput) *models.Post {
	t.Helper()
	p, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("seed post %q: %v", in.Title, err)
	}
	return p
}

// withChiURLParam adds a chi URL parameter to the request context.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withAdmin simulates a request that passed middleware.RequireAdmin.
func withAdmin(r *http.Request, admin *models.Admin, claims *auth.Claims) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.AdminKey, admin)
	if claims != nil {
		ctx = context.WithValue(ctx, middleware.ClaimsKey, claims)
	}
	return r.WithContext(ctx)
}

func jsonRequest(method, target, body string) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// decodeDetail returns the "detail" field of an error response.
func decodeDetail(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rr.Body.String(), err)
	}
	return body.Detail
}

// decodePost decodes a single post response.
func decodePost(t *testing.T, rr *httptest.ResponseRecorder) models.Post {
	t.Helper()
	var p models.Post
	if err := json.Unmarshal(rr.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode post %q: %v", rr.Body.String(), err)
	}
	return p
}

var testTime = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type stubPinger struct{ err error }

func (s stubPinger) PingContext(context.Context) error { return s.err }

// stamp returns a publication date for a CreateInput.
func stamp(t time.Time) *blog.Timestamp {
	ts := blog.At(t)
	return &ts
}
