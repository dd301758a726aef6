// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API: public post reads, admin post
// management, admin login/logout, the RSS feed, and the health check.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"unfoldingmind/internal/blog"
	"unfoldingmind/internal/middleware"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Error messages returned to clients.
const (
	msgPublicNotFound = "Blog not found or not published"
	msgAdminNotFound  = "Blog not found"
	msgSlugConflict   = "A blog with this slug already exists."
	msgInternal       = "Internal Server Error"
	msgMalformedJSON  = "Malformed JSON body."
)

// writeJSON writes data as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encode response", "error", err)
	}
}

// writeError maps service errors to HTTP responses. notFound is the message
// used for blog.ErrNotFound, which differs between public and admin routes.
// Unexpected errors are logged and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var ve *blog.ValidationError
	switch {
	case errors.As(err, &ve):
		middleware.WriteDetail(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, blog.ErrNotFound):
		middleware.WriteDetail(w, http.StatusNotFound, notFound)
	case errors.Is(err, blog.ErrSlugConflict):
		middleware.WriteDetail(w, http.StatusConflict, msgSlugConflict)
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		middleware.WriteDetail(w, http.StatusInternalServerError, msgInternal)
	}
}

// decodeJSON reads a single JSON value from the request body into dst.
// Field values the blog package rejects while decoding (such as an
// unreadable publication_date) are reported with their own message. On
// failure it writes the error response itself and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		var ve *blog.ValidationError
		switch {
		case errors.As(err, &tooLarge):
			middleware.WriteDetail(w, http.StatusRequestEntityTooLarge, "Request body too large.")
		case errors.As(err, &ve):
			middleware.WriteDetail(w, http.StatusBadRequest, ve.Message)
		default:
			middleware.WriteDetail(w, http.StatusBadRequest, msgMalformedJSON)
		}
		return false
	}
	if dec.More() {
		middleware.WriteDetail(w, http.StatusBadRequest, msgMalformedJSON)
		return false
	}
	return true
}
