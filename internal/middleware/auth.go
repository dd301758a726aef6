// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"unfoldingmind/internal/auth"
	"unfoldingmind/internal/models"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// AdminKey is the context key for the authenticated admin account.
	AdminKey contextKey = "admin"
	// ClaimsKey is the context key for the validated token claims.
	ClaimsKey contextKey = "claims"
)

// AdminFinder looks up admin accounts by username. Returns (nil, nil) when
// the account does not exist.
type AdminFinder interface {
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
}

// RequireAdmin rejects requests without a valid, unrevoked bearer token
// for an existing admin account. On success the account and claims are
// stored in the request context.
func RequireAdmin(tokens *auth.Tokens, admins AdminFinder, revoked auth.Revocations) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			claims, err := tokens.Validate(raw)
			if err != nil {
				unauthorized(w)
				return
			}

			isRevoked, err := revoked.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				slog.Error("check token revocation", "error", err)
				WriteDetail(w, http.StatusInternalServerError, "Internal Server Error")
				return
			}
			if isRevoked {
				unauthorized(w)
				return
			}

			admin, err := admins.FindByUsername(r.Context(), claims.Subject)
			if err != nil {
				slog.Error("load admin for token", "error", err)
				WriteDetail(w, http.StatusInternalServerError, "Internal Server Error")
				return
			}
			if admin == nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), AdminKey, admin)
			ctx = context.WithValue(ctx, ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is case-insensitive.
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	WriteDetail(w, http.StatusUnauthorized, "Could not validate credentials")
}

// AdminFromCtx returns the authenticated admin account, or nil outside
// RequireAdmin.
func AdminFromCtx(ctx context.Context) *models.Admin {
	admin, _ := ctx.Value(AdminKey).(*models.Admin)
	return admin
}

// ClaimsFromCtx returns the validated token claims, or nil outside
// RequireAdmin.
func ClaimsFromCtx(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims
}
