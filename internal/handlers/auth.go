// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"unfoldingmind/internal/auth"
	"unfoldingmind/internal/middleware"
)

// msgBadLogin is the only message a failed login ever produces, whichever
// credential was wrong.
const msgBadLogin = "Incorrect username or password"

// Auth groups the admin login, logout, and identity endpoints.
type Auth struct {
	admins  middleware.AdminFinder
	tokens  *auth.Tokens
	revoked auth.Revocations
	now     func() time.Time
}

// NewAuth creates a new Auth handler group.
func NewAuth(admins middleware.AdminFinder, tokens *auth.Tokens, revoked auth.Revocations) *Auth {
	return &Auth{admins: admins, tokens: tokens, revoked: revoked, now: time.Now}
}

// loginRequest is the login body. TOTPCode is only checked for accounts
// with a TOTP secret.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code"`
}

// tokenResponse is the successful login body.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Login verifies credentials and issues a bearer token. It accepts either
// a JSON body or an OAuth2-style form (username, password).
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := a.readLogin(w, r)
	if !ok {
		return
	}
	if req.Username == "" || req.Password == "" {
		middleware.WriteDetail(w, http.StatusBadRequest, "Username and password are required.")
		return
	}

	admin, err := a.admins.FindByUsername(r.Context(), req.Username)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		middleware.WriteDetail(w, http.StatusInternalServerError, msgInternal)
		return
	}

	if err := auth.Authenticate(admin, req.Password, req.TOTPCode, a.now()); err != nil {
		a.rejectLogin(w, r, req.Username, err)
		return
	}

	token, _, err := a.tokens.Issue(admin.Username)
	if err != nil {
		slog.Error("issue token failed", "error", err)
		middleware.WriteDetail(w, http.StatusInternalServerError, msgInternal)
		return
	}

	slog.Info("admin logged in", "username", admin.Username)
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   auth.TokenType,
		ExpiresIn:   int(a.tokens.TTL().Seconds()),
	})
}

func (a *Auth) readLogin(w http.ResponseWriter, r *http.Request) (loginRequest, bool) {
	var req loginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			middleware.WriteDetail(w, http.StatusBadRequest, "Malformed form body.")
			return req, false
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
		req.TOTPCode = r.PostForm.Get("totp_code")
	} else if !decodeJSON(w, r, &req) {
		return req, false
	}

	req.Username = strings.TrimSpace(req.Username)
	req.TOTPCode = strings.TrimSpace(req.TOTPCode)
	return req, true
}

func (a *Auth) rejectLogin(w http.ResponseWriter, r *http.Request, username string, err error) {
	slog.Warn("failed login", "username", username, "remote", r.RemoteAddr, "error", err)
	w.Header().Set("WWW-Authenticate", "Bearer")
	middleware.WriteDetail(w, http.StatusUnauthorized, msgBadLogin)
}

// Logout revokes the bearer token used for the request until it expires.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil || claims.ExpiresAt == nil {
		middleware.WriteDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	if err := a.revoked.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		slog.Error("revoke token failed", "error", err)
		middleware.WriteDetail(w, http.StatusInternalServerError, msgInternal)
		return
	}

	slog.Info("admin logged out", "username", claims.Subject)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated admin account. Secrets are never serialized.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	admin := middleware.AdminFromCtx(r.Context())
	if admin == nil {
		middleware.WriteDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, admin)
}
