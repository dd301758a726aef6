// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"

	"unfoldingmind/internal/auth"
	"unfoldingmind/internal/models"
)

// newTestAuth returns an Auth handler with two accounts: "alice" (password
// only) and "bob" (password plus TOTP).
func newTestAuth(t *testing.T) (*Auth, *auth.Tokens, *auth.MemoryRevocations, string) {
	t.Helper()

	hash, err := auth.HashPassword("correct-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	enr, err := auth.NewTOTP("bob")
	if err != nil {
		t.Fatalf("NewTOTP: %v", err)
	}

	admins := &fakeAdmins{admins: map[string]*models.Admin{
		"alice": {ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: hash},
		"bob":   {ID: 2, Username: "bob", Email: "bob@example.com", PasswordHash: hash, TOTPSecret: &enr.Secret},
	}}
	tokens := auth.NewTokens("test-secret", 30*time.Minute)
	revoked := auth.NewMemoryRevocations()

	h := NewAuth(admins, tokens, revoked)
	h.now = func() time.Time { return testTime }
	return h, tokens, revoked, enr.Secret
}

func login(h *Auth, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.Login(rr, jsonRequest(http.MethodPost, "/api/admin/login", body))
	return rr
}

func TestLoginSuccess(t *testing.T) {
	h, tokens, _, _ := newTestAuth(t)

	rr := login(h, `{"username": "alice", "password": "correct-password"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", rr.Code, rr.Body.String())
	}

	var resp tokenResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TokenType != "bearer" {
		t.Errorf("token_type: got %q, want bearer", resp.TokenType)
	}
	if resp.ExpiresIn != 1800 {
		t.Errorf("expires_in: got %d, want 1800", resp.ExpiresIn)
	}

	claims, err := tokens.Validate(resp.AccessToken)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Subject != "alice" {
		t.Errorf("subject: got %q, want alice", claims.Subject)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	h, _, _, _ := newTestAuth(t)

	bodies := map[string]string{
		"wrong password":   `{"username": "alice", "password": "nope"}`,
		"unknown username": `{"username": "mallory", "password": "correct-password"}`,
		"missing totp":     `{"username": "bob", "password": "correct-password"}`,
		"wrong totp":       `{"username": "bob", "password": "correct-password", "totp_code": "000000"}`,
	}

	var first string
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			rr := login(h, body)
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("status: got %d, want 401", rr.Code)
			}
			if got := rr.Header().Get("WWW-Authenticate"); got != "Bearer" {
				t.Errorf("WWW-Authenticate: got %q", got)
			}
			if got := decodeDetail(t, rr); got != "Incorrect username or password" {
				t.Errorf("detail: got %q", got)
			}
			if first == "" {
				first = rr.Body.String()
			} else if rr.Body.String() != first {
				t.Errorf("body %q differs from %q", rr.Body.String(), first)
			}
		})
	}
}

func TestLoginWithTOTP(t *testing.T) {
	h, _, _, secret := newTestAuth(t)

	code, err := totp.GenerateCode(secret, testTime)
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}

	rr := login(h, `{"username": "bob", "password": "correct-password", "totp_code": "`+code+`"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", rr.Code, rr.Body.String())
	}
}

func TestLoginForm(t *testing.T) {
	h, _, _, _ := newTestAuth(t)

	form := url.Values{"username": {"alice"}, "password": {"correct-password"}}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", rr.Code, rr.Body.String())
	}
}

func TestLoginBadRequests(t *testing.T) {
	h, _, _, _ := newTestAuth(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"username":`},
		{name: "missing password", body: `{"username": "alice"}`},
		{name: "missing username", body: `{"password": "x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr := login(h, tt.body); rr.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rr.Code)
			}
		})
	}
}

func TestLoginLookupError(t *testing.T) {
	h := NewAuth(&fakeAdmins{err: errors.New("db down")}, auth.NewTokens("s", time.Minute), auth.NewMemoryRevocations())

	rr := login(h, `{"username": "alice", "password": "x"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "db down") {
		t.Error("internal error details must not leak to the client")
	}
}

func TestLogout(t *testing.T) {
	h, tokens, revoked, _ := newTestAuth(t)

	_, claims, err := tokens.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	rr := httptest.NewRecorder()
	req := withAdmin(httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil), &models.Admin{Username: "alice"}, claims)
	h.Logout(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", rr.Code)
	}
	isRevoked, err := revoked.IsRevoked(context.Background(), claims.ID)
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if !isRevoked {
		t.Error("token should be revoked after logout")
	}
}

func TestLogoutWithoutClaims(t *testing.T) {
	h, _, _, _ := newTestAuth(t)

	rr := httptest.NewRecorder()
	h.Logout(rr, httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}

func TestMe(t *testing.T) {
	h, _, _, _ := newTestAuth(t)
	secret := "JBSWY3DPEHPK3PXP"
	admin := &models.Admin{
		ID:           3,
		Username:     "carol",
		Email:        "carol@example.com",
		PasswordHash: "$2a$10$secret",
		TOTPSecret:   &secret,
	}

	rr := httptest.NewRecorder()
	h.Me(rr, withAdmin(httptest.NewRequest(http.MethodGet, "/api/admin/me", nil), admin, nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `"username":"carol"`) {
		t.Errorf("body missing username: %s", body)
	}
	for _, leaked := range []string{"$2a$10$secret", secret, "password"} {
		if strings.Contains(body, leaked) {
			t.Errorf("body leaks %q: %s", leaked, body)
		}
	}
}
