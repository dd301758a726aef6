// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"

	"unfoldingmind/internal/auth"
	"unfoldingmind/internal/models"
	"unfoldingmind/internal/store"
)

type fakeCreator struct {
	got *models.Admin
	err error
}

func (f *fakeCreator) Create(_ context.Context, username, email, passwordHash string, totpSecret *string) (*models.Admin, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.got = &models.Admin{ID: 7, Username: username, Email: email, PasswordHash: passwordHash, TOTPSecret: totpSecret}
	return f.got, nil
}

func TestValidateAdmin(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  bool
	}{
		{"valid", "admin", "admin@example.com", "hunter2222", false},
		{"empty username", "", "admin@example.com", "hunter2222", true},
		{"padded username", " admin", "admin@example.com", "hunter2222", true},
		{"missing at", "admin", "admin.example.com", "hunter2222", true},
		{"display name", "admin", "Admin <admin@example.com>", "hunter2222", true},
		{"short password", "admin", "admin@example.com", "short", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAdmin(tt.username, tt.email, tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateAdmin: got %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadPassword(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"secret\n", "secret", false},
		{"secret\r\n", "secret", false},
		{"secret", "secret", false},
		{"first\nsecond\n", "first", false},
		{"", "", true},
		{"\n", "", true},
	}

	for _, tt := range tests {
		got, err := readPassword(strings.NewReader(tt.in))
		if (err != nil) != tt.wantErr {
			t.Errorf("readPassword(%q): err %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("readPassword(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCreateAdmin(t *testing.T) {
	creator := &fakeCreator{}
	var out bytes.Buffer

	opts := adminCreateOptions{username: "admin", email: "admin@example.com", password: "hunter2222"}
	if err := createAdmin(context.Background(), creator, opts, &out); err != nil {
		t.Fatalf("createAdmin: %v", err)
	}

	if creator.got == nil {
		t.Fatal("admin not stored")
	}
	if creator.got.PasswordHash == opts.password {
		t.Error("password stored in plaintext")
	}
	if !auth.VerifyPassword(opts.password, creator.got.PasswordHash) {
		t.Error("stored hash does not verify")
	}
	if creator.got.TOTPSecret != nil {
		t.Error("TOTP secret set without --totp")
	}
	if strings.Contains(out.String(), opts.password) {
		t.Error("password echoed to output")
	}
}

func TestCreateAdminWithTOTP(t *testing.T) {
	creator := &fakeCreator{}
	var out bytes.Buffer
	qrPath := filepath.Join(t.TempDir(), "totp.png")

	opts := adminCreateOptions{
		username: "admin",
		email:    "admin@example.com",
		password: "hunter2222",
		totp:     true,
		qrOut:    qrPath,
	}
	if err := createAdmin(context.Background(), creator, opts, &out); err != nil {
		t.Fatalf("createAdmin: %v", err)
	}

	if creator.got.TOTPSecret == nil {
		t.Fatal("TOTP secret not stored")
	}
	secret := *creator.got.TOTPSecret
	if !strings.Contains(out.String(), secret) {
		t.Error("TOTP secret not printed for enrollment")
	}

	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}
	if !auth.VerifyTOTP(code, secret, time.Now()) {
		t.Error("stored secret does not verify")
	}

	png, err := os.ReadFile(qrPath)
	if err != nil {
		t.Fatalf("read qr: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("qr output is not a PNG")
	}
}

func TestCreateAdminDuplicate(t *testing.T) {
	creator := &fakeCreator{err: store.ErrDuplicateAdmin}

	opts := adminCreateOptions{username: "admin", email: "admin@example.com", password: "hunter2222"}
	err := createAdmin(context.Background(), creator, opts, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("got %v, want already exists error", err)
	}
	if errors.Is(err, store.ErrDuplicateAdmin) {
		t.Error("duplicate error should be reported in user terms")
	}
}

func TestAdminHashCommand(t *testing.T) {
	cmd := adminHashCommand()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader("hunter2222\n"))
	cmd.SetOut(&out)
	cmd.SetArgs(nil)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	hash := strings.TrimSpace(out.String())
	if !auth.VerifyPassword("hunter2222", hash) {
		t.Errorf("printed hash %q does not verify", hash)
	}
}
