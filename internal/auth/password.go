// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth provides password hashing, signed bearer tokens, and TOTP
// verification for admin accounts.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any failed login, whichever
// credential was wrong.
var ErrInvalidCredentials = errors.New("incorrect username or password")

// HashPassword returns a bcrypt digest of the plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the bcrypt digest.
// bcrypt's comparison is constant-time.
func VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// dummyDigest is compared against when a username does not exist, so a
// failed lookup costs about as much as a wrong password.
var dummyDigest, _ = bcrypt.GenerateFromPassword([]byte("unfoldingmind-dummy"), bcrypt.DefaultCost)

// VerifyNothing burns one bcrypt comparison. Call it when the account
// lookup fails to keep login timing uniform.
func VerifyNothing(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyDigest, []byte(password))
}
