// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"time"

	"unfoldingmind/internal/models"
)

// Authenticate checks a login attempt against admin, which is nil when the
// username was not found. Every failure returns ErrInvalidCredentials.
// totpCode is only consulted for accounts that have a TOTP secret.
func Authenticate(admin *models.Admin, password, totpCode string, now time.Time) error {
	if admin == nil {
		VerifyNothing(password)
		return ErrInvalidCredentials
	}
	if !VerifyPassword(password, admin.PasswordHash) {
		return ErrInvalidCredentials
	}
	if admin.HasTOTP() && !VerifyTOTP(totpCode, *admin.TOTPSecret, now) {
		return ErrInvalidCredentials
	}
	return nil
}
