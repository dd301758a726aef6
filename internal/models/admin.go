// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Admin is an administrator account allowed to manage posts.
type Admin struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	TOTPSecret   *string   `json:"-"` // Nullable; set by "admin create --totp"
	CreatedAt    time.Time `json:"created_at"`
}

// HasTOTP reports whether logins for this account require a TOTP code.
func (a *Admin) HasTOTP() bool {
	return a.TOTPSecret != nil && *a.TOTPSecret != ""
}
