// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"unfoldingmind/internal/models"
)

// AdminStore handles all admin-account database operations.
type AdminStore struct {
	db *sql.DB
}

// NewAdminStore creates a new AdminStore with the given database connection.
func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

// FindByUsername retrieves an admin by username. Returns nil if not found.
func (s *AdminStore) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	a := &models.Admin{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, totp_secret, created_at
		FROM admin_users WHERE username = $1
	`, username).Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.TOTPSecret, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by username: %w", err)
	}
	return a, nil
}

// Create inserts a new admin. passwordHash must already be hashed; the
// store never sees plaintext passwords. Returns ErrDuplicateAdmin if the
// username or email is taken.
func (s *AdminStore) Create(ctx context.Context, username, email, passwordHash string, totpSecret *string) (*models.Admin, error) {
	a := &models.Admin{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO admin_users (username, email, password_hash, totp_secret)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, email, password_hash, totp_secret, created_at
	`, username, email, passwordHash, totpSecret).Scan(
		&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.TOTPSecret, &a.CreatedAt,
	)
	if isUniqueViolation(err, "admin_users_username_key", "admin_users_email_key") {
		return nil, ErrDuplicateAdmin
	}
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return a, nil
}
