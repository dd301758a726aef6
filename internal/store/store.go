// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for blog posts and admin
// accounts. Each store struct wraps a *sql.DB and exposes typed query methods.
// Lookups return (nil, nil) when the record does not exist.
package store

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicateSlug is returned when a write collides with the
	// blogs_slug_key constraint.
	ErrDuplicateSlug = errors.New("duplicate slug")
	// ErrDuplicateAdmin is returned when an admin username or email is taken.
	ErrDuplicateAdmin = errors.New("duplicate admin")
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique violation, optionally
// restricted to the named constraints.
func isUniqueViolation(err error, constraints ...string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	if len(constraints) == 0 {
		return true
	}
	for _, c := range constraints {
		if pgErr.ConstraintName == c {
			return true
		}
	}
	return false
}

// nullTime maps the zero time to SQL NULL so column defaults apply.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
