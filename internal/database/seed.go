// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

const welcomeContent = `Welcome to your new blog.

This post was created automatically because the database was empty.
Log in with an account made by ` + "`unfoldingmind admin create`" + ` to edit or delete it.`

// Seed populates an empty development database with a single published
// welcome post so the public endpoints have something to return.
// Admin accounts are never seeded; use the "admin create" command.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM blogs").Scan(&count); err != nil {
		return fmt.Errorf("seed check blogs: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// ON CONFLICT keeps a concurrent seed from failing on the slug constraint.
	_, err := db.Exec(`
		INSERT INTO blogs (title, slug, content, excerpt, is_published)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (slug) DO NOTHING
	`, "Hello World", "hello-world", welcomeContent, "Your blog is up and running.")
	if err != nil {
		return fmt.Errorf("seed insert welcome post: %w", err)
	}

	slog.Info("database seeded with welcome post", "slug", "hello-world")
	return nil
}
