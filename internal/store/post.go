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

// postColumns is the select list shared by every post query; scanPost
// reads it in the same order.
const postColumns = `id, title, slug, content, excerpt, is_published, publication_date, last_updated`

// PostStore handles all blog post database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*models.Post, error) {
	p := &models.Post{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt,
		&p.IsPublished, &p.PublicationDate, &p.LastUpdated,
	)
	return p, err
}

func (s *PostStore) list(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (s *PostStore) find(ctx context.Context, query string, args ...any) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPublished returns all published posts, newest publication date first.
func (s *PostStore) ListPublished(ctx context.Context) ([]models.Post, error) {
	posts, err := s.list(ctx, `
		SELECT `+postColumns+`
		FROM blogs
		WHERE is_published
		ORDER BY publication_date DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return posts, nil
}

// LatestPublished returns the most recent published post, or nil if
// nothing is published.
func (s *PostStore) LatestPublished(ctx context.Context) (*models.Post, error) {
	p, err := s.find(ctx, `
		SELECT `+postColumns+`
		FROM blogs
		WHERE is_published
		ORDER BY publication_date DESC, id DESC
		LIMIT 1
	`)
	if err != nil {
		return nil, fmt.Errorf("find latest published post: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a post by its slug. With publishedOnly set, drafts
// are treated as absent.
func (s *PostStore) FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Post, error) {
	p, err := s.find(ctx, `
		SELECT `+postColumns+`
		FROM blogs
		WHERE slug = $1 AND (is_published OR NOT $2)
	`, slug, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// ListAll returns every post, drafts included, newest publication date first.
func (s *PostStore) ListAll(ctx context.Context) ([]models.Post, error) {
	posts, err := s.list(ctx, `
		SELECT `+postColumns+`
		FROM blogs
		ORDER BY publication_date DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// FindByID retrieves a post by its ID regardless of publish state.
func (s *PostStore) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	p, err := s.find(ctx, `SELECT `+postColumns+` FROM blogs WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// SlugTaken reports whether any post other than excludeID uses slug.
// Pass 0 to check against every post.
func (s *PostStore) SlugTaken(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM blogs WHERE slug = $1 AND id <> $2)
	`, slug, excludeID).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return taken, nil
}

// Create inserts a new post and returns it with the generated ID and
// timestamps. A zero PublicationDate defaults to the insert time.
// Returns ErrDuplicateSlug if the slug is already in use.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	created, err := scanPost(s.db.QueryRowContext(ctx, `
		INSERT INTO blogs (title, slug, content, excerpt, is_published, publication_date)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Content, p.Excerpt, p.IsPublished, nullTime(p.PublicationDate),
	))
	if isUniqueViolation(err, "blogs_slug_key") {
		return nil, ErrDuplicateSlug
	}
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// Update overwrites every editable column of the post with the given ID in
// a single statement and refreshes last_updated. Returns (nil, nil) if the
// post no longer exists and ErrDuplicateSlug on a slug collision.
func (s *PostStore) Update(ctx context.Context, p *models.Post) (*models.Post, error) {
	updated, err := scanPost(s.db.QueryRowContext(ctx, `
		UPDATE blogs SET
			title = $1, slug = $2, content = $3, excerpt = $4,
			is_published = $5, publication_date = COALESCE($6, publication_date),
			last_updated = NOW()
		WHERE id = $7
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Content, p.Excerpt, p.IsPublished, nullTime(p.PublicationDate), p.ID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if isUniqueViolation(err, "blogs_slug_key") {
		return nil, ErrDuplicateSlug
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return updated, nil
}

// Delete removes a post by ID and reports whether a row was deleted.
func (s *PostStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete post rows: %w", err)
	}
	return n > 0, nil
}
