// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blog implements the post rules shared by the public and admin
// APIs: input validation, slug assignment, and uniqueness.
package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"unfoldingmind/internal/models"
	"unfoldingmind/internal/slug"
	"unfoldingmind/internal/store"
)

var (
	// ErrNotFound is returned when a post does not exist or is not visible
	// to the caller.
	ErrNotFound = errors.New("blog not found")
	// ErrSlugConflict is returned when another post already uses the slug.
	ErrSlugConflict = errors.New("a blog with this slug already exists")
)

// Repository is the persistence the service needs. *store.PostStore
// satisfies it. Lookups return (nil, nil) when nothing matches, and writes
// return store.ErrDuplicateSlug on a slug collision.
type Repository interface {
	ListPublished(ctx context.Context) ([]models.Post, error)
	LatestPublished(ctx context.Context) (*models.Post, error)
	FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Post, error)
	ListAll(ctx context.Context) ([]models.Post, error)
	FindByID(ctx context.Context, id int64) (*models.Post, error)
	SlugTaken(ctx context.Context, slug string, excludeID int64) (bool, error)
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	Update(ctx context.Context, p *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// CreateInput is the body of a create request. An absent or empty Slug is
// derived from Title. A nil PublicationDate means now.
type CreateInput struct {
	Title           string     `json:"title"`
	Slug            *string    `json:"slug"`
	Content         string     `json:"content"`
	Excerpt         *string    `json:"excerpt"`
	IsPublished     bool       `json:"is_published"`
	PublicationDate *Timestamp `json:"publication_date"`
}

// UpdateInput is the body of a partial update. Only fields present in the
// request are applied. Excerpt may be null to clear it; the other fields
// reject null.
type UpdateInput struct {
	Title           Optional[string]    `json:"title"`
	Slug            Optional[string]    `json:"slug"`
	Content         Optional[string]    `json:"content"`
	Excerpt         Optional[string]    `json:"excerpt"`
	IsPublished     Optional[bool]      `json:"is_published"`
	PublicationDate Optional[Timestamp] `json:"publication_date"`
}

// Service applies the post rules on top of a Repository.
type Service struct {
	repo        Repository
	followTitle bool
	now         func() time.Time
}

// NewService creates a Service. When followTitle is true an update that
// changes the title without naming a slug re-derives the slug.
func NewService(repo Repository, followTitle bool) *Service {
	return &Service{repo: repo, followTitle: followTitle, now: time.Now}
}

// ListPublished returns published posts, newest first.
func (s *Service) ListPublished(ctx context.Context) ([]models.Post, error) {
	return s.repo.ListPublished(ctx)
}

// Latest returns the newest published post, or nil when there is none.
func (s *Service) Latest(ctx context.Context) (*models.Post, error) {
	return s.repo.LatestPublished(ctx)
}

// GetPublished returns the published post with the given slug. Drafts and
// missing posts both yield ErrNotFound.
func (s *Service) GetPublished(ctx context.Context, slug string) (*models.Post, error) {
	p, err := s.repo.FindBySlug(ctx, slug, true)
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// ListAll returns every post including drafts, newest first.
func (s *Service) ListAll(ctx context.Context) ([]models.Post, error) {
	return s.repo.ListAll(ctx)
}

// Get returns any post by ID.
func (s *Service) Get(ctx context.Context, id int64) (*models.Post, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// Create validates the input, assigns a slug, and stores a new post.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Post, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validateContent(in.Content); err != nil {
		return nil, err
	}
	if err := validateExcerpt(in.Excerpt); err != nil {
		return nil, err
	}

	p := &models.Post{
		Title:       strings.TrimSpace(in.Title),
		Content:     in.Content,
		Excerpt:     normalizeExcerpt(in.Excerpt),
		IsPublished: in.IsPublished,
	}

	if in.Slug != nil && *in.Slug != "" {
		if err := validateSlug(*in.Slug); err != nil {
			return nil, err
		}
		p.Slug = *in.Slug
	} else {
		derived, err := derive(p.Title)
		if err != nil {
			return nil, err
		}
		p.Slug = derived
	}

	if in.PublicationDate != nil {
		p.PublicationDate = in.PublicationDate.Time
	} else {
		p.PublicationDate = s.now().UTC().Truncate(time.Microsecond)
	}

	taken, err := s.repo.SlugTaken(ctx, p.Slug, 0)
	if err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}
	if taken {
		return nil, ErrSlugConflict
	}

	created, err := s.repo.Create(ctx, p)
	if errors.Is(err, store.ErrDuplicateSlug) {
		return nil, ErrSlugConflict
	}
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// Update applies the fields present in the input to the post with the
// given ID.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*models.Post, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	if current == nil {
		return nil, ErrNotFound
	}

	next := *current
	if in.Title.Set {
		next.Title = strings.TrimSpace(in.Title.Value)
	}
	if in.Content.Set {
		next.Content = in.Content.Value
	}
	if in.Excerpt.Set {
		if in.Excerpt.Null {
			next.Excerpt = nil
		} else {
			next.Excerpt = normalizeExcerpt(&in.Excerpt.Value)
		}
	}
	if in.IsPublished.Set {
		next.IsPublished = in.IsPublished.Value
	}
	if in.PublicationDate.Set {
		next.PublicationDate = in.PublicationDate.Value.Time
	}

	switch {
	case in.Slug.Set && in.Slug.Value != "":
		next.Slug = in.Slug.Value
	case in.Slug.Set, in.Title.Set && s.followTitle:
		derived, err := derive(next.Title)
		if err != nil {
			return nil, err
		}
		next.Slug = derived
	}

	if next.Slug != current.Slug {
		taken, err := s.repo.SlugTaken(ctx, next.Slug, id)
		if err != nil {
			return nil, fmt.Errorf("check slug: %w", err)
		}
		if taken {
			return nil, ErrSlugConflict
		}
	}

	updated, err := s.repo.Update(ctx, &next)
	if errors.Is(err, store.ErrDuplicateSlug) {
		return nil, ErrSlugConflict
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Delete removes the post with the given ID.
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (in *UpdateInput) validate() error {
	for _, err := range []error{
		notNull("title", in.Title),
		notNull("slug", in.Slug),
		notNull("content", in.Content),
		notNull("is_published", in.IsPublished),
		notNull("publication_date", in.PublicationDate),
	} {
		if err != nil {
			return err
		}
	}
	if in.Title.Set {
		if err := validateTitle(in.Title.Value); err != nil {
			return err
		}
	}
	if in.Slug.Set && in.Slug.Value != "" {
		if err := validateSlug(in.Slug.Value); err != nil {
			return err
		}
	}
	if in.Content.Set {
		if err := validateContent(in.Content.Value); err != nil {
			return err
		}
	}
	if in.Excerpt.Set && !in.Excerpt.Null {
		return validateExcerpt(&in.Excerpt.Value)
	}
	return nil
}

// derive builds a slug from a title.
func derive(title string) (string, error) {
	s := slug.Generate(title)
	if s == "" {
		return "", errNoSlug
	}
	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "-")
	}
	return s, nil
}
