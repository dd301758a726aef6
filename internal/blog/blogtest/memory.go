// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blogtest provides an in-memory post repository for tests that
// should not need PostgreSQL.
package blogtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"unfoldingmind/internal/models"
	"unfoldingmind/internal/store"
)

// Memory is an in-memory post repository. It enforces slug uniqueness the
// same way the blogs_slug_key constraint does.
type Memory struct {
	mu     sync.Mutex
	posts  map[int64]models.Post
	nextID int64

	// Now supplies timestamps for inserts and updates.
	Now func() time.Time
}

// NewMemory returns an empty repository.
func NewMemory() *Memory {
	return &Memory{posts: make(map[int64]models.Post), nextID: 1, Now: time.Now}
}

func (m *Memory) sorted(publishedOnly bool) []models.Post {
	posts := []models.Post{}
	for _, p := range m.posts {
		if publishedOnly && !p.IsPublished {
			continue
		}
		posts = append(posts, clone(p))
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].PublicationDate.Equal(posts[j].PublicationDate) {
			return posts[i].PublicationDate.After(posts[j].PublicationDate)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts
}

func (m *Memory) ListPublished(_ context.Context) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(true), nil
}

func (m *Memory) LatestPublished(_ context.Context) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	posts := m.sorted(true)
	if len(posts) == 0 {
		return nil, nil
	}
	return &posts[0], nil
}

func (m *Memory) FindBySlug(_ context.Context, slug string, publishedOnly bool) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.Slug == slug && (p.IsPublished || !publishedOnly) {
			c := clone(p)
			return &c, nil
		}
	}
	return nil, nil
}

func (m *Memory) ListAll(_ context.Context) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(false), nil
}

func (m *Memory) FindByID(_ context.Context, id int64) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	c := clone(p)
	return &c, nil
}

func (m *Memory) SlugTaken(_ context.Context, slug string, excludeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slugTaken(slug, excludeID), nil
}

func (m *Memory) slugTaken(slug string, excludeID int64) bool {
	for id, p := range m.posts {
		if p.Slug == slug && id != excludeID {
			return true
		}
	}
	return false
}

func (m *Memory) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slugTaken(p.Slug, 0) {
		return nil, store.ErrDuplicateSlug
	}

	now := m.Now()
	c := clone(*p)
	c.ID = m.nextID
	m.nextID++
	if c.PublicationDate.IsZero() {
		c.PublicationDate = now
	}
	c.LastUpdated = now
	m.posts[c.ID] = c

	out := clone(c)
	return &out, nil
}

func (m *Memory) Update(_ context.Context, p *models.Post) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.posts[p.ID]
	if !ok {
		return nil, nil
	}
	if m.slugTaken(p.Slug, p.ID) {
		return nil, store.ErrDuplicateSlug
	}

	c := clone(*p)
	if c.PublicationDate.IsZero() {
		c.PublicationDate = old.PublicationDate
	}
	c.LastUpdated = m.Now()
	m.posts[c.ID] = c

	out := clone(c)
	return &out, nil
}

func (m *Memory) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return false, nil
	}
	delete(m.posts, id)
	return true, nil
}

// clone copies p so callers cannot mutate stored state through Excerpt.
func clone(p models.Post) models.Post {
	if p.Excerpt != nil {
		e := *p.Excerpt
		p.Excerpt = &e
	}
	return p
}
