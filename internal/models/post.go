// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import "time"

// Post is a blog post. Drafts (IsPublished == false) are only visible
// through the admin API.
type Post struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Content         string    `json:"content"`
	Excerpt         *string   `json:"excerpt"`
	IsPublished     bool      `json:"is_published"`
	PublicationDate time.Time `json:"publication_date"`
	LastUpdated     time.Time `json:"last_updated"`
}

// Summary returns the excerpt, or an empty string when none is set.
func (p *Post) Summary() string {
	if p.Excerpt == nil {
		return ""
	}
	return *p.Excerpt
}
