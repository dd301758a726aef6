// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"strings"
	"unicode/utf8"

	"unfoldingmind/internal/slug"
)

// Validation limits for post fields.
const (
	maxTitleLen   = 300
	maxSlugLen    = 300
	maxContentLen = 200_000
	maxExcerptLen = 1_000
)

// ValidationError is returned when caller input is rejected. Its message is
// safe to show to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// errNoSlug is returned when neither the caller nor the title yields a slug.
var errNoSlug = invalid("Title or slug must be provided.")

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return invalid("Title is required.")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return invalid("Title is too long (max 300 characters).")
	}
	return nil
}

// validateSlug checks a caller-supplied slug. Derived slugs are valid by
// construction and only need the length check.
func validateSlug(s string) error {
	if utf8.RuneCountInString(s) > maxSlugLen {
		return invalid("Slug is too long (max 300 characters).")
	}
	if !slug.Valid(s) {
		return invalid("Slug may only contain lowercase letters, digits, and single hyphens.")
	}
	return nil
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return invalid("Content is required.")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return invalid("Content is too long (max 200,000 characters).")
	}
	return nil
}

func validateExcerpt(excerpt *string) error {
	if excerpt != nil && utf8.RuneCountInString(*excerpt) > maxExcerptLen {
		return invalid("Excerpt is too long (max 1,000 characters).")
	}
	return nil
}

// normalizeExcerpt maps a blank excerpt to nil.
func normalizeExcerpt(excerpt *string) *string {
	if excerpt == nil || strings.TrimSpace(*excerpt) == "" {
		return nil
	}
	return excerpt
}

// notNull rejects an explicit JSON null for a field that cannot be null.
func notNull[T any](field string, o Optional[T]) error {
	if o.Set && o.Null {
		return invalid(field + " may not be null.")
	}
	return nil
}
