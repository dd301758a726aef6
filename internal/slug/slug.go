// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"regexp"
	"strings"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches runs of anything that isn't an ASCII letter or digit.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// valid matches a well-formed slug: lowercase words joined by single hyphens.
	valid = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Generate creates a URL-friendly slug from the given string. Text in any
// script is transliterated to ASCII first; apostrophes and punctuation
// become separators, so "Don't Stop" gives "don-t-stop". Characters with
// no ASCII rendering (most emoji) are dropped, so the result may be empty.
// Example: "Привет мир, 2026!" → "privet-mir-2026"
func Generate(s string) string {
	result := strings.ToLower(transliterate(s))
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Valid reports whether s is already a well-formed slug.
func Valid(s string) bool {
	return valid.MatchString(s)
}

// transliterate folds s to its closest ASCII spelling. NFKC first maps
// compatibility forms (ligatures, full-width letters) and recomposes
// combining accents so the transliteration tables see single code points.
func transliterate(s string) string {
	return unidecode.Unidecode(norm.NFKC.String(s))
}
