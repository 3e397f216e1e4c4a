package common

import (
	"errors"
	"regexp"
	"strings"
)

// MaxSlugLength matches the width operators see in the leads.source column.
const MaxSlugLength = 64

var (
	ErrEmptySlug = errors.New("slug cannot be empty")
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify lowercases input into a dash-separated token, falling back to fallback when
// input has no usable characters. Results longer than MaxSlugLength are cut on a
// dash boundary where possible.
func Slugify(input, fallback string) (string, error) {
	slug := slugify(input)
	if slug == "" {
		slug = slugify(fallback)
	}
	if slug == "" {
		return "", ErrEmptySlug
	}
	return truncateSlug(slug), nil
}

func slugify(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	slug := nonSlugChars.ReplaceAllString(lower, "-")
	return strings.Trim(slug, "-")
}

func truncateSlug(slug string) string {
	if len(slug) <= MaxSlugLength {
		return slug
	}
	cut := slug[:MaxSlugLength]
	if i := strings.LastIndex(cut, "-"); i > MaxSlugLength/2 {
		cut = cut[:i]
	}
	return strings.Trim(cut, "-")
}
