package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips all markup from citizen supplied text, decodes the
// entities bluemonday leaves behind and collapses runs of whitespace.
func SanitizeText(s string) string {
	cleaned := html.UnescapeString(strictPolicy.Sanitize(s))
	return strings.Join(strings.Fields(cleaned), " ")
}

// SanitizeOptional applies SanitizeText to a non-nil pointer.
func SanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := SanitizeText(*s)
	return &cleaned
}
