// Package sanitize strips markup from free text before it is stored.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`[ \t]+`)
	entityReplacer  = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&amp;", "&",
		"&quot;", "\"",
		"&#39;", "'",
	)
)

// Text removes HTML tags, decodes the common entities, strips again to catch
// encoded tags and collapses runs of spaces. Newlines are kept.
func Text(s string) string {
	out := htmlTagRegex.ReplaceAllString(s, "")
	out = entityReplacer.Replace(out)
	out = htmlTagRegex.ReplaceAllString(out, "")
	out = whitespaceRegex.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// TextPtr sanitizes an optional string.
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Text(*s)
	return &result
}
