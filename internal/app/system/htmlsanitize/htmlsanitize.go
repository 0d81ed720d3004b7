// Package htmlsanitize strips markup from user-supplied text before it is
// stored. Highlights and exports render stored text, so it must not carry
// tags of its own.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// maxPasses bounds how many layers of entity encoding are peeled.
const maxPasses = 8

// PlainText removes all tags and trims surrounding space. Entities are
// decoded so "R&D" survives unchanged, and the decoded text is sanitized
// again until it is stable, so "&lt;script&gt;" cannot turn into a tag.
// Text still changing after maxPasses keeps its entities encoded.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	for range maxPasses {
		clean := strict.Sanitize(s)
		out := html.UnescapeString(clean)
		if out == s {
			return strings.TrimSpace(out)
		}
		s = out
	}
	return strings.TrimSpace(strict.Sanitize(s))
}
