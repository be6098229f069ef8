// Package sanitize cleans user-supplied display text.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes all markup from s and trims surrounding whitespace. Entities produced by
// the policy are decoded again so names like "Zoë & Ana" survive unchanged.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
