package pagination

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
)

// Page sizes accepted by list endpoints.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Params is embedded in the input of every paginated operation.
type Params struct {
	Cursor string `query:"cursor" doc:"Opaque cursor taken from a Link header"`
	Limit  int    `query:"limit"  doc:"Entries per page" default:"20" minimum:"1" maximum:"100"`
}

// DefaultLimit returns the page size, clamped to 1..MaxPageSize. Zero means the default.
func (p Params) DefaultLimit() int {
	if p.Limit <= 0 {
		return DefaultPageSize
	}
	return min(p.Limit, MaxPageSize)
}

// BuildLinkHeader returns an RFC 8288 Link header with next and prev relations.
// query is copied, never modified, and its other parameters are kept in both links.
func BuildLinkHeader(path string, query url.Values, nextCursor, prevCursor string) string {
	rels := []struct{ name, cursor string }{{"next", nextCursor}, {"prev", prevCursor}}
	links := make([]string, 0, len(rels))
	for _, rel := range rels {
		if rel.cursor == "" {
			continue
		}
		q := withCursor(query, rel.cursor)
		links = append(links, fmt.Sprintf("<%s?%s>; rel=%q", path, q.Encode(), rel.name))
	}
	return strings.Join(links, ", ")
}

func withCursor(query url.Values, cursor string) url.Values {
	q := make(url.Values, len(query)+1)
	for k, vals := range maps.All(query) {
		q[k] = slices.Clone(vals)
	}
	q.Set("cursor", cursor)
	return q
}
