package pagination

import (
	"fmt"
	"net/url"
	"strconv"
)

// Listing describes one paginated collection.
type Listing[T any] struct {
	Kind  string         // cursor kind, e.g. "gallery"
	ID    func(T) string // stable id of an entry
	Path  string         // request path used in Link headers
	Query url.Values     // extra query parameters kept in links
}

// Result is one page of a listing.
type Result[T any] struct {
	Items      []T
	Total      int
	LinkHeader string
	NextCursor string
	PrevCursor string
}

// Page decodes the cursor in p and returns the page of items that follows it.
// Cursors of another kind or pointing at a vanished entry are rejected.
func Page[T any](items []T, p Params, l Listing[T]) (Result[T], error) {
	cursor, err := DecodeCursor(p.Cursor)
	if err != nil {
		return Result[T]{}, err
	}
	if p.Cursor != "" && cursor.Kind != l.Kind {
		return Result[T]{}, fmt.Errorf("%w: %q", ErrCursorKind, cursor.Kind)
	}

	start := 0
	if cursor.After != "" {
		start = -1
		for i, item := range items {
			if l.ID(item) == cursor.After {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return Result[T]{}, ErrCursorStale
		}
	}
	return paginate(items, start, p.DefaultLimit(), l), nil
}

func paginate[T any](items []T, start, limit int, l Listing[T]) Result[T] {
	total := len(items)
	end := min(start+limit, total)
	page := items[start:end]

	var next, prev string
	if end < total && len(page) > 0 {
		next = Cursor{Kind: l.Kind, After: l.ID(page[len(page)-1])}.Encode()
	}
	if start > 0 {
		after := ""
		if start > limit {
			after = l.ID(items[start-limit-1])
		}
		prev = Cursor{Kind: l.Kind, After: after}.Encode()
	}

	q := url.Values{"limit": {strconv.Itoa(limit)}}
	for k, vals := range l.Query {
		if k != "limit" {
			q[k] = vals
		}
	}

	return Result[T]{
		Items:      page,
		Total:      total,
		LinkHeader: BuildLinkHeader(l.Path, q, next, prev),
		NextCursor: next,
		PrevCursor: prev,
	}
}
