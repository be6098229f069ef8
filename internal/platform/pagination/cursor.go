package pagination

import (
	"encoding/base64"
	"errors"
	"strings"
)

var (
	// ErrInvalidCursor indicates the cursor could not be decoded.
	ErrInvalidCursor = errors.New("invalid cursor format")
	// ErrCursorKind indicates a cursor issued for another listing.
	ErrCursorKind = errors.New("cursor belongs to another listing")
	// ErrCursorStale indicates the cursor points at an entry that no longer exists.
	ErrCursorStale = errors.New("cursor position no longer exists")
)

// Cursor is an opaque position in a listing: the kind of listing and the id of the last entry seen.
type Cursor struct {
	Kind  string
	After string
}

// Encode returns the URL-safe Base64 form.
func (c Cursor) Encode() string {
	return base64.RawURLEncoding.EncodeToString([]byte(c.Kind + ":" + c.After))
}

// DecodeCursor parses an encoded cursor. The empty string is the start of the listing.
func DecodeCursor(s string) (Cursor, error) {
	if s == "" {
		return Cursor{}, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	kind, after, ok := strings.Cut(string(b), ":")
	if !ok {
		return Cursor{}, ErrInvalidCursor
	}
	return Cursor{Kind: kind, After: after}, nil
}
