package middleware

import (
	"net/http"
	"strings"
)

// Vary adds headers to the Vary response header, Accept when none are given, since
// responses are negotiated between JSON and CBOR. Values already present are not repeated.
func Vary(headers ...string) func(http.Handler) http.Handler {
	if len(headers) == 0 {
		headers = []string{"Accept"}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, name := range headers {
				if !varies(h, name) {
					h.Add("Vary", name)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func varies(h http.Header, name string) bool {
	for _, line := range h.Values("Vary") {
		for v := range strings.SplitSeq(line, ",") {
			if strings.EqualFold(strings.TrimSpace(v), name) {
				return true
			}
		}
	}
	return false
}
