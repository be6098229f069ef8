package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var (
	corsMethods = []string{
		http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}
	corsRequestHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "traceparent"}
	// X-Data-Source tells clients whether profile data came from the remote store
	// or the local fallback.
	corsExposedHeaders = []string{"Link", "Location", "X-Request-Id", "X-Data-Source"}
)

// CORS admits browser calls from origins; none means any origin. Credentials are
// never allowed since callers authenticate with bearer tokens.
func CORS(origins ...string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: corsMethods,
		AllowedHeaders: corsRequestHeaders,
		ExposedHeaders: corsExposedHeaders,
		MaxAge:         300,
	})
}
