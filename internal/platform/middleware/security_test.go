package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSecuritySetsHeaders(t *testing.T) {
	h := Security("/v1/api-docs")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/v1/profiles", nil))

	if resp.Code != http.StatusTeapot {
		t.Fatalf("expected downstream status, got %d", resp.Code)
	}
	for _, kv := range securityHeaders {
		if got := resp.Header().Get(kv[0]); got != kv[1] {
			t.Errorf("%s: expected %q, got %q", kv[0], kv[1], got)
		}
	}
}

func TestSecurityLetsHandlersOverride(t *testing.T) {
	h := Security()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Cache-Control", "max-age=60")
	}))
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/v1/shop/items", nil))

	if got := resp.Header().Get("Cache-Control"); got != "max-age=60" {
		t.Fatalf("expected handler value to win, got %q", got)
	}
}

func TestSecuritySkipsDocs(t *testing.T) {
	h := Security("/v1/api-docs", "/v1/openapi")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	for _, path := range []string{"/v1/api-docs", "/v1/api-docs/index.html", "/v1/openapi.json"} {
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if got := resp.Header().Get("X-Frame-Options"); got != "" {
			t.Errorf("%s: expected no security headers, got X-Frame-Options %q", path, got)
		}
	}
}
