package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/fxamacker/cbor/v2"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/janisto/filif-api/internal/http/health"
	"github.com/janisto/filif-api/internal/platform/auth"
	"github.com/janisto/filif-api/internal/platform/config"
	accountsvc "github.com/janisto/filif-api/internal/service/account"
	"github.com/janisto/filif-api/internal/service/activity"
	"github.com/janisto/filif-api/internal/service/content"
	"github.com/janisto/filif-api/internal/service/profile"
	"github.com/janisto/filif-api/internal/service/session"
	"github.com/janisto/filif-api/internal/service/shop"
)

func testConfig() *config.Config {
	return &config.Config{Port: "8080", RateLimitPerMinute: 0, MaxProfilesPerAccount: 4}
}

func testApp(checks ...health.Check) *app {
	return &app{
		verifier: &auth.MockVerifier{User: auth.TestUser()},
		activity: activity.NewService(
			session.NewResolver(nil, profile.NewMemoryStore()),
			shop.NewCatalog(shop.NewMemoryPrices()),
			content.NewStaticGenerator(nil),
		),
		accounts: accountsvc.NewService(accountsvc.NewMemoryStore(), nil),
		checks:   checks,
	}
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	if req.Header.Get(chimiddleware.RequestIDHeader) == "" {
		req.Header.Set(chimiddleware.RequestIDHeader, "test-req")
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func TestHealth(t *testing.T) {
	srv := newRouter(testConfig(), testApp(health.Check{
		Name: "local",
		Ping: func(context.Context) error { return nil },
	}))
	resp := serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", resp.Code)
	}
	var body health.Response
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body.Status != "healthy" || body.Checks["local"] != "ok" {
		t.Fatalf("unexpected health %+v", body)
	}
	if resp.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("expected security headers on health")
	}
}

func TestHealthDegraded(t *testing.T) {
	srv := newRouter(testConfig(), testApp(health.Check{
		Name: "redis",
		Ping: func(context.Context) error { return errors.New("connection refused") },
	}))
	resp := serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body health.Response
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Code != http.StatusOK || body.Status != "degraded" || body.Checks["redis"] != "unavailable" {
		t.Fatalf("unexpected health %d %+v", resp.Code, body)
	}
}

func TestNotFoundReturnsProblemDetails(t *testing.T) {
	srv := newRouter(testConfig(), testApp())
	for _, path := range []string{"/missing", "/v1/missing"} {
		resp := serve(srv, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404 got %d", path, resp.Code)
		}
		if ct := resp.Header().Get("Content-Type"); ct != "application/problem+json" {
			t.Fatalf("%s: expected application/problem+json, got %q", path, ct)
		}
	}
}

func TestMethodNotAllowedReturnsProblemDetails(t *testing.T) {
	srv := newRouter(testConfig(), testApp())
	resp := serve(srv, httptest.NewRequest(http.MethodPost, "/health", nil))

	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", resp.Code)
	}
	if allow := resp.Header().Get("Allow"); !strings.Contains(allow, http.MethodGet) {
		t.Fatalf("expected Allow header to list GET, got %q", allow)
	}
	var problem huma.ErrorModel
	if err := json.Unmarshal(resp.Body.Bytes(), &problem); err != nil {
		t.Fatalf("failed to unmarshal 405 response: %v", err)
	}
	if problem.Title != "Method Not Allowed" {
		t.Fatalf("unexpected title: %s", problem.Title)
	}
}

func TestRecovererReturnsProblemDetails(t *testing.T) {
	srv := newRouter(testConfig(), testApp())
	srv.Get("/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })
	resp := serve(srv, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
	var problem huma.ErrorModel
	if err := json.Unmarshal(resp.Body.Bytes(), &problem); err != nil {
		t.Fatalf("failed to unmarshal 500 response: %v", err)
	}
	if !strings.HasPrefix(problem.Detail, "internal server error (reference ") {
		t.Fatalf("expected detail quoting the request reference, got %s", problem.Detail)
	}
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	srv := newRouter(testConfig(), testApp())

	resp := serve(srv, httptest.NewRequest(http.MethodGet, "/v1/profiles", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	resp = serve(srv, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if src := resp.Header().Get("X-Data-Source"); src != "fallback" {
		t.Fatalf("expected fallback source without a remote store, got %q", src)
	}
}

func TestCreateProfileLocation(t *testing.T) {
	srv := newRouter(testConfig(), testApp())
	req := httptest.NewRequest(http.MethodPost, "/v1/profiles", strings.NewReader(`{"name":"Ana","type":"KIDS"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer valid-token")
	resp := serve(srv, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	loc := resp.Header().Get("Location")
	if !strings.HasPrefix(loc, "/v1/profiles/") {
		t.Fatalf("unexpected Location %q", loc)
	}

	get := httptest.NewRequest(http.MethodGet, loc, nil)
	get.Header.Set("Authorization", "Bearer valid-token")
	if resp := serve(srv, get); resp.Code != http.StatusOK {
		t.Fatalf("expected Location to resolve, got %d", resp.Code)
	}
}

func TestCBORResponse(t *testing.T) {
	srv := newRouter(testConfig(), testApp())
	req := httptest.NewRequest(http.MethodGet, "/v1/account", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	req.Header.Set("Accept", "application/cbor")
	resp := serve(srv, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/cbor" {
		t.Fatalf("expected application/cbor, got %q", ct)
	}
	var body map[string]any
	if err := cbor.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode CBOR: %v", err)
	}
	if body["id"] != auth.TestUser().UID {
		t.Fatalf("unexpected account %+v", body)
	}
}

func TestWildcardAcceptReturnsJSON(t *testing.T) {
	srv := newRouter(testConfig(), testApp())
	for _, accept := range []string{"*/*", "application/*", "text/plain", ""} {
		req := httptest.NewRequest(http.MethodGet, "/v1/shop/items", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		if accept != "" {
			req.Header.Set("Accept", accept)
		}
		resp := serve(srv, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("accept %q: expected 200, got %d", accept, resp.Code)
		}
		if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("accept %q: expected application/json, got %q", accept, ct)
		}
	}
}

func TestRateLimitAppliesToAPI(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMinute = 2
	srv := newRouter(cfg, testApp())

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/v1/shop/items", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		codes = append(codes, serve(srv, req).Code)
	}
	if codes[0] != http.StatusOK || codes[len(codes)-1] != http.StatusTooManyRequests {
		t.Fatalf("expected the burst to run out, got %v", codes)
	}

	for range 3 {
		if resp := serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil)); resp.Code != http.StatusOK {
			t.Fatalf("health must not be rate limited, got %d", resp.Code)
		}
	}
}

func TestOpenAPIDocument(t *testing.T) {
	srv := newRouter(testConfig(), testApp())
	resp := serve(srv, httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	type media map[string]json.RawMessage
	var doc struct {
		Components struct {
			SecuritySchemes map[string]struct {
				Type   string `json:"type"`
				Scheme string `json:"scheme"`
			} `json:"securitySchemes"`
		} `json:"components"`
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &doc); err != nil {
		t.Fatalf("failed to unmarshal OpenAPI: %v", err)
	}
	if scheme, ok := doc.Components.SecuritySchemes["bearerAuth"]; !ok || scheme.Scheme != "bearer" {
		t.Fatalf("expected bearerAuth scheme, got %+v", doc.Components.SecuritySchemes)
	}
	var op struct {
		RequestBody *struct {
			Content media `json:"content"`
		} `json:"requestBody"`
		Responses map[string]struct {
			Content media `json:"content"`
		} `json:"responses"`
	}
	raw, ok := doc.Paths["/profiles"]["post"]
	if ok {
		if err := json.Unmarshal(raw, &op); err != nil {
			t.Fatalf("decoding POST /profiles: %v", err)
		}
	}
	if !ok || op.RequestBody == nil {
		t.Fatal("expected POST /profiles with a request body")
	}
	if _, ok := op.RequestBody.Content["application/cbor"]; !ok {
		t.Fatal("expected application/cbor in request body content")
	}
	if _, ok := op.Responses["201"].Content["application/cbor"]; !ok {
		t.Fatal("expected application/cbor in 201 response content")
	}
}

func TestNewGenerator(t *testing.T) {
	cfg := testConfig()
	cfg.ContentProvider = config.ContentStatic
	g, err := newGenerator(cfg)
	if err != nil {
		t.Fatalf("newGenerator: %v", err)
	}
	if _, ok := g.(*content.StaticGenerator); !ok {
		t.Fatalf("expected static generator, got %T", g)
	}

	t.Setenv("OLLAMA_HOST", "http://127.0.0.1:1")
	cfg.ContentProvider = config.ContentOllama
	cfg.OllamaTimeout = 50 * time.Millisecond
	g, err = newGenerator(cfg)
	if err != nil {
		t.Fatalf("newGenerator: %v", err)
	}
	if _, ok := g.(content.Fallback); !ok {
		t.Fatalf("expected fallback generator, got %T", g)
	}
	theme, err := g.ArtTheme(context.Background(), profile.TypeKids, "")
	if err != nil || theme.Title == "" {
		t.Fatalf("expected built-in theme when the model is down, got %+v, %v", theme, err)
	}
}

func TestAppCloseRunsInReverse(t *testing.T) {
	var order []string
	a := &app{closers: []func() error{
		func() error { order = append(order, "first"); return nil },
		func() error { order = append(order, "second"); return errors.New("boom") },
	}}
	err := a.Close()
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected joined error, got %v", err)
	}
	if strings.Join(order, ",") != "second,first" {
		t.Fatalf("unexpected close order %v", order)
	}
}
