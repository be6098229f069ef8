package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	applog "github.com/janisto/filif-api/internal/platform/logging"
)

func decodeProblem(t *testing.T, body []byte) problem {
	t.Helper()
	var p problem
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatalf("failed to unmarshal problem: %v", err)
	}
	return p
}

func TestNotFoundHandlerReturnsProblemDetails(t *testing.T) {
	router := chi.NewRouter()
	router.NotFound(NotFoundHandler())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/v1/nope", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != contentTypeProblemJSON {
		t.Fatalf("expected %s, got %q", contentTypeProblemJSON, ct)
	}
	link := resp.Header().Get("Link")
	if !strings.Contains(link, schemaPath) || !strings.Contains(link, "describedBy") {
		t.Fatalf("expected Link header with schema, got %q", link)
	}
	if vary := resp.Header().Get("Vary"); vary != "Accept" {
		t.Fatalf("expected Vary: Accept, got %q", vary)
	}

	p := decodeProblem(t, resp.Body.Bytes())
	if p.Status != http.StatusNotFound || p.Title != "Not Found" {
		t.Fatalf("unexpected problem: %+v", p)
	}
	if !strings.HasSuffix(p.Schema, schemaPath) {
		t.Fatalf("expected $schema, got %q", p.Schema)
	}
	if !strings.Contains(p.Detail, "/v1/nope") {
		t.Fatalf("expected detail to mention path, got %q", p.Detail)
	}
}

func TestMethodNotAllowedListsAllowedMethods(t *testing.T) {
	router := chi.NewRouter()
	router.MethodNotAllowed(MethodNotAllowedHandler())
	router.Get("/v1/profiles", func(http.ResponseWriter, *http.Request) {})
	router.Post("/v1/profiles", func(http.ResponseWriter, *http.Request) {})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/v1/profiles", nil))

	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
	allow := resp.Header().Get("Allow")
	if !strings.Contains(allow, http.MethodGet) || !strings.Contains(allow, http.MethodPost) {
		t.Fatalf("expected Allow to list GET and POST, got %q", allow)
	}
	p := decodeProblem(t, resp.Body.Bytes())
	if !strings.Contains(p.Detail, http.MethodDelete) {
		t.Fatalf("expected detail to mention method, got %q", p.Detail)
	}
}

func TestNotFoundHandlerReturnsCBORWhenAccepted(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("Accept", "application/cbor")
	resp := httptest.NewRecorder()
	NotFoundHandler().ServeHTTP(resp, req)

	if ct := resp.Header().Get("Content-Type"); ct != contentTypeProblemCBOR {
		t.Fatalf("expected %s, got %q", contentTypeProblemCBOR, ct)
	}
	var p problem
	if err := cbor.Unmarshal(resp.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to decode CBOR problem: %v", err)
	}
	if p.Status != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", p.Status)
	}
}

func TestRecovererReturnsProblemDetails(t *testing.T) {
	h := Recoverer()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/v1/profiles", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	p := decodeProblem(t, resp.Body.Bytes())
	if p.Detail != "internal server error" {
		t.Fatalf("unexpected detail %q", p.Detail)
	}
}

func TestRecovererQuotesCorrelationID(t *testing.T) {
	h := chimiddleware.RequestID(applog.RequestLogger()(Recoverer()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))))

	req := httptest.NewRequest(http.MethodGet, "/v1/account", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "req-77")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	p := decodeProblem(t, resp.Body.Bytes())
	if !strings.HasSuffix(p.Detail, "(reference req-77)") {
		t.Fatalf("expected reference in detail, got %q", p.Detail)
	}
}

func TestRecovererRePanicsOnErrAbortHandler(t *testing.T) {
	h := Recoverer()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Fatalf("expected ErrAbortHandler to propagate, got %v", rec)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestRecovererSkipsWriteWhenHeaderAlreadyWritten(t *testing.T) {
	h := Recoverer()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		panic("late")
	}))

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected original status to stand, got %d", resp.Code)
	}
	if resp.Body.Len() != 0 {
		t.Fatalf("expected no problem body, got %q", resp.Body.String())
	}
}

func TestSelectFormat(t *testing.T) {
	tests := []struct {
		accept string
		want   format
	}{
		{"", formatJSON},
		{"*/*", formatJSON},
		{"application/*", formatJSON},
		{"application/json", formatJSON},
		{"application/cbor", formatCBOR},
		{"application/cbor, */*", formatCBOR},
		{"application/json, application/cbor", formatJSON},
		{"application/json;q=0.5, application/cbor", formatCBOR},
		{"application/cbor;q=0", formatJSON},
		{"application/cbor;q=abc", formatJSON},
		{"text/html", formatJSON},
	}
	for _, tt := range tests {
		if got := selectFormat(tt.accept); got != tt.want {
			t.Errorf("selectFormat(%q) = %v, want %v", tt.accept, got, tt.want)
		}
	}
}

func TestSchemaURLHonoursForwardedProto(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://api.example.com/x", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	if got := schemaURL(req); got != "https://api.example.com"+schemaPath {
		t.Fatalf("unexpected schema URL %q", got)
	}
}

func TestEnsureVaryDoesNotDuplicate(t *testing.T) {
	h := http.Header{}
	h.Set("Vary", "Origin, Accept")
	ensureVary(h, "Accept")
	if got := h.Values("Vary"); len(got) != 1 {
		t.Fatalf("expected single Vary value, got %v", got)
	}
}
