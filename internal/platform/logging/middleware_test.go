package logging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAccessLoggerLevelsByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusCreated, zapcore.InfoLevel},
		{http.StatusNotFound, zapcore.WarnLevel},
		{http.StatusConflict, zapcore.WarnLevel},
		{http.StatusServiceUnavailable, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			access := AccessLogger()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))

			req := httptest.NewRequest(http.MethodPost, "/v1/profiles/p1/purchases", nil)
			req = req.WithContext(ContextWithLogger(req.Context(), zap.New(core)))
			access.ServeHTTP(httptest.NewRecorder(), req)

			entries := logs.FilterMessage("request completed").All()
			if len(entries) != 1 {
				t.Fatalf("expected 1 access entry, got %d", len(entries))
			}
			e := entries[0]
			if e.Level != tt.level {
				t.Fatalf("expected level %s, got %s", tt.level, e.Level)
			}
			fields := e.ContextMap()
			if fields["status"] != int64(tt.status) || fields["path"] != "/v1/profiles/p1/purchases" {
				t.Fatalf("unexpected fields %v", fields)
			}
			if _, ok := fields["duration"]; !ok {
				t.Fatal("expected duration field")
			}
		})
	}
}

func TestAccessLoggerDefaultsToOK(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	access := AccessLogger()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req = req.WithContext(ContextWithLogger(req.Context(), zap.New(core)))
	access.ServeHTTP(httptest.NewRecorder(), req)

	if got := logs.All()[0].ContextMap()["status"]; got != int64(http.StatusOK) {
		t.Fatalf("expected status 200 for an empty handler, got %v", got)
	}
}

func TestRequestLoggerKeepsOuterLogger(t *testing.T) {
	pinProjectID(t, "")
	core, logs := observer.New(zapcore.InfoLevel)

	handler := RequestLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		LogInfo(r.Context(), "inside")
	}))
	withID := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), chimiddleware.RequestIDKey, "req-42")
			ctx = ContextWithLogger(ctx, zap.New(core))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}(handler)

	withID.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	entries := logs.FilterMessage("inside").All()
	if len(entries) != 1 {
		t.Fatalf("expected the outer logger to receive the entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["requestId"] != "req-42" {
		t.Fatalf("expected requestId field, got %v", entries[0].ContextMap())
	}
}

func TestRequestLoggerStoresTraceCorrelation(t *testing.T) {
	pinProjectID(t, "filif")

	var got string
	handler := RequestLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CorrelationID(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(traceparentHeader, sampledHeader)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "projects/filif/traces/3d23d071b5bfd6579171efce907685cb" {
		t.Fatalf("unexpected correlation id %q", got)
	}
}

func TestRequestLoggerFallsBackToRequestID(t *testing.T) {
	pinProjectID(t, "")

	var got string
	inner := RequestLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CorrelationID(r.Context())
	}))
	handler := chimiddleware.RequestID(inner)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == "" {
		t.Fatal("expected the request id as correlation id")
	}
}
