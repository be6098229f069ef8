package logging

import (
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const sampledHeader = "00-3d23d071b5bfd6579171efce907685cb-08f067aa0ba902b7-01"

// pinProjectID fixes the cached project id for the duration of the test.
func pinProjectID(t *testing.T, id string) {
	t.Helper()
	orig := cachedProjectID
	projectIDOnce = sync.Once{}
	projectIDOnce.Do(func() {})
	cachedProjectID = id
	t.Cleanup(func() {
		cachedProjectID = orig
	})
}

func TestParseTraceparent(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		projectID string
		want      traceContext
		ok        bool
	}{
		{
			name:      "sampled",
			header:    sampledHeader,
			projectID: "filif",
			want: traceContext{
				Resource: "projects/filif/traces/3d23d071b5bfd6579171efce907685cb",
				SpanID:   "08f067aa0ba902b7",
				Sampled:  true,
			},
			ok: true,
		},
		{
			name:      "not sampled",
			header:    "00-3d23d071b5bfd6579171efce907685cb-08f067aa0ba902b7-00",
			projectID: "filif",
			want: traceContext{
				Resource: "projects/filif/traces/3d23d071b5bfd6579171efce907685cb",
				SpanID:   "08f067aa0ba902b7",
			},
			ok: true,
		},
		{name: "no project", header: sampledHeader},
		{name: "empty header", projectID: "filif"},
		{name: "truncated trace id", header: "00-3d23d071-08f067aa0ba902b7-01", projectID: "filif"},
		{name: "not hex", header: "00-zz23d071b5bfd6579171efce907685cb-08f067aa0ba902b7-01", projectID: "filif"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseTraceparent(tt.header, tt.projectID)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("got %+v, %v; want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRequestLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	logger, correlation := requestLogger(zap.New(core), sampledHeader, "filif", "req-1")
	logger.Info("hello")

	if correlation != "projects/filif/traces/3d23d071b5bfd6579171efce907685cb" {
		t.Fatalf("expected the trace as correlation id, got %q", correlation)
	}
	fields := logs.All()[0].ContextMap()
	if fields[fieldTrace] != correlation || fields[fieldSpanID] != "08f067aa0ba902b7" {
		t.Fatalf("missing trace fields: %v", fields)
	}
	if fields[fieldTraceSampled] != true || fields["requestId"] != "req-1" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestRequestLoggerFallsBackToRequestIDCorrelation(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	logger, correlation := requestLogger(zap.New(core), "garbage", "filif", "req-2")
	logger.Info("hello")

	if correlation != "req-2" {
		t.Fatalf("expected request id correlation, got %q", correlation)
	}
	fields := logs.All()[0].ContextMap()
	if _, ok := fields[fieldTrace]; ok {
		t.Fatal("expected no trace field for a malformed header")
	}
}

func TestRequestLoggerWithoutFields(t *testing.T) {
	base := zap.NewNop()
	logger, correlation := requestLogger(base, "", "", "")
	if logger != base || correlation != "" {
		t.Fatalf("expected the base logger unchanged, got %p, %q", logger, correlation)
	}
	if l, _ := requestLogger(nil, "", "", ""); l == nil {
		t.Fatal("expected a nop logger for a nil base")
	}
}

func TestResolveProjectIDPriority(t *testing.T) {
	keys := []string{"FIREBASE_PROJECT_ID", "GOOGLE_CLOUD_PROJECT", "GCP_PROJECT", "GCLOUD_PROJECT", "PROJECT_ID"}
	tests := []struct {
		name     string
		env      map[string]string
		expected string
	}{
		{"firebase first", map[string]string{"FIREBASE_PROJECT_ID": "fb", "GOOGLE_CLOUD_PROJECT": "gc"}, "fb"},
		{"google cloud next", map[string]string{"GOOGLE_CLOUD_PROJECT": "gc", "GCP_PROJECT": "gcp"}, "gc"},
		{"gcp project", map[string]string{"GCP_PROJECT": "gcp", "GCLOUD_PROJECT": "gcloud"}, "gcp"},
		{"gcloud project", map[string]string{"GCLOUD_PROJECT": "gcloud", "PROJECT_ID": "pid"}, "gcloud"},
		{"project id last", map[string]string{"PROJECT_ID": "pid"}, "pid"},
		{"none set", map[string]string{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := cachedProjectID
			t.Cleanup(func() { cachedProjectID = orig })
			projectIDOnce = sync.Once{}
			cachedProjectID = ""
			for _, k := range keys {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if got := resolveProjectID(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}
