package logging

import (
	"fmt"
	"os"
	"regexp"
	"sync"

	"go.uber.org/zap"
)

const traceparentHeader = "traceparent"

// traceparentRe matches a W3C traceparent: version-traceid-spanid-flags.
var traceparentRe = regexp.MustCompile(`^([0-9a-fA-F]{2})-([0-9a-fA-F]{32})-([0-9a-fA-F]{16})-([0-9a-fA-F]{2})$`)

// Trace field names understood by Cloud Logging.
const (
	fieldTrace        = "logging.googleapis.com/trace"
	fieldSpanID       = "logging.googleapis.com/spanId"
	fieldTraceSampled = "logging.googleapis.com/trace_sampled"
)

var (
	projectIDOnce   sync.Once
	cachedProjectID string
)

// traceContext is the parsed form of a traceparent header, scoped to a project.
type traceContext struct {
	Resource string
	SpanID   string
	Sampled  bool
}

// parseTraceparent returns the Cloud Trace resource for header. ok is false when
// the header is malformed or no project is known.
func parseTraceparent(header, projectID string) (tc traceContext, ok bool) {
	if projectID == "" {
		return traceContext{}, false
	}
	m := traceparentRe.FindStringSubmatch(header)
	if m == nil {
		return traceContext{}, false
	}
	return traceContext{
		Resource: fmt.Sprintf("projects/%s/traces/%s", projectID, m[2]),
		SpanID:   m[3],
		Sampled:  m[4] == "01",
	}, true
}

func (tc traceContext) fields() []zap.Field {
	return []zap.Field{
		zap.String(fieldTrace, tc.Resource),
		zap.String(fieldSpanID, tc.SpanID),
		zap.Bool(fieldTraceSampled, tc.Sampled),
	}
}

// requestLogger decorates base with trace and request id fields. The returned
// correlation id is the trace resource, or the request id when there is no trace.
func requestLogger(base *zap.Logger, header, projectID, requestID string) (*zap.Logger, string) {
	if base == nil {
		base = zap.NewNop()
	}
	var fields []zap.Field
	correlation := requestID
	if tc, ok := parseTraceparent(header, projectID); ok {
		fields = tc.fields()
		correlation = tc.Resource
	}
	if requestID != "" {
		fields = append(fields, zap.String("requestId", requestID))
	}
	if len(fields) == 0 {
		return base, correlation
	}
	return base.With(fields...), correlation
}

// resolveProjectID reads the project from the first populated environment variable.
func resolveProjectID() string {
	projectIDOnce.Do(func() {
		for _, key := range []string{
			"FIREBASE_PROJECT_ID",
			"GOOGLE_CLOUD_PROJECT",
			"GCP_PROJECT",
			"GCLOUD_PROJECT",
			"PROJECT_ID",
		} {
			if v := os.Getenv(key); v != "" {
				cachedProjectID = v
				return
			}
		}
	})
	return cachedProjectID
}
