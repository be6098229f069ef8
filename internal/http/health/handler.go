package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	applog "github.com/janisto/filif-api/internal/platform/logging"
)

const checkTimeout = 2 * time.Second

// Check tests one dependency.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// Response is the payload for the health endpoint.
type Response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Handler returns a plain HTTP handler for the health check endpoint. A failing
// dependency marks the service degraded but still answers 200: profile reads fall
// back to the local cache and prices fall back to the defaults.
func Handler(checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := Response{Status: "healthy"}
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}
		for _, c := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
			err := c.Ping(ctx)
			cancel()
			if err != nil {
				applog.LogWarn(r.Context(), "health check failed", zap.String("check", c.Name), zap.Error(err))
				resp.Checks[c.Name] = "unavailable"
				resp.Status = "degraded"
				continue
			}
			resp.Checks[c.Name] = "ok"
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
