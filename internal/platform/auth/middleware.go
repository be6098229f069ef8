package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/filif-api/internal/platform/logging"
)

type userContextKey struct{}

// rejection describes how a failed authentication is logged and answered.
type rejection struct {
	reason  string
	status  int
	detail  string
	headers map[string]string
}

var (
	challenge = map[string]string{"WWW-Authenticate": "Bearer"}

	missingHeader = rejection{"no_token", http.StatusUnauthorized, "missing or invalid authorization header", challenge}
	badToken      = rejection{"", http.StatusUnauthorized, "invalid or expired token", challenge}
	keysDown      = rejection{"certificate_fetch_failed", http.StatusServiceUnavailable,
		"authentication service temporarily unavailable", map[string]string{"Retry-After": "30"}}
)

// reasons maps verifier errors to the category written to the log. Raw error text
// may echo token material, so it is never logged.
var reasons = []struct {
	err    error
	reason string
}{
	{ErrTokenExpired, "token_expired"},
	{ErrTokenRevoked, "token_revoked"},
	{ErrUserDisabled, "user_disabled"},
	{ErrCertificateFetch, "certificate_fetch_failed"},
	{ErrInvalidToken, "invalid_token"},
}

func categorizeAuthError(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return "unknown"
}

// rejectionFor picks the response for a verifier error.
func rejectionFor(err error) rejection {
	if errors.Is(err, ErrCertificateFetch) {
		return keysDown
	}
	r := badToken
	r.reason = categorizeAuthError(err)
	return r
}

// NewAuthMiddleware returns Huma middleware that admits operations declaring a
// Security requirement only for callers presenting a valid Firebase ID token.
// The caller is attached to the request context for handlers.
func NewAuthMiddleware(api huma.API, verifier Verifier) func(huma.Context, func(huma.Context)) {
	reject := func(ctx huma.Context, r rejection) {
		applog.LogWarn(ctx.Context(), "authentication rejected", zap.String("reason", r.reason))
		for k, v := range r.headers {
			ctx.SetHeader(k, v)
		}
		_ = huma.WriteErr(api, ctx, r.status, r.detail)
	}

	return func(ctx huma.Context, next func(huma.Context)) {
		if len(ctx.Operation().Security) == 0 {
			next(ctx)
			return
		}
		token, err := ExtractBearerToken(ctx.Header("Authorization"))
		if err != nil {
			reject(ctx, missingHeader)
			return
		}
		user, err := verifier.Verify(ctx.Context(), token)
		if err != nil {
			reject(ctx, rejectionFor(err))
			return
		}
		next(huma.WithContext(ctx, ContextWithUser(ctx.Context(), user)))
	}
}

// ContextWithUser stores user in ctx and tags the request logger with the account id.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	ctx = applog.WithFields(ctx, zap.String("accountId", user.UID))
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext returns the authenticated caller, or nil.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey{}).(*User)
	return user
}
