package apimodel

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	applog "github.com/janisto/filif-api/internal/platform/logging"
	"github.com/janisto/filif-api/internal/platform/pagination"
	"github.com/janisto/filif-api/internal/service/account"
	"github.com/janisto/filif-api/internal/service/activity"
	"github.com/janisto/filif-api/internal/service/content"
	"github.com/janisto/filif-api/internal/service/profile"
	"github.com/janisto/filif-api/internal/service/progression"
	"github.com/janisto/filif-api/internal/service/shop"
)

// Error maps a service error to a problem response. Unexpected errors are logged
// and reported as 500 without details.
func Error(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, profile.ErrNotFound):
		return huma.Error404NotFound("profile not found")
	case errors.Is(err, account.ErrNotFound):
		return huma.Error404NotFound("account not found")
	case errors.Is(err, shop.ErrUnknownItem):
		return huma.Error404NotFound("shop item not found")
	case errors.Is(err, progression.ErrInsufficientFunds):
		return huma.Error409Conflict("insufficient coins")
	case errors.Is(err, activity.ErrProfileLimit):
		return huma.Error409Conflict("profile limit reached")
	case errors.Is(err, profile.ErrAlreadyExists):
		return huma.Error409Conflict("profile already exists")
	case errors.Is(err, activity.ErrBlocked):
		return huma.Error403Forbidden("profile is blocked")
	case errors.Is(err, activity.ErrLocked):
		return huma.Error403Forbidden("item not unlocked")
	case errors.Is(err, activity.ErrForbidden):
		return huma.Error403Forbidden("admin access required")
	case errors.Is(err, activity.ErrWrongAnswer):
		return huma.Error422UnprocessableEntity("wrong answer")
	case errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, shop.ErrInvalidPrice),
		errors.Is(err, account.ErrInvalidTheme):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, pagination.ErrInvalidCursor):
		return huma.Error400BadRequest("invalid cursor format")
	case errors.Is(err, pagination.ErrCursorKind):
		return huma.Error400BadRequest("cursor type mismatch")
	case errors.Is(err, pagination.ErrCursorStale):
		return huma.Error400BadRequest("cursor references unknown entry")
	case errors.Is(err, content.ErrUnavailable), errors.Is(err, content.ErrInvalidContent):
		return huma.Error503ServiceUnavailable("content generation unavailable")
	default:
		applog.LogError(ctx, "request failed", err)
		return huma.Error500InternalServerError("internal error")
	}
}
