package apimodel

import (
	"context"

	"github.com/janisto/filif-api/internal/platform/auth"
	"github.com/janisto/filif-api/internal/service/activity"
)

// Caller builds the acting caller from the authenticated user.
func Caller(ctx context.Context) activity.Caller {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return activity.Caller{}
	}
	return activity.Caller{AccountID: user.UID, Email: user.Email, Admin: user.Admin}
}
