package routes

import (
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	accounthandler "github.com/janisto/filif-api/internal/http/v1/account"
	"github.com/janisto/filif-api/internal/http/v1/activities"
	"github.com/janisto/filif-api/internal/http/v1/admin"
	"github.com/janisto/filif-api/internal/http/v1/profiles"
	shophandler "github.com/janisto/filif-api/internal/http/v1/shop"
	"github.com/janisto/filif-api/internal/platform/auth"
	accountsvc "github.com/janisto/filif-api/internal/service/account"
	"github.com/janisto/filif-api/internal/service/activity"
)

// Register wires all HTTP routes into the provided API router.
func Register(
	api huma.API,
	verifier auth.Verifier,
	activityService *activity.Service,
	accountService *accountsvc.Service,
) {
	prefix := apiPrefix(api)

	// Apply auth middleware for protected endpoints
	api.UseMiddleware(auth.NewAuthMiddleware(api, verifier))

	accounthandler.Register(api, accountService)
	profiles.Register(api, activityService)
	activities.Register(api, activityService, prefix)
	shophandler.Register(api, activityService)
	admin.Register(api, activityService, prefix)
}

func apiPrefix(api huma.API) string {
	for _, s := range api.OpenAPI().Servers {
		if u, err := url.Parse(s.URL); err == nil && u.Path != "" {
			return u.Path
		}
	}
	return ""
}
