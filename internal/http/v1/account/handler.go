package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/filif-api/internal/http/v1/apimodel"
	"github.com/janisto/filif-api/internal/platform/auth"
	accountsvc "github.com/janisto/filif-api/internal/service/account"
)

// Register registers account endpoints.
func Register(api huma.API, svc *accountsvc.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "get-account",
		Method:      http.MethodGet,
		Path:        "/account",
		Summary:     "Get current account",
		Description: "Returns the authenticated user's family account, creating it on first access.",
		Tags:        []string{"Account"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, _ *GetInput) (*Output, error) {
		user := auth.UserFromContext(ctx)

		a, err := svc.Ensure(ctx, user.UID, user.Email)
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return &Output{Body: toHTTPAccount(a)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-account",
		Method:      http.MethodPatch,
		Path:        "/account",
		Summary:     "Update current account",
		Description: "Updates the account holder name or UI theme. Only provided fields are changed.",
		Tags:        []string{"Account"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *UpdateInput) (*Output, error) {
		user := auth.UserFromContext(ctx)
		if input.Body.FullName == nil && input.Body.Theme == nil {
			return nil, huma.Error422UnprocessableEntity("at least one field must be provided")
		}

		if _, err := svc.Ensure(ctx, user.UID, user.Email); err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		params := accountsvc.UpdateParams{FullName: input.Body.FullName}
		if input.Body.Theme != nil {
			theme := accountsvc.Theme(*input.Body.Theme)
			params.Theme = &theme
		}
		a, err := svc.Update(ctx, user.UID, params)
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return &Output{Body: toHTTPAccount(a)}, nil
	})
}
