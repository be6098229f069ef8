package admin

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/filif-api/internal/http/v1/apimodel"
	"github.com/janisto/filif-api/internal/platform/pagination"
	"github.com/janisto/filif-api/internal/service/activity"
	"github.com/janisto/filif-api/internal/service/profile"
)

const profileCursor = "profile"

// Register registers the admin panel endpoints. Every operation requires the admin
// claim or an admin-flagged profile in the caller's family.
func Register(api huma.API, svc *activity.Service, prefix string) {
	huma.Register(api, huma.Operation{
		OperationID: "admin-list-profiles",
		Method:      http.MethodGet,
		Path:        "/admin/profiles",
		Summary:     "List all profiles",
		Description: "Returns every profile of every family, newest first, with cursor-based pagination.",
		Tags:        []string{"Admin"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *ListInput) (*ListOutput, error) {
		res, err := svc.AdminListProfiles(ctx, apimodel.Caller(ctx))
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		page, err := pagination.Page(res.Value, input.Params, pagination.Listing[*profile.Profile]{
			Kind: profileCursor,
			ID:   func(p *profile.Profile) string { return p.ID },
			Path: prefix + "/admin/profiles",
		})
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		out := make([]Profile, len(page.Items))
		for i, p := range page.Items {
			out[i] = toAdminProfile(p)
		}
		return &ListOutput{
			Link:   page.LinkHeader,
			Source: string(res.Source),
			Body:   ListData{Profiles: out, Total: page.Total},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-update-profile",
		Method:      http.MethodPatch,
		Path:        "/admin/profiles/{profileId}",
		Summary:     "Edit any profile",
		Description: "Changes name, bio, points and the blocked or admin flags. Only provided fields are changed.",
		Tags:        []string{"Admin"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *UpdateInput) (*ProfileOutput, error) {
		b := input.Body
		if b.Name == nil && b.Bio == nil && b.Points == nil && b.Blocked == nil && b.Admin == nil {
			return nil, huma.Error422UnprocessableEntity("at least one field must be provided")
		}
		res, err := svc.AdminUpdateProfile(ctx, apimodel.Caller(ctx), input.ProfileID, activity.AdminUpdateParams{
			Name:    b.Name,
			Bio:     b.Bio,
			Points:  b.Points,
			Blocked: b.Blocked,
			Admin:   b.Admin,
		})
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return &ProfileOutput{Source: string(res.Source), Body: toAdminProfile(res.Profile)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-adjust-coins",
		Method:      http.MethodPost,
		Path:        "/admin/profiles/{profileId}/coins",
		Summary:     "Adjust coins",
		Description: "Adds or removes coins. Returns 409 when the balance would become negative.",
		Tags:        []string{"Admin"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *CoinsInput) (*ProfileOutput, error) {
		res, err := svc.AdminAdjustCoins(ctx, apimodel.Caller(ctx), input.ProfileID, input.Body.Amount)
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return &ProfileOutput{Source: string(res.Source), Body: toAdminProfile(res.Profile)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "admin-delete-profile",
		Method:        http.MethodDelete,
		Path:          "/admin/profiles/{profileId}",
		Summary:       "Delete any profile",
		Tags:          []string{"Admin"},
		DefaultStatus: http.StatusNoContent,
		Security:      apimodel.BearerAuth,
	}, func(ctx context.Context, input *ProfileInput) (*DeleteOutput, error) {
		source, err := svc.AdminDeleteProfile(ctx, apimodel.Caller(ctx), input.ProfileID)
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return &DeleteOutput{Source: string(source)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-list-prices",
		Method:      http.MethodGet,
		Path:        "/admin/shop/prices",
		Summary:     "List shop prices",
		Tags:        []string{"Admin"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, _ *PricesInput) (*PricesOutput, error) {
		prices, err := svc.AdminPrices(ctx, apimodel.Caller(ctx))
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		out := make([]Price, 0, len(prices))
		for id, price := range prices {
			out = append(out, Price{ItemID: id, Price: price})
		}
		slices.SortFunc(out, func(a, b Price) int { return strings.Compare(a.ItemID, b.ItemID) })
		return &PricesOutput{Body: PricesData{Prices: out}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-set-price",
		Method:      http.MethodPut,
		Path:        "/admin/shop/prices/{itemId}",
		Summary:     "Set a shop price",
		Description: "Overrides the price of a catalog item. New purchases use the new price at once.",
		Tags:        []string{"Admin"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *SetPriceInput) (*PriceOutput, error) {
		if err := svc.AdminSetPrice(ctx, apimodel.Caller(ctx), input.ItemID, input.Body.Price); err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return &PriceOutput{Body: Price{ItemID: input.ItemID, Price: input.Body.Price}}, nil
	})
}

func toAdminProfile(p *profile.Profile) Profile {
	return Profile{Profile: apimodel.NewProfile(p), AccountID: p.AccountID}
}
