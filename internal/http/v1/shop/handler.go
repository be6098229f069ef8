package shop

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/filif-api/internal/http/v1/apimodel"
	"github.com/janisto/filif-api/internal/service/activity"
	"github.com/janisto/filif-api/internal/service/progression"
)

// Register registers shop endpoints.
func Register(api huma.API, svc *activity.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "list-shop-items",
		Method:      http.MethodGet,
		Path:        "/shop/items",
		Summary:     "List shop items",
		Description: "Returns the catalog with current prices. With profileId, each item says whether the profile owns it and can afford it.",
		Tags:        []string{"Shop"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *ItemsInput) (*ItemsOutput, error) {
		items, source, err := svc.ShopItems(ctx, apimodel.Caller(ctx), input.ProfileID)
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		out := make([]Item, len(items))
		for i, it := range items {
			out[i] = Item{
				ID:          it.ID,
				Name:        it.Name,
				Description: it.Description,
				Icon:        it.Icon,
				Category:    string(it.Category),
				Price:       it.Price,
			}
			if input.ProfileID != "" {
				owned, affordable := it.Owned, it.Affordable
				out[i].Owned = &owned
				out[i].Affordable = &affordable
			}
		}
		return &ItemsOutput{Source: string(source), Body: ItemsData{Items: out}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "purchase-item",
		Method:      http.MethodPost,
		Path:        "/profiles/{profileId}/purchases",
		Summary:     "Buy a shop item",
		Description: "Unlocks the item for its current price. Buying an owned item charges nothing. Returns 409 when coins are insufficient.",
		Tags:        []string{"Shop"},
		Security:    apimodel.BearerAuth,
	}, func(ctx context.Context, input *PurchaseInput) (*PurchaseOutput, error) {
		res, outcome, err := svc.Purchase(ctx, apimodel.Caller(ctx), input.ProfileID, input.Body.ItemID)
		if err != nil {
			return nil, apimodel.Error(ctx, err)
		}
		return &PurchaseOutput{
			Source: string(res.Source),
			Body: PurchaseResult{
				Profile:      apimodel.NewProfile(res.Profile),
				ItemID:       input.Body.ItemID,
				AlreadyOwned: outcome == progression.PurchaseAlreadyOwned,
			},
		}, nil
	})
}
