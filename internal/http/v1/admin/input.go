package admin

import "github.com/janisto/filif-api/internal/platform/pagination"

// ListInput for GET /admin/profiles
type ListInput struct {
	pagination.Params
}

// ProfileInput addresses any profile.
type ProfileInput struct {
	ProfileID string `path:"profileId" doc:"Profile ID"`
}

// UpdateInput for PATCH /admin/profiles/{profileId}
type UpdateInput struct {
	ProfileID string `path:"profileId" doc:"Profile ID"`
	Body      struct {
		Name    *string `json:"name,omitempty"    minLength:"1" maxLength:"40" doc:"Display name"`
		Bio     *string `json:"bio,omitempty"     maxLength:"280"              doc:"Short biography"`
		Points  *int    `json:"points,omitempty"  minimum:"0"                  doc:"Lifetime points"`
		Blocked *bool   `json:"blocked,omitempty"                              doc:"Block earning and spending"`
		Admin   *bool   `json:"admin,omitempty"                                doc:"Grant admin access to the owning account"`
	}
}

// CoinsInput for POST /admin/profiles/{profileId}/coins
type CoinsInput struct {
	ProfileID string `path:"profileId" doc:"Profile ID"`
	Body      struct {
		Amount int `json:"amount" required:"true" doc:"Coins to add; negative values remove coins" example:"-5"`
	}
}

// PricesInput for GET /admin/shop/prices (no parameters)
type PricesInput struct{}

// SetPriceInput for PUT /admin/shop/prices/{itemId}
type SetPriceInput struct {
	ItemID string `path:"itemId" doc:"Catalog item" example:"brush_neon"`
	Body   struct {
		Price int `json:"price" minimum:"0" required:"true" doc:"New price in coins" example:"12"`
	}
}
