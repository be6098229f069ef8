package admin

import "github.com/janisto/filif-api/internal/http/v1/apimodel"

// Profile is a profile as seen by administrators.
type Profile struct {
	apimodel.Profile
	AccountID string `json:"accountId" doc:"Owning account"`
}

// ListData is the body of GET /admin/profiles.
type ListData struct {
	Profiles []Profile `json:"profiles" doc:"All profiles, newest first"`
	Total    int       `json:"total"`
}

// ListOutput for GET /admin/profiles
type ListOutput struct {
	Link   string `header:"Link"          doc:"RFC 8288 pagination links"`
	Source string `header:"X-Data-Source" doc:"Store that served the request"`
	Body   ListData
}

// ProfileOutput for admin profile changes
type ProfileOutput struct {
	Source string `header:"X-Data-Source" doc:"Store that served the request"`
	Body   Profile
}

// DeleteOutput for DELETE /admin/profiles/{profileId} (204 No Content)
type DeleteOutput struct {
	Source string `header:"X-Data-Source" doc:"Store that served the request"`
}

// Price is the effective price of a catalog item.
type Price struct {
	ItemID string `json:"itemId" example:"brush_neon"`
	Price  int    `json:"price"  example:"10"`
}

// PricesData is the body of GET /admin/shop/prices.
type PricesData struct {
	Prices []Price `json:"prices" doc:"Prices ordered by item id"`
}

// PricesOutput for GET /admin/shop/prices
type PricesOutput struct {
	Body PricesData
}

// PriceOutput for PUT /admin/shop/prices/{itemId}
type PriceOutput struct {
	Body Price
}
