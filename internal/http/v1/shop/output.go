package shop

import "github.com/janisto/filif-api/internal/http/v1/apimodel"

// Item is a catalog entry with its effective price.
type Item struct {
	ID          string `json:"id"                   example:"brush_neon"`
	Name        string `json:"name"                 example:"Pincel Neon"`
	Description string `json:"description"`
	Icon        string `json:"icon"                 example:"🌈"`
	Category    string `json:"category"             enum:"ART,AVATAR"`
	Price       int    `json:"price"                example:"10"`
	Owned       *bool  `json:"owned,omitempty"      doc:"Present when profileId is given"`
	Affordable  *bool  `json:"affordable,omitempty" doc:"Present when profileId is given"`
}

// ItemsData is the body of GET /shop/items.
type ItemsData struct {
	Items []Item `json:"items"`
}

// ItemsOutput for GET /shop/items
type ItemsOutput struct {
	Source string `header:"X-Data-Source" doc:"Store that served the profile, when one was given"`
	Body   ItemsData
}

// PurchaseResult is the body of POST /profiles/{profileId}/purchases.
type PurchaseResult struct {
	Profile      apimodel.Profile `json:"profile"`
	ItemID       string           `json:"itemId"       example:"brush_neon"`
	AlreadyOwned bool             `json:"alreadyOwned" doc:"The item was owned before; nothing was charged"`
}

// PurchaseOutput for POST /profiles/{profileId}/purchases
type PurchaseOutput struct {
	Source string `header:"X-Data-Source" doc:"Store that served the request"`
	Body   PurchaseResult
}
