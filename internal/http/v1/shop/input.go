package shop

// ItemsInput for GET /shop/items
type ItemsInput struct {
	ProfileID string `query:"profileId" doc:"Flag items as owned and affordable for this profile"`
}

// PurchaseInput for POST /profiles/{profileId}/purchases
type PurchaseInput struct {
	ProfileID string `path:"profileId" doc:"Profile ID"`
	Body      struct {
		ItemID string `json:"itemId" minLength:"1" maxLength:"64" required:"true" doc:"Catalog item" example:"brush_neon"`
	}
}
