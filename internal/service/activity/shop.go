package activity

import (
	"context"

	"github.com/janisto/filif-api/internal/platform/timeutil"
	"github.com/janisto/filif-api/internal/service/profile"
	"github.com/janisto/filif-api/internal/service/progression"
	"github.com/janisto/filif-api/internal/service/session"
	"github.com/janisto/filif-api/internal/service/shop"
)

// ShopItem is a catalog entry seen from one profile.
type ShopItem struct {
	shop.Item
	Owned      bool
	Affordable bool
}

// ShopItems lists the catalog. With a profile id, items are flagged as owned and
// affordable for that profile.
func (s *Service) ShopItems(ctx context.Context, caller Caller, profileID string) ([]ShopItem, session.Source, error) {
	var p *profile.Profile
	var source session.Source
	if profileID != "" {
		res, err := s.load(ctx, caller, profileID)
		if err != nil {
			return nil, res.Source, err
		}
		p, source = res.Value, res.Source
	}

	items := s.catalog.Items(ctx)
	out := make([]ShopItem, len(items))
	for i, item := range items {
		out[i] = ShopItem{Item: item}
		if p != nil {
			out[i].Owned = progression.HasUnlocked(p, item.ID)
			out[i].Affordable = out[i].Owned || p.Coins >= item.Price
		}
	}
	return out, source, nil
}

// Purchase buys itemID for the profile at its current price.
func (s *Service) Purchase(ctx context.Context, caller Caller, id, itemID string) (Result, progression.PurchaseResult, error) {
	item, err := s.catalog.Item(ctx, itemID)
	if err != nil {
		return Result{}, progression.PurchaseRejected, err
	}
	var result progression.PurchaseResult
	p, source, err := s.mutate(ctx, caller, id, mutation{
		action: "purchase",
		earns:  true,
		apply: func(p *profile.Profile, _ timeutil.Date) error {
			var err error
			result, err = progression.PurchaseItem(p, item.Engine())
			return err
		},
	})
	if err != nil {
		return Result{Profile: p, Source: source}, progression.PurchaseRejected, err
	}
	return Result{Profile: p, Source: source}, result, nil
}
