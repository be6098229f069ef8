// Package shop holds the item catalog and the price overrides set by administrators.
package shop

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"go.uber.org/zap"

	applog "github.com/janisto/filif-api/internal/platform/logging"
	"github.com/janisto/filif-api/internal/service/progression"
)

// Service errors
var (
	ErrUnknownItem  = errors.New("unknown shop item")
	ErrInvalidPrice = errors.New("price must not be negative")
)

// Category groups catalog items.
type Category string

const (
	CategoryArt    Category = "ART"
	CategoryAvatar Category = "AVATAR"
)

// Item is a catalog entry with its effective price.
type Item struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Category    Category
	Price       int
}

// Engine returns the part of the item the progression engine charges for.
func (i Item) Engine() progression.Item {
	return progression.Item{ID: i.ID, Price: i.Price}
}

// defaultItems is the built-in catalog. Prices here apply until an administrator
// overrides them.
var defaultItems = []Item{
	{ID: "coloring_book", Name: "Desenho Livre", Description: "Libere a tela para pintar com pincéis!", Icon: "🖍️", Category: CategoryArt, Price: 0},
	{ID: "pixel_free", Name: "Pixel Livre", Description: "Desenhe o que quiser em pixels!", Icon: "✨", Category: CategoryArt, Price: 0},
	{ID: "brush_neon", Name: "Pincel Neon", Description: "Pincéis que brilham como a luz do mundo!", Icon: "🌈", Category: CategoryArt, Price: 10},
	{ID: "color_gold", Name: "Paleta Real", Description: "Cores douradas e prateadas especiais!", Icon: "🎨", Category: CategoryArt, Price: 15},
	{ID: "av_noah", Name: "Noé Herói", Description: "Avatar especial do capitão da Arca!", Icon: "👴", Category: CategoryAvatar, Price: 20},
	{ID: "av_esther", Name: "Rainha Ester", Description: "Avatar da corajosa Rainha Ester!", Icon: "👸", Category: CategoryAvatar, Price: 25},
	{ID: "av_samson", Name: "Sansão Forte", Description: "O homem mais forte da Bíblia!", Icon: "💪", Category: CategoryAvatar, Price: 30},
	{ID: "av_angel", Name: "Anjo da Guarda", Description: "Um mensageiro celestial no seu perfil!", Icon: "😇", Category: CategoryAvatar, Price: 50},
}

// PriceStore persists price overrides keyed by item id.
type PriceStore interface {
	All(ctx context.Context) (map[string]int, error)
	Set(ctx context.Context, itemID string, price int) error
}

// Catalog combines the built-in items with stored price overrides.
type Catalog struct {
	prices PriceStore
}

// NewCatalog creates a catalog backed by prices.
func NewCatalog(prices PriceStore) *Catalog {
	return &Catalog{prices: prices}
}

// overrides loads stored prices. A failing store is logged and the built-in prices
// are served, so the shop stays usable.
func (c *Catalog) overrides(ctx context.Context) map[string]int {
	prices, err := c.prices.All(ctx)
	if err != nil {
		applog.LogWarn(ctx, "price store unavailable, using default prices", zap.Error(err))
		return nil
	}
	return prices
}

// Items returns every item with its effective price, in catalog order.
func (c *Catalog) Items(ctx context.Context) []Item {
	prices := c.overrides(ctx)
	out := make([]Item, len(defaultItems))
	for i, item := range defaultItems {
		if p, ok := prices[item.ID]; ok {
			item.Price = p
		}
		out[i] = item
	}
	return out
}

// Item returns one item with its effective price.
func (c *Catalog) Item(ctx context.Context, id string) (Item, error) {
	for _, item := range c.Items(ctx) {
		if item.ID == id {
			return item, nil
		}
	}
	return Item{}, fmt.Errorf("%w: %s", ErrUnknownItem, id)
}

// Prices returns the effective price of every item.
func (c *Catalog) Prices(ctx context.Context) map[string]int {
	out := make(map[string]int, len(defaultItems))
	for _, item := range c.Items(ctx) {
		out[item.ID] = item.Price
	}
	return out
}

// SetPrice stores an override for a known item.
func (c *Catalog) SetPrice(ctx context.Context, id string, price int) error {
	if !known(id) {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	if price < 0 {
		return ErrInvalidPrice
	}
	return c.prices.Set(ctx, id, price)
}

func known(id string) bool {
	for _, item := range defaultItems {
		if item.ID == id {
			return true
		}
	}
	return false
}

func copyPrices(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return maps.Clone(m)
}
