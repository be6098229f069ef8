package shop

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type priceRow struct {
	ItemID    string    `db:"item_id"`
	Price     int       `db:"price"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SQLPrices stores overrides in the shop_prices table.
type SQLPrices struct {
	db *sqlx.DB
}

// NewSQLPrices creates a price store on a migrated database.
func NewSQLPrices(db *sqlx.DB) *SQLPrices {
	return &SQLPrices{db: db}
}

var _ PriceStore = (*SQLPrices)(nil)

func (s *SQLPrices) All(ctx context.Context) (map[string]int, error) {
	var rows []priceRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT item_id, price, updated_at FROM shop_prices`); err != nil {
		return nil, fmt.Errorf("listing prices: %w", err)
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.ItemID] = r.Price
	}
	return out, nil
}

func (s *SQLPrices) Set(ctx context.Context, itemID string, price int) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO shop_prices (item_id, price, updated_at)
		VALUES (:item_id, :price, :updated_at)
		ON CONFLICT (item_id) DO UPDATE SET price = excluded.price, updated_at = excluded.updated_at`,
		priceRow{ItemID: itemID, Price: price, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("setting price: %w", err)
	}
	return nil
}
