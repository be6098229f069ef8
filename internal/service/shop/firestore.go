package shop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

const shopItemsCollection = "shop_items"

type firestorePrice struct {
	Price     int       `firestore:"price"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

// FirestorePrices stores one document per overridden item.
type FirestorePrices struct {
	client *firestore.Client
}

// NewFirestorePrices creates a Firestore-backed price store.
func NewFirestorePrices(client *firestore.Client) *FirestorePrices {
	return &FirestorePrices{client: client}
}

var _ PriceStore = (*FirestorePrices)(nil)

func (s *FirestorePrices) All(ctx context.Context) (map[string]int, error) {
	iter := s.client.Collection(shopItemsCollection).Documents(ctx)
	defer iter.Stop()

	out := make(map[string]int)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("listing prices: %w", err)
		}
		var fp firestorePrice
		if err := doc.DataTo(&fp); err != nil {
			return nil, fmt.Errorf("decoding price %s: %w", doc.Ref.ID, err)
		}
		out[doc.Ref.ID] = fp.Price
	}
}

func (s *FirestorePrices) Set(ctx context.Context, itemID string, price int) error {
	_, err := s.client.Collection(shopItemsCollection).Doc(itemID).Set(ctx, firestorePrice{
		Price:     price,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("setting price: %w", err)
	}
	return nil
}
