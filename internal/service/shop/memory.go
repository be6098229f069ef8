package shop

import (
	"context"
	"sync"
)

// MemoryPrices keeps overrides in process memory.
type MemoryPrices struct {
	mu     sync.RWMutex
	prices map[string]int
}

// NewMemoryPrices creates an empty in-memory price store.
func NewMemoryPrices() *MemoryPrices {
	return &MemoryPrices{prices: make(map[string]int)}
}

var _ PriceStore = (*MemoryPrices)(nil)

func (m *MemoryPrices) All(_ context.Context) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyPrices(m.prices), nil
}

func (m *MemoryPrices) Set(_ context.Context, itemID string, price int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[itemID] = price
	return nil
}
