package profile

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps profiles in process memory. It backs tests and the
// local fallback when no SQLite path is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]*Profile),
	}
}

func (m *MemoryStore) Create(_ context.Context, p *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.profiles[p.ID]; exists {
		return ErrAlreadyExists
	}
	m.profiles[p.ID] = p.Clone()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, exists := m.profiles[id]
	if !exists {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (m *MemoryStore) ListByAccount(_ context.Context, accountID string) ([]*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Profile
	for _, p := range m.profiles {
		if p.AccountID == accountID {
			out = append(out, p.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *Profile) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (m *MemoryStore) ListAll(_ context.Context) ([]*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p.Clone())
	}
	slices.SortFunc(out, func(a, b *Profile) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (m *MemoryStore) Save(_ context.Context, p *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.profiles[p.ID]; !exists {
		return ErrNotFound
	}
	m.profiles[p.ID] = p.Clone()
	return nil
}

// Put inserts or overwrites p.
func (m *MemoryStore) Put(_ context.Context, p *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.profiles[p.ID] = p.Clone()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.profiles[id]; !exists {
		return ErrNotFound
	}
	delete(m.profiles, id)
	return nil
}

// Clear removes all profiles (useful for test cleanup).
func (m *MemoryStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = make(map[string]*Profile)
}

// Compile-time interface check
var _ Cache = (*MemoryStore)(nil)
