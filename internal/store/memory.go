package store

import (
	"context"
	"sync"
)

// MemoryStore is a Store that lives only as long as the process.
type MemoryStore struct {
	mu     sync.Mutex
	guilds Guilds
}

func NewMemoryStore(initial Guilds) *MemoryStore {
	if initial == nil {
		initial = Guilds{}
	}
	return &MemoryStore{guilds: initial.Clone()}
}

func (m *MemoryStore) Load(ctx context.Context) (Guilds, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.guilds.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, guilds Guilds) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guilds = guilds.Clone()
	return nil
}
