package storage

import (
	"context"
	"sort"
	"sync"

	"lifeforge/internal/engine"
)

// MemoryStore keeps states in process. Values are cloned on the way in and
// out so callers never share memory with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]*engine.State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: map[string]*engine.State{}}
}

func (m *MemoryStore) Load(ctx context.Context, characterID string) (*engine.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.states[characterID]
	if !ok {
		return nil, nil
	}
	return st.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, characterID string, st *engine.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[characterID] = st.Clone()
	return nil
}

func (m *MemoryStore) ListCharacterIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.states))
	for id := range m.states {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
