package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps states in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]*SelectionState
	now    func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: map[string]*SelectionState{}, now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, user string) (*SelectionState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.states[user]
	if !ok {
		return nil, fmt.Errorf("selection state %s: %w", user, ErrNotFound)
	}
	return st.Clone(), nil
}

func (m *MemoryStore) Set(_ context.Context, user string, state *SelectionState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[user] = state.Clone()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, user string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, user)
	return nil
}

func (m *MemoryStore) Prune(_ context.Context, ttl time.Duration, maxKeys int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	if ttl > 0 {
		cutoff := m.now().Add(-ttl)
		for user, st := range m.states {
			if st.UpdatedAt.Before(cutoff) {
				delete(m.states, user)
				removed++
			}
		}
	}
	if maxKeys > 0 && len(m.states) > maxKeys {
		users := make([]string, 0, len(m.states))
		for u := range m.states {
			users = append(users, u)
		}
		sort.Slice(users, func(i, j int) bool {
			return m.states[users[i]].UpdatedAt.Before(m.states[users[j]].UpdatedAt)
		})
		for _, u := range users[:len(users)-maxKeys] {
			delete(m.states, u)
			removed++
		}
	}
	return removed, nil
}
