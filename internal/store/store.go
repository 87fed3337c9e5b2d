// Package store persists per-user SelectionState behind one small interface
// with in-memory, SQLite and Redis backends.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get when a user has no stored state.
var ErrNotFound = errors.New("not found")

// SelectionStore holds SelectionState per user. Prune drops states untouched
// for longer than ttl, then keeps only the maxKeys most recently updated.
// A zero ttl or maxKeys disables that half of the prune.
type SelectionStore interface {
	Get(ctx context.Context, user string) (*SelectionState, error)
	Set(ctx context.Context, user string, state *SelectionState) error
	Delete(ctx context.Context, user string) error
	Prune(ctx context.Context, ttl time.Duration, maxKeys int) (int, error)
}

// Load returns the stored state or a fresh one when the user has none.
func Load(ctx context.Context, s SelectionStore, user string) (*SelectionState, error) {
	st, err := s.Get(ctx, user)
	if errors.Is(err, ErrNotFound) {
		return NewSelectionState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading selection state for %s: %w", user, err)
	}
	return st, nil
}
