package store

import (
	"maps"
	"sort"
	"time"

	"github.com/alexanderramin/reflekt/internal/catalog"
	"github.com/alexanderramin/reflekt/internal/domain"
)

// Caps on per-user selection state. The oldest entries by last-touched time
// are evicted first.
const (
	MaxPromptStats = 500
	MaxUsedKeys    = 500
	MaxShownKeys   = 500
)

// SelectionState is one user's novelty and feedback bookkeeping. Keys are
// catalog.NormalizeKey values.
type SelectionState struct {
	Shown     map[string]time.Time          `json:"shown"`
	Used      map[string]time.Time          `json:"used"`
	PerPrompt map[string]domain.PromptStats `json:"stats"`
	UpdatedAt time.Time                     `json:"updated_at"`
}

// NewSelectionState returns an empty state.
func NewSelectionState() *SelectionState {
	return &SelectionState{
		Shown:     map[string]time.Time{},
		Used:      map[string]time.Time{},
		PerPrompt: map[string]domain.PromptStats{},
	}
}

func (s *SelectionState) ensure() {
	if s.Shown == nil {
		s.Shown = map[string]time.Time{}
	}
	if s.Used == nil {
		s.Used = map[string]time.Time{}
	}
	if s.PerPrompt == nil {
		s.PerPrompt = map[string]domain.PromptStats{}
	}
}

// MarkShown records that the prompt was put in front of the user.
func (s *SelectionState) MarkShown(prompt string, now time.Time) {
	key := catalog.NormalizeKey(prompt)
	if key == "" {
		return
	}
	s.ensure()
	s.Shown[key] = now

	st := s.PerPrompt[key]
	st.Shown++
	st.LastShownAt = &now
	s.PerPrompt[key] = st

	s.UpdatedAt = now
	s.enforceCaps()
}

// MarkCompleted records an entry saved against the prompt and the number of
// words it produced.
func (s *SelectionState) MarkCompleted(prompt, content string, now time.Time) {
	key := catalog.NormalizeKey(prompt)
	if key == "" {
		return
	}
	s.ensure()
	s.Used[key] = now

	st := s.PerPrompt[key]
	st.Completed++
	st.TotalWords += domain.WordCount(content)
	st.LastCompletedAt = &now
	s.PerPrompt[key] = st

	s.UpdatedAt = now
	s.enforceCaps()
}

func (s *SelectionState) WasShown(key string) bool {
	_, ok := s.Shown[key]
	return ok
}

func (s *SelectionState) WasUsed(key string) bool {
	_, ok := s.Used[key]
	return ok
}

func (s *SelectionState) Stats(key string) domain.PromptStats {
	return s.PerPrompt[key]
}

// Clone returns a deep copy. Stored states are never shared with callers.
func (s *SelectionState) Clone() *SelectionState {
	out := &SelectionState{
		Shown:     maps.Clone(s.Shown),
		Used:      maps.Clone(s.Used),
		PerPrompt: maps.Clone(s.PerPrompt),
		UpdatedAt: s.UpdatedAt,
	}
	out.ensure()
	return out
}

func (s *SelectionState) enforceCaps() {
	capOldest(s.Shown, MaxShownKeys, func(t time.Time) time.Time { return t })
	capOldest(s.Used, MaxUsedKeys, func(t time.Time) time.Time { return t })
	capOldest(s.PerPrompt, MaxPromptStats, domain.PromptStats.LastTouched)
}

// capOldest deletes the oldest entries until at most limit remain. Ties are
// broken by key so eviction is deterministic.
func capOldest[V any](m map[string]V, limit int, touched func(V) time.Time) {
	if len(m) <= limit {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ti, tj := touched(m[keys[i]]), touched(m[keys[j]])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys[:len(keys)-limit] {
		delete(m, k)
	}
}
