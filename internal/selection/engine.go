package selection

import (
	"math/rand"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/alexanderramin/reflekt/internal/catalog"
	"github.com/alexanderramin/reflekt/internal/domain"
	"github.com/alexanderramin/reflekt/internal/snapshot"
)

const (
	// CandidateBatchSize is the size of the live pool behind a single pick.
	CandidateBatchSize = 20
	// FallbackBatchSize is the size of the static contextual fallback batch.
	FallbackBatchSize = 24
)

// lockedRand is a *rand.Rand safe for concurrent use.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newLockedRand(rng *rand.Rand) *lockedRand {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &lockedRand{rng: rng}
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// weightedPick draws one item with probability proportional to its weight.
// Weights below the floor are raised to it so nothing is unreachable.
func weightedPick[T any](r *lockedRand, items []T, weight func(T) float64) (T, int, bool) {
	var zero T
	switch len(items) {
	case 0:
		return zero, -1, false
	case 1:
		return items[0], 0, true
	}
	weights := make([]float64, len(items))
	var total float64
	for i, it := range items {
		weights[i] = max(0.05, weight(it))
		total += weights[i]
	}
	n := r.Float64() * total
	for i, w := range weights {
		n -= w
		if n <= 0 {
			return items[i], i, true
		}
	}
	last := len(items) - 1
	return items[last], last, true
}

// Engine draws batches of rendered, validated prompts from a template pool.
type Engine struct {
	rand      *lockedRand
	weights   ScoringWeights
	universal []string
}

// NewEngine creates an Engine. A nil rng seeds one from the clock.
func NewEngine(rng *rand.Rand) *Engine {
	return &Engine{
		rand:      newLockedRand(rng),
		weights:   DefaultWeights(),
		universal: catalog.UniversalPrompts(),
	}
}

// Batch draws up to max prompts from the static catalog.
func (e *Engine) Batch(snap snapshot.Snapshot, exclude map[string]bool, max int) []string {
	return e.BatchFrom(catalog.Library(), snap, exclude, max)
}

// Candidates is the live batch behind a single pick.
func (e *Engine) Candidates(snap snapshot.Snapshot) []string {
	return e.Batch(snap, nil, CandidateBatchSize)
}

// ContextualFallback is the larger static batch used when the live pool is spent.
func (e *Engine) ContextualFallback(snap snapshot.Snapshot) []string {
	return e.Batch(snap, nil, FallbackBatchSize)
}

// BatchFrom gates the templates, then draws without replacement until max
// prompts are accepted or the pool runs out. A draw is rejected when its
// rendered text is excluded, already accepted or fails validation. Universal
// prompts top up a short batch. The exclude set is not modified.
func (e *Engine) BatchFrom(templates []catalog.Template, snap snapshot.Snapshot, exclude map[string]bool, max int) []string {
	if max <= 0 {
		return nil
	}
	seen := make(map[string]bool, len(exclude))
	for k := range exclude {
		seen[k] = true
	}

	pool := Gate(templates, snap)
	usedIntents := map[domain.ActionTag]bool{}
	out := make([]string, 0, max)

	for len(out) < max && len(pool) > 0 {
		pick, idx, _ := weightedPick(e.rand, pool, func(t catalog.Template) float64 {
			return ScoreTemplate(ScoringInput{Template: t, Snapshot: snap, UsedIntents: usedIntents, Weights: e.weights}).Score
		})
		pool = slices.Delete(pool, idx, idx+1)

		rendered := catalog.Render(pick.Text, snap)
		key := catalog.NormalizeKey(rendered)
		if key == "" || seen[key] || !catalog.ValidatePrompt(rendered) {
			continue
		}
		if primary := pick.PrimaryAction(); primary != "" {
			usedIntents[primary] = true
		}
		seen[key] = true
		out = append(out, rendered)
	}

	for _, p := range e.universal {
		if len(out) >= max {
			break
		}
		key := catalog.NormalizeKey(p)
		if seen[key] || !catalog.ValidatePrompt(p) {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// Rank scores every eligible template without drawing, highest first.
func (e *Engine) Rank(templates []catalog.Template, snap snapshot.Snapshot) []ScoredTemplate {
	pool := Gate(templates, snap)
	out := make([]ScoredTemplate, 0, len(pool))
	for _, t := range pool {
		out = append(out, ScoreTemplate(ScoringInput{Template: t, Snapshot: snap, Weights: e.weights}))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
