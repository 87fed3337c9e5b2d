package selection

import (
	"math/rand"

	"github.com/alexanderramin/reflekt/internal/catalog"
)

// Step identifies which degradation step produced a pick.
type Step int

const (
	StepLive      Step = 1 // unseen and unused, live pool
	StepFallback  Step = 2 // unseen and unused, static fallback
	StepShown     Step = 3 // shown before but never used
	StepRepeat    Step = 4 // used prompts, outside the exclusion set when possible
	StepExhausted Step = 5 // keep the current prompt and ask for a refill
)

func (s Step) String() string {
	switch s {
	case StepLive:
		return "live"
	case StepFallback:
		return "fallback"
	case StepShown:
		return "shown"
	case StepRepeat:
		return "repeat"
	case StepExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Status is the soft, user-facing outcome of an engine call.
type Status string

const (
	StatusOK         Status = "ok"
	StatusDegraded   Status = "degraded"
	StatusExhausted  Status = "exhausted"
	StatusGenerating Status = "generating"
)

// Message is the transient hint shown next to the prompt, empty when ok.
func (s Status) Message() string {
	switch s {
	case StatusDegraded:
		return "Showing a familiar question."
	case StatusExhausted:
		return "You've seen every question for now."
	case StatusGenerating:
		return "Finding fresh questions..."
	default:
		return ""
	}
}

// PickRequest is the input to a single-prompt pick.
type PickRequest struct {
	// Pool is the live candidate pool, possibly widened by expansion.
	Pool []string
	// Fallback is the static contextual batch consulted once Pool is spent.
	Fallback []string
	// Current is the prompt on screen; it is never repeated unless nothing else exists.
	Current string
	// Exclude holds prompts the caller wants skipped outright.
	Exclude []string
	History History
}

// PickResult carries the chosen prompt and how it was reached.
type PickResult struct {
	Prompt string `json:"prompt"`
	Step   Step   `json:"step"`
	Status Status `json:"status"`
	// Refill asks the caller to widen the pool asynchronously.
	Refill bool `json:"refill"`
}

// Picker chooses one prompt, degrading step by step until it finds one.
type Picker struct {
	rand *lockedRand
}

// NewPicker creates a Picker. A nil rng seeds one from the clock.
func NewPicker(rng *rand.Rand) *Picker {
	return &Picker{rand: newLockedRand(rng)}
}

// Pick walks the degradation order. It never fails: the last step keeps the
// current prompt, or a universal prompt when there is none.
func (p *Picker) Pick(req PickRequest) PickResult {
	history := req.History
	if history == nil {
		history = emptyHistory{}
	}
	currentKey := catalog.NormalizeKey(req.Current)
	excluded := map[string]bool{}
	if currentKey != "" {
		excluded[currentKey] = true
	}
	for _, e := range req.Exclude {
		excluded[catalog.NormalizeKey(e)] = true
	}

	fresh := func(key string) bool {
		return !excluded[key] && !history.WasShown(key) && !history.WasUsed(key)
	}
	all := append(append([]string{}, req.Pool...), req.Fallback...)

	steps := []struct {
		step   Step
		pool   []string
		keep   func(key string) bool
		status Status
	}{
		{StepLive, req.Pool, fresh, StatusOK},
		{StepFallback, req.Fallback, fresh, StatusOK},
		{StepShown, all, func(key string) bool { return !excluded[key] && !history.WasUsed(key) }, StatusDegraded},
		{StepRepeat, all, func(key string) bool { return !excluded[key] }, StatusDegraded},
		{StepRepeat, all, func(key string) bool { return key != currentKey }, StatusDegraded},
	}
	for _, s := range steps {
		if prompt, ok := p.pickFrom(s.pool, s.keep, history); ok {
			return PickResult{Prompt: prompt, Step: s.step, Status: s.status}
		}
	}

	prompt := req.Current
	if currentKey == "" {
		prompt = catalog.UniversalPrompts()[0]
	}
	return PickResult{Prompt: prompt, Step: StepExhausted, Status: StatusExhausted, Refill: true}
}

func (p *Picker) pickFrom(pool []string, keep func(string) bool, history History) (string, bool) {
	var candidates []string
	seen := map[string]bool{}
	for _, prompt := range pool {
		key := catalog.NormalizeKey(prompt)
		if key == "" || seen[key] || !keep(key) || !catalog.ValidatePrompt(prompt) {
			continue
		}
		seen[key] = true
		candidates = append(candidates, prompt)
	}
	prompt, _, ok := weightedPick(p.rand, candidates, func(s string) float64 {
		return FeedbackWeight(history.Stats(catalog.NormalizeKey(s)))
	})
	return prompt, ok
}
