package domain

import (
	"strings"
	"time"
)

// PromptStats is the per-prompt telemetry fed back into selection weighting.
type PromptStats struct {
	Shown           int        `json:"shown"`
	Completed       int        `json:"completed"`
	TotalWords      int        `json:"total_words"`
	LastShownAt     *time.Time `json:"last_shown_at,omitempty"`
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty"`
}

// CompletionRate is completed over shown, treating zero shows as one.
func (s PromptStats) CompletionRate() float64 {
	return float64(s.Completed) / float64(max(1, s.Shown))
}

// AvgWords is the mean word count of entries written against the prompt.
func (s PromptStats) AvgWords() float64 {
	if s.Completed == 0 {
		return 0
	}
	return float64(s.TotalWords) / float64(s.Completed)
}

// LastTouched is the newest of the two telemetry timestamps, used for LRU caps.
func (s PromptStats) LastTouched() time.Time {
	var t time.Time
	if s.LastShownAt != nil {
		t = *s.LastShownAt
	}
	if s.LastCompletedAt != nil && s.LastCompletedAt.After(t) {
		t = *s.LastCompletedAt
	}
	return t
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
