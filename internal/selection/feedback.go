package selection

import "github.com/alexanderramin/reflekt/internal/domain"

// History is the per-user telemetry the picker consults. Keys are
// catalog.NormalizeKey values.
type History interface {
	WasShown(key string) bool
	WasUsed(key string) bool
	Stats(key string) domain.PromptStats
}

// FeedbackWeight favors prompts that get finished and produce longer entries,
// with a small exploration bonus that decays as a prompt is shown more.
func FeedbackWeight(s domain.PromptStats) float64 {
	quality := min(s.AvgWords(), 220) / 160
	completion := s.CompletionRate() * 0.8
	exploration := max(0, 0.35-float64(s.Shown)*0.07)
	return 1 + quality + completion + exploration
}

type emptyHistory struct{}

func (emptyHistory) WasShown(string) bool            { return false }
func (emptyHistory) WasUsed(string) bool             { return false }
func (emptyHistory) Stats(string) domain.PromptStats { return domain.PromptStats{} }
