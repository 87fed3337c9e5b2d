// Package snapshot collapses a user's recent entries into one short-lived
// ContextSnapshot of categorical signals.
package snapshot

import (
	"slices"

	"github.com/alexanderramin/reflekt/internal/domain"
)

// MaxRecentEntries bounds how many of the newest entries feed a snapshot.
const MaxRecentEntries = 12

// Snapshot is the aggregated signal object computed fresh per selection call.
// It is never persisted.
type Snapshot struct {
	Domains []domain.DomainTag `json:"domains"`
	Actions []domain.ActionTag `json:"actions"`
	States  []domain.StateTag  `json:"states"`
	Tone    domain.ToneTag     `json:"tone"`
	Modes   []domain.ModeTag   `json:"modes"`

	WeekMode  domain.WeekMode `json:"week_mode"`
	DayName   string          `json:"day_name"`
	IsWeekend bool            `json:"is_weekend"`
	Month     int             `json:"month"`
	Season    string          `json:"season"`
	TimeTheme TimeTheme       `json:"time_theme"`

	Timeframe     string `json:"timeframe"`
	TimeframeNext string `json:"timeframe_next"`
	TimeframeEnd  string `json:"timeframe_end"`

	SentimentTrend   int                 `json:"sentiment_trend"`
	Confidence       float64             `json:"confidence"`
	EntryCount       int                 `json:"entry_count"`
	AvgWordsPerEntry int                 `json:"avg_words_per_entry"`
	TopMoods         []string            `json:"top_moods"`
	PromptMoodTrend  []domain.PromptMood `json:"prompt_mood_trend"`
}

// HasMode reports whether the mode flag is set.
func (s Snapshot) HasMode(m domain.ModeTag) bool {
	return slices.Contains(s.Modes, m)
}

// HasDomain reports whether the domain is active.
func (s Snapshot) HasDomain(d domain.DomainTag) bool {
	return slices.Contains(s.Domains, d)
}

// HasAction reports whether the action was detected.
func (s Snapshot) HasAction(a domain.ActionTag) bool {
	return slices.Contains(s.Actions, a)
}

// HasState reports whether the state was detected.
func (s Snapshot) HasState(st domain.StateTag) bool {
	return slices.Contains(s.States, st)
}

// Default returns the snapshot used when no entries are available and no
// clock-derived context matters: general domain, gentle tone, weekday.
func Default() Snapshot {
	return Snapshot{
		Domains:       []domain.DomainTag{domain.DomainGeneral},
		Actions:       []domain.ActionTag{},
		States:        []domain.StateTag{},
		Tone:          domain.ToneGentle,
		Modes:         []domain.ModeTag{domain.ModeLowSignal},
		WeekMode:      domain.WeekModeWeekday,
		Timeframe:     "today",
		TimeframeNext: "tomorrow",
		TimeframeEnd:  "tonight",
	}
}
