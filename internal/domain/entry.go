package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// JournalEntry is a prior entry supplied by the persistence layer. The engine
// only reads entries; it never mutates them.
type JournalEntry struct {
	ID        string     `json:"id" yaml:"id"`
	Content   string     `json:"content" yaml:"content"`
	Title     string     `json:"title" yaml:"title"`
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	Mood      *Mood      `json:"mood,omitempty" yaml:"mood,omitempty"`
}

// RecencyKey returns the timestamp used to order entries: created, then
// updated, then the zero time.
func (e JournalEntry) RecencyKey() time.Time {
	if e.CreatedAt != nil && !e.CreatedAt.IsZero() {
		return *e.CreatedAt
	}
	if e.UpdatedAt != nil && !e.UpdatedAt.IsZero() {
		return *e.UpdatedAt
	}
	return time.Time{}
}

// Mood is the normalized form of a stored mood. Stored moods arrive either as a
// plain label ("Bad") or as a serialized object ({"label":"Bad","confidence":0.7});
// both collapse into this value before any scoring logic sees them.
type Mood struct {
	Label      string  `json:"label" yaml:"label"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// ParseMood normalizes a raw stored mood. It returns nil for empty input.
func ParseMood(raw string) *Mood {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "{") {
		var m struct {
			Label      string   `json:"label"`
			Mood       string   `json:"mood"`
			Confidence *float64 `json:"confidence"`
		}
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			return nil
		}
		label := strings.TrimSpace(m.Label)
		if label == "" {
			label = strings.TrimSpace(m.Mood)
		}
		if label == "" {
			return nil
		}
		conf := 1.0
		if m.Confidence != nil && *m.Confidence >= 0 && *m.Confidence <= 1 {
			conf = *m.Confidence
		}
		return &Mood{Label: label, Confidence: conf}
	}
	return &Mood{Label: s, Confidence: 1}
}

// UnmarshalJSON accepts both the string and the object form.
func (m *Mood) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if parsed := ParseMood(s); parsed != nil {
			*m = *parsed
		}
		return nil
	}
	if parsed := ParseMood(string(data)); parsed != nil {
		*m = *parsed
	}
	return nil
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (m *Mood) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		if parsed := ParseMood(s); parsed != nil {
			*m = *parsed
		}
		return nil
	}
	var obj struct {
		Label      string  `yaml:"label"`
		Confidence float64 `yaml:"confidence"`
	}
	if err := unmarshal(&obj); err != nil {
		return nil
	}
	if strings.TrimSpace(obj.Label) != "" {
		m.Label = strings.TrimSpace(obj.Label)
		m.Confidence = obj.Confidence
		if m.Confidence <= 0 || m.Confidence > 1 {
			m.Confidence = 1
		}
	}
	return nil
}

// PromptMood is the coarse mood bucket used to pick a tone.
type PromptMood string

const (
	PromptMoodAnxious    PromptMood = "anxious"
	PromptMoodReflective PromptMood = "reflective"
	PromptMoodGrateful   PromptMood = "grateful"
	PromptMoodStuck      PromptMood = "stuck"
)

// PromptMoodFromLabel maps stored mood labels (Great/Good/Okay/Bad/Awful or a
// prompt mood name) into a PromptMood. Unknown labels yield "".
func PromptMoodFromLabel(label string) PromptMood {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "anxious", "awful":
		return PromptMoodAnxious
	case "reflective", "good", "okay":
		return PromptMoodReflective
	case "grateful", "great":
		return PromptMoodGrateful
	case "stuck", "bad":
		return PromptMoodStuck
	default:
		return ""
	}
}
