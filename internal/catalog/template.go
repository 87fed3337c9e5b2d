// Package catalog holds the static, tag-annotated question templates and the
// validation every rendered prompt must pass.
package catalog

import (
	"slices"

	"github.com/alexanderramin/reflekt/internal/domain"
)

// Template is an immutable question skeleton. Text may only reference the
// {timeframe}, {timeframe_next} and {timeframe_end} placeholders.
type Template struct {
	ID      string             `json:"id"`
	Domains []domain.DomainTag `json:"domains"`
	Actions []domain.ActionTag `json:"actions"`
	States  []domain.StateTag  `json:"states,omitempty"`
	Tones   []domain.ToneTag   `json:"tones"`
	Text    string             `json:"text"`
}

// PrimaryAction is the first action tag, used for batch diversity.
func (t Template) PrimaryAction() domain.ActionTag {
	if len(t.Actions) == 0 {
		return ""
	}
	return t.Actions[0]
}

// HasDomain reports whether the template is tagged with d.
func (t Template) HasDomain(d domain.DomainTag) bool {
	return slices.Contains(t.Domains, d)
}

// HasAction reports whether the template is tagged with a.
func (t Template) HasAction(a domain.ActionTag) bool {
	return slices.Contains(t.Actions, a)
}

// HasTone reports whether the template is tagged with tone.
func (t Template) HasTone(tone domain.ToneTag) bool {
	return slices.Contains(t.Tones, tone)
}

// Library returns a copy of the static catalog. Callers may append session
// templates to the copy without touching the catalog itself.
func Library() []Template {
	out := make([]Template, len(library))
	copy(out, library)
	return out
}

// Merge returns base followed by extra templates whose IDs are not already
// present. The first occurrence of an ID wins.
func Merge(base []Template, extra ...[]Template) []Template {
	seen := make(map[string]bool, len(base))
	out := make([]Template, 0, len(base))
	add := func(t Template) {
		if t.ID == "" || t.Text == "" || seen[t.ID] {
			return
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	for _, t := range base {
		add(t)
	}
	for _, list := range extra {
		for _, t := range list {
			add(t)
		}
	}
	return out
}
