package entries

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/reflekt/internal/domain"
)

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// Validate reports every problem in raw entries.
func Validate(raw []EntryImport) []error {
	var errs []error
	ids := map[string]int{}
	for i, e := range raw {
		if strings.TrimSpace(e.Content) == "" && strings.TrimSpace(e.Title) == "" {
			errs = append(errs, fmt.Errorf("%w: entries[%d] has neither content nor title", ErrInvalidEntry, i))
		}
		if id := strings.TrimSpace(e.ID); id != "" {
			if prev, dup := ids[id]; dup {
				errs = append(errs, fmt.Errorf("%w: entries[%d] repeats id %q from entries[%d]", ErrInvalidEntry, i, id, prev))
			}
			ids[id] = i
		}
		for field, v := range map[string]string{"created_at": e.CreatedAt, "updated_at": e.UpdatedAt} {
			if _, err := parseTime(v); err != nil {
				errs = append(errs, fmt.Errorf("%w: entries[%d].%s: %v", ErrInvalidEntry, i, field, err))
			}
		}
	}
	return errs
}

// Convert validates raw entries and maps them onto domain entries. Entries
// without an id get a generated one.
func Convert(raw []EntryImport) ([]domain.JournalEntry, error) {
	if errs := Validate(raw); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	out := make([]domain.JournalEntry, 0, len(raw))
	for _, e := range raw {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			id = uuid.NewString()
		}
		created, _ := parseTime(e.CreatedAt)
		updated, _ := parseTime(e.UpdatedAt)
		out = append(out, domain.JournalEntry{
			ID:        id,
			Title:     strings.TrimSpace(e.Title),
			Content:   e.Content,
			CreatedAt: created,
			UpdatedAt: updated,
			Mood:      e.Mood,
		})
	}
	return out, nil
}

// parseTime returns nil for an empty value.
func parseTime(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized time %q", s)
}
