package testutil

import (
	"time"

	"github.com/alexanderramin/reflekt/internal/domain"
	"github.com/google/uuid"
)

// Entry options
type EntryOption func(*domain.JournalEntry)

func WithID(id string) EntryOption {
	return func(e *domain.JournalEntry) {
		e.ID = id
	}
}

func WithTitle(title string) EntryOption {
	return func(e *domain.JournalEntry) {
		e.Title = title
	}
}

// WithMood accepts a plain label or a serialized {label, confidence} object.
func WithMood(raw string) EntryOption {
	return func(e *domain.JournalEntry) {
		e.Mood = domain.ParseMood(raw)
	}
}

func WithUpdatedAt(t time.Time) EntryOption {
	return func(e *domain.JournalEntry) {
		e.UpdatedAt = &t
	}
}

// WithoutCreatedAt clears the creation time so recency falls back to UpdatedAt.
func WithoutCreatedAt() EntryOption {
	return func(e *domain.JournalEntry) {
		e.CreatedAt = nil
	}
}

func NewTestEntry(content string, createdAt time.Time, opts ...EntryOption) domain.JournalEntry {
	e := domain.JournalEntry{
		ID:        uuid.New().String(),
		Content:   content,
		CreatedAt: &createdAt,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// NewTestWeek returns one entry per content string, spaced a day apart and
// ending one hour before now, newest last.
func NewTestWeek(now time.Time, mood string, contents ...string) []domain.JournalEntry {
	out := make([]domain.JournalEntry, 0, len(contents))
	for i, c := range contents {
		at := now.Add(-time.Hour - time.Duration(len(contents)-1-i)*24*time.Hour)
		out = append(out, NewTestEntry(c, at, WithMood(mood)))
	}
	return out
}
