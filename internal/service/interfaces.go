package service

import (
	"context"
	"time"

	"github.com/alexanderramin/reflekt/internal/domain"
	"github.com/alexanderramin/reflekt/internal/selection"
	"github.com/alexanderramin/reflekt/internal/snapshot"
)

// PromptService selects prompts for one user at a time and records how they
// were received. Selection itself never fails; errors only come from the
// selection-state store.
type PromptService interface {
	Context(entries []domain.JournalEntry) snapshot.Snapshot
	Candidates(ctx context.Context, user string, entries []domain.JournalEntry) []string
	Explain(ctx context.Context, user string, entries []domain.JournalEntry) []selection.ScoredTemplate
	Pick(ctx context.Context, req PickRequest) (*PickResponse, error)
	MarkShown(ctx context.Context, user, prompt string) error
	MarkCompleted(ctx context.Context, user, prompt, content string) error
	Generate(ctx context.Context, user string, entries []domain.JournalEntry) (*GenerateResponse, error)
	PruneState(ctx context.Context, ttl time.Duration, maxKeys int) (int, error)
	// Wait blocks until background refills started by Pick have finished.
	Wait()
}

// TitleService suggests titles for a single entry.
type TitleService interface {
	SuggestLocal(content, currentTitle string) []string
	Suggest(ctx context.Context, content, currentTitle string) []string
}

// PickRequest asks for the next prompt to show.
type PickRequest struct {
	User    string
	Entries []domain.JournalEntry
	// Current is the prompt on screen, if any.
	Current string
	Exclude []string
	// Pool replaces the engine's live candidates when the caller already
	// holds a batch.
	Pool []string
}

// PickResponse is the chosen prompt plus a soft status for display.
type PickResponse struct {
	selection.PickResult
	Message string `json:"message,omitempty"`
}

// GenerateResponse is a widened prompt batch.
type GenerateResponse struct {
	Prompts []string `json:"prompts"`
	// Expanded counts templates the expansion round added.
	Expanded int `json:"expanded"`
	// Session counts all session templates behind the batch.
	Session int              `json:"session"`
	Status  selection.Status `json:"status"`
}
