package service

import (
	"context"
	"time"

	"github.com/alexanderramin/reflekt/internal/title"
)

type titleService struct {
	generator title.Generator
	observer  UseCaseObserver
}

// NewTitleService creates a TitleService. A nil generator keeps every
// suggestion local.
func NewTitleService(generator title.Generator, observers ...UseCaseObserver) TitleService {
	return &titleService{
		generator: generator,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *titleService) SuggestLocal(content, currentTitle string) []string {
	return title.SuggestLocal(content, currentTitle)
}

// Suggest prefers the generator and quietly falls back to local titles.
func (s *titleService) Suggest(ctx context.Context, content, currentTitle string) []string {
	startedAt := time.Now()
	titles, err := title.Suggest(ctx, s.generator, content, currentTitle)
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "suggest-titles",
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    map[string]any{"count": len(titles), "fallback": err != nil},
	})
	return titles
}
