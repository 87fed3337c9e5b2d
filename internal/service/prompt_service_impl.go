package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/reflekt/internal/catalog"
	"github.com/alexanderramin/reflekt/internal/domain"
	"github.com/alexanderramin/reflekt/internal/expansion"
	"github.com/alexanderramin/reflekt/internal/selection"
	"github.com/alexanderramin/reflekt/internal/snapshot"
	"github.com/alexanderramin/reflekt/internal/store"
)

const defaultRefillTimeout = 20 * time.Second

type promptService struct {
	builder   *snapshot.Builder
	engine    *selection.Engine
	picker    *selection.Picker
	states    store.SelectionStore
	expansion *expansion.Coordinator
	observer  UseCaseObserver
	now       func() time.Time

	locks         *userLocks
	refills       sync.WaitGroup
	refillTimeout time.Duration
}

// PromptServiceOption adjusts a PromptService at construction.
type PromptServiceOption func(*promptService)

// WithClock sets the clock used for snapshots and telemetry timestamps.
func WithClock(now func() time.Time) PromptServiceOption {
	return func(s *promptService) {
		s.now = now
		s.builder = &snapshot.Builder{Now: now}
	}
}

// WithEngine replaces the default engine and picker, typically to seed them.
func WithEngine(engine *selection.Engine, picker *selection.Picker) PromptServiceOption {
	return func(s *promptService) {
		s.engine = engine
		s.picker = picker
	}
}

// WithExpansion installs the expansion coordinator. Without it no prompt
// pool is ever widened.
func WithExpansion(c *expansion.Coordinator) PromptServiceOption {
	return func(s *promptService) { s.expansion = c }
}

// WithObserver records every use case.
func WithObserver(o UseCaseObserver) PromptServiceOption {
	return func(s *promptService) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithRefillTimeout bounds background refills started by Pick.
func WithRefillTimeout(d time.Duration) PromptServiceOption {
	return func(s *promptService) { s.refillTimeout = d }
}

// NewPromptService wires a PromptService over a selection-state store.
func NewPromptService(states store.SelectionStore, opts ...PromptServiceOption) PromptService {
	s := &promptService{
		builder:       snapshot.NewBuilder(),
		engine:        selection.NewEngine(nil),
		picker:        selection.NewPicker(nil),
		states:        states,
		observer:      NoopUseCaseObserver{},
		now:           time.Now,
		locks:         newUserLocks(),
		refillTimeout: defaultRefillTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *promptService) Context(entries []domain.JournalEntry) snapshot.Snapshot {
	return s.builder.Build(entries)
}

// templates is the static catalog followed by the user's cached session
// templates for this snapshot.
func (s *promptService) templates(user string, snap snapshot.Snapshot) []catalog.Template {
	if s.expansion == nil {
		return catalog.Library()
	}
	return catalog.Merge(catalog.Library(), s.expansion.Cached(user, snap))
}

func (s *promptService) Candidates(_ context.Context, user string, entries []domain.JournalEntry) []string {
	snap := s.builder.Build(entries)
	return s.engine.BatchFrom(s.templates(user, snap), snap, nil, selection.CandidateBatchSize)
}

func (s *promptService) Explain(_ context.Context, user string, entries []domain.JournalEntry) []selection.ScoredTemplate {
	snap := s.builder.Build(entries)
	return s.engine.Rank(s.templates(user, snap), snap)
}

func (s *promptService) Pick(ctx context.Context, req PickRequest) (resp *PickResponse, err error) {
	startedAt := s.now()
	fields := map[string]any{"user": req.User}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "pick-prompt",
			StartedAt: startedAt,
			Duration:  s.now().Sub(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	unlock := s.locks.lock(req.User)
	defer unlock()

	snap := s.builder.Build(req.Entries)
	pool := req.Pool
	if len(pool) == 0 {
		pool = s.engine.BatchFrom(s.templates(req.User, snap), snap, nil, selection.CandidateBatchSize)
	}

	state, err := store.Load(ctx, s.states, req.User)
	if err != nil {
		return nil, err
	}

	result := s.picker.Pick(selection.PickRequest{
		Pool:     pool,
		Fallback: s.engine.ContextualFallback(snap),
		Current:  req.Current,
		Exclude:  req.Exclude,
		History:  state,
	})
	// Once fresh prompts run out the pool is widened in the background.
	if result.Step >= selection.StepShown && s.startRefill(req.User, snap) {
		fields["refill"] = true
		if result.Refill {
			result.Status = selection.StatusGenerating
		}
	}
	fields["step"] = result.Step.String()
	fields["status"] = string(result.Status)

	return &PickResponse{PickResult: result, Message: result.Status.Message()}, nil
}

// startRefill widens the user's pool in the background. It reports false
// when no expansion is configured or the snapshot does not qualify.
func (s *promptService) startRefill(user string, snap snapshot.Snapshot) bool {
	if s.expansion == nil || !s.expansion.ShouldExpand(snap) {
		return false
	}
	s.refills.Add(1)
	go func() {
		defer s.refills.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.refillTimeout)
		defer cancel()

		startedAt := s.now()
		res, err := s.expansion.Refresh(ctx, user, snap)
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "refill-prompts",
			StartedAt: startedAt,
			Duration:  s.now().Sub(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"user": user, "added": res.Added},
		})
	}()
	return true
}

// Wait blocks until background refills have finished.
func (s *promptService) Wait() {
	s.refills.Wait()
}

func (s *promptService) MarkShown(ctx context.Context, user, prompt string) error {
	return s.update(ctx, "mark-shown", user, prompt, func(st *store.SelectionState, now time.Time) {
		st.MarkShown(prompt, now)
	})
}

func (s *promptService) MarkCompleted(ctx context.Context, user, prompt, content string) error {
	return s.update(ctx, "mark-completed", user, prompt, func(st *store.SelectionState, now time.Time) {
		st.MarkCompleted(prompt, content, now)
	})
}

func (s *promptService) update(ctx context.Context, name, user, prompt string, apply func(*store.SelectionState, time.Time)) (err error) {
	startedAt := s.now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      name,
			StartedAt: startedAt,
			Duration:  s.now().Sub(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"user": user},
		})
	}()

	if strings.TrimSpace(prompt) == "" {
		return nil
	}

	unlock := s.locks.lock(user)
	defer unlock()

	state, err := store.Load(ctx, s.states, user)
	if err != nil {
		return err
	}
	apply(state, s.now())
	if err = s.states.Set(ctx, user, state); err != nil {
		return fmt.Errorf("saving selection state for %s: %w", user, err)
	}
	return nil
}

// Generate returns a local batch widened by session templates. Expansion
// failures are recorded by the observer and never returned.
func (s *promptService) Generate(ctx context.Context, user string, entries []domain.JournalEntry) (resp *GenerateResponse, err error) {
	startedAt := s.now()
	fields := map[string]any{"user": user}
	var expandErr error
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "generate-prompts",
			StartedAt: startedAt,
			Duration:  s.now().Sub(startedAt),
			Success:   expandErr == nil,
			Err:       expandErr,
			Fields:    fields,
		})
	}()

	snap := s.builder.Build(entries)
	local := s.engine.BatchFrom(catalog.Library(), snap, nil, expansion.BatchSize)
	resp = &GenerateResponse{Status: selection.StatusOK}

	var session []catalog.Template
	if s.expansion != nil {
		var res expansion.Result
		res, expandErr = s.expansion.Templates(ctx, user, snap)
		session = res.Templates
		resp.Expanded = res.Added
		fields["attempted"] = res.Attempted
	}
	resp.Session = len(session)
	resp.Prompts = expansion.Widen(local, session, snap)
	fields["session"] = resp.Session
	fields["expanded"] = resp.Expanded
	return resp, nil
}

func (s *promptService) PruneState(ctx context.Context, ttl time.Duration, maxKeys int) (int, error) {
	n, err := s.states.Prune(ctx, ttl, maxKeys)
	if err != nil {
		return 0, fmt.Errorf("pruning selection state: %w", err)
	}
	return n, nil
}
