package expansion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/alexanderramin/reflekt/internal/catalog"
	"github.com/alexanderramin/reflekt/internal/domain"
	"github.com/alexanderramin/reflekt/internal/llm"
	"github.com/alexanderramin/reflekt/internal/snapshot"
)

var ignoreJanitor = goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run")

func workSnapshot() snapshot.Snapshot {
	snap := snapshot.Default()
	snap.Domains = []domain.DomainTag{domain.DomainWork}
	snap.Actions = []domain.ActionTag{domain.ActionPlan}
	snap.Modes = nil
	snap.Confidence = 0.8
	return snap
}

func aiTemplate(id, text string) catalog.Template {
	return catalog.Template{
		ID:      id,
		Domains: []domain.DomainTag{domain.DomainWork},
		Actions: []domain.ActionTag{domain.ActionPlan},
		Tones:   []domain.ToneTag{domain.ToneGentle},
		Text:    text,
	}
}

// fakeExpander returns fixed templates, optionally blocking until released.
type fakeExpander struct {
	calls     atomic.Int32
	templates []catalog.Template
	err       error
	release   chan struct{}
	canceled  atomic.Bool
}

func (f *fakeExpander) Expand(ctx context.Context, _ snapshot.Snapshot) ([]catalog.Template, error) {
	f.calls.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			f.canceled.Store(true)
			return nil, ctx.Err()
		}
	}
	return f.templates, f.err
}

func waiters(c *Coordinator, user string, snap snapshot.Snapshot) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.inflight[cacheKey(user, snap)]; ok {
		return f.waiters
	}
	return 0
}

func TestCacheKey_IgnoresCountsAndConfidence(t *testing.T) {
	a := workSnapshot()
	b := workSnapshot()
	b.Confidence = 0.1
	b.EntryCount = 9
	b.DayName = "Tuesday"
	assert.Equal(t, CacheKey(a), CacheKey(b))
	assert.Equal(t, "work::plan::::::weekday::gentle::today::tomorrow::tonight", CacheKey(a))

	b.Tone = domain.ToneUpbeat
	assert.NotEqual(t, CacheKey(a), CacheKey(b))
}

func TestCache_TTL(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	c := NewCache(DefaultCacheConfig(), func() time.Time { return now })

	assert.Nil(t, c.Get("k"))
	c.Add("k", []catalog.Template{aiTemplate("ai_1", "What would make {timeframe_next} at work feel lighter?")})
	require.Len(t, c.Get("k"), 1)

	now = now.Add(21 * time.Minute)
	assert.Nil(t, c.Get("k"))
}

func TestCache_EvictsOldestKeys(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	c := NewCache(CacheConfig{MaxKeys: 3}, func() time.Time { return now })

	for i := 0; i < 5; i++ {
		c.Add(fmt.Sprintf("k%d", i), []catalog.Template{aiTemplate("ai_x", "What would make {timeframe_next} at work feel lighter?")})
		now = now.Add(time.Minute)
	}

	assert.Equal(t, 3, c.Len())
	assert.Nil(t, c.Get("k0"))
	assert.Nil(t, c.Get("k1"))
	assert.NotNil(t, c.Get("k4"))
}

func TestCache_KeyBoundIsPerNamespace(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	c := NewCache(CacheConfig{MaxKeys: 2}, func() time.Time { return now })
	tpl := []catalog.Template{aiTemplate("ai_x", "What would make {timeframe_next} at work feel lighter?")}

	quiet := "quiet" + namespaceSep + "k"
	c.Add(quiet, tpl)
	now = now.Add(time.Minute)
	for i := 0; i < 5; i++ {
		c.Add(fmt.Sprintf("busy%sk%d", namespaceSep, i), tpl)
		now = now.Add(time.Minute)
	}

	assert.NotNil(t, c.Get(quiet), "a busy user does not evict another user's entries")
	assert.Nil(t, c.Get("busy"+namespaceSep+"k0"))
	assert.NotNil(t, c.Get("busy"+namespaceSep+"k4"))
	assert.Equal(t, 3, c.Len())
}

func TestCache_KeepsMostRecentTemplatesPerKey(t *testing.T) {
	c := NewCache(CacheConfig{MaxTemplatesPerKey: 2}, nil)
	c.Add("k", []catalog.Template{aiTemplate("ai_1", "What would make {timeframe_next} at work feel lighter?")})
	c.Add("k", []catalog.Template{aiTemplate("ai_1", "ignored duplicate id at work today?")})
	merged := c.Add("k", []catalog.Template{
		aiTemplate("ai_2", "Which meeting {timeframe_next} deserves the most of your energy?"),
		aiTemplate("ai_3", "What is one boundary you could hold at work {timeframe}?"),
	})

	require.Len(t, merged, 2)
	assert.Equal(t, "ai_2", merged[0].ID)
	assert.Equal(t, "ai_3", merged[1].ID)
}

func TestSanitize(t *testing.T) {
	ok, valid := sanitize(candidate{
		ID: "ai_1", Domains: []string{"Work"}, Actions: []string{"plan"}, Tones: []string{"gentle"},
		Text: "What would make   {timeframe_next} at work feel lighter?",
	})
	require.True(t, valid)
	assert.Equal(t, []domain.DomainTag{domain.DomainWork}, ok.Domains)
	assert.Equal(t, "What would make {timeframe_next} at work feel lighter?", ok.Text)

	generated, valid := sanitize(candidate{Domains: []string{"self"}, Text: "What do you want to remember about {timeframe}?"})
	require.True(t, valid)
	assert.True(t, strings.HasPrefix(generated.ID, "ai_"))

	rejects := map[string]candidate{
		"short id":       {ID: "a", Domains: []string{"work"}, Text: "What would make {timeframe_next} at work feel lighter?"},
		"unknown domain": {ID: "ai_2", Domains: []string{"hobbies"}, Text: "What would make {timeframe_next} feel lighter for you?"},
		"unknown tone":   {ID: "ai_3", Domains: []string{"self"}, Tones: []string{"sarcastic"}, Text: "What would make {timeframe_next} feel lighter for you?"},
		"hedged domain":  {ID: "ai_4", Domains: []string{"work"}, Text: "What is weighing on you at work or school {timeframe}?"},
		"meta word":      {ID: "ai_5", Domains: []string{"self"}, Text: "What should this journal remind you of {timeframe}?"},
		"bad slot":       {ID: "ai_6", Domains: []string{"self"}, Text: "What would {name} say about your week so far?"},
		"no domains":     {ID: "ai_7", Text: "What would make {timeframe_next} feel lighter for you?"},
	}
	for name, c := range rejects {
		t.Run(name, func(t *testing.T) {
			_, valid := sanitize(c)
			assert.False(t, valid)
		})
	}
}

func TestCoordinator_GateSkipsRequest(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreJanitor)

	exp := &fakeExpander{templates: []catalog.Template{aiTemplate("ai_1", "What would make {timeframe_next} at work feel lighter?")}}
	c := NewCoordinator(exp, nil, 0)

	for name, mutate := range map[string]func(*snapshot.Snapshot){
		"low confidence": func(s *snapshot.Snapshot) { s.Confidence = 0.5 },
		"low signal":     func(s *snapshot.Snapshot) { s.Modes = []domain.ModeTag{domain.ModeLowSignal} },
		"sensitive":      func(s *snapshot.Snapshot) { s.Modes = []domain.ModeTag{domain.ModeSensitive} },
	} {
		snap := workSnapshot()
		mutate(&snap)
		res, err := c.Templates(context.Background(), "u1", snap)
		require.NoError(t, err, name)
		assert.False(t, res.Attempted, name)
	}
	assert.Equal(t, int32(0), exp.calls.Load())
}

func TestCoordinator_ExpandsAndCaches(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreJanitor)

	exp := &fakeExpander{templates: []catalog.Template{aiTemplate("ai_1", "What would make {timeframe_next} at work feel lighter?")}}
	c := NewCoordinator(exp, nil, 0)
	snap := workSnapshot()

	res, err := c.Templates(context.Background(), "u1", snap)
	require.NoError(t, err)
	assert.True(t, res.Attempted)
	assert.Equal(t, 1, res.Added)
	require.Len(t, res.Templates, 1)

	assert.Len(t, c.Cached("u1", snap), 1)
	assert.Empty(t, c.Cached("u2", snap), "cache is namespaced per user")
}

func TestCoordinator_FreshCacheEntrySkipsRequest(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreJanitor)

	exp := &fakeExpander{templates: []catalog.Template{aiTemplate("ai_1", "What would make {timeframe_next} at work feel lighter?")}}
	c := NewCoordinator(exp, nil, 0)
	snap := workSnapshot()

	_, err := c.Templates(context.Background(), "u1", snap)
	require.NoError(t, err)

	res, err := c.Templates(context.Background(), "u1", snap)
	require.NoError(t, err)
	assert.False(t, res.Attempted)
	assert.Equal(t, 1, res.Cached)
	assert.Zero(t, res.Added)
	assert.Len(t, res.Templates, 1)
	assert.Equal(t, int32(1), exp.calls.Load())

	// Another user has no entry yet and still expands.
	res, err = c.Templates(context.Background(), "u2", snap)
	require.NoError(t, err)
	assert.True(t, res.Attempted)
	assert.Equal(t, int32(2), exp.calls.Load())
}

func TestCoordinator_RefreshExpandsPastCache(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreJanitor)

	cache := NewCache(DefaultCacheConfig(), nil)
	snap := workSnapshot()
	cache.Add(cacheKey("u1", snap), []catalog.Template{aiTemplate("ai_1", "What would make {timeframe_next} at work feel lighter?")})

	exp := &fakeExpander{templates: []catalog.Template{aiTemplate("ai_2", "Which meeting {timeframe_next} deserves the most of your energy?")}}
	c := NewCoordinator(exp, cache, 0)

	res, err := c.Refresh(context.Background(), "u1", snap)
	require.NoError(t, err)
	assert.True(t, res.Attempted)
	assert.Equal(t, 1, res.Cached)
	assert.Equal(t, 1, res.Added)
	assert.Len(t, res.Templates, 2)
	assert.Equal(t, int32(1), exp.calls.Load())
}

func TestCoordinator_AddedCountsReplacementsAtCap(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreJanitor)

	cache := NewCache(CacheConfig{MaxTemplatesPerKey: 2}, nil)
	snap := workSnapshot()
	cache.Add(cacheKey("u1", snap), []catalog.Template{
		aiTemplate("ai_1", "What would make {timeframe_next} at work feel lighter?"),
		aiTemplate("ai_2", "Which meeting {timeframe_next} deserves the most of your energy?"),
	})

	exp := &fakeExpander{templates: []catalog.Template{aiTemplate("ai_3", "What is one boundary you could hold at work {timeframe}?")}}
	res, err := NewCoordinator(exp, cache, 0).Refresh(context.Background(), "u1", snap)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)
	require.Len(t, res.Templates, 2)
	assert.Equal(t, "ai_3", res.Templates[1].ID)
}

func TestCoordinator_FailureKeepsCachedTemplates(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreJanitor)

	cache := NewCache(DefaultCacheConfig(), nil)
	snap := workSnapshot()
	cache.Add(cacheKey("u1", snap), []catalog.Template{aiTemplate("ai_1", "What would make {timeframe_next} at work feel lighter?")})

	exp := &fakeExpander{err: llm.ErrTimeout}
	c := NewCoordinator(exp, cache, 0)

	res, err := c.Refresh(context.Background(), "u1", snap)
	assert.ErrorIs(t, err, llm.ErrTimeout)
	assert.Equal(t, 1, res.Cached)
	assert.Len(t, res.Templates, 1)
	assert.Len(t, c.Cached("u1", snap), 1)
}

func TestCoordinator_SingleFlightPerUserAndKey(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreJanitor)

	exp := &fakeExpander{
		templates: []catalog.Template{aiTemplate("ai_1", "What would make {timeframe_next} at work feel lighter?")},
		release:   make(chan struct{}),
	}
	c := NewCoordinator(exp, nil, 0)
	snap := workSnapshot()

	const callers = 5
	var wg sync.WaitGroup
	results := make([]Result, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := c.Templates(context.Background(), "u1", snap)
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}

	require.Eventually(t, func() bool { return waiters(c, "u1", snap) == callers }, time.Second, 5*time.Millisecond)
	close(exp.release)
	wg.Wait()

	assert.Equal(t, int32(1), exp.calls.Load())
	for _, res := range results {
		assert.Len(t, res.Templates, 1)
	}
}

func TestCoordinator_LastCallerCancelStopsRequest(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreJanitor)

	exp := &fakeExpander{
		templates: []catalog.Template{aiTemplate("ai_1", "What would make {timeframe_next} at work feel lighter?")},
		release:   make(chan struct{}),
	}
	c := NewCoordinator(exp, nil, 0)
	snap := workSnapshot()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Templates(ctx, "u1", snap)
		done <- err
	}()
	require.Eventually(t, func() bool { return exp.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	require.Eventually(t, exp.canceled.Load, time.Second, 5*time.Millisecond)
	assert.Empty(t, c.Cached("u1", snap))

	// A later caller starts a fresh request instead of joining the canceled one.
	close(exp.release)
	res, err := c.Templates(context.Background(), "u1", snap)
	require.NoError(t, err)
	assert.Len(t, res.Templates, 1)
	assert.Equal(t, int32(2), exp.calls.Load())
}

func TestCoordinator_OneCallerCancelDoesNotStopOthers(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreJanitor)

	exp := &fakeExpander{
		templates: []catalog.Template{aiTemplate("ai_1", "What would make {timeframe_next} at work feel lighter?")},
		release:   make(chan struct{}),
	}
	c := NewCoordinator(exp, nil, 0)
	snap := workSnapshot()

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := c.Templates(ctx, "u1", snap)
		first <- err
	}()
	second := make(chan Result, 1)
	go func() {
		res, _ := c.Templates(context.Background(), "u1", snap)
		second <- res
	}()
	require.Eventually(t, func() bool { return waiters(c, "u1", snap) == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)
	assert.False(t, exp.canceled.Load())

	close(exp.release)
	res := <-second
	assert.Len(t, res.Templates, 1)
	assert.Equal(t, int32(1), exp.calls.Load())
}

func TestOllamaExpander_FiltersInvalidTemplates(t *testing.T) {
	var prompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
			Format string `json:"format"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		prompt = req.Prompt
		assert.Equal(t, "json", req.Format)

		out := `{"templates":[
			{"id":"ai_1","domains":["work"],"actions":["plan"],"tones":["gentle"],"text":"What would make {timeframe_next} at work feel lighter?"},
			{"id":"ai_2","domains":["work"],"text":"What is hard at work or school {timeframe}?"},
			{"id":"ai_3","domains":["space"],"text":"What would an astronaut do {timeframe}?"},
		]}`
		_ = json.NewEncoder(w).Encode(map[string]any{"model": "gemma3:4b", "response": out})
	}))
	defer srv.Close()

	cfg := llm.DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoints = []string{srv.URL}
	cfg.Models = []string{"gemma3:4b"}

	exp := NewOllamaExpander(llm.NewOllamaClient(cfg, nil))
	templates, err := exp.Expand(context.Background(), workSnapshot())

	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "ai_1", templates[0].ID)
	assert.Contains(t, prompt, `"domains":["work"]`)
	assert.Contains(t, prompt, "Never use 'work or school' wording.")
}

func TestOllamaExpander_NothingUsable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"model": "gemma3:4b", "response": `{"templates":[]}`})
	}))
	defer srv.Close()

	cfg := llm.DefaultConfig()
	cfg.Endpoints = []string{srv.URL}
	cfg.Models = []string{"gemma3:4b"}

	_, err := NewOllamaExpander(llm.NewOllamaClient(cfg, nil)).Expand(context.Background(), workSnapshot())
	assert.True(t, errors.Is(err, llm.ErrInvalidOutput))
}

func TestWiden_SessionTemplatesComeFirst(t *testing.T) {
	snap := workSnapshot()
	local := []string{
		"What would help you rest a little more tonight?",
		"What would help you rest a little more tonight?",
	}
	session := []catalog.Template{aiTemplate("ai_1", "What would make {timeframe_next} at work feel lighter?")}

	out := Widen(local, session, snap)

	require.NotEmpty(t, out)
	assert.Equal(t, "What would make tomorrow at work feel lighter?", out[0])
	assert.LessOrEqual(t, len(out), BatchSize)
	for _, p := range out {
		assert.True(t, catalog.ValidatePrompt(p), p)
	}
}

func TestPrepend_DedupesAndCaps(t *testing.T) {
	front := []string{"What went well for you today at work?", "not a question"}
	back := []string{"what went well for you today at work?", "What are you hoping for this weekend ahead?"}

	out := Prepend(front, back, 2)
	assert.Equal(t, []string{"What went well for you today at work?", "What are you hoping for this weekend ahead?"}, out)

	assert.Equal(t, []string{"what went well for you today at work?"}, Prepend(nil, back[:1], 5))
}
