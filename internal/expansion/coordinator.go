package expansion

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/alexanderramin/reflekt/internal/catalog"
	"github.com/alexanderramin/reflekt/internal/domain"
	"github.com/alexanderramin/reflekt/internal/snapshot"
)

// DefaultMinConfidence is the snapshot confidence below which no expansion
// request is made.
const DefaultMinConfidence = 0.55

// Result is what one expansion round produced for a user and snapshot.
type Result struct {
	// Templates are the cached and newly expanded templates for the key.
	Templates []catalog.Template
	Cached    int
	Added     int
	// Attempted is false when the gate skipped the request or a fresh cache
	// entry made it unnecessary.
	Attempted bool
}

// flight tracks callers waiting on one in-flight expansion so the request is
// canceled once every caller has given up.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// Coordinator gates expansion, caches results per user and snapshot key, and
// allows at most one in-flight request per (user, key).
type Coordinator struct {
	expander      Expander
	cache         *Cache
	minConfidence float64

	group    singleflight.Group
	mu       sync.Mutex
	inflight map[string]*flight
}

// NewCoordinator creates a Coordinator. A nil expander installs Noop and a
// nil cache installs one with the default bounds.
func NewCoordinator(expander Expander, c *Cache, minConfidence float64) *Coordinator {
	if expander == nil {
		expander = Noop{}
	}
	if c == nil {
		c = NewCache(DefaultCacheConfig(), nil)
	}
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	return &Coordinator{
		expander:      expander,
		cache:         c,
		minConfidence: minConfidence,
		inflight:      map[string]*flight{},
	}
}

// ShouldExpand reports whether a snapshot carries enough signal to ask for
// new templates. Low-signal and sensitive snapshots never expand.
func (c *Coordinator) ShouldExpand(snap snapshot.Snapshot) bool {
	return snap.Confidence >= c.minConfidence &&
		!snap.HasMode(domain.ModeLowSignal) &&
		!snap.HasMode(domain.ModeSensitive)
}

// Cached returns the user's cached templates for the snapshot without making
// any request.
func (c *Coordinator) Cached(user string, snap snapshot.Snapshot) []catalog.Template {
	return c.cache.Get(cacheKey(user, snap))
}

// Templates returns the user's cached templates for the snapshot, expanding
// only when nothing fresh is cached and the gate allows. An expansion error is
// returned alongside the cached templates so callers can log it and carry on.
// Canceling ctx abandons the wait; the shared request is only canceled when no
// caller is left, and the cache is only written by a completed request.
func (c *Coordinator) Templates(ctx context.Context, user string, snap snapshot.Snapshot) (Result, error) {
	return c.templates(ctx, user, snap, false)
}

// Refresh is Templates without the cache short-circuit: when the gate allows
// it always asks for new templates and merges them into the cached ones.
func (c *Coordinator) Refresh(ctx context.Context, user string, snap snapshot.Snapshot) (Result, error) {
	return c.templates(ctx, user, snap, true)
}

func (c *Coordinator) templates(ctx context.Context, user string, snap snapshot.Snapshot, force bool) (Result, error) {
	key := cacheKey(user, snap)
	cached := c.cache.Get(key)
	res := Result{Templates: cached, Cached: len(cached)}
	if !c.ShouldExpand(snap) || (len(cached) > 0 && !force) {
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	res.Attempted = true

	f, ch := c.start(ctx, key, snap)

	select {
	case r := <-ch:
		c.leave(key, f)
		if r.Err != nil {
			return res, r.Err
		}
		if merged, _ := r.Val.([]catalog.Template); len(merged) > 0 {
			res.Added = countNew(merged, cached)
			res.Templates = append([]catalog.Template(nil), merged...)
		}
		return res, nil
	case <-ctx.Done():
		c.leave(key, f)
		return res, ctx.Err()
	}
}

// countNew counts templates in merged whose ID is not in before.
func countNew(merged, before []catalog.Template) int {
	seen := make(map[string]bool, len(before))
	for _, t := range before {
		seen[t.ID] = true
	}
	n := 0
	for _, t := range merged {
		if !seen[t.ID] {
			n++
		}
	}
	return n
}

// start registers a waiter on the flight for key and subscribes to its
// result, creating the flight if needed. The flight context is detached from
// any single caller.
func (c *Coordinator) start(ctx context.Context, key string, snap snapshot.Snapshot) (*flight, <-chan singleflight.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.inflight[key]
	if !ok {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel}
		c.inflight[key] = f
	}
	f.waiters++

	ch := c.group.DoChan(key, func() (any, error) {
		defer c.finish(key, f)
		added, err := c.expander.Expand(f.ctx, snap)
		if err != nil {
			return nil, err
		}
		if len(added) == 0 {
			return []catalog.Template(nil), nil
		}
		return c.cache.Add(key, added), nil
	})
	return f, ch
}

// leave drops a waiter. The last waiter out cancels the flight, and a
// flight still running is forgotten so the next caller starts a fresh one.
func (c *Coordinator) leave(key string, f *flight) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if c.inflight[key] == f {
		delete(c.inflight, key)
		c.group.Forget(key)
	}
}

func (c *Coordinator) finish(key string, f *flight) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[key] == f {
		delete(c.inflight, key)
	}
}

func cacheKey(user string, snap snapshot.Snapshot) string {
	return user + namespaceSep + CacheKey(snap)
}
