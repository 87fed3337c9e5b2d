package expansion

import (
	"sort"
	"strings"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/alexanderramin/reflekt/internal/catalog"
)

// namespaceSep splits a cache key into its namespace (the user) and the
// snapshot key. Keys without it share the empty namespace.
const namespaceSep = "\x1f"

func namespace(key string) string {
	ns, _, ok := strings.Cut(key, namespaceSep)
	if !ok {
		return ""
	}
	return ns
}

// CacheConfig bounds the expansion cache. MaxKeys applies to each namespace
// separately.
type CacheConfig struct {
	TTL                time.Duration
	MaxKeys            int
	MaxTemplatesPerKey int
}

// DefaultCacheConfig keeps expansions for 20 minutes, at most 40 keys per
// namespace of at most 80 templates each.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{TTL: 20 * time.Minute, MaxKeys: 40, MaxTemplatesPerKey: 80}
}

// CacheEntry is one cached expansion.
type CacheEntry struct {
	Templates []catalog.Template
	SavedAt   time.Time
}

// Cache holds expanded templates per key with a TTL and a per-namespace key
// bound. When a namespace exceeds the bound its oldest entries are evicted
// first.
type Cache struct {
	mu    sync.Mutex
	items *cache.Cache
	cfg   CacheConfig
	now   func() time.Time
}

// NewCache creates a Cache. A nil clock uses time.Now.
func NewCache(cfg CacheConfig, now func() time.Time) *Cache {
	def := DefaultCacheConfig()
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.MaxKeys <= 0 {
		cfg.MaxKeys = def.MaxKeys
	}
	if cfg.MaxTemplatesPerKey <= 0 {
		cfg.MaxTemplatesPerKey = def.MaxTemplatesPerKey
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{
		items: cache.New(cfg.TTL, cfg.TTL),
		cfg:   cfg,
		now:   now,
	}
}

// Get returns a copy of the templates cached under key, or nil when the key
// is missing or older than the TTL.
func (c *Cache) Get(key string) []catalog.Template {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.items.Get(key)
	if !ok {
		return nil
	}
	entry := v.(CacheEntry)
	if c.now().Sub(entry.SavedAt) > c.cfg.TTL {
		c.items.Delete(key)
		return nil
	}
	return append([]catalog.Template(nil), entry.Templates...)
}

// Add merges templates into the entry for key, keeping the most recent
// MaxTemplatesPerKey, and resets the entry's age. It returns the merged list.
func (c *Cache) Add(key string, templates []catalog.Template) []catalog.Template {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var existing []catalog.Template
	if v, ok := c.items.Get(key); ok {
		if entry := v.(CacheEntry); now.Sub(entry.SavedAt) <= c.cfg.TTL {
			existing = entry.Templates
		}
	}
	merged := catalog.Merge(existing, templates)
	if over := len(merged) - c.cfg.MaxTemplatesPerKey; over > 0 {
		merged = merged[over:]
	}
	if len(merged) == 0 {
		return nil
	}
	c.items.Set(key, CacheEntry{Templates: merged, SavedAt: now}, cache.DefaultExpiration)
	c.evict(now, namespace(key))
	return append([]catalog.Template(nil), merged...)
}

// Len reports the number of live keys.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.ItemCount()
}

// evict drops entries past the TTL, then the oldest entries of ns over
// MaxKeys. Callers hold c.mu.
func (c *Cache) evict(now time.Time, ns string) {
	type row struct {
		key   string
		saved time.Time
	}
	var rows []row
	for k, item := range c.items.Items() {
		entry := item.Object.(CacheEntry)
		if now.Sub(entry.SavedAt) > c.cfg.TTL {
			c.items.Delete(k)
			continue
		}
		if namespace(k) == ns {
			rows = append(rows, row{key: k, saved: entry.SavedAt})
		}
	}
	if len(rows) <= c.cfg.MaxKeys {
		return
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].saved.Equal(rows[j].saved) {
			return rows[i].key < rows[j].key
		}
		return rows[i].saved.Before(rows[j].saved)
	})
	for _, r := range rows[:len(rows)-c.cfg.MaxKeys] {
		c.items.Delete(r.key)
	}
}
