package dataset

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/bluele/gcache"
)

// TableLoader loads a canonical trip table from a file on disk
type TableLoader interface {
	Load(ctx context.Context, path string) (*Table, error)
}

// Cache keeps recently loaded tables in memory keyed by cleaned absolute
// path, with LRU eviction. Re-reading a multi-hundred-megabyte export on
// every dashboard interaction is what this avoids; entries never expire on
// their own unless a TTL is configured, so a changed file on disk requires
// an explicit Invalidate.
type Cache struct {
	loader TableLoader
	cache  gcache.Cache
	logger *slog.Logger

	mu     sync.Mutex
	hits   int64
	misses int64
}

// NewCache creates a dataset cache holding up to maxEntries tables.
// A zero ttl disables expiration.
func NewCache(loader TableLoader, maxEntries int, ttl time.Duration, logger *slog.Logger) *Cache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	builder := gcache.New(maxEntries).LRU()
	if ttl > 0 {
		builder = builder.Expiration(ttl)
	}

	return &Cache{
		loader: loader,
		cache:  builder.Build(),
		logger: logger,
	}
}

// cacheKey normalizes a path so different spellings of the same file share
// one entry.
func cacheKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// Get returns the table for path, loading it on a cache miss. The second
// return value reports whether the table came from the cache.
func (c *Cache) Get(ctx context.Context, path string) (*Table, bool, error) {
	key := cacheKey(path)

	if cached, err := c.cache.Get(key); err == nil {
		if table, ok := cached.(*Table); ok {
			c.count(&c.hits)
			return table, true, nil
		}
	}
	c.count(&c.misses)

	table, err := c.loader.Load(ctx, path)
	if err != nil {
		return nil, false, err
	}
	if err := c.cache.Set(key, table); err != nil {
		c.logger.WarnContext(ctx, "failed to cache dataset",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}
	return table, false, nil
}

// Invalidate removes the cached table for path, forcing the next Get to
// re-read the file. Returns true when an entry was removed.
func (c *Cache) Invalidate(path string) bool {
	return c.cache.Remove(cacheKey(path))
}

// Purge drops every cached table
func (c *Cache) Purge() {
	c.cache.Purge()
}

// Stats returns the hit and miss counters since startup
func (c *Cache) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *Cache) count(counter *int64) {
	c.mu.Lock()
	*counter++
	c.mu.Unlock()
}
