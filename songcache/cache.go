// Package songcache keeps a short-lived local copy of the song catalog so
// the client can render instantly and survive brief server outages. Reads
// prefer a fresh cache entry; on a miss the catalog is fetched with a
// bounded timeout, and on fetch failure any cached copy, however old, is
// better than nothing.
package songcache

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/santhiya1818/vibescape/catalog"
)

const (
	// ttl is how long a cache entry is served without hitting the network.
	ttl = 5 * time.Minute
	// fetchTimeout bounds a single catalog fetch.
	fetchTimeout = 10 * time.Second
)

// ErrUnavailable is returned when the fetch fails and no cached copy
// exists. The UI shows its connection-error panel on this.
var ErrUnavailable = errors.New("songcache: catalog unavailable and no cached copy")

// Fetcher loads the catalog from the server.
type Fetcher func(ctx context.Context) ([]catalog.Song, error)

// Entry is one cached catalog snapshot.
type Entry struct {
	Songs     []catalog.Song
	FetchedAt time.Time
}

// Store persists cache entries. The browser client backs this with
// localStorage; MemStore serves everything else.
type Store interface {
	Load() (*Entry, bool)
	Save(Entry)
}

// MemStore is an in-memory Store, safe for concurrent use.
type MemStore struct {
	mu    sync.RWMutex
	entry *Entry
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Load returns the stored entry, if any.
func (s *MemStore) Load() (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.entry == nil {
		return nil, false
	}
	entry := *s.entry
	return &entry, true
}

// Save replaces the stored entry.
func (s *MemStore) Save(entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = &entry
}

// Cache serves the catalog cache-first with fetch fallback.
type Cache struct {
	store   Store
	fetch   Fetcher
	logger  *zap.Logger
	now     func() time.Time
	timeout time.Duration
}

// New creates a Cache over the given store and fetcher.
func New(store Store, fetch Fetcher, logger *zap.Logger) *Cache {
	return &Cache{
		store:   store,
		fetch:   fetch,
		logger:  logger,
		now:     time.Now,
		timeout: fetchTimeout,
	}
}

// Songs returns the catalog. A cache entry younger than five minutes is
// served without a network call. Otherwise the catalog is fetched with a
// bounded timeout; success overwrites the cache, while failure or an empty
// result falls back to any cached copy before giving up with
// ErrUnavailable.
func (c *Cache) Songs(ctx context.Context) ([]catalog.Song, error) {
	cached, ok := c.store.Load()
	if ok && c.now().Sub(cached.FetchedAt) < ttl {
		return cached.Songs, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	songs, err := c.fetch(fetchCtx)
	if err != nil || len(songs) == 0 {
		if ok {
			c.logger.Warn("catalog fetch failed, serving stale cache",
				zap.Time("fetched_at", cached.FetchedAt), zap.Error(err))
			return cached.Songs, nil
		}
		if err == nil {
			return nil, ErrUnavailable
		}
		return nil, errors.Join(ErrUnavailable, err)
	}

	c.store.Save(Entry{Songs: songs, FetchedAt: c.now()})
	return songs, nil
}

// Refresh re-runs the fetch path unconditionally, overwriting the cache on
// success. Failures are logged and the old entry stays.
func (c *Cache) Refresh(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	songs, err := c.fetch(fetchCtx)
	if err != nil || len(songs) == 0 {
		c.logger.Warn("background catalog refresh failed", zap.Error(err))
		return
	}
	c.store.Save(Entry{Songs: songs, FetchedAt: c.now()})
}

// StartRefresher refreshes the cache on a fixed interval until the stop
// channel closes. It runs in its own goroutine.
func (c *Cache) StartRefresher(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.Refresh(context.Background())
			}
		}
	}()
}
