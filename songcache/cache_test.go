package songcache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/santhiya1818/vibescape/catalog"
)

func fixedSongs() []catalog.Song {
	return []catalog.Song{{Title: "A", Artist: "X"}, {Title: "B", Artist: "Y"}}
}

func countingFetcher(songs []catalog.Song, err error, calls *int32) Fetcher {
	return func(ctx context.Context) ([]catalog.Song, error) {
		atomic.AddInt32(calls, 1)
		return songs, err
	}
}

func TestFreshCacheSkipsFetch(t *testing.T) {
	store := NewMemStore()
	store.Save(Entry{Songs: fixedSongs(), FetchedAt: time.Now()})

	var calls int32
	cache := New(store, countingFetcher(nil, errors.New("must not be called"), &calls), zap.NewNop())

	songs, err := cache.Songs(context.Background())
	if err != nil {
		t.Fatalf("Songs: %v", err)
	}
	if len(songs) != 2 {
		t.Errorf("songs = %+v", songs)
	}
	if calls != 0 {
		t.Errorf("fetch called %d times for a fresh cache", calls)
	}
}

func TestStaleCacheIsOverwritten(t *testing.T) {
	store := NewMemStore()
	store.Save(Entry{
		Songs:     []catalog.Song{{Title: "Old", Artist: "X"}},
		FetchedAt: time.Now().Add(-10 * time.Minute),
	})

	var calls int32
	cache := New(store, countingFetcher(fixedSongs(), nil, &calls), zap.NewNop())

	songs, err := cache.Songs(context.Background())
	if err != nil {
		t.Fatalf("Songs: %v", err)
	}
	if calls != 1 {
		t.Errorf("fetch called %d times", calls)
	}
	if len(songs) != 2 || songs[0].Title != "A" {
		t.Errorf("songs = %+v, want fetched catalog", songs)
	}

	entry, ok := store.Load()
	if !ok || len(entry.Songs) != 2 {
		t.Errorf("cache entry = %+v, want overwritten", entry)
	}
}

func TestFetchFailureFallsBackToStaleCache(t *testing.T) {
	store := NewMemStore()
	store.Save(Entry{
		Songs:     []catalog.Song{{Title: "Old", Artist: "X"}},
		FetchedAt: time.Now().Add(-time.Hour),
	})

	var calls int32
	cache := New(store, countingFetcher(nil, errors.New("connection refused"), &calls), zap.NewNop())

	songs, err := cache.Songs(context.Background())
	if err != nil {
		t.Fatalf("stale cache should mask the failure, got %v", err)
	}
	if len(songs) != 1 || songs[0].Title != "Old" {
		t.Errorf("songs = %+v, want stale copy", songs)
	}
}

func TestEmptyResultFallsBackToStaleCache(t *testing.T) {
	store := NewMemStore()
	store.Save(Entry{
		Songs:     []catalog.Song{{Title: "Old", Artist: "X"}},
		FetchedAt: time.Now().Add(-time.Hour),
	})

	var calls int32
	cache := New(store, countingFetcher([]catalog.Song{}, nil, &calls), zap.NewNop())

	songs, err := cache.Songs(context.Background())
	if err != nil {
		t.Fatalf("Songs: %v", err)
	}
	if len(songs) != 1 || songs[0].Title != "Old" {
		t.Errorf("songs = %+v, want stale copy", songs)
	}
}

func TestFetchFailureWithoutCache(t *testing.T) {
	var calls int32
	cache := New(NewMemStore(), countingFetcher(nil, errors.New("connection refused"), &calls), zap.NewNop())

	if _, err := cache.Songs(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestFetchTimeout(t *testing.T) {
	slow := func(ctx context.Context) ([]catalog.Song, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	cache := New(NewMemStore(), slow, zap.NewNop())
	cache.timeout = 20 * time.Millisecond

	start := time.Now()
	_, err := cache.Songs(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("fetch was not cut off by the timeout, took %v", elapsed)
	}
}

func TestRefreshKeepsOldEntryOnFailure(t *testing.T) {
	store := NewMemStore()
	store.Save(Entry{Songs: fixedSongs(), FetchedAt: time.Now().Add(-time.Hour)})

	var calls int32
	cache := New(store, countingFetcher(nil, errors.New("boom"), &calls), zap.NewNop())
	cache.Refresh(context.Background())

	entry, ok := store.Load()
	if !ok || len(entry.Songs) != 2 {
		t.Errorf("entry = %+v, want untouched", entry)
	}
}

func TestStartRefresherStops(t *testing.T) {
	var calls int32
	cache := New(NewMemStore(), countingFetcher(fixedSongs(), nil, &calls), zap.NewNop())

	stop := make(chan struct{})
	cache.StartRefresher(10*time.Millisecond, stop)

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&calls) == 0 {
		select {
		case <-deadline:
			t.Fatal("refresher never ran")
		case <-time.After(5 * time.Millisecond):
		}
	}

	close(stop)
	settled := atomic.LoadInt32(&calls)
	time.Sleep(50 * time.Millisecond)
	// Allow one in-flight tick that raced the close.
	if after := atomic.LoadInt32(&calls); after > settled+1 {
		t.Errorf("refresher kept running after stop: %d -> %d", settled, after)
	}
}
