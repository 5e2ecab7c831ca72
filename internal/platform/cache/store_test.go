package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			entry, _, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if entry.Value != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, hit, err := store.GetOrLoad(context.Background(), "k", loader); err != nil || hit {
		t.Fatalf("first GetOrLoad hit=%v err=%v", hit, err)
	}
	if _, hit, err := store.GetOrLoad(context.Background(), "k", loader); err != nil || !hit {
		t.Fatalf("second GetOrLoad hit=%v err=%v", hit, err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_ReloadsAfterExpiry(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)}
	store := NewStore[int](30*time.Second, WithClock(clock.Now))
	var calls atomic.Int32

	loader := func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	first, _, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if !first.LoadedAt.Equal(clock.Now()) {
		t.Fatalf("unexpected load time %v", first.LoadedAt)
	}

	clock.Advance(29 * time.Second)
	if entry, hit, _ := store.GetOrLoad(context.Background(), "k", loader); !hit || entry.Value != 1 {
		t.Fatalf("expected cached value 1, got %d hit=%v", entry.Value, hit)
	}

	clock.Advance(time.Second)
	entry, hit, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if hit || entry.Value != 2 {
		t.Fatalf("expected fresh value 2, got %d hit=%v", entry.Value, hit)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	failure := errors.New("upstream down")
	var calls atomic.Int32

	failing := func(context.Context) (string, error) {
		calls.Add(1)
		return "", failure
	}

	if _, _, err := store.GetOrLoad(context.Background(), "k", failing); !errors.Is(err, failure) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if _, _, err := store.GetOrLoad(context.Background(), "k", failing); !errors.Is(err, failure) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times, want 2", got)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d entries", store.Len())
	}
}

func TestStore_GetOrLoad_LeaderCancelDoesNotFailWaiters(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	loader := func(ctx context.Context) (string, error) {
		once.Do(func() { close(started) })
		<-release
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "value", nil
	}

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, _, err := store.GetOrLoad(leaderCtx, "k", loader)
		leaderErr <- err
	}()

	<-started
	type result struct {
		entry Entry[string]
		err   error
	}
	waiter := make(chan result, 1)
	go func() {
		entry, _, err := store.GetOrLoad(context.Background(), "k", loader)
		waiter <- result{entry, err}
	}()

	cancel()
	time.Sleep(20 * time.Millisecond)
	close(release)

	got := <-waiter
	if got.err != nil {
		t.Fatalf("waiter: unexpected error %v", got.err)
	}
	if got.entry.Value != "value" {
		t.Fatalf("waiter: got %q, want value", got.entry.Value)
	}
	if err := <-leaderErr; err != nil {
		t.Fatalf("leader: unexpected error %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected loaded value to be cached, got %d entries", store.Len())
	}
}

func TestStore_DeletePrefixAndPurge(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore[int](0)
	store.Set(ctx, "sheet|a", 1)
	store.Set(ctx, "sheet|b", 2)
	store.Set(ctx, "other", 3)

	store.DeletePrefix(ctx, "sheet|")
	if _, ok := store.Get(ctx, "sheet|a"); ok {
		t.Fatalf("expected sheet|a to be removed")
	}
	if _, ok := store.Get(ctx, "other"); !ok {
		t.Fatalf("expected other to remain")
	}

	store.Purge()
	if store.Len() != 0 {
		t.Fatalf("expected empty store after purge")
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	if got := Key("https://example.test/a.csv", 3, false); got != "https://example.test/a.csv|3|false" {
		t.Fatalf("unexpected key %q", got)
	}
	if Key("a", 1) == Key("a", 2) {
		t.Fatalf("keys with different options must differ")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
