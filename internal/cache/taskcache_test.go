package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hnguyen/teamboard/internal/api"
	"github.com/hnguyen/teamboard/internal/model"
)

// fakeClock is an injectable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
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

// countingFetcher counts calls and optionally blocks on a gate.
type countingFetcher struct {
	calls atomic.Int64
	gate  chan struct{}

	mu   sync.Mutex
	err  error
	page api.Page[model.Task]
}

func (f *countingFetcher) fetch(
	ctx context.Context,
	view View,
) (api.Page[model.Task], error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return api.Page[model.Task]{}, f.err
	}
	return f.page, nil
}

func (f *countingFetcher) setResult(page api.Page[model.Task], err error) {
	f.mu.Lock()
	f.page = page
	f.err = err
	f.mu.Unlock()
}

func newTestCache(f *countingFetcher, window time.Duration) (*TaskCache, *fakeClock) {
	clock := newFakeClock()
	c := New(f.fetch, window)
	c.now = clock.Now
	return c, clock
}

func TestEnsureCoalescesConcurrentCallers(t *testing.T) {
	fetcher := &countingFetcher{
		gate: make(chan struct{}),
		page: api.Page[model.Task]{Items: []model.Task{{ID: "t1"}}, Total: 1},
	}
	c, _ := newTestCache(fetcher, time.Minute)

	const callers = 10
	var wg sync.WaitGroup
	results := make([]api.Page[model.Task], callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Ensure(context.Background(), ViewAll)
		}(i)
	}

	// Let every caller reach the cache before releasing the fetch.
	time.Sleep(20 * time.Millisecond)
	close(fetcher.gate)
	wg.Wait()

	if got := fetcher.calls.Load(); got != 1 {
		t.Errorf("fetcher calls = %d, want 1", got)
	}
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if len(results[i].Items) != 1 || results[i].Items[0].ID != "t1" {
			t.Errorf("caller %d got %+v", i, results[i])
		}
	}
}

func TestEnsureServesFreshDataWithoutRefetch(t *testing.T) {
	fetcher := &countingFetcher{
		page: api.Page[model.Task]{Items: []model.Task{{ID: "t1"}}},
	}
	c, clock := newTestCache(fetcher, 45*time.Second)

	if _, err := c.Ensure(context.Background(), ViewMy); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Ensure(context.Background(), ViewMy); err != nil {
		t.Fatal(err)
	}
	if got := fetcher.calls.Load(); got != 1 {
		t.Errorf("calls within window = %d, want 1", got)
	}

	clock.Advance(46 * time.Second)
	if _, err := c.Ensure(context.Background(), ViewMy); err != nil {
		t.Fatal(err)
	}
	if got := fetcher.calls.Load(); got != 2 {
		t.Errorf("calls after window = %d, want 2", got)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	fetcher := &countingFetcher{}
	c, _ := newTestCache(fetcher, time.Hour)

	if _, err := c.Ensure(context.Background(), ViewTeam); err != nil {
		t.Fatal(err)
	}
	c.Invalidate(ViewTeam)
	if _, err := c.Ensure(context.Background(), ViewTeam); err != nil {
		t.Fatal(err)
	}

	if got := fetcher.calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2 after invalidate", got)
	}
}

func TestViewsAreCachedIndependently(t *testing.T) {
	fetcher := &countingFetcher{}
	c, _ := newTestCache(fetcher, time.Hour)

	if _, err := c.Ensure(context.Background(), ViewMy); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Ensure(context.Background(), ViewAll); err != nil {
		t.Fatal(err)
	}

	if got := fetcher.calls.Load(); got != 2 {
		t.Errorf("calls = %d, want one per view", got)
	}
}

func TestGetNeverTriggersFetch(t *testing.T) {
	fetcher := &countingFetcher{}
	c, _ := newTestCache(fetcher, time.Minute)

	if _, ok := c.Get(ViewUnassigned); ok {
		t.Error("Get on NotRequested view should report no data")
	}
	if got := fetcher.calls.Load(); got != 0 {
		t.Errorf("calls = %d, want 0", got)
	}

	snap := c.Inspect(ViewUnassigned)
	if snap.State != StateNotRequested {
		t.Errorf("state = %v, want NotRequested", snap.State)
	}
}

func TestFailedRefetchKeepsPreviousData(t *testing.T) {
	fetcher := &countingFetcher{
		page: api.Page[model.Task]{Items: []model.Task{{ID: "old"}}},
	}
	c, _ := newTestCache(fetcher, time.Hour)

	if _, err := c.Ensure(context.Background(), ViewAll); err != nil {
		t.Fatal(err)
	}

	fetchErr := errors.New("backend down")
	fetcher.setResult(api.Page[model.Task]{}, fetchErr)
	c.Invalidate(ViewAll)

	if _, err := c.Ensure(context.Background(), ViewAll); !errors.Is(err, fetchErr) {
		t.Fatalf("err = %v, want fetch error", err)
	}

	// The stale copy is still served to readers.
	data, ok := c.Get(ViewAll)
	if !ok || len(data.Items) != 1 || data.Items[0].ID != "old" {
		t.Errorf("Get after failed refetch = %+v ok=%v, want old data", data, ok)
	}

	snap := c.Inspect(ViewAll)
	if snap.State != StateErrored || snap.Err == nil {
		t.Errorf("snapshot = %+v, want Errored with error", snap)
	}

	// An errored view retries on the next Ensure.
	fetcher.setResult(api.Page[model.Task]{Items: []model.Task{{ID: "new"}}}, nil)
	page, err := c.Ensure(context.Background(), ViewAll)
	if err != nil {
		t.Fatal(err)
	}
	if page.Items[0].ID != "new" {
		t.Errorf("items after recovery = %+v", page.Items)
	}
}

func TestCanceledWaiterDoesNotLoseResult(t *testing.T) {
	fetcher := &countingFetcher{
		gate: make(chan struct{}),
		page: api.Page[model.Task]{Items: []model.Task{{ID: "t1"}}},
	}
	c, _ := newTestCache(fetcher, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Ensure(ctx, ViewAll)
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("waiter err = %v, want context.Canceled", err)
	}

	// The fetch itself proceeds and updates the cache for everyone else.
	close(fetcher.gate)
	page, err := c.Ensure(context.Background(), ViewAll)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 1 {
		t.Errorf("page after canceled waiter = %+v", page)
	}
	if got := fetcher.calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1 (result was reused)", got)
	}
}
