// Package cache holds the per-view task cache. Each logical task view
// ("my", "team", "created", "unassigned", "all") is fetched lazily on
// first request, served from memory within a freshness window, and
// refetched on demand after that window or after an explicit
// invalidation. There is no background refresh: a stale view stays
// stale until someone asks for it again.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hnguyen/teamboard/internal/api"
	"github.com/hnguyen/teamboard/internal/model"
)

// View names a logical task slice cached independently.
type View string

const (
	ViewMy         View = "my"
	ViewTeam       View = "team"
	ViewCreated    View = "created"
	ViewUnassigned View = "unassigned"
	ViewAll        View = "all"
)

// Views lists every known view.
var Views = []View{ViewMy, ViewTeam, ViewCreated, ViewUnassigned, ViewAll}

// State is the lifecycle state of a cached view.
type State int

const (
	StateNotRequested State = iota
	StateLoading
	StateReady
	StateErrored
)

// Fetcher loads a view from the backend. The cache guarantees at most
// one in-flight call per view.
type Fetcher func(ctx context.Context, view View) (api.Page[model.Task], error)

// Snapshot is a read-only view of a cache entry for UI consumption.
type Snapshot struct {
	State     State
	Data      api.Page[model.Task]
	HasData   bool
	FetchedAt time.Time
	Err       error
}

// flight is a single in-flight fetch shared by all concurrent callers.
type flight struct {
	done chan struct{}
	data api.Page[model.Task]
	err  error
}

// entry is the mutable cache record for one view.
type entry struct {
	state     State
	data      api.Page[model.Task]
	hasData   bool
	fetchedAt time.Time
	err       error
	invalid   bool
	inflight  *flight
}

// TaskCache caches task collections per view with a freshness window
// and request coalescing. Safe for concurrent use.
type TaskCache struct {
	mu      sync.Mutex
	fetch   Fetcher
	window  time.Duration
	now     func() time.Time
	entries map[View]*entry
}

// New creates a cache over the given fetcher. window is how long a
// successful fetch is served without refetching.
func New(fetch Fetcher, window time.Duration) *TaskCache {
	return &TaskCache{
		fetch:   fetch,
		window:  window,
		now:     time.Now,
		entries: make(map[View]*entry),
	}
}

// Get returns immediately-available data for a view without triggering
// a fetch. The second return value is false when the view has never
// produced data. Stale and errored views still return their last data:
// a failed refresh must not blank what the user already sees.
func (c *TaskCache) Get(view View) (api.Page[model.Task], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[view]
	if !ok || !e.hasData {
		return api.Page[model.Task]{}, false
	}
	return e.data, true
}

// Inspect returns the full entry state for a view, for UI affordances
// (spinners, retry prompts, staleness markers).
func (c *TaskCache) Inspect(view View) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[view]
	if !ok {
		return Snapshot{State: StateNotRequested}
	}
	return Snapshot{
		State:     e.state,
		Data:      e.data,
		HasData:   e.hasData,
		FetchedAt: e.fetchedAt,
		Err:       e.err,
	}
}

// Ensure returns the view's data, fetching if the view has never been
// requested, is past its freshness window, previously errored, or was
// invalidated. Fresh data is returned without a network call.
//
// Concurrent Ensure calls for the same view while a fetch is in flight
// share that fetch's result instead of issuing duplicates. A caller
// whose context ends while waiting gets the context error; the cache
// still applies the fetch result for everyone else.
func (c *TaskCache) Ensure(
	ctx context.Context,
	view View,
) (api.Page[model.Task], error) {
	c.mu.Lock()

	e, ok := c.entries[view]
	if !ok {
		e = &entry{}
		c.entries[view] = e
	}

	if e.inflight != nil {
		f := e.inflight
		c.mu.Unlock()
		return c.await(ctx, f)
	}

	if e.state == StateReady && !e.invalid && c.fresh(e) {
		data := e.data
		c.mu.Unlock()
		return data, nil
	}

	f := &flight{done: make(chan struct{})}
	e.inflight = f
	e.state = StateLoading
	c.mu.Unlock()

	go c.runFetch(view, e, f)

	return c.await(ctx, f)
}

// Invalidate forces the next Ensure for the view to refetch regardless
// of freshness. Cached data stays readable in the meantime.
func (c *TaskCache) Invalidate(view View) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[view]; ok {
		e.invalid = true
	}
}

// InvalidateAll invalidates every view, typically after a mutation
// whose effects may appear in several slices.
func (c *TaskCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		e.invalid = true
	}
}

// fresh reports whether the entry is within the freshness window.
// Callers must hold c.mu.
func (c *TaskCache) fresh(e *entry) bool {
	return c.now().Sub(e.fetchedAt) < c.window
}

// runFetch performs the single fetch for a flight and publishes the
// result to the entry and to all waiting callers. The fetch uses its
// own context: an individual caller going away must not cancel a
// result other callers are waiting on.
func (c *TaskCache) runFetch(view View, e *entry, f *flight) {
	data, err := c.fetch(context.Background(), view)

	c.mu.Lock()
	e.inflight = nil
	if err != nil {
		e.state = StateErrored
		e.err = err
		// Previous data, if any, is deliberately retained.
	} else {
		e.state = StateReady
		e.data = data
		e.hasData = true
		e.fetchedAt = c.now()
		e.err = nil
		e.invalid = false
	}
	c.mu.Unlock()

	f.data = data
	f.err = err
	close(f.done)
}

// await blocks until the flight resolves or the caller's context ends.
func (c *TaskCache) await(
	ctx context.Context,
	f *flight,
) (api.Page[model.Task], error) {
	select {
	case <-f.done:
		return f.data, f.err
	case <-ctx.Done():
		return api.Page[model.Task]{}, ctx.Err()
	}
}
