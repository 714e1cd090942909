package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/hnguyen/teamboard/internal/auth"
	"github.com/hnguyen/teamboard/internal/model"
	"github.com/hnguyen/teamboard/tests/testutil"
)

// newTestClient builds a client against the fake backend with a
// near-zero backoff so retry tests run fast.
func newTestClient(b *testutil.Backend) (*Client, *auth.MemoryStore) {
	tokens := auth.NewMemoryStore()
	_ = tokens.Set(auth.Token{Raw: "test-token"})

	c := NewClient(b.URL(), tokens)
	c.backoffBase = time.Millisecond
	return c, tokens
}

// drainEvents collects whatever events are currently buffered.
func drainEvents(ch <-chan Event) []Event {
	var events []Event
	for {
		select {
		case ev := <-ch:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestGetAttachesBearerToken(t *testing.T) {
	var gotAuth string
	backend := testutil.NewBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		testutil.WriteJSON(w, http.StatusOK, map[string]string{"id": "1"})
	})

	c, _ := newTestClient(backend)
	var out struct {
		ID string `json:"id"`
	}
	if err := c.Get(context.Background(), "/api/users/1", nil, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer test-token")
	}
	if out.ID != "1" {
		t.Errorf("decoded id = %q, want %q", out.ID, "1")
	}
}

func TestRetriesServerErrorsThenSucceeds(t *testing.T) {
	var mu sync.Mutex
	failures := 2
	backend := testutil.NewBackend(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if failures > 0 {
			failures--
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		testutil.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"items": []model.Task{{ID: "t1"}},
			"total": 1,
		})
	})

	c, _ := newTestClient(backend)
	page, err := FetchCollection[model.Task](
		context.Background(), c, "/api/tasks", nil,
	)
	if err != nil {
		t.Fatalf("FetchCollection after retries: %v", err)
	}

	if backend.Hits() != 3 {
		t.Errorf("backend hits = %d, want 3", backend.Hits())
	}
	if len(page.Items) != 1 || page.Items[0].ID != "t1" {
		t.Errorf("unexpected items: %+v", page.Items)
	}
}

func TestServerErrorSurfacedAfterRetriesExhausted(t *testing.T) {
	backend := testutil.NewBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	c, _ := newTestClient(backend)
	events, unsub := c.Events().Subscribe(16)
	defer unsub()

	_, err := FetchCollection[model.Task](
		context.Background(), c, "/api/tasks", nil,
	)
	if !IsServerError(err) {
		t.Fatalf("err = %v, want ServerError", err)
	}

	// Initial attempt plus 3 retries.
	if backend.Hits() != 4 {
		t.Errorf("backend hits = %d, want 4", backend.Hits())
	}

	got := drainEvents(events)
	if len(got) != 1 || got[0].Signal != SignalServerUnavailable {
		t.Errorf("events = %+v, want one server-unavailable", got)
	}
	if got[0].Resource != "tasks" {
		t.Errorf("event resource = %q, want %q", got[0].Resource, "tasks")
	}
}

func TestCreateIsNeverRetried(t *testing.T) {
	backend := testutil.NewBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	c, _ := newTestClient(backend)
	_, err := NewTaskService(c).Create(
		context.Background(), TaskDraft{Title: "x"},
	)
	if !IsServerError(err) {
		t.Fatalf("err = %v, want ServerError", err)
	}
	if backend.Hits() != 1 {
		t.Errorf("backend hits = %d, want 1 (no retry on POST)", backend.Hits())
	}
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	backend := testutil.NewBackend(t, func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"message": "bad filter",
		})
	})

	c, _ := newTestClient(backend)
	err := c.Get(context.Background(), "/api/tasks", nil, nil)
	if err == nil {
		t.Fatal("expected error for 400")
	}
	if backend.Hits() != 1 {
		t.Errorf("backend hits = %d, want 1", backend.Hits())
	}
}

func TestCollectionNotFoundIsEmptyResult(t *testing.T) {
	backend := testutil.NewBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	c, _ := newTestClient(backend)
	query := url.Values{"page": {"2"}, "limit": {"25"}}
	page, err := FetchCollection[model.Task](
		context.Background(), c, "/api/tasks", query,
	)
	if err != nil {
		t.Fatalf("collection 404 should not error, got %v", err)
	}

	if len(page.Items) != 0 || page.Total != 0 || page.TotalPages != 0 {
		t.Errorf("page = %+v, want empty", page)
	}
	if page.Page != 2 || page.Limit != 25 {
		t.Errorf(
			"pagination passthrough = page %d limit %d, want 2/25",
			page.Page, page.Limit,
		)
	}
}

func TestSingleResourceNotFoundIsError(t *testing.T) {
	backend := testutil.NewBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	c, _ := newTestClient(backend)
	_, err := NewTaskService(c).Update(
		context.Background(), "42", map[string]interface{}{"title": "t"},
	)
	if err == nil {
		t.Fatal("expected error for single-resource 404")
	}
}

func TestUnauthorizedClearsTokenAndSignalsOnce(t *testing.T) {
	backend := testutil.NewBackend(t, func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(w, http.StatusUnauthorized, map[string]string{
			"message": "token expired",
		})
	})

	c, tokens := newTestClient(backend)
	events, unsub := c.Events().Subscribe(16)
	defer unsub()

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = c.Get(context.Background(), "/api/tasks", nil, nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if !IsUnauthorized(err) {
			t.Errorf("caller %d err = %v, want UnauthorizedError", i, err)
		}
	}

	if _, err := tokens.Get(); err != auth.ErrNoToken {
		t.Errorf("token store after 401: err = %v, want ErrNoToken", err)
	}

	got := drainEvents(events)
	if len(got) != 1 {
		t.Fatalf("unauthorized events = %d, want exactly 1", len(got))
	}
	if got[0].Signal != SignalUnauthorized {
		t.Errorf("signal = %q, want unauthorized", got[0].Signal)
	}
}

func TestValidationErrorCarriesFields(t *testing.T) {
	backend := testutil.NewBackend(t, func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(
			w, http.StatusUnprocessableEntity,
			map[string]interface{}{
				"message": "validation failed",
				"errors":  map[string]string{"title": "is required"},
			},
		)
	})

	c, _ := newTestClient(backend)
	_, err := NewTaskService(c).Create(
		context.Background(), TaskDraft{},
	)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if verr.Fields["title"] != "is required" {
		t.Errorf("fields = %v, want title error", verr.Fields)
	}
}

func TestNetworkFailureRetriedThenSignaled(t *testing.T) {
	backend := testutil.NewBackend(t, func(w http.ResponseWriter, r *http.Request) {})
	c, _ := newTestClient(backend)
	backend.Server.Close()

	events, unsub := c.Events().Subscribe(16)
	defer unsub()

	err := c.Get(context.Background(), "/api/tasks", nil, nil)
	if !IsNetwork(err) {
		t.Fatalf("err = %v, want NetworkError", err)
	}

	got := drainEvents(events)
	if len(got) != 1 || got[0].Signal != SignalNetworkUnavailable {
		t.Errorf("events = %+v, want one network-unavailable", got)
	}
}

func TestUnsupportedFiltersPassThrough(t *testing.T) {
	var gotQuery url.Values
	backend := testutil.NewBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		testutil.WriteJSON(w, http.StatusOK, []model.Task{})
	})

	c, _ := newTestClient(backend)
	query := TaskQuery{
		Status: model.StatusTodo,
		Extra:  url.Values{"customFlag": {"yes"}},
	}
	if _, err := NewTaskService(c).List(context.Background(), query); err != nil {
		t.Fatalf("List: %v", err)
	}

	if gotQuery.Get("status") != model.StatusTodo {
		t.Errorf("status param = %q", gotQuery.Get("status"))
	}
	if gotQuery.Get("customFlag") != "yes" {
		t.Errorf("customFlag param = %q, want passthrough", gotQuery.Get("customFlag"))
	}
}
