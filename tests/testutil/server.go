// Package testutil provides shared helpers for tests that need a fake
// dashboard backend.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// Backend is a fake REST backend for client and cache tests. It counts
// requests and serves whatever handler the test installs.
type Backend struct {
	Server *httptest.Server

	hits    atomic.Int64
	handler atomic.Value // http.HandlerFunc
}

// NewBackend starts a fake backend that responds with the given
// handler. It shuts down automatically when the test completes.
func NewBackend(t *testing.T, handler http.HandlerFunc) *Backend {
	t.Helper()

	b := &Backend{}
	b.handler.Store(handler)

	b.Server = httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			b.hits.Add(1)
			b.handler.Load().(http.HandlerFunc)(w, r)
		},
	))
	t.Cleanup(b.Server.Close)

	return b
}

// URL returns the backend's base URL.
func (b *Backend) URL() string {
	return b.Server.URL
}

// Hits returns how many requests the backend has received.
func (b *Backend) Hits() int {
	return int(b.hits.Load())
}

// SetHandler swaps the response handler mid-test.
func (b *Backend) SetHandler(handler http.HandlerFunc) {
	b.handler.Store(handler)
}

// WriteJSON writes v as a JSON response body.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
