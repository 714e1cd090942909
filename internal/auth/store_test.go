package auth

import (
	"sync"
	"testing"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	s := NewMemoryStore()

	if _, err := s.Get(); err != ErrNoToken {
		t.Fatalf("Get on empty store: err = %v, want ErrNoToken", err)
	}

	if err := s.Set(Token{Raw: "abc"}); err != nil {
		t.Fatal(err)
	}
	tok, err := s.Get()
	if err != nil || tok.Raw != "abc" {
		t.Fatalf("Get = %+v, %v", tok, err)
	}

	cleared, err := s.Clear()
	if err != nil || !cleared {
		t.Fatalf("Clear = %v, %v, want true removal", cleared, err)
	}
	if _, err := s.Get(); err != ErrNoToken {
		t.Errorf("Get after Clear: err = %v, want ErrNoToken", err)
	}
}

func TestMemoryStoreClearReportsRemovalExactlyOnce(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Set(Token{Raw: "abc"}); err != nil {
		t.Fatal(err)
	}

	const clearers = 16
	results := make([]bool, clearers)
	var wg sync.WaitGroup
	for i := 0; i < clearers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = s.Clear()
		}(i)
	}
	wg.Wait()

	removed := 0
	for _, r := range results {
		if r {
			removed++
		}
	}
	if removed != 1 {
		t.Errorf("%d clearers reported removal, want exactly 1", removed)
	}
}
