package middleware_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/juicefit/juice-platform/pkg/middleware"
)

type memoryStore struct {
	entries map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string]string)}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	return s.entries[key], nil
}

func (s *memoryStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.entries[key] = value
	return nil
}

func postWithKey(t *testing.T, handler http.Handler, key string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(`{}`))
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIdempotency_ReplayKeepsOriginalStatus(t *testing.T) {
	store := newMemoryStore()
	calls := 0
	handler := middleware.Idempotency(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"lead-1"}`))
	}))

	first := postWithKey(t, handler, "abc-123")
	if first.Code != http.StatusCreated {
		t.Fatalf("Expected 201 on first request, got %d", first.Code)
	}

	replay := postWithKey(t, handler, "abc-123")
	if replay.Code != http.StatusCreated {
		t.Fatalf("Expected replay to keep status 201, got %d", replay.Code)
	}
	if replay.Body.String() != first.Body.String() {
		t.Fatalf("Expected replayed body %q, got %q", first.Body.String(), replay.Body.String())
	}
	if calls != 1 {
		t.Fatalf("Expected handler to run once, ran %d times", calls)
	}
}

func TestIdempotency_ImplicitOKIsCachedAndReplayed(t *testing.T) {
	store := newMemoryStore()
	calls := 0
	handler := middleware.Idempotency(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		io.WriteString(w, `{"received":true}`)
	}))

	postWithKey(t, handler, "key-200")
	replay := postWithKey(t, handler, "key-200")

	if replay.Code != http.StatusOK {
		t.Fatalf("Expected replayed 200, got %d", replay.Code)
	}
	if calls != 1 {
		t.Fatalf("Expected handler to run once, ran %d times", calls)
	}
}

func TestIdempotency_ErrorsAreNotCached(t *testing.T) {
	store := newMemoryStore()
	calls := 0
	handler := middleware.Idempotency(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))

	postWithKey(t, handler, "key-400")
	rec := postWithKey(t, handler, "key-400")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 each time, got %d", rec.Code)
	}
	if calls != 2 {
		t.Fatalf("Expected handler to run twice, ran %d times", calls)
	}
}

func TestIdempotency_NoKeyPassesThrough(t *testing.T) {
	store := newMemoryStore()
	calls := 0
	handler := middleware.Idempotency(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	postWithKey(t, handler, "")
	postWithKey(t, handler, "")

	if calls != 2 {
		t.Fatalf("Expected handler to run on every keyless request, ran %d times", calls)
	}
	if len(store.entries) != 0 {
		t.Fatalf("Expected nothing cached without a key, got %d entries", len(store.entries))
	}
}
