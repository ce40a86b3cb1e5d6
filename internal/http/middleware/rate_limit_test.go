package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

type fakeRow struct {
	count int
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int)) = r.count
	return nil
}

// fakeCounter plays the Postgres side of the UPSERT: it hands back a
// preset sequence of counts and records the arguments it was called with.
type fakeCounter struct {
	counts []int
	calls  int
	args   [][]any
	err    error
}

func (f *fakeCounter) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	f.args = append(f.args, args)
	if f.err != nil {
		return fakeRow{err: f.err}
	}
	count := f.counts[f.calls]
	f.calls++
	return fakeRow{count: count}
}

func newTestLimiter(db rowQuerier, requests int) *RateLimiter {
	return &RateLimiter{
		db: db,
		config: RateLimitConfig{
			Requests: requests,
			Window:   time.Minute,
			KeyFunc: func(r *http.Request) []string {
				return []string{"ip:203.0.113.9"}
			},
		},
	}
}

func hitLimiter(t *testing.T, limiter *RateLimiter) int {
	t.Helper()

	handler := limiter.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/leads", nil))
	return rec.Code
}

func TestRateLimiter_DeniesOncePastLimit(t *testing.T) {
	db := &fakeCounter{counts: []int{1, 2, 3, 4, 5}}
	limiter := newTestLimiter(db, 3)

	for i := 0; i < 3; i++ {
		if code := hitLimiter(t, limiter); code != http.StatusCreated {
			t.Fatalf("Request %d: expected 201, got %d", i+1, code)
		}
	}
	if code := hitLimiter(t, limiter); code != http.StatusTooManyRequests {
		t.Fatalf("Request past the limit: expected 429, got %d", code)
	}
}

func TestRateLimiter_WindowStartIsCurrentInstant(t *testing.T) {
	db := &fakeCounter{counts: []int{1}}
	limiter := newTestLimiter(db, 3)

	hitLimiter(t, limiter)

	if len(db.args) != 1 || len(db.args[0]) != 4 {
		t.Fatalf("Expected one UPSERT with 4 args, got %v", db.args)
	}

	// $2 seeds window_start for new or reset rows and must be the request
	// instant; $4 is the reset floor exactly one window earlier. A row
	// seeded with the floor itself would reset on every request and never
	// accumulate.
	start := db.args[0][1].(time.Time)
	floor := db.args[0][3].(time.Time)

	if got := start.Sub(floor); got != time.Minute {
		t.Fatalf("Expected the floor one window behind the start, got %v", got)
	}
	if since := time.Since(start); since < 0 || since > 5*time.Second {
		t.Fatalf("Expected window_start at the request instant, got %v ago", since)
	}
}

func TestRateLimiter_FailsOpenOnDatabaseError(t *testing.T) {
	db := &fakeCounter{err: errors.New("connection refused")}
	limiter := newTestLimiter(db, 1)

	for i := 0; i < 3; i++ {
		if code := hitLimiter(t, limiter); code != http.StatusCreated {
			t.Fatalf("Request %d: expected fail-open 201, got %d", i+1, code)
		}
	}
}

func TestRateLimiter_SkipFuncBypasses(t *testing.T) {
	db := &fakeCounter{counts: []int{99}}
	limiter := newTestLimiter(db, 1)
	limiter.config.SkipFunc = func(r *http.Request) bool { return true }

	if code := hitLimiter(t, limiter); code != http.StatusCreated {
		t.Fatalf("Expected skipped request to pass, got %d", code)
	}
	if db.calls != 0 {
		t.Fatalf("Expected no database call for a skipped request, got %d", db.calls)
	}
}
