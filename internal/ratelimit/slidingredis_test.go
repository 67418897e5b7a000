package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-pos/internal/tenant"
)

func newTestLimiter(t *testing.T, max int, window time.Duration) (SlidingWindow, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return SlidingWindow{Client: client, Prefix: "rl:quote:", Window: window, Max: max}, mr
}

func TestTakeSlidingWindow(t *testing.T) {
	limiter, mr := newTestLimiter(t, 2, 2*time.Second)
	ctx := context.Background()

	for i := 0; i < limiter.Max; i++ {
		d, err := limiter.Take(ctx, "acme:10.0.0.1")
		if err != nil {
			t.Fatalf("take: %v", err)
		}
		if !d.Allowed {
			t.Fatalf("expected request %d to be allowed", i)
		}
		if d.Remaining != limiter.Max-(i+1) {
			t.Fatalf("unexpected remaining: %d", d.Remaining)
		}
	}

	d, err := limiter.Take(ctx, "acme:10.0.0.1")
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if d.Allowed {
		t.Fatal("expected third request to be rejected")
	}
	if d.Remaining != 0 {
		t.Fatalf("expected remaining 0, got %d", d.Remaining)
	}

	mr.FastForward(limiter.Window)

	d, err = limiter.Take(ctx, "acme:10.0.0.1")
	if err != nil {
		t.Fatalf("take after window: %v", err)
	}
	if !d.Allowed {
		t.Fatal("expected request after window to be allowed")
	}
}

func TestTakeIsolatesKeys(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	if d, err := limiter.Take(ctx, "acme:10.0.0.1"); err != nil || !d.Allowed {
		t.Fatalf("first tenant: allowed=%v err=%v", d.Allowed, err)
	}
	if d, err := limiter.Take(ctx, "globex:10.0.0.1"); err != nil || !d.Allowed {
		t.Fatalf("second tenant should have its own quota: allowed=%v err=%v", d.Allowed, err)
	}
	if d, err := limiter.Take(ctx, "acme:10.0.0.1"); err != nil || d.Allowed {
		t.Fatalf("first tenant should be exhausted: allowed=%v err=%v", d.Allowed, err)
	}
}

func TestTakeDisabledWithoutQuota(t *testing.T) {
	limiter := SlidingWindow{}
	d, err := limiter.Take(context.Background(), "any")
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if !d.Allowed {
		t.Fatal("disabled limiter must allow everything")
	}
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)
	handler := Handler{Limiter: limiter}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	makeRequest := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", nil)
		req.RemoteAddr = "10.0.0.1:50000"
		req = req.WithContext(tenant.WithTenant(req.Context(), "acme"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := makeRequest(); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}
	rec := makeRequest()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header on rejection")
	}
}
