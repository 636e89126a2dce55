package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func serveN(t *testing.T, limiter *RateLimiter, n int, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()
	handler := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var rec *httptest.ResponseRecorder
	for i := 0; i < n; i++ {
		req := httptest.NewRequest("GET", "/phrases", nil)
		req.RemoteAddr = remoteAddr
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
	}
	return rec
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	limiter := NewRateLimiter(5, time.Minute, nil, zap.NewNop())

	rec := serveN(t, limiter, 5, "10.0.0.1:1234")
	if rec.Code != http.StatusOK {
		t.Fatalf("request under limit rejected: %d", rec.Code)
	}
}

func TestRateLimiter_RejectsOverLimit(t *testing.T) {
	limiter := NewRateLimiter(5, time.Minute, nil, zap.NewNop())

	rec := serveN(t, limiter, 6, "10.0.0.1:1234")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["error"] != "too_many_requests" {
		t.Errorf("unexpected error code %v", body["error"])
	}
	if body["retryAfter"] != float64(60) {
		t.Errorf("expected retryAfter 60, got %v", body["retryAfter"])
	}
}

func TestRateLimiter_PerClientCounters(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute, nil, zap.NewNop())

	serveN(t, limiter, 3, "10.0.0.1:1234")

	rec := serveN(t, limiter, 1, "10.0.0.2:1234")
	if rec.Code != http.StatusOK {
		t.Fatalf("second client must have its own window: %d", rec.Code)
	}
}

func TestRateLimiter_WindowRollover(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute, nil, zap.NewNop())

	now := time.Now()
	limiter.nowFunc = func() time.Time { return now }

	rec := serveN(t, limiter, 3, "10.0.0.1:1234")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 within window, got %d", rec.Code)
	}

	limiter.nowFunc = func() time.Time { return now.Add(2 * time.Minute) }
	rec = serveN(t, limiter, 1, "10.0.0.1:1234")
	if rec.Code != http.StatusOK {
		t.Fatalf("counter must reset in the next window: %d", rec.Code)
	}
}

func TestRateLimiter_UsesForwardedFor(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute, nil, zap.NewNop())
	handler := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest("GET", "/phrases", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.9")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("request %d: expected %d, got %d", i, want, rec.Code)
		}
	}

	// A different forwarded client is counted separately.
	req := httptest.NewRequest("GET", "/phrases", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	req.Header.Set("X-Forwarded-For", "198.51.100.4")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected separate counter for new forwarded client, got %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"remote addr", "10.0.0.1:5555", "", "10.0.0.1"},
		{"forwarded single", "10.0.0.1:5555", "203.0.113.7", "203.0.113.7"},
		{"forwarded chain", "10.0.0.1:5555", "203.0.113.7, 70.1.2.3", "203.0.113.7"},
		{"no port", "10.0.0.1", "", "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
