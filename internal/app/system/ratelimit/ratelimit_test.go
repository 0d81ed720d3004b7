package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_WindowResets(t *testing.T) {
	l := New(2, time.Minute)
	defer l.Stop()
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.Allow("u:1") || !l.Allow("u:1") {
		t.Fatal("first two requests should pass")
	}
	if l.Allow("u:1") {
		t.Error("third request in window should be limited")
	}
	if !l.Allow("u:2") {
		t.Error("other keys have their own window")
	}
	if got := l.Remaining("u:1"); got != 0 {
		t.Errorf("Remaining: got %d, want 0", got)
	}

	now = now.Add(61 * time.Second)
	if !l.Allow("u:1") {
		t.Error("request after window expiry should pass")
	}
}

func TestLimiter_StopEndsCleanup(t *testing.T) {
	l := New(1, time.Millisecond)
	l.Stop()
	select {
	case <-l.exited:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop still running after Stop")
	}
	l.Stop()

	if !l.Allow("u:1") {
		t.Error("Allow should keep working after Stop")
	}
}

func TestLimiter_SweepDropsExpired(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Stop()
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	l.mu.Lock()
	l.now = func() time.Time { return now }
	l.mu.Unlock()

	l.Allow("old")
	now = now.Add(2 * time.Minute)
	l.Allow("fresh")
	l.sweep()

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.windows["old"]; ok {
		t.Error("expired window should be swept")
	}
	if _, ok := l.windows["fresh"]; !ok {
		t.Error("live window should survive")
	}
}

func TestMiddleware_Returns429(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Stop()
	h := Middleware(l, func(r *http.Request) string { return r.Header.Get("X-User") })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	send := func(user string) int {
		req := httptest.NewRequest("POST", "/idle-resources/import", nil)
		req.Header.Set("X-User", user)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	if got := send("7"); got != http.StatusNoContent {
		t.Fatalf("first: got %d", got)
	}
	if got := send("7"); got != http.StatusTooManyRequests {
		t.Errorf("second: got %d, want 429", got)
	}
	if got := send("8"); got != http.StatusNoContent {
		t.Errorf("other user: got %d", got)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"forwarded", "203.0.113.5, 10.0.0.1", "", "10.0.0.1:443", "203.0.113.5"},
		{"real ip", "", "198.51.100.7", "10.0.0.1:443", "198.51.100.7"},
		{"remote addr", "", "", "192.0.2.1:5555", "192.0.2.1"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = tt.remote
		if tt.xff != "" {
			r.Header.Set("X-Forwarded-For", tt.xff)
		}
		if tt.xri != "" {
			r.Header.Set("X-Real-IP", tt.xri)
		}
		if got := ClientIP(r); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}
