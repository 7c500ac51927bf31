package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/baechuer/course-feedback/internal/application/auth"
	"github.com/baechuer/course-feedback/internal/domain"
	"github.com/baechuer/course-feedback/internal/infrastructure/redis"
)

func newLimiter(t *testing.T) *redis.FixedWindowLimiter {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redis.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return redis.NewFixedWindowLimiter(c)
}

func hit(h http.Handler, remoteAddr string, id *auth.Identity) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = remoteAddr
	if id != nil {
		req = req.WithContext(WithIdentity(req.Context(), *id))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRateLimitFixedWindow_BlocksAfterLimit(t *testing.T) {
	ran := false
	h := RateLimitFixedWindow(newLimiter(t), FixedWindowConfig{RouteKey: "login", Limit: 2, Window: time.Minute}, writeErr)(okHandler(&ran))

	for i := 0; i < 2; i++ {
		if rr := hit(h, "10.0.0.1:5555", nil); rr.Code != http.StatusOK {
			t.Fatalf("hit %d: status=%d", i, rr.Code)
		}
	}

	rr := hit(h, "10.0.0.1:5555", nil)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status=%d", rr.Code)
	}
	if body := decodeErr(t, rr); body.Code != "rate_limited" || body.Meta["scope"] != "login" {
		t.Fatalf("body=%+v", body)
	}
	secs, err := strconv.Atoi(rr.Header().Get("Retry-After"))
	if err != nil || secs < 1 || secs > 60 {
		t.Fatalf("retry-after=%q", rr.Header().Get("Retry-After"))
	}

	// another client has its own budget
	if rr := hit(h, "10.0.0.2:5555", nil); rr.Code != http.StatusOK {
		t.Fatalf("other ip: status=%d", rr.Code)
	}
}

func TestRateLimitFixedWindow_KeysByUserWhenAuthenticated(t *testing.T) {
	ran := false
	h := RateLimitFixedWindow(newLimiter(t), FixedWindowConfig{RouteKey: "pw", Limit: 1, Window: time.Minute}, writeErr)(okHandler(&ran))
	u1 := &auth.Identity{UserID: "u1", Role: domain.RoleStudent}
	u2 := &auth.Identity{UserID: "u2", Role: domain.RoleStudent}

	if rr := hit(h, "10.0.0.1:1", u1); rr.Code != http.StatusOK {
		t.Fatalf("u1 first: %d", rr.Code)
	}
	if rr := hit(h, "10.0.0.1:1", u2); rr.Code != http.StatusOK {
		t.Fatalf("u2 on same ip: %d", rr.Code)
	}
	if rr := hit(h, "10.0.0.9:1", u1); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("u1 from another ip should still be limited: %d", rr.Code)
	}
}

type failingLimiter struct{}

func (failingLimiter) AllowFixedWindow(context.Context, string, int, time.Duration) (redis.Decision, error) {
	return redis.Decision{}, errors.New("redis down")
}

func TestRateLimitFixedWindow_FailsOpen(t *testing.T) {
	ran := false
	h := RateLimitFixedWindow(failingLimiter{}, FixedWindowConfig{RouteKey: "login", Limit: 1}, writeErr)(okHandler(&ran))

	if rr := hit(h, "10.0.0.1:1", nil); rr.Code != http.StatusOK || !ran {
		t.Fatalf("status=%d ran=%v", rr.Code, ran)
	}
}

func TestRateLimitFixedWindow_NilLimiterPassesThrough(t *testing.T) {
	ran := false
	h := RateLimitFixedWindow(nil, FixedWindowConfig{}, writeErr)(okHandler(&ran))
	if rr := hit(h, "10.0.0.1:1", nil); rr.Code != http.StatusOK || !ran {
		t.Fatalf("status=%d ran=%v", rr.Code, ran)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.7:9999"
	if got := clientIP(req); got != "192.168.1.7" {
		t.Fatalf("got %q", got)
	}
	req.RemoteAddr = "192.168.1.8"
	if got := clientIP(req); got != "192.168.1.8" {
		t.Fatalf("got %q", got)
	}
}
