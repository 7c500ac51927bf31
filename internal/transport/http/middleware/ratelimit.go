package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/baechuer/course-feedback/internal/domain"
	"github.com/baechuer/course-feedback/internal/infrastructure/redis"
	"github.com/baechuer/course-feedback/internal/logger"
)

type RateLimiter interface {
	AllowFixedWindow(ctx context.Context, key string, limit int, window time.Duration) (redis.Decision, error)
}

type FixedWindowConfig struct {
	RouteKey string
	Limit    int
	Window   time.Duration
}

// RateLimitFixedWindow limits requests per route and caller. Limiter
// failures let the request through.
func RateLimitFixedWindow(limiter RateLimiter, cfg FixedWindowConfig, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.RouteKey == "" {
		cfg.RouteKey = "unknown"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			bucket := windowBucket(time.Now(), cfg.Window)
			key := fmt.Sprintf("rl:%s:%s:%d", cfg.RouteKey, userOrIP(r), bucket)

			dec, err := limiter.AllowFixedWindow(r.Context(), key, cfg.Limit, cfg.Window)
			if err != nil {
				logger.WithCtx(r.Context()).Warn().Err(err).Str("route", cfg.RouteKey).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(dec.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(dec.Remaining))
			if !dec.Allowed {
				if dec.RetryAfter > 0 {
					secs := int((dec.RetryAfter + time.Second - 1) / time.Second)
					w.Header().Set("Retry-After", strconv.Itoa(secs))
				}
				writeErr(w, r, domain.ErrRateLimited(cfg.RouteKey))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func windowBucket(now time.Time, window time.Duration) int64 {
	sec := int64(window.Seconds())
	if sec <= 0 {
		sec = 60
	}
	return now.Unix() / sec
}

// userOrIP prefers the authenticated user id and falls back to the client IP.
func userOrIP(r *http.Request) string {
	if uid, ok := UserIDFromContext(r.Context()); ok {
		return "u:" + uid
	}
	return "ip:" + clientIP(r)
}

// clientIP relies on chi's RealIP having rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
		return host
	}
	return addr
}
