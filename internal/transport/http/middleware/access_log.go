package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/baechuer/course-feedback/internal/logger"
)

// AccessLog writes one line per request after the handler returns.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		l := logger.WithCtx(r.Context())
		var ev *zerolog.Event
		switch {
		case sw.status >= 500:
			ev = l.Error()
		case sw.status >= 400:
			ev = l.Warn()
		default:
			ev = l.Info()
		}
		if id, ok := IdentityFromContext(r.Context()); ok {
			ev = ev.Str("user_id", id.UserID)
		}
		ev.Str("method", r.Method).
			Str("route", routePattern(r)).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Int("bytes", sw.bytes).
			Dur("duration", time.Since(start)).
			Msg("http_request")
	})
}
