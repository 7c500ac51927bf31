package middleware

import (
	"net/http"
	"strings"

	"github.com/baechuer/course-feedback/internal/application/auth"
	"github.com/baechuer/course-feedback/internal/domain"
)

type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

const bearerPrefix = "Bearer "

// Auth verifies Authorization: Bearer <token> and puts the caller's
// identity into the request context. Nothing downstream runs on failure.
func Auth(verifier TokenVerifier, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, bearerPrefix) {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}
			raw := strings.TrimSpace(h[len(bearerPrefix):])
			if raw == "" {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}

			id, err := verifier.Verify(raw)
			if err != nil {
				writeErr(w, r, err)
				return
			}
			if id.UserID == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
