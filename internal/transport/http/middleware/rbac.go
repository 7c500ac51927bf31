package middleware

import (
	"net/http"

	"github.com/baechuer/course-feedback/internal/domain"
)

// RequireRole lets through only callers with the given role.
// Auth must run first; a request without identity is rejected with 401.
func RequireRole(role domain.Role, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				writeErr(w, r, domain.ErrNoUserData())
				return
			}
			if id.Role != role {
				writeErr(w, r, domain.ErrAdminsOnly())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
