package http_handlers

import (
	"net/http"

	"github.com/baechuer/course-feedback/internal/application/auth"
	"github.com/baechuer/course-feedback/internal/domain"
	"github.com/baechuer/course-feedback/internal/transport/http/middleware"
	"github.com/baechuer/course-feedback/internal/transport/http/response"
)

// callerOrFail returns the identity set by the auth middleware. A route
// mounted without it answers 401 instead of acting for nobody.
func callerOrFail(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrNoUserData())
		return auth.Identity{}, false
	}
	return id, true
}
