package response

import (
	"net/http"

	appCtx "github.com/baechuer/course-feedback/internal/pkg/context"
)

func RequestIDFromContext(r *http.Request) string {
	return appCtx.GetRequestID(r.Context())
}
