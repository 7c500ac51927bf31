package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/baechuer/course-feedback/internal/transport/http/response"
)

var writeErr WriteErrFunc = response.WriteError

// okHandler records that it ran and echoes the identity it saw.
func okHandler(ran *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*ran = true
		id, _ := IdentityFromContext(r.Context())
		w.Header().Set("X-User", id.UserID)
		w.Header().Set("X-Role", string(id.Role))
		w.WriteHeader(http.StatusOK)
	})
}

func decodeErr(t *testing.T, rr *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v; body=%s", err, rr.Body.String())
	}
	return body
}
