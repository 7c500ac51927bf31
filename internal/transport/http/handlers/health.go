package http_handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/baechuer/course-feedback/internal/logger"
	"github.com/baechuer/course-feedback/internal/transport/http/response"
)

const rootBanner = "Backend server is running ✅"

// Check reports whether a backing service is reachable.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type HealthHandler struct {
	checks []Check
}

func NewHealthHandler(checks ...Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Root handles GET /.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(rootBanner))
}

// Healthz handles GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

// Readyz handles GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for _, c := range h.checks {
		if c.Ping == nil {
			continue
		}
		if err := c.Ping(ctx); err != nil {
			logger.WithCtx(r.Context()).Warn().Err(err).Str("check", c.Name).Msg("readiness check failed")
			response.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  c.Name + " unavailable",
			})
			return
		}
	}
	response.OK(w, map[string]string{"status": "ready"})
}
