package http_handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/course-feedback/internal/application/auth"
	"github.com/baechuer/course-feedback/internal/transport/http/dto"
	"github.com/baechuer/course-feedback/internal/transport/http/response"
)

// DevHandler serves development-only routes. The router mounts it only
// when dev routes are enabled.
type DevHandler struct {
	svc *auth.Service
}

func NewDevHandler(svc *auth.Service) *DevHandler {
	return &DevHandler{svc: svc}
}

func (h *DevHandler) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.PromoteToAdmin(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.UserMessageResponse{Message: "User promoted to admin", User: dto.NewUserView(u.Public())})
}
