package http_handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/course-feedback/internal/application/feedback"
	"github.com/baechuer/course-feedback/internal/transport/http/dto"
	"github.com/baechuer/course-feedback/internal/transport/http/response"
)

type CourseHandler struct {
	svc *feedback.Service
}

func NewCourseHandler(svc *feedback.Service) *CourseHandler {
	return &CourseHandler{svc: svc}
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	cs, err := h.svc.ListCourses(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewCourseViews(cs))
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := callerOrFail(w, r)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	c, err := h.svc.CreateCourse(r.Context(), actor.UserID, req.Name, req.Description)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.NewCourseView(c))
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := callerOrFail(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteCourse(r.Context(), actor.UserID, chi.URLParam(r, "id")); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, "Course deleted successfully")
}
