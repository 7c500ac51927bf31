package http_handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/course-feedback/internal/application/auth"
	"github.com/baechuer/course-feedback/internal/application/feedback"
	"github.com/baechuer/course-feedback/internal/domain"
	"github.com/baechuer/course-feedback/internal/transport/http/dto"
	"github.com/baechuer/course-feedback/internal/transport/http/response"
)

type AdminHandler struct {
	accounts *auth.Service
	feedback *feedback.Service
}

func NewAdminHandler(accounts *auth.Service, fb *feedback.Service) *AdminHandler {
	return &AdminHandler{accounts: accounts, feedback: fb}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.feedback.Stats(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.StatsResponse{TotalFeedbacks: st.TotalFeedbacks, TotalStudents: st.TotalStudents})
}

func (h *AdminHandler) Students(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListStudents(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewUserViews(users))
}

func (h *AdminHandler) Block(w http.ResponseWriter, r *http.Request) {
	h.setBlocked(w, r, true)
}

func (h *AdminHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	h.setBlocked(w, r, false)
}

func (h *AdminHandler) setBlocked(w http.ResponseWriter, r *http.Request, blocked bool) {
	actor, ok := callerOrFail(w, r)
	if !ok {
		return
	}
	targetID := chi.URLParam(r, "id")

	var (
		u   domain.User
		err error
		msg string
	)
	if blocked {
		u, err = h.accounts.BlockStudent(r.Context(), actor, targetID)
		msg = "Student blocked"
	} else {
		u, err = h.accounts.UnblockStudent(r.Context(), actor, targetID)
		msg = "Student unblocked"
	}
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.StudentMessageResponse{Message: msg, Student: dto.NewUserView(u.Public())})
}

func (h *AdminHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	actor, ok := callerOrFail(w, r)
	if !ok {
		return
	}
	if err := h.accounts.DeleteStudent(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, "Student deleted successfully")
}

// Trends is sorted by average rating, best first.
func (h *AdminHandler) Trends(w http.ResponseWriter, r *http.Request) {
	ts, err := h.feedback.Trends(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewTrendViews(ts))
}
