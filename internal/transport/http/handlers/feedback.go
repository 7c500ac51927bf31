package http_handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/course-feedback/internal/application/feedback"
	"github.com/baechuer/course-feedback/internal/domain"
	"github.com/baechuer/course-feedback/internal/transport/http/dto"
	"github.com/baechuer/course-feedback/internal/transport/http/middleware"
	"github.com/baechuer/course-feedback/internal/transport/http/response"
)

const exportFilename = "feedbacks.csv"

type FeedbackHandler struct {
	svc *feedback.Service
}

func NewFeedbackHandler(svc *feedback.Service) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrFail(w, r)
	if !ok {
		return
	}

	var req dto.SubmitFeedbackRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	f, err := h.svc.Submit(r.Context(), caller.UserID, req.Input())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	middleware.FeedbackSubmittedTotal.WithLabelValues(strconv.Itoa(f.Rating)).Inc()

	response.Created(w, dto.FeedbackMessageResponse{
		Message:  "Feedback submitted successfully",
		Feedback: dto.NewFeedbackDoc(f),
	})
}

// My lists the caller's entries, newest first.
func (h *FeedbackHandler) My(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrFail(w, r)
	if !ok {
		return
	}
	list, err := h.svc.MyFeedback(r.Context(), caller.UserID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewFeedbackViews(list))
}

func (h *FeedbackHandler) Edit(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrFail(w, r)
	if !ok {
		return
	}

	var req dto.EditFeedbackRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	f, err := h.svc.Edit(r.Context(), caller.UserID, chi.URLParam(r, "id"), req.Patch())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.FeedbackMessageResponse{
		Message:  "Feedback updated successfully",
		Feedback: dto.NewFeedbackDoc(f),
	})
}

func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrFail(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), caller.UserID, chi.URLParam(r, "id")); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, "Feedback deleted successfully")
}

// All handles GET /api/feedback/all?courseId=&rating=&student=.
func (h *FeedbackHandler) All(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := dto.FeedbackFilterFromQuery(q.Get("courseId"), q.Get("rating"), q.Get("student"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	list, err := h.svc.ListAll(r.Context(), filter)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewFeedbackViews(list))
}

// Export renders every entry as a CSV attachment. The body is built in
// memory so that a failure can still be reported as JSON.
func (h *FeedbackHandler) Export(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ExportRows(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := feedback.WriteCSV(&buf, rows); err != nil {
		response.WriteError(w, r, domain.ErrInternal(err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
