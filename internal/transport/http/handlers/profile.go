package http_handlers

import (
	"errors"
	"net/http"

	"github.com/baechuer/course-feedback/internal/application/auth"
	"github.com/baechuer/course-feedback/internal/domain"
	"github.com/baechuer/course-feedback/internal/transport/http/dto"
	"github.com/baechuer/course-feedback/internal/transport/http/response"
)

const profilePicField = "profilePic"

type ProfileHandler struct {
	svc           *auth.Service
	maxUploadSize int64
}

func NewProfileHandler(svc *auth.Service, maxUploadSize int64) *ProfileHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = 5 << 20
	}
	return &ProfileHandler{svc: svc, maxUploadSize: maxUploadSize}
}

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := callerOrFail(w, r)
	if !ok {
		return
	}
	u, err := h.svc.Profile(r.Context(), id.UserID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewUserView(u.Public()))
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := callerOrFail(w, r)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	upd, err := req.ToDomain()
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), id.UserID, upd)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.UserMessageResponse{Message: "Profile updated successfully", User: dto.NewUserView(u.Public())})
}

// UploadPic accepts a multipart form with the image under "profilePic".
func (h *ProfileHandler) UploadPic(w http.ResponseWriter, r *http.Request) {
	id, ok := callerOrFail(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			response.WriteError(w, r, domain.ErrUnsupportedUpload("size"))
			return
		}
		response.WriteError(w, r, domain.ErrMissingFields("No file uploaded"))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, hdr, err := r.FormFile(profilePicField)
	if err != nil {
		response.WriteError(w, r, domain.ErrMissingFields("No file uploaded"))
		return
	}
	defer file.Close()

	url, err := h.svc.UploadProfilePicture(r.Context(), id.UserID, auth.PictureUpload{
		Filename: hdr.Filename,
		Size:     hdr.Size,
		Body:     file,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.PictureResponse{Message: "Profile picture uploaded successfully", ProfilePic: url})
}

// ChangePassword handles POST /api/profile/change-password, which enforces
// the stricter profile policy.
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := callerOrFail(w, r)
	if !ok {
		return
	}

	var req dto.ProfileChangePasswordRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	v := domain.PasswordChangeProfile
	if err := h.svc.ChangePassword(r.Context(), id.UserID, req.CurrentPassword, req.NewPassword, v); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, v.SuccessMessage)
}
