package http_handlers

import (
	"net/http"

	"github.com/baechuer/course-feedback/internal/application/auth"
	"github.com/baechuer/course-feedback/internal/domain"
	"github.com/baechuer/course-feedback/internal/logger"
	"github.com/baechuer/course-feedback/internal/transport/http/dto"
	"github.com/baechuer/course-feedback/internal/transport/http/middleware"
	"github.com/baechuer/course-feedback/internal/transport/http/response"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Signup(r.Context(), req.Input())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", u.ID).
		Str("role", u.Role).
		Msg("user_registered")

	response.Created(w, dto.SignupResponse{Message: "User created successfully", UserID: u.ID})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.LoginAttemptsTotal.WithLabelValues(loginOutcome(err)).Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.LoginAttemptsTotal.WithLabelValues("success").Inc()

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Msg("user_logged_in")

	response.OK(w, dto.LoginResponse{
		Message: "Login successful",
		Token:   res.Token,
		User: dto.LoginUser{
			ID:    res.User.ID,
			Name:  res.User.Name,
			Role:  res.User.Role,
			Email: res.User.Email,
		},
	})
}

func loginOutcome(err error) string {
	switch code := domain.Code(err); code {
	case "invalid_credentials", "account_blocked":
		return code
	default:
		return "error"
	}
}

// ChangePassword handles PUT /api/auth/change-password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := callerOrFail(w, r)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	v := domain.PasswordChangeSelfService
	if err := h.svc.ChangePassword(r.Context(), id.UserID, req.OldPassword, req.NewPassword, v); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, v.SuccessMessage)
}
