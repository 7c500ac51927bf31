package dto

import (
	"github.com/baechuer/course-feedback/internal/application/auth"
	"github.com/baechuer/course-feedback/internal/domain"
)

// -------- Core auth --------

type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,emailshape"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}

// Validate reports missing fields before a malformed email.
// Password strength is checked by the service.
func (r *SignupRequest) Validate() error {
	return check(r, []string{"required", "emailshape"}, rules{
		"required":   func(string) error { return domain.ErrMissingFields("All fields are required") },
		"emailshape": func(string) error { return domain.ErrInvalidEmail() },
	})
}

func (r *SignupRequest) Input() auth.SignupInput {
	return auth.SignupInput{Name: r.Name, Email: r.Email, Password: r.Password, Role: r.Role}
}

// LoginRequest is not validated here: empty credentials fail like wrong ones.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// -------- Password change --------

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

func (r *ChangePasswordRequest) Validate() error {
	return check(r, []string{"required"}, rules{
		"required": func(string) error {
			return domain.ErrMissingFields(domain.PasswordChangeSelfService.MissingMessage)
		},
	})
}

type ProfileChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

func (r *ProfileChangePasswordRequest) Validate() error {
	return check(r, []string{"required"}, rules{
		"required": func(string) error {
			return domain.ErrMissingFields(domain.PasswordChangeProfile.MissingMessage)
		},
	})
}
