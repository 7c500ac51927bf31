package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/course-feedback/internal/domain"
	"github.com/baechuer/course-feedback/internal/logger"
)

type SignupInput struct {
	Name     string
	Email    string
	Password string
	// Role is the client requested role; only "admin" is honoured.
	Role string
}

// Signup validates the input, hashes the password and stores a new user.
func (s *Service) Signup(ctx context.Context, in SignupInput) (domain.User, error) {
	audit := s.auditor("auth.signup", map[string]string{
		"email":          in.Email,
		"requested_role": in.Role,
	})

	if in.Name == "" || in.Email == "" || in.Password == "" {
		err := domain.ErrMissingFields("All fields are required")
		audit("error", err, nil)
		return domain.User{}, err
	}
	if !domain.IsEmailShape(in.Email) {
		err := domain.ErrInvalidEmail()
		audit("error", err, nil)
		return domain.User{}, err
	}
	if err := domain.SignupPasswordPolicy.Check(in.Password); err != nil {
		audit("error", err, nil)
		return domain.User{}, err
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		err := domain.ErrEmailAlreadyExists()
		audit("error", err, nil)
		return domain.User{}, err
	} else if !domain.Is(err, "user_not_found") {
		audit("error", err, nil)
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		err = domain.ErrHashFailed(err)
		audit("error", err, nil)
		return domain.User{}, err
	}

	now := time.Now().UTC()
	role := domain.RoleFromSignup(in.Role)
	created, err := s.users.Create(ctx, domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         string(role),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		audit("error", err, nil)
		return domain.User{}, err
	}

	audit("success", nil, map[string]string{"user_id": created.ID, "role": created.Role})
	if role == domain.RoleAdmin {
		logger.WithCtx(ctx).Warn().
			Str("user_id", created.ID).
			Msg("account created with client requested admin role")
	}

	if err := s.pub.PublishUserRegistered(ctx, UserRegisteredEvent{
		UserID: created.ID,
		Email:  created.Email,
		Name:   created.Name,
		Role:   created.Role,
	}); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Str("user_id", created.ID).Msg("publish user.registered failed")
	}

	return created, nil
}
