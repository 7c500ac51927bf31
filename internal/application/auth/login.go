package auth

import (
	"context"

	"github.com/baechuer/course-feedback/internal/domain"
)

type LoginResult struct {
	User  domain.User
	Token string
}

// Login authenticates a user and issues a session token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	audit := s.auditor("auth.login", map[string]string{"email": email})

	if email == "" || password == "" {
		s.burnVerify(password)
		err := domain.ErrInvalidCredentials()
		audit("error", err, nil)
		return LoginResult{}, err
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !domain.Is(err, "user_not_found") {
			audit("error", err, nil)
			return LoginResult{}, err
		}
		s.burnVerify(password)
		err = domain.ErrInvalidCredentials()
		audit("error", err, nil)
		return LoginResult{}, err
	}

	if !s.hasher.Verify(u.PasswordHash, password) {
		err := domain.ErrInvalidCredentials()
		audit("error", err, map[string]string{"user_id": u.ID})
		return LoginResult{}, err
	}

	// The blocked check runs only after the password matched.
	if u.Blocked {
		err := domain.ErrAccountBlocked()
		audit("error", err, map[string]string{"user_id": u.ID})
		return LoginResult{}, err
	}

	tok, err := s.signer.Issue(u.ID, u.Role, LoginTokenTTL)
	if err != nil {
		err = domain.ErrTokenSignFailed(err)
		audit("error", err, map[string]string{"user_id": u.ID})
		return LoginResult{}, err
	}

	audit("success", nil, map[string]string{"user_id": u.ID, "role": u.Role})
	return LoginResult{User: u, Token: tok}, nil
}
