package auth

import (
	"context"

	"github.com/baechuer/course-feedback/internal/domain"
)

// ChangePassword replaces the password of userID. The variant picks the
// strength policy and the messages reported at each step.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string, v domain.PasswordChangeVariant) error {
	audit := s.auditor("auth.change_password", map[string]string{
		"actor_id": userID,
		"variant":  v.Name,
	})

	if current == "" || next == "" {
		err := domain.ErrMissingFields(v.MissingMessage)
		audit("error", err, nil)
		return err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		audit("error", err, nil)
		return err
	}

	if !s.hasher.Verify(u.PasswordHash, current) {
		err := domain.ErrIncorrectPassword(v.IncorrectOld)
		audit("error", err, nil)
		return err
	}

	// Compare against the stored digest, not the submitted current password.
	if s.hasher.Verify(u.PasswordHash, next) {
		err := domain.ErrPasswordReused(v.SameAsOld)
		audit("error", err, nil)
		return err
	}

	if err := v.CheckNew(next); err != nil {
		audit("error", err, nil)
		return err
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		err = domain.ErrHashFailed(err)
		audit("error", err, nil)
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		audit("error", err, nil)
		return err
	}

	audit("success", nil, nil)
	return nil
}
