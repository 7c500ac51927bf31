package auth

import (
	"context"

	"github.com/baechuer/course-feedback/internal/domain"
	"github.com/baechuer/course-feedback/internal/logger"
)

func (s *Service) ListStudents(ctx context.Context) ([]domain.User, error) {
	return s.users.ListByRole(ctx, string(domain.RoleStudent))
}

func (s *Service) CountStudents(ctx context.Context) (int, error) {
	return s.users.CountByRole(ctx, string(domain.RoleStudent))
}

func (s *Service) BlockStudent(ctx context.Context, actor Identity, targetID string) (domain.User, error) {
	return s.setBlocked(ctx, actor, targetID, true)
}

func (s *Service) UnblockStudent(ctx context.Context, actor Identity, targetID string) (domain.User, error) {
	return s.setBlocked(ctx, actor, targetID, false)
}

// setBlocked toggles the blocked flag of any account id. Admins are not
// prevented from blocking themselves.
func (s *Service) setBlocked(ctx context.Context, actor Identity, targetID string, blocked bool) (domain.User, error) {
	action := "admin.unblock_student"
	if blocked {
		action = "admin.block_student"
	}
	audit := s.auditor(action, map[string]string{
		"actor_id":   actor.UserID,
		"actor_role": string(actor.Role),
		"target_id":  targetID,
	})

	u, err := s.users.SetBlocked(ctx, targetID, blocked)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			err = domain.ErrStudentNotFound()
		}
		audit("error", err, nil)
		return domain.User{}, err
	}
	audit("success", nil, nil)

	if err := s.pub.PublishUserBlocked(ctx, UserBlockedEvent{
		UserID:  u.ID,
		ActorID: actor.UserID,
		Blocked: blocked,
	}); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Str("user_id", u.ID).Msg("publish user.blocked failed")
	}
	return u, nil
}

func (s *Service) DeleteStudent(ctx context.Context, actor Identity, targetID string) error {
	audit := s.auditor("admin.delete_student", map[string]string{
		"actor_id":   actor.UserID,
		"actor_role": string(actor.Role),
		"target_id":  targetID,
	})

	if err := s.users.Delete(ctx, targetID); err != nil {
		if domain.Is(err, "user_not_found") {
			err = domain.ErrStudentNotFound()
		}
		audit("error", err, nil)
		return err
	}
	audit("success", nil, nil)
	return nil
}

// PromoteToAdmin grants the admin role to the account registered under email.
// It is reachable without authentication when dev routes are enabled.
func (s *Service) PromoteToAdmin(ctx context.Context, email string) (domain.User, error) {
	audit := s.auditor("dev.promote_admin", map[string]string{"email": email})

	u, err := s.users.SetRoleByEmail(ctx, email, string(domain.RoleAdmin))
	if err != nil {
		audit("error", err, nil)
		return domain.User{}, err
	}
	audit("success", nil, map[string]string{"target_id": u.ID})
	return u, nil
}
