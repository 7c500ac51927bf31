package memory

import (
	"context"

	"github.com/baechuer/course-feedback/internal/application/auth"
	"github.com/baechuer/course-feedback/internal/application/feedback"
	"github.com/baechuer/course-feedback/internal/logger"
)

// NoopPublisher logs events instead of sending them to a broker.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishUserRegistered(ctx context.Context, evt auth.UserRegisteredEvent) error {
	logger.WithCtx(ctx).Debug().Str("user_id", evt.UserID).Str("role", evt.Role).Msg("[noop-pub] user.registered")
	return nil
}

func (p *NoopPublisher) PublishUserBlocked(ctx context.Context, evt auth.UserBlockedEvent) error {
	logger.WithCtx(ctx).Debug().Str("user_id", evt.UserID).Bool("blocked", evt.Blocked).Msg("[noop-pub] user.blocked")
	return nil
}

func (p *NoopPublisher) PublishFeedbackSubmitted(ctx context.Context, evt feedback.FeedbackSubmittedEvent) error {
	logger.WithCtx(ctx).Debug().Str("feedback_id", evt.FeedbackID).Int("rating", evt.Rating).Msg("[noop-pub] feedback.submitted")
	return nil
}
