package feedback

import (
	"context"

	"github.com/baechuer/course-feedback/internal/domain"
)

/*
CourseRepo
----------
GetByID returns domain.ErrCourseNotFound() for unknown ids.
Create returns domain.ErrCourseAlreadyExists() when the name is taken.
*/
type CourseRepo interface {
	List(ctx context.Context) ([]domain.Course, error)
	GetByID(ctx context.Context, id string) (domain.Course, error)
	GetByName(ctx context.Context, name string) (domain.Course, error)
	Create(ctx context.Context, c domain.Course) (domain.Course, error)
	Delete(ctx context.Context, id string) error
}

/*
FeedbackRepo
------------
List returns entries newest first. Trends joins feedback with courses and
skips groups whose course no longer exists.
*/
type FeedbackRepo interface {
	Create(ctx context.Context, f domain.Feedback) (domain.Feedback, error)
	GetByID(ctx context.Context, id string) (domain.Feedback, error)
	Update(ctx context.Context, f domain.Feedback) (domain.Feedback, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error)
	Count(ctx context.Context) (int, error)
	Trends(ctx context.Context) ([]domain.CourseTrend, error)
}

// UserDirectory is the read-only slice of the user store this package needs.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
	CountByRole(ctx context.Context, role string) (int, error)
}

type EventPublisher interface {
	PublishFeedbackSubmitted(ctx context.Context, evt FeedbackSubmittedEvent) error
}

type FeedbackSubmittedEvent struct {
	FeedbackID string `json:"feedback_id"`
	CourseID   string `json:"course_id"`
	StudentID  string `json:"student_id"`
	Rating     int    `json:"rating"`
}
