package feedback

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/course-feedback/internal/domain"
	"github.com/baechuer/course-feedback/internal/logger"
)

type Service struct {
	courses   CourseRepo
	feedbacks FeedbackRepo
	users     UserDirectory
	pub       EventPublisher

	audit func(action string, fields map[string]string)
	now   func() time.Time
}

func NewService(courses CourseRepo, feedbacks FeedbackRepo, users UserDirectory, pub EventPublisher) *Service {
	return &Service{
		courses:   courses,
		feedbacks: feedbacks,
		users:     users,
		pub:       pub,
		audit:     func(string, map[string]string) {},
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

func (s *Service) record(action string, fields map[string]string, err error) {
	if err != nil {
		fields["result"] = "error"
		fields["error_code"] = domain.Code(err)
	} else {
		fields["result"] = "success"
	}
	s.audit(action, fields)
}

// ----------------------
// Courses
// ----------------------

func (s *Service) ListCourses(ctx context.Context) ([]domain.Course, error) {
	return s.courses.List(ctx)
}

func (s *Service) CreateCourse(ctx context.Context, actorID, name, description string) (c domain.Course, err error) {
	defer func() {
		s.record("course.create", map[string]string{"actor_id": actorID, "name": name, "course_id": c.ID}, err)
	}()

	if name == "" {
		return domain.Course{}, domain.ErrMissingFields("Course name is required")
	}
	if _, err := s.courses.GetByName(ctx, name); err == nil {
		return domain.Course{}, domain.ErrCourseAlreadyExists()
	} else if !domain.Is(err, "course_not_found") {
		return domain.Course{}, err
	}

	return s.courses.Create(ctx, domain.Course{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   s.now(),
	})
}

// DeleteCourse removes the course only; its feedback stays and no longer
// appears in trends.
func (s *Service) DeleteCourse(ctx context.Context, actorID, id string) (err error) {
	defer func() {
		s.record("course.delete", map[string]string{"actor_id": actorID, "course_id": id}, err)
	}()
	return s.courses.Delete(ctx, id)
}

// ----------------------
// Student feedback
// ----------------------

type SubmitInput struct {
	CourseID string
	Rating   int
	Comments string
}

func (s *Service) Submit(ctx context.Context, studentID string, in SubmitInput) (f domain.Feedback, err error) {
	defer func() {
		s.record("feedback.submit", map[string]string{
			"actor_id":    studentID,
			"course_id":   in.CourseID,
			"feedback_id": f.ID,
		}, err)
	}()

	if in.CourseID == "" || in.Rating == 0 {
		return domain.Feedback{}, domain.ErrMissingFields("Course and rating are required")
	}
	if _, err := s.courses.GetByID(ctx, in.CourseID); err != nil {
		if domain.Is(err, "course_not_found") {
			return domain.Feedback{}, domain.ErrInvalidCourse()
		}
		return domain.Feedback{}, err
	}
	if !domain.IsValidRating(in.Rating) {
		return domain.Feedback{}, domain.ErrInvalidRating()
	}

	now := s.now()
	f, err = s.feedbacks.Create(ctx, domain.Feedback{
		ID:        uuid.NewString(),
		CourseID:  in.CourseID,
		StudentID: studentID,
		Rating:    in.Rating,
		Comments:  in.Comments,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return domain.Feedback{}, err
	}

	if perr := s.pub.PublishFeedbackSubmitted(ctx, FeedbackSubmittedEvent{
		FeedbackID: f.ID,
		CourseID:   f.CourseID,
		StudentID:  f.StudentID,
		Rating:     f.Rating,
	}); perr != nil {
		logger.WithCtx(ctx).Warn().Err(perr).Str("feedback_id", f.ID).Msg("publish feedback.submitted failed")
	}
	return f, nil
}

func (s *Service) MyFeedback(ctx context.Context, studentID string) ([]domain.FeedbackView, error) {
	list, err := s.feedbacks.List(ctx, domain.FeedbackFilter{StudentID: studentID})
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, list)
}

// owned loads a feedback entry and hides entries of other students.
func (s *Service) owned(ctx context.Context, studentID, id string) (domain.Feedback, error) {
	f, err := s.feedbacks.GetByID(ctx, id)
	if err != nil {
		return domain.Feedback{}, err
	}
	if f.StudentID != studentID {
		return domain.Feedback{}, domain.ErrFeedbackNotFound()
	}
	return f, nil
}

func (s *Service) Edit(ctx context.Context, studentID, id string, patch domain.FeedbackPatch) (f domain.Feedback, err error) {
	defer func() {
		s.record("feedback.edit", map[string]string{"actor_id": studentID, "feedback_id": id}, err)
	}()

	if patch.Rating != nil && !domain.IsValidRating(*patch.Rating) {
		return domain.Feedback{}, domain.ErrInvalidRating()
	}

	cur, err := s.owned(ctx, studentID, id)
	if err != nil {
		return domain.Feedback{}, err
	}
	next := patch.Apply(cur)
	next.UpdatedAt = s.now()
	return s.feedbacks.Update(ctx, next)
}

func (s *Service) Delete(ctx context.Context, studentID, id string) (err error) {
	defer func() {
		s.record("feedback.delete", map[string]string{"actor_id": studentID, "feedback_id": id}, err)
	}()

	if _, err := s.owned(ctx, studentID, id); err != nil {
		return err
	}
	return s.feedbacks.Delete(ctx, id)
}

// ----------------------
// Admin views
// ----------------------

func (s *Service) ListAll(ctx context.Context, filter domain.FeedbackFilter) ([]domain.FeedbackView, error) {
	list, err := s.feedbacks.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, list)
}

func (s *Service) Trends(ctx context.Context) ([]domain.CourseTrend, error) {
	return s.feedbacks.Trends(ctx)
}

func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	total, err := s.feedbacks.Count(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	students, err := s.users.CountByRole(ctx, string(domain.RoleStudent))
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.Stats{TotalFeedbacks: total, TotalStudents: students}, nil
}

// populate attaches course and student details. References to deleted
// records are left nil.
func (s *Service) populate(ctx context.Context, list []domain.Feedback) ([]domain.FeedbackView, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	students := map[string]*domain.StudentRef{}
	out := make([]domain.FeedbackView, 0, len(list))
	for _, f := range list {
		v := domain.FeedbackView{Feedback: f}
		if c, ok := byID[f.CourseID]; ok {
			v.Course = &domain.CourseRef{ID: c.ID, Name: c.Name, Description: c.Description}
		}

		ref, seen := students[f.StudentID]
		if !seen {
			u, err := s.users.GetByID(ctx, f.StudentID)
			switch {
			case err == nil:
				ref = &domain.StudentRef{ID: u.ID, Name: u.Name, Email: u.Email}
			case domain.Is(err, "user_not_found"):
				ref = nil
			default:
				return nil, err
			}
			students[f.StudentID] = ref
		}
		v.Student = ref
		out = append(out, v)
	}
	return out, nil
}
