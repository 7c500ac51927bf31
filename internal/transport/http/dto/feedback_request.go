package dto

import (
	"strconv"

	"github.com/baechuer/course-feedback/internal/application/feedback"
	"github.com/baechuer/course-feedback/internal/domain"
)

type CreateCourseRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (r *CreateCourseRequest) Validate() error {
	return check(r, []string{"required"}, rules{
		"required": func(string) error { return domain.ErrMissingFields("Course name is required") },
	})
}

// SubmitFeedbackRequest only checks presence; the rating range is checked
// after the course lookup.
type SubmitFeedbackRequest struct {
	CourseID string `json:"courseId" validate:"required"`
	Rating   int    `json:"rating" validate:"required"`
	Comments string `json:"comments"`
}

func (r *SubmitFeedbackRequest) Validate() error {
	return check(r, []string{"required"}, rules{
		"required": func(string) error { return domain.ErrMissingFields("Course and rating are required") },
	})
}

func (r *SubmitFeedbackRequest) Input() feedback.SubmitInput {
	return feedback.SubmitInput{CourseID: r.CourseID, Rating: r.Rating, Comments: r.Comments}
}

// EditFeedbackRequest fields are optional; a present rating must be 1..5.
type EditFeedbackRequest struct {
	Rating   *int    `json:"rating" validate:"omitnil,rating"`
	Comments *string `json:"comments"`
}

func (r *EditFeedbackRequest) Validate() error {
	return check(r, []string{"rating"}, rules{
		"rating": func(string) error { return domain.ErrInvalidRating() },
	})
}

func (r *EditFeedbackRequest) Patch() domain.FeedbackPatch {
	return domain.FeedbackPatch{Rating: r.Rating, Comments: r.Comments}
}

// FeedbackFilterFromQuery reads courseId, rating and student. An empty value
// means "any"; a rating that is not a number is rejected.
func FeedbackFilterFromQuery(courseID, rating, student string) (domain.FeedbackFilter, error) {
	f := domain.FeedbackFilter{CourseID: courseID, StudentID: student}
	if rating != "" {
		n, err := strconv.Atoi(rating)
		if err != nil {
			return domain.FeedbackFilter{}, domain.ErrInvalidField("rating", "Rating filter must be a number")
		}
		f.Rating = n
	}
	return f, nil
}
