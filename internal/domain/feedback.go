package domain

import "time"

type Course struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

const (
	MinRating = 1
	MaxRating = 5
)

func IsValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

type Feedback struct {
	ID        string
	CourseID  string
	StudentID string
	Rating    int
	Comments  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FeedbackPatch holds optional edits; nil fields are left untouched.
type FeedbackPatch struct {
	Rating   *int
	Comments *string
}

func (p FeedbackPatch) Apply(f Feedback) Feedback {
	if p.Rating != nil {
		f.Rating = *p.Rating
	}
	if p.Comments != nil {
		f.Comments = *p.Comments
	}
	return f
}

// FeedbackFilter narrows the admin listing. Zero values mean "any".
type FeedbackFilter struct {
	CourseID  string
	StudentID string
	Rating    int
}

func (f FeedbackFilter) Match(fb Feedback) bool {
	if f.CourseID != "" && fb.CourseID != f.CourseID {
		return false
	}
	if f.StudentID != "" && fb.StudentID != f.StudentID {
		return false
	}
	if f.Rating != 0 && fb.Rating != f.Rating {
		return false
	}
	return true
}

// CourseRef and StudentRef are the populated parts of a FeedbackView.
// They are nil when the referenced record no longer exists.
type CourseRef struct {
	ID          string
	Name        string
	Description string
}

type StudentRef struct {
	ID    string
	Name  string
	Email string
}

type FeedbackView struct {
	Feedback
	Course  *CourseRef
	Student *StudentRef
}

type CourseTrend struct {
	CourseID       string
	CourseName     string
	AverageRating  float64
	TotalFeedbacks int
}

type Stats struct {
	TotalFeedbacks int
	TotalStudents  int
}
