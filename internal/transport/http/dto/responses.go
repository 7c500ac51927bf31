package dto

import (
	"time"

	"github.com/baechuer/course-feedback/internal/domain"
)

// Documents use "_id", the key the web client reads.

type UserView struct {
	ID         string     `json:"_id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	Blocked    bool       `json:"blocked"`
	Phone      string     `json:"phone,omitempty"`
	DOB        *time.Time `json:"dob,omitempty"`
	Address    string     `json:"address,omitempty"`
	ProfilePic string     `json:"profilePic,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func NewUserView(u domain.PublicUser) UserView {
	return UserView{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Blocked:    u.Blocked,
		Phone:      u.Phone,
		DOB:        u.DOB,
		Address:    u.Address,
		ProfilePic: u.ProfilePic,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func NewUserViews(users []domain.User) []UserView {
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserView(u.Public()))
	}
	return out
}

type SignupResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type LoginUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

type LoginResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    LoginUser `json:"user"`
}

type UserMessageResponse struct {
	Message string   `json:"message"`
	User    UserView `json:"user"`
}

type StudentMessageResponse struct {
	Message string   `json:"message"`
	Student UserView `json:"student"`
}

type PictureResponse struct {
	Message    string `json:"message"`
	ProfilePic string `json:"profilePic"`
}

type StatsResponse struct {
	TotalFeedbacks int `json:"totalFeedbacks"`
	TotalStudents  int `json:"totalStudents"`
}

// -------- Courses & feedback --------

type CourseView struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewCourseView(c domain.Course) CourseView {
	return CourseView{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt}
}

func NewCourseViews(cs []domain.Course) []CourseView {
	out := make([]CourseView, 0, len(cs))
	for _, c := range cs {
		out = append(out, NewCourseView(c))
	}
	return out
}

// FeedbackDoc is a stored entry with plain course and student ids.
type FeedbackDoc struct {
	ID        string    `json:"_id"`
	Course    string    `json:"course"`
	Student   string    `json:"student"`
	Rating    int       `json:"rating"`
	Comments  string    `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewFeedbackDoc(f domain.Feedback) FeedbackDoc {
	return FeedbackDoc{
		ID:        f.ID,
		Course:    f.CourseID,
		Student:   f.StudentID,
		Rating:    f.Rating,
		Comments:  f.Comments,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

type FeedbackMessageResponse struct {
	Message  string      `json:"message"`
	Feedback FeedbackDoc `json:"feedback"`
}

type CourseRefView struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type StudentRefView struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// FeedbackView is a populated entry; course or student is null once deleted.
type FeedbackView struct {
	ID        string          `json:"_id"`
	Course    *CourseRefView  `json:"course"`
	Student   *StudentRefView `json:"student"`
	Rating    int             `json:"rating"`
	Comments  string          `json:"comments"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func NewFeedbackViews(list []domain.FeedbackView) []FeedbackView {
	out := make([]FeedbackView, 0, len(list))
	for _, v := range list {
		fv := FeedbackView{
			ID:        v.ID,
			Rating:    v.Rating,
			Comments:  v.Comments,
			CreatedAt: v.CreatedAt,
			UpdatedAt: v.UpdatedAt,
		}
		if v.Course != nil {
			fv.Course = &CourseRefView{ID: v.Course.ID, Name: v.Course.Name, Description: v.Course.Description}
		}
		if v.Student != nil {
			fv.Student = &StudentRefView{ID: v.Student.ID, Name: v.Student.Name, Email: v.Student.Email}
		}
		out = append(out, fv)
	}
	return out
}

type TrendView struct {
	ID             string  `json:"_id"`
	CourseID       string  `json:"courseId"`
	CourseName     string  `json:"courseName"`
	AverageRating  float64 `json:"averageRating"`
	TotalFeedbacks int     `json:"totalFeedbacks"`
}

func NewTrendViews(ts []domain.CourseTrend) []TrendView {
	out := make([]TrendView, 0, len(ts))
	for _, t := range ts {
		out = append(out, TrendView{
			ID:             t.CourseID,
			CourseID:       t.CourseID,
			CourseName:     t.CourseName,
			AverageRating:  t.AverageRating,
			TotalFeedbacks: t.TotalFeedbacks,
		})
	}
	return out
}
