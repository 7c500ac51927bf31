package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/baechuer/course-feedback/internal/domain"
)

type userDoc struct {
	ID           string     `bson:"_id"`
	Name         string     `bson:"name"`
	Email        string     `bson:"email"`
	PasswordHash string     `bson:"passwordHash"`
	Role         string     `bson:"role"`
	Blocked      bool       `bson:"blocked"`
	Phone        string     `bson:"phone,omitempty"`
	DOB          *time.Time `bson:"dob,omitempty"`
	Address      string     `bson:"address,omitempty"`
	ProfilePic   string     `bson:"profilePic,omitempty"`
	CreatedAt    time.Time  `bson:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt"`
}

func userToDoc(u domain.User) userDoc {
	return userDoc{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Blocked:      u.Blocked,
		Phone:        u.Phone,
		DOB:          u.DOB,
		Address:      u.Address,
		ProfilePic:   u.ProfilePic,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDoc) toDomain() domain.User {
	return domain.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		Blocked:      d.Blocked,
		Phone:        d.Phone,
		DOB:          d.DOB,
		Address:      d.Address,
		ProfilePic:   d.ProfilePic,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// profileSet builds the $set document for a profile update, skipping empty fields.
func profileSet(upd domain.ProfileUpdate, now time.Time) bson.D {
	set := bson.D{}
	if upd.Name != "" {
		set = append(set, bson.E{Key: "name", Value: upd.Name})
	}
	if upd.Phone != "" {
		set = append(set, bson.E{Key: "phone", Value: upd.Phone})
	}
	if upd.DOB != nil {
		set = append(set, bson.E{Key: "dob", Value: *upd.DOB})
	}
	if upd.Address != "" {
		set = append(set, bson.E{Key: "address", Value: upd.Address})
	}
	return append(set, bson.E{Key: "updatedAt", Value: now})
}

type courseDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func (d courseDoc) toDomain() domain.Course {
	return domain.Course{ID: d.ID, Name: d.Name, Description: d.Description, CreatedAt: d.CreatedAt}
}

type feedbackDoc struct {
	ID        string    `bson:"_id"`
	CourseID  string    `bson:"courseId"`
	StudentID string    `bson:"studentId"`
	Rating    int       `bson:"rating"`
	Comments  string    `bson:"comments"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func feedbackToDoc(f domain.Feedback) feedbackDoc {
	return feedbackDoc{
		ID:        f.ID,
		CourseID:  f.CourseID,
		StudentID: f.StudentID,
		Rating:    f.Rating,
		Comments:  f.Comments,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func (d feedbackDoc) toDomain() domain.Feedback {
	return domain.Feedback{
		ID:        d.ID,
		CourseID:  d.CourseID,
		StudentID: d.StudentID,
		Rating:    d.Rating,
		Comments:  d.Comments,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func feedbackFilterDoc(f domain.FeedbackFilter) bson.D {
	q := bson.D{}
	if f.CourseID != "" {
		q = append(q, bson.E{Key: "courseId", Value: f.CourseID})
	}
	if f.StudentID != "" {
		q = append(q, bson.E{Key: "studentId", Value: f.StudentID})
	}
	if f.Rating != 0 {
		q = append(q, bson.E{Key: "rating", Value: f.Rating})
	}
	return q
}

type trendDoc struct {
	CourseID       string  `bson:"courseId"`
	CourseName     string  `bson:"courseName"`
	AverageRating  float64 `bson:"averageRating"`
	TotalFeedbacks int     `bson:"totalFeedbacks"`
}

// trendsPipeline groups feedback per course and joins the course name.
// $unwind drops groups whose course no longer exists.
func trendsPipeline() bson.A {
	return bson.A{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$courseId"},
			{Key: "averageRating", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
			{Key: "totalFeedbacks", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: coursesCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "course"},
		}}},
		bson.D{{Key: "$unwind", Value: "$course"}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "courseId", Value: "$_id"},
			{Key: "courseName", Value: "$course.name"},
			{Key: "averageRating", Value: 1},
			{Key: "totalFeedbacks", Value: 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "averageRating", Value: -1},
			{Key: "courseName", Value: 1},
		}}},
	}
}
