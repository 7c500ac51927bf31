package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/baechuer/course-feedback/internal/domain"
)

type FeedbackRepo struct {
	mu      sync.RWMutex
	byID    map[string]domain.Feedback
	courses *CourseRepo
}

// NewFeedbackRepo needs the course store to resolve names for trends.
func NewFeedbackRepo(courses *CourseRepo) *FeedbackRepo {
	return &FeedbackRepo{
		byID:    make(map[string]domain.Feedback),
		courses: courses,
	}
}

func (r *FeedbackRepo) Create(ctx context.Context, f domain.Feedback) (domain.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f.ID == "" {
		return domain.Feedback{}, domain.ErrInternal(nil)
	}
	r.byID[f.ID] = f
	return f, nil
}

func (r *FeedbackRepo) GetByID(ctx context.Context, id string) (domain.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byID[id]
	if !ok {
		return domain.Feedback{}, domain.ErrFeedbackNotFound()
	}
	return f, nil
}

func (r *FeedbackRepo) Update(ctx context.Context, f domain.Feedback) (domain.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[f.ID]; !ok {
		return domain.Feedback{}, domain.ErrFeedbackNotFound()
	}
	r.byID[f.ID] = f
	return f, nil
}

func (r *FeedbackRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrFeedbackNotFound()
	}
	delete(r.byID, id)
	return nil
}

func (r *FeedbackRepo) List(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Feedback, 0)
	for _, f := range r.byID {
		if filter.Match(f) {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *FeedbackRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

// Trends averages ratings per course, highest average first.
func (r *FeedbackRepo) Trends(ctx context.Context) ([]domain.CourseTrend, error) {
	type acc struct{ sum, n int }

	r.mu.RLock()
	groups := map[string]*acc{}
	for _, f := range r.byID {
		a, ok := groups[f.CourseID]
		if !ok {
			a = &acc{}
			groups[f.CourseID] = a
		}
		a.sum += f.Rating
		a.n++
	}
	r.mu.RUnlock()

	out := make([]domain.CourseTrend, 0, len(groups))
	for courseID, a := range groups {
		c, err := r.courses.GetByID(ctx, courseID)
		if err != nil {
			if domain.Is(err, "course_not_found") {
				continue
			}
			return nil, err
		}
		out = append(out, domain.CourseTrend{
			CourseID:       courseID,
			CourseName:     c.Name,
			AverageRating:  float64(a.sum) / float64(a.n),
			TotalFeedbacks: a.n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AverageRating != out[j].AverageRating {
			return out[i].AverageRating > out[j].AverageRating
		}
		return out[i].CourseName < out[j].CourseName
	})
	return out, nil
}
