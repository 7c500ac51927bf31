package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/baechuer/course-feedback/internal/domain"
)

type CourseRepo struct {
	mu   sync.RWMutex
	byID map[string]domain.Course
}

func NewCourseRepo() *CourseRepo {
	return &CourseRepo{byID: make(map[string]domain.Course)}
}

func (r *CourseRepo) List(ctx context.Context) ([]domain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Course, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *CourseRepo) GetByID(ctx context.Context, id string) (domain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return domain.Course{}, domain.ErrCourseNotFound()
	}
	return c, nil
}

func (r *CourseRepo) GetByName(ctx context.Context, name string) (domain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.byID {
		if c.Name == name {
			return c, nil
		}
	}
	return domain.Course{}, domain.ErrCourseNotFound()
}

func (r *CourseRepo) Create(ctx context.Context, c domain.Course) (domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Name == c.Name {
			return domain.Course{}, domain.ErrCourseAlreadyExists()
		}
	}
	r.byID[c.ID] = c
	return c, nil
}

func (r *CourseRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrCourseNotFound()
	}
	delete(r.byID, id)
	return nil
}
