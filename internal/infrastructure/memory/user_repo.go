package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/baechuer/course-feedback/internal/domain"
)

type UserRepo struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string // email -> userID
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	if u.ID == "" {
		return domain.User{}, domain.ErrInternal(nil)
	}
	if u.Role == "" {
		u.Role = string(domain.RoleStudent)
	}

	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return u, nil
}

// mutate applies fn to the stored user under the write lock.
func (r *UserRepo) mutate(userID string, fn func(u *domain.User)) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	fn(&u)
	u.UpdatedAt = time.Now().UTC()
	r.byID[userID] = u
	return u, nil
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	_, err := r.mutate(userID, func(u *domain.User) { u.PasswordHash = newHash })
	return err
}

func (r *UserRepo) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (domain.User, error) {
	return r.mutate(userID, func(u *domain.User) { *u = upd.Apply(*u) })
}

func (r *UserRepo) SetProfilePic(ctx context.Context, userID string, url string) (domain.User, error) {
	return r.mutate(userID, func(u *domain.User) { u.ProfilePic = url })
}

func (r *UserRepo) SetBlocked(ctx context.Context, userID string, blocked bool) (domain.User, error) {
	return r.mutate(userID, func(u *domain.User) { u.Blocked = blocked })
}

func (r *UserRepo) SetRoleByEmail(ctx context.Context, email string, role string) (domain.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.mutate(id, func(u *domain.User) { u.Role = role })
}

func (r *UserRepo) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	delete(r.byID, userID)
	delete(r.byEmail, u.Email)
	return nil
}

// ListByRole returns users with role ordered by creation time.
func (r *UserRepo) ListByRole(ctx context.Context, role string) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.User, 0)
	for _, u := range r.byID {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *UserRepo) CountByRole(ctx context.Context, role string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, u := range r.byID {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}
