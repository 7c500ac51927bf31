package auth

import (
	"context"
	"io"
	"time"

	"github.com/baechuer/course-feedback/internal/domain"
)

/*
UserRepo
--------
Persistence port for users.
Lookups of a missing user return domain.ErrUserNotFound().
Create returns domain.ErrEmailAlreadyExists() when the email is taken.
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)

	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error
	UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (domain.User, error)
	SetProfilePic(ctx context.Context, userID string, url string) (domain.User, error)
	SetBlocked(ctx context.Context, userID string, blocked bool) (domain.User, error)
	SetRoleByEmail(ctx context.Context, email string, role string) (domain.User, error)
	Delete(ctx context.Context, userID string) error

	ListByRole(ctx context.Context, role string) ([]domain.User, error)
	CountByRole(ctx context.Context, role string) (int, error)
}

/*
PasswordHasher
--------------
Verify never errors: a mismatch and a malformed digest both report false.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

// Identity is the verified caller attached to a request.
type Identity struct {
	UserID string
	Role   domain.Role
}

func (i Identity) IsAdmin() bool { return i.Role == domain.RoleAdmin }

/*
TokenSigner
-----------
Issues and verifies session tokens.
Verify returns domain.ErrTokenExpired() or domain.ErrTokenInvalid() on failure.
*/
type TokenSigner interface {
	Issue(userID string, role string, ttl time.Duration) (string, error)
	Verify(token string) (Identity, error)
}

// PictureStore keeps uploaded profile pictures and returns their public URL.
type PictureStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

/*
EventPublisher
--------------
Publishes account events to the message broker. Delivery is best effort;
the service logs and ignores publish failures.
*/
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error
	PublishUserBlocked(ctx context.Context, evt UserBlockedEvent) error
}

type UserRegisteredEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

type UserBlockedEvent struct {
	UserID  string `json:"user_id"`
	ActorID string `json:"actor_id"`
	Blocked bool   `json:"blocked"`
}
