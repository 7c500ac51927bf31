package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/course-feedback/internal/domain"
	"github.com/baechuer/course-feedback/internal/logger"
)

// Hasher is the minimal surface we need for seeding.
type Hasher interface {
	Hash(password string) (string, error)
}

// UserCreator is satisfied by every user store.
type UserCreator interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

// SeedAccount describes a development login.
type SeedAccount struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

var DevAccounts = []SeedAccount{
	{Name: "Admin", Email: "admin@example.com", Password: "Admin123!", Role: domain.RoleAdmin},
	{Name: "Student", Email: "student@example.com", Password: "Student123!", Role: domain.RoleStudent},
}

// SeedUsers creates the given accounts for local development.
// Safe to call multiple times (duplicates ignored).
func SeedUsers(ctx context.Context, users UserCreator, hasher Hasher, accounts []SeedAccount) int {
	created := 0
	for _, a := range accounts {
		hash, err := hasher.Hash(a.Password)
		if err != nil {
			logger.Logger.Warn().Err(err).Str("email", a.Email).Msg("[seed] hash failed")
			continue
		}

		now := time.Now().UTC()
		_, err = users.Create(ctx, domain.User{
			ID:           uuid.NewString(),
			Name:         a.Name,
			Email:        a.Email,
			PasswordHash: hash,
			Role:         string(a.Role),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			// ignore duplicates / restart
			continue
		}
		created++
	}
	return created
}
