package security

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/baechuer/course-feedback/internal/domain"
)

// DefaultBcryptCost matches the cost the stored digests were produced with.
const DefaultBcryptCost = 10

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domain.ErrHashFailed(err)
	}
	return string(b), nil
}

// Verify reports whether password matches hash. A malformed hash is a mismatch.
func (h *BcryptHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
