package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/baechuer/course-feedback/internal/application/auth"
	"github.com/baechuer/course-feedback/internal/domain"
)

type JWTSigner struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewJWTSigner(secret string, issuer string) *JWTSigner {
	return &JWTSigner{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

// sessionClaims carries {id, role} alongside the registered iat/exp/iss.
type sessionClaims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (s *JWTSigner) Issue(userID string, role string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := sessionClaims{
		ID:   userID,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

// Verify checks signature and expiry and rebuilds the typed identity.
func (s *JWTSigner) Verify(token string) (auth.Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		// prevent alg confusion
		if t.Method != jwt.SigningMethodHS256 {
			return nil, domain.ErrTokenInvalid()
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.Identity{}, domain.ErrTokenExpired()
		}
		return auth.Identity{}, domain.ErrTokenInvalid()
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return auth.Identity{}, domain.ErrTokenInvalid()
	}
	if claims.ID == "" || !domain.IsValidRole(claims.Role) {
		return auth.Identity{}, domain.ErrTokenInvalid()
	}

	return auth.Identity{
		UserID: claims.ID,
		Role:   domain.Role(claims.Role),
	}, nil
}
