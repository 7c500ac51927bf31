package auth

import (
	"sync"
	"time"

	"github.com/baechuer/course-feedback/internal/domain"
)

// LoginTokenTTL is the lifetime of every session token issued at login.
const LoginTokenTTL = 24 * time.Hour

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	signer TokenSigner
	pics   PictureStore
	pub    EventPublisher

	audit func(action string, fields map[string]string)

	dummyOnce sync.Once
	dummyHash string
}

func NewService(
	users UserRepo,
	hasher PasswordHasher,
	signer TokenSigner,
	pics PictureStore,
	pub EventPublisher,
) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		signer: signer,
		pics:   pics,
		pub:    pub,
		audit:  func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// auditor returns a closure that records one audit line for action.
func (s *Service) auditor(action string, base map[string]string) func(result string, err error, extra map[string]string) {
	return func(result string, err error, extra map[string]string) {
		fields := make(map[string]string, len(base)+len(extra)+2)
		for k, v := range base {
			fields[k] = v
		}
		fields["result"] = result
		if err != nil {
			fields["error_code"] = domain.Code(err)
		}
		for k, v := range extra {
			fields[k] = v
		}
		s.audit(action, fields)
	}
}

// burnVerify spends a bcrypt comparison on a fixed digest so that an unknown
// email costs the same as a wrong password.
func (s *Service) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("dummy-password-for-timing")
		if err == nil {
			s.dummyHash = h
		}
	})
	if s.dummyHash != "" {
		_ = s.hasher.Verify(s.dummyHash, password)
	}
}
