package auth

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/course-feedback/internal/domain"
)

type auditEntry struct {
	action string
	fields map[string]string
}

type fakeUserRepo struct {
	mu sync.Mutex

	byID map[string]domain.User

	getByEmailErr error
	updatePwdErr  error

	updatedPwd []struct{ id, hash string }
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]domain.User{}}
}

func (f *fakeUserRepo) put(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = u
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByEmailErr != nil {
		return domain.User{}, f.getByEmailErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
	}
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updatePwdErr != nil {
		return f.updatePwdErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.PasswordHash = newHash
	f.byID[userID] = u
	f.updatedPwd = append(f.updatedPwd, struct{ id, hash string }{userID, newHash})
	return nil
}

func (f *fakeUserRepo) update(userID string, fn func(u *domain.User)) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	fn(&u)
	f.byID[userID] = u
	return u, nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (domain.User, error) {
	return f.update(userID, func(u *domain.User) { *u = upd.Apply(*u) })
}

func (f *fakeUserRepo) SetProfilePic(ctx context.Context, userID string, url string) (domain.User, error) {
	return f.update(userID, func(u *domain.User) { u.ProfilePic = url })
}

func (f *fakeUserRepo) SetBlocked(ctx context.Context, userID string, blocked bool) (domain.User, error) {
	return f.update(userID, func(u *domain.User) { u.Blocked = blocked })
}

func (f *fakeUserRepo) SetRoleByEmail(ctx context.Context, email string, role string) (domain.User, error) {
	u, err := f.GetByEmail(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	return f.update(u.ID, func(u *domain.User) { u.Role = role })
}

func (f *fakeUserRepo) Delete(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[userID]; !ok {
		return domain.ErrUserNotFound()
	}
	delete(f.byID, userID)
	return nil
}

func (f *fakeUserRepo) ListByRole(ctx context.Context, role string) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.User
	for _, u := range f.byID {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) CountByRole(ctx context.Context, role string) (int, error) {
	us, err := f.ListByRole(ctx, role)
	return len(us), err
}

// fakeHasher produces "hashed:<pw>" digests.
type fakeHasher struct {
	mu       sync.Mutex
	hashFn   func(pw string) (string, error)
	verified []string
}

func (h *fakeHasher) Hash(pw string) (string, error) {
	if h.hashFn != nil {
		return h.hashFn(pw)
	}
	return "hashed:" + pw, nil
}

func (h *fakeHasher) Verify(hash, pw string) bool {
	h.mu.Lock()
	h.verified = append(h.verified, hash)
	h.mu.Unlock()

	if !strings.HasPrefix(hash, "hashed:") {
		return false
	}
	return hash == "hashed:"+pw
}

func (h *fakeHasher) verifyCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.verified)
}

type fakeSigner struct {
	err    error
	issued []struct {
		userID, role string
		ttl          time.Duration
	}
}

func (s *fakeSigner) Issue(userID, role string, ttl time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.issued = append(s.issued, struct {
		userID, role string
		ttl          time.Duration
	}{userID, role, ttl})
	return "tok-" + userID, nil
}

func (s *fakeSigner) Verify(token string) (Identity, error) {
	return Identity{}, domain.ErrTokenInvalid()
}

type fakePictures struct {
	err  error
	keys []string
}

func (p *fakePictures) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	p.keys = append(p.keys, key)
	return "https://cdn.test/" + key, nil
}

type fakePublisher struct {
	mu         sync.Mutex
	err        error
	registered []UserRegisteredEvent
	blocked    []UserBlockedEvent
}

func (p *fakePublisher) PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registered = append(p.registered, evt)
	return p.err
}

func (p *fakePublisher) PublishUserBlocked(ctx context.Context, evt UserBlockedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blocked = append(p.blocked, evt)
	return p.err
}

type testDeps struct {
	users  *fakeUserRepo
	hasher *fakeHasher
	signer *fakeSigner
	pics   *fakePictures
	pub    *fakePublisher
	audits *[]auditEntry
}

func newSvcForTest(t *testing.T) (*Service, testDeps) {
	t.Helper()

	d := testDeps{
		users:  newFakeUserRepo(),
		hasher: &fakeHasher{},
		signer: &fakeSigner{},
		pics:   &fakePictures{},
		pub:    &fakePublisher{},
		audits: &[]auditEntry{},
	}
	var mu sync.Mutex
	svc := NewService(d.users, d.hasher, d.signer, d.pics, d.pub).
		WithAudit(func(action string, fields map[string]string) {
			mu.Lock()
			defer mu.Unlock()
			*d.audits = append(*d.audits, auditEntry{action: action, fields: fields})
		})
	return svc, d
}

func seedUser(d testDeps, id, email, pw, role string) domain.User {
	u := domain.User{
		ID:           id,
		Name:         "User " + id,
		Email:        email,
		PasswordHash: "hashed:" + pw,
		Role:         role,
	}
	d.users.put(u)
	return u
}

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}

func requireMessage(t *testing.T, err error, msg string) {
	t.Helper()
	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected domain error, got %v", err)
	}
	if de.Message != msg {
		t.Fatalf("message=%q want %q", de.Message, msg)
	}
}

func lastAudit(t *testing.T, d testDeps) auditEntry {
	t.Helper()
	if len(*d.audits) == 0 {
		t.Fatalf("expected audit entry")
	}
	return (*d.audits)[len(*d.audits)-1]
}
