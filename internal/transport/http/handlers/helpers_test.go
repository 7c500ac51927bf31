package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/baechuer/course-feedback/internal/application/auth"
	"github.com/baechuer/course-feedback/internal/application/feedback"
	"github.com/baechuer/course-feedback/internal/domain"
	"github.com/baechuer/course-feedback/internal/infrastructure/memory"
	"github.com/baechuer/course-feedback/internal/infrastructure/security"
	"github.com/baechuer/course-feedback/internal/transport/http/middleware"
	"github.com/baechuer/course-feedback/internal/transport/http/response"
	"github.com/baechuer/course-feedback/internal/transport/http/router"
)

const testPassword = "Passw0rd!"

type testApp struct {
	h      http.Handler
	users  *memory.UserRepo
	pics   *memory.PictureStore
	signer *security.JWTSigner
	ready  error
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	users := memory.NewUserRepo()
	courses := memory.NewCourseRepo()
	feedbacks := memory.NewFeedbackRepo(courses)
	hasher := security.NewBcryptHasher(4)
	signer := security.NewJWTSigner("test-secret", "course-feedback")
	pics := memory.NewPictureStore("http://cdn.test/pics")
	pub := memory.NewNoopPublisher()

	authSvc := auth.NewService(users, hasher, signer, pics, pub)
	fbSvc := feedback.NewService(courses, feedbacks, users, pub)

	app := &testApp{users: users, pics: pics, signer: signer}
	health := NewHealthHandler(Check{Name: "store", Ping: func(context.Context) error { return app.ready }})

	h, err := router.New(router.Deps{
		Health:   health,
		Auth:     NewAuthHandler(authSvc),
		Profile:  NewProfileHandler(authSvc, 1<<20),
		Admin:    NewAdminHandler(authSvc, fbSvc),
		Courses:  NewCourseHandler(fbSvc),
		Feedback: NewFeedbackHandler(fbSvc),
		Dev:      NewDevHandler(authSvc),
		AuthMW:   middleware.Auth(signer, response.WriteError),
		AdminMW:  middleware.RequireRole(domain.RoleAdmin, response.WriteError),
	})
	if err != nil {
		t.Fatalf("router.New: %v", err)
	}
	app.h = h
	return app
}

// call sends body as JSON unless it is already an io.Reader.
func (a *testApp) call(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		rd = b
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.h.ServeHTTP(rr, req)
	return rr
}

func (a *testApp) signup(t *testing.T, name, email, role string) string {
	t.Helper()
	rr := a.call(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": name, "email": email, "password": testPassword, "role": role,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup %s: status=%d body=%s", email, rr.Code, rr.Body.String())
	}
	var out struct {
		UserID string `json:"userId"`
	}
	mustReadJSON(t, rr, &out)
	return out.UserID
}

func (a *testApp) login(t *testing.T, email, password string) string {
	t.Helper()
	rr := a.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s: status=%d body=%s", email, rr.Code, rr.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	mustReadJSON(t, rr, &out)
	return out.Token
}

// student signs up and logs in a student account.
func (a *testApp) student(t *testing.T, name, email string) (id, token string) {
	t.Helper()
	id = a.signup(t, name, email, "")
	return id, a.login(t, email, testPassword)
}

func (a *testApp) admin(t *testing.T) (id, token string) {
	t.Helper()
	id = a.signup(t, "Admin", "admin@test.io", "admin")
	return id, a.login(t, "admin@test.io", testPassword)
}

func mustReadJSON(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
		t.Fatalf("decode json: %v; body=%s", err, rr.Body.String())
	}
}

type errBody struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta"`
}

func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status=%d want %d; body=%s", rr.Code, status, rr.Body.String())
	}
	var b errBody
	mustReadJSON(t, rr, &b)
	if b.Message != message {
		t.Fatalf("message=%q want %q", b.Message, message)
	}
}

var errStoreDown = errors.New("store down")
