package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/baechuer/course-feedback/internal/domain"
	appCtx "github.com/baechuer/course-feedback/internal/pkg/context"
)

func mustDecodeJSONLine(t *testing.T, b []byte, dst any) {
	t.Helper()
	if err := json.NewDecoder(bytes.NewReader(b)).Decode(dst); err != nil {
		t.Fatalf("decode json: %v, body=%q", err, string(b))
	}
}

func newReqWithBody(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ---------- DecodeJSON ----------

func TestDecodeJSON_OK(t *testing.T) {
	var dst struct {
		Email string `json:"email"`
	}
	if err := DecodeJSON(newReqWithBody(t, `{"email":"a@b.com"}`), &dst); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if dst.Email != "a@b.com" {
		t.Fatalf("email=%q", dst.Email)
	}
}

func TestDecodeJSON_EmptyBody_LeavesZeroValue(t *testing.T) {
	var dst struct {
		Email string `json:"email"`
	}
	if err := DecodeJSON(newReqWithBody(t, ""), &dst); err != nil {
		t.Fatalf("empty body should decode to zero value, got %v", err)
	}
	if dst.Email != "" {
		t.Fatalf("expected zero value")
	}
}

func TestDecodeJSON_InvalidJSON(t *testing.T) {
	var dst map[string]any
	err := DecodeJSON(newReqWithBody(t, `{"email":`), &dst)
	if !domain.Is(err, "invalid_json") {
		t.Fatalf("expected invalid_json, got %v", err)
	}
}

func TestDecodeJSON_MultipleValues(t *testing.T) {
	var dst map[string]any
	err := DecodeJSON(newReqWithBody(t, `{}{}`), &dst)
	if !domain.Is(err, "invalid_json") {
		t.Fatalf("expected invalid_json, got %v", err)
	}
}

// ---------- WriteError ----------

func TestWriteError_DomainError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req = req.WithContext(appCtx.WithRequestID(req.Context(), "rid-1"))
	rr := httptest.NewRecorder()

	WriteError(rr, req, domain.ErrInvalidEmail())

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rr.Code)
	}
	var body ErrorBody
	mustDecodeJSONLine(t, rr.Body.Bytes(), &body)
	if body.Message != "Invalid email format" || body.Code != "invalid_field" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.Meta["field"] != "email" {
		t.Fatalf("meta=%v", body.Meta)
	}
	if body.RequestID != "rid-1" {
		t.Fatalf("request_id=%q", body.RequestID)
	}
}

func TestWriteError_NonDomainError_HidesDetails(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rr := httptest.NewRecorder()

	WriteError(rr, req, errors.New("pq: connection refused at 10.0.0.1"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "10.0.0.1") {
		t.Fatalf("leaked cause: %s", rr.Body.String())
	}
	var body ErrorBody
	mustDecodeJSONLine(t, rr.Body.Bytes(), &body)
	if body.Code != "internal_error" || body.Message != "internal error" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestWriteError_ConflictIsBadRequest(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, httptest.NewRequest(http.MethodPost, "/x", nil), domain.ErrEmailAlreadyExists())
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rr.Code)
	}
}

func TestStatusFromKind_Mapping(t *testing.T) {
	cases := []struct {
		kind domain.ErrKind
		want int
	}{
		{domain.KindValidation, http.StatusBadRequest},
		{domain.KindCredentials, http.StatusBadRequest},
		{domain.KindConflict, http.StatusBadRequest},
		{domain.KindAuth, http.StatusUnauthorized},
		{domain.KindForbidden, http.StatusForbidden},
		{domain.KindNotFound, http.StatusNotFound},
		{domain.KindRateLimited, http.StatusTooManyRequests},
		{domain.KindInfrastructure, http.StatusServiceUnavailable},
		{domain.KindInternal, http.StatusInternalServerError},
		{"unknown", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := statusFromKind(tc.kind); got != tc.want {
			t.Fatalf("kind=%q expected %d got %d", tc.kind, tc.want, got)
		}
	}
}

// ---------- success helpers ----------

func TestWriteJSON_SetsDefaultContentType(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteJSON(rr, http.StatusOK, map[string]any{"ok": true})

	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content-type=%q", ct)
	}
	var m map[string]any
	mustDecodeJSONLine(t, rr.Body.Bytes(), &m)
	if m["ok"] != true {
		t.Fatalf("body=%+v", m)
	}
}

func TestWriteJSON_DoesNotOverrideExistingContentType(t *testing.T) {
	rr := httptest.NewRecorder()
	rr.Header().Set("Content-Type", "application/custom")

	WriteJSON(rr, http.StatusCreated, map[string]any{"x": 1})

	if ct := rr.Header().Get("Content-Type"); ct != "application/custom" {
		t.Fatalf("content-type=%q", ct)
	}
}

func TestMessage_WritesFlatBody(t *testing.T) {
	rr := httptest.NewRecorder()

	Message(rr, http.StatusOK, "Student deleted successfully")

	var body MessageBody
	mustDecodeJSONLine(t, rr.Body.Bytes(), &body)
	if body.Message != "Student deleted successfully" {
		t.Fatalf("body=%+v", body)
	}
}

func TestCreated_Sets201(t *testing.T) {
	rr := httptest.NewRecorder()
	Created(rr, map[string]string{"y": "z"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d", rr.Code)
	}
}
