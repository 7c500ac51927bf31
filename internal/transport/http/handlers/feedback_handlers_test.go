package http_handlers

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"
)

type courseOut struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type feedbackOut struct {
	ID      string `json:"_id"`
	Course  *struct {
		ID   string `json:"_id"`
		Name string `json:"name"`
	} `json:"course"`
	Student *struct {
		ID    string `json:"_id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"student"`
	Rating   int    `json:"rating"`
	Comments string `json:"comments"`
}

func (a *testApp) createCourse(t *testing.T, adminTok, name string) string {
	t.Helper()
	rr := a.call(t, http.MethodPost, "/api/courses", adminTok, map[string]string{"name": name, "description": name + " course"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create course: status=%d body=%s", rr.Code, rr.Body.String())
	}
	var c courseOut
	mustReadJSON(t, rr, &c)
	return c.ID
}

func (a *testApp) submit(t *testing.T, tok, courseID string, rating int, comments string) string {
	t.Helper()
	rr := a.call(t, http.MethodPost, "/api/feedback", tok, map[string]any{"courseId": courseID, "rating": rating, "comments": comments})
	if rr.Code != http.StatusCreated {
		t.Fatalf("submit: status=%d body=%s", rr.Code, rr.Body.String())
	}
	var out struct {
		Message  string `json:"message"`
		Feedback struct {
			ID      string `json:"_id"`
			Course  string `json:"course"`
			Student string `json:"student"`
		} `json:"feedback"`
	}
	mustReadJSON(t, rr, &out)
	if out.Message != "Feedback submitted successfully" || out.Feedback.Course != courseID {
		t.Fatalf("unexpected submit response: %+v", out)
	}
	return out.Feedback.ID
}

func TestCourses(t *testing.T) {
	app := newTestApp(t)
	_, adminTok := app.admin(t)
	_, stuTok := app.student(t, "Ann", "ann@test.io")

	id := app.createCourse(t, adminTok, "Go")

	expectError(t, app.call(t, http.MethodPost, "/api/courses", adminTok, map[string]string{"name": "Go"}),
		http.StatusBadRequest, "Course already exists")
	expectError(t, app.call(t, http.MethodPost, "/api/courses", adminTok, map[string]string{"description": "x"}),
		http.StatusBadRequest, "Course name is required")
	expectError(t, app.call(t, http.MethodPost, "/api/courses", stuTok, map[string]string{"name": "Rust"}),
		http.StatusForbidden, "Access denied: Admins only")

	rr := app.call(t, http.MethodGet, "/api/courses", stuTok, nil)
	var list []courseOut
	mustReadJSON(t, rr, &list)
	if len(list) != 1 || list[0].ID != id || list[0].Description != "Go course" {
		t.Fatalf("unexpected list: %+v", list)
	}

	rr = app.call(t, http.MethodDelete, "/api/courses/"+id, adminTok, nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Course deleted successfully") {
		t.Fatalf("delete: status=%d body=%s", rr.Code, rr.Body.String())
	}
	expectError(t, app.call(t, http.MethodDelete, "/api/courses/"+id, adminTok, nil), http.StatusNotFound, "Course not found")
}

func TestFeedbackSubmit(t *testing.T) {
	app := newTestApp(t)
	_, adminTok := app.admin(t)
	_, tok := app.student(t, "Ann", "ann@test.io")
	courseID := app.createCourse(t, adminTok, "Go")

	app.submit(t, tok, courseID, 5, "great")

	cases := []struct {
		name   string
		body   map[string]any
		status int
		msg    string
	}{
		{"missing_rating", map[string]any{"courseId": courseID}, http.StatusBadRequest, "Course and rating are required"},
		{"missing_course", map[string]any{"rating": 3}, http.StatusBadRequest, "Course and rating are required"},
		{"unknown_course", map[string]any{"courseId": "nope", "rating": 3}, http.StatusNotFound, "Invalid course selected"},
		{"rating_too_high", map[string]any{"courseId": courseID, "rating": 6}, http.StatusBadRequest, "Rating must be between 1 and 5"},
		// an unknown course wins over a bad rating
		{"unknown_course_and_bad_rating", map[string]any{"courseId": "nope", "rating": 9}, http.StatusNotFound, "Invalid course selected"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectError(t, app.call(t, http.MethodPost, "/api/feedback", tok, tc.body), tc.status, tc.msg)
		})
	}
}

func TestFeedbackOwnership(t *testing.T) {
	app := newTestApp(t)
	_, adminTok := app.admin(t)
	annID, ann := app.student(t, "Ann", "ann@test.io")
	_, bob := app.student(t, "Bob", "bob@test.io")
	courseID := app.createCourse(t, adminTok, "Go")

	fid := app.submit(t, ann, courseID, 4, "good")

	rr := app.call(t, http.MethodGet, "/api/feedback/my", ann, nil)
	var mine []feedbackOut
	mustReadJSON(t, rr, &mine)
	if len(mine) != 1 || mine[0].ID != fid || mine[0].Course == nil || mine[0].Course.Name != "Go" ||
		mine[0].Student == nil || mine[0].Student.ID != annID {
		t.Fatalf("unexpected my feedback: %+v", mine)
	}

	rr = app.call(t, http.MethodGet, "/api/feedback/my", bob, nil)
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("bob should see nothing, got %s", rr.Body.String())
	}

	expectError(t, app.call(t, http.MethodPut, "/api/feedback/"+fid, bob, map[string]any{"rating": 1}),
		http.StatusNotFound, "Feedback not found or not authorized")
	expectError(t, app.call(t, http.MethodDelete, "/api/feedback/"+fid, bob, nil),
		http.StatusNotFound, "Feedback not found or not authorized")
	expectError(t, app.call(t, http.MethodPut, "/api/feedback/"+fid, ann, map[string]any{"rating": 0}),
		http.StatusBadRequest, "Rating must be between 1 and 5")

	rr = app.call(t, http.MethodPut, "/api/feedback/"+fid, ann, map[string]any{"comments": "changed my mind"})
	if rr.Code != http.StatusOK {
		t.Fatalf("edit: status=%d body=%s", rr.Code, rr.Body.String())
	}
	var edited struct {
		Message  string `json:"message"`
		Feedback struct {
			Rating   int    `json:"rating"`
			Comments string `json:"comments"`
		} `json:"feedback"`
	}
	mustReadJSON(t, rr, &edited)
	if edited.Message != "Feedback updated successfully" || edited.Feedback.Rating != 4 || edited.Feedback.Comments != "changed my mind" {
		t.Fatalf("unexpected edit: %+v", edited)
	}

	rr = app.call(t, http.MethodDelete, "/api/feedback/"+fid, ann, nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Feedback deleted successfully") {
		t.Fatalf("delete: status=%d body=%s", rr.Code, rr.Body.String())
	}
	expectError(t, app.call(t, http.MethodDelete, "/api/feedback/"+fid, ann, nil),
		http.StatusNotFound, "Feedback not found or not authorized")
}

func TestFeedbackAllAndExport(t *testing.T) {
	app := newTestApp(t)
	_, adminTok := app.admin(t)
	annID, ann := app.student(t, "Ann", "ann@test.io")
	_, bob := app.student(t, "Bob", "bob@test.io")
	goID := app.createCourse(t, adminTok, "Go")
	rustID := app.createCourse(t, adminTok, "Rust")

	app.submit(t, ann, goID, 5, "great")
	app.submit(t, bob, goID, 3, "ok, I guess")
	app.submit(t, ann, rustID, 2, "hard")

	count := func(query string) int {
		t.Helper()
		rr := app.call(t, http.MethodGet, "/api/feedback/all"+query, adminTok, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status=%d body=%s", query, rr.Code, rr.Body.String())
		}
		var list []feedbackOut
		mustReadJSON(t, rr, &list)
		return len(list)
	}
	if n := count(""); n != 3 {
		t.Fatalf("all=%d", n)
	}
	if n := count("?courseId=" + goID); n != 2 {
		t.Fatalf("by course=%d", n)
	}
	if n := count("?student=" + annID); n != 2 {
		t.Fatalf("by student=%d", n)
	}
	if n := count("?courseId=" + goID + "&rating=5"); n != 1 {
		t.Fatalf("by course+rating=%d", n)
	}
	expectError(t, app.call(t, http.MethodGet, "/api/feedback/all?rating=high", adminTok, nil),
		http.StatusBadRequest, "Rating filter must be a number")
	expectError(t, app.call(t, http.MethodGet, "/api/feedback/all", ann, nil),
		http.StatusForbidden, "Access denied: Admins only")

	rr := app.call(t, http.MethodGet, "/api/feedback/export", adminTok, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("export: status=%d body=%s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content-type=%q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "feedbacks.csv") {
		t.Fatalf("content-disposition=%q", cd)
	}
	records, err := csv.NewReader(rr.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 4 || records[0][0] != "course" {
		t.Fatalf("unexpected csv: %v", records)
	}
	found := false
	for _, rec := range records[1:] {
		if rec[2] == "ok, I guess" && rec[3] == "Bob" && rec[4] == "bob@test.io" {
			found = true
		}
	}
	if !found {
		t.Fatalf("bob's row missing or mangled: %v", records)
	}
}
