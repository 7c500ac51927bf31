package domain

import (
	"testing"
	"time"
)

func TestUserStruct_DefaultZeroValues(t *testing.T) {
	var u User

	if u.Role != "" {
		t.Fatalf("expected empty role")
	}
	if u.Blocked {
		t.Fatalf("expected Blocked=false")
	}
}

func TestIsEmailShape(t *testing.T) {
	cases := map[string]bool{
		"a@x.com":        true,
		"first.last@a.b": true,
		"A@X.COM":        true,
		"a@x":            false,
		"ax.com":         false,
		"a @x.com":       false,
		"a@@x.com":       false,
		"":               false,
	}
	for in, want := range cases {
		if got := IsEmailShape(in); got != want {
			t.Fatalf("IsEmailShape(%q)=%v want %v", in, got, want)
		}
	}
}

func TestProfileUpdate_Apply_KeepsEmptyFields(t *testing.T) {
	dob := time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC)
	u := User{Name: "A", Phone: "1", Address: "old", DOB: &dob}

	got := ProfileUpdate{Name: "B"}.Apply(u)

	if got.Name != "B" || got.Phone != "1" || got.Address != "old" || got.DOB != &dob {
		t.Fatalf("unexpected merge: %+v", got)
	}
}

func TestUser_Public_HasNoHash(t *testing.T) {
	u := User{ID: "u1", Email: "a@x.com", PasswordHash: "secret-hash", Role: "student"}
	p := u.Public()

	if p.ID != "u1" || p.Email != "a@x.com" || p.Role != "student" {
		t.Fatalf("unexpected projection: %+v", p)
	}
}
