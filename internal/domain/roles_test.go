package domain

import "testing"

func TestIsValidRole(t *testing.T) {
	cases := []struct {
		role string
		ok   bool
	}{
		{"student", true},
		{"admin", true},
		{"", false},
		{"Admin", false},
		{"root", false},
	}

	for _, c := range cases {
		if IsValidRole(c.role) != c.ok {
			t.Fatalf("unexpected IsValidRole(%q)", c.role)
		}
	}
}

func TestRoleFromSignup(t *testing.T) {
	cases := map[string]Role{
		"admin":   RoleAdmin,
		"student": RoleStudent,
		"":        RoleStudent,
		"ADMIN":   RoleStudent,
		"teacher": RoleStudent,
	}
	for in, want := range cases {
		if got := RoleFromSignup(in); got != want {
			t.Fatalf("RoleFromSignup(%q)=%q want %q", in, got, want)
		}
	}
}
