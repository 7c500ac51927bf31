package audit

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func record(t *testing.T, action string, fields map[string]string) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	New(zerolog.New(&buf)).Record(action, fields)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode: %v; out=%s", err, buf.String())
	}
	return line
}

func TestRecord_Fields(t *testing.T) {
	line := record(t, "auth.login", map[string]string{
		"email":   "alice@example.com",
		"result":  "success",
		"user_id": "u1",
	})

	if line["audit"] != true || line["action"] != "auth.login" || line["message"] != "audit" {
		t.Fatalf("unexpected line: %v", line)
	}
	if line["email"] != "al***@example.com" {
		t.Fatalf("email not masked: %v", line["email"])
	}
	if line["level"] != "info" || line["user_id"] != "u1" {
		t.Fatalf("unexpected line: %v", line)
	}
}

func TestRecord_Levels(t *testing.T) {
	cases := []struct {
		name   string
		action string
		fields map[string]string
		level  string
	}{
		{"failure", "auth.login", map[string]string{"result": "error"}, "warn"},
		{"privileged_success", "admin.block_student", map[string]string{"result": "success"}, "warn"},
		{"admin_signup", "auth.signup", map[string]string{"result": "success", "requested_role": "admin"}, "warn"},
		{"plain_success", "feedback.submit", map[string]string{"result": "success"}, "info"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := record(t, tc.action, tc.fields)["level"]; got != tc.level {
				t.Fatalf("level=%v want %s", got, tc.level)
			}
		})
	}
}

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"alice@example.com": "al***@example.com",
		"a@example.com":     "a***@example.com",
		"a@b":               "***",
		"not-an-email":      "***",
	}
	for in, want := range cases {
		if got := maskEmail(in); got != want {
			t.Fatalf("maskEmail(%q)=%q want %q", in, got, want)
		}
	}
}
