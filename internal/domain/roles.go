package domain

type Role string

const (
	// Students submit and manage their own feedback.
	RoleStudent Role = "student"
	// Admins manage students, courses and read every feedback.
	RoleAdmin Role = "admin"
)

func IsValidRole(r string) bool {
	return r == string(RoleStudent) || r == string(RoleAdmin)
}

// RoleFromSignup maps a client supplied role to the stored one.
// Only the exact value "admin" yields an admin; anything else is a student.
func RoleFromSignup(requested string) Role {
	if requested == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleStudent
}
