package domain

import (
	"errors"
	"fmt"
)

// ErrKind is used to map domain errors to HTTP status codes consistently.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"     // 400
	KindCredentials    ErrKind = "credentials"    // 400
	KindAuth           ErrKind = "auth"           // 401
	KindForbidden      ErrKind = "forbidden"      // 403
	KindNotFound       ErrKind = "not_found"      // 404
	KindConflict       ErrKind = "conflict"       // 400 (duplicates are reported as bad requests)
	KindRateLimited    ErrKind = "rate_limited"   // 429
	KindInfrastructure ErrKind = "infrastructure" // 503
	KindInternal       ErrKind = "internal"       // 500
)

// Error is a structured domain error.
// - Kind: high-level category for HTTP mapping
// - Code: stable machine code (do not change casually)
// - Message: safe, user-facing summary
// - Meta: optional details (field, reason, etc.)
// - Cause: wrapped internal error for logging/diagnostics
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Code returns the stable code of a domain error, or "non_domain_error".
func Code(err error) string {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "non_domain_error"
}

// ----------------------
// Validation errors (400)
// ----------------------

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "Invalid JSON body", cause)
}

func ErrMissingFields(msg string) *Error {
	return New(KindValidation, "missing_field", msg)
}

func ErrInvalidField(field, msg string) *Error {
	return WithMeta(New(KindValidation, "invalid_field", msg), map[string]string{
		"field": field,
	})
}

func ErrInvalidEmail() *Error {
	return ErrInvalidField("email", "Invalid email format")
}

func ErrWeakPassword(msg string) *Error {
	return New(KindValidation, "weak_password", msg)
}

func ErrIncorrectPassword(msg string) *Error {
	return New(KindValidation, "incorrect_password", msg)
}

func ErrPasswordReused(msg string) *Error {
	return New(KindValidation, "password_reused", msg)
}

func ErrInvalidRating() *Error {
	return ErrInvalidField("rating", "Rating must be between 1 and 5")
}

func ErrUnsupportedUpload(reason string) *Error {
	return WithMeta(New(KindValidation, "unsupported_upload", "Only jpg, jpeg and png images are allowed"), map[string]string{
		"reason": reason,
	})
}

// ----------------------
// Credentials (400)
// ----------------------

// ErrInvalidCredentials is shared by the unknown-email and wrong-password paths.
func ErrInvalidCredentials() *Error {
	return New(KindCredentials, "invalid_credentials", "Invalid email or password")
}

// ----------------------
// Auth errors (401)
// ----------------------

func ErrTokenMissing() *Error {
	return New(KindAuth, "token_missing", "Authorization token missing or invalid format")
}

func ErrTokenInvalid() *Error {
	return New(KindAuth, "token_invalid", "Invalid token")
}

func ErrTokenExpired() *Error {
	return New(KindAuth, "token_expired", "Token expired, please log in again")
}

func ErrNoUserData() *Error {
	return New(KindAuth, "no_user_data", "Unauthorized: No user data found")
}

// ----------------------
// Forbidden (403)
// ----------------------

func ErrAdminsOnly() *Error {
	return New(KindForbidden, "admins_only", "Access denied: Admins only")
}

func ErrAccountBlocked() *Error {
	return New(KindForbidden, "account_blocked", "Account is blocked")
}

// ----------------------
// Not Found (404)
// ----------------------

func ErrUserNotFound() *Error {
	return New(KindNotFound, "user_not_found", "User not found")
}

func ErrStudentNotFound() *Error {
	return New(KindNotFound, "student_not_found", "Student not found")
}

func ErrCourseNotFound() *Error {
	return New(KindNotFound, "course_not_found", "Course not found")
}

func ErrInvalidCourse() *Error {
	return New(KindNotFound, "invalid_course", "Invalid course selected")
}

func ErrFeedbackNotFound() *Error {
	return New(KindNotFound, "feedback_not_found", "Feedback not found or not authorized")
}

// ----------------------
// Conflict (reported as 400)
// ----------------------

func ErrEmailAlreadyExists() *Error {
	return New(KindConflict, "email_already_exists", "Email already in use")
}

func ErrCourseAlreadyExists() *Error {
	return New(KindConflict, "course_already_exists", "Course already exists")
}

// ----------------------
// Rate limit (429)
// ----------------------

func ErrRateLimited(scope string) *Error {
	return WithMeta(New(KindRateLimited, "rate_limited", "Too many requests"), map[string]string{
		"scope": scope,
	})
}

// ----------------------
// Infrastructure / internal (5xx)
// ----------------------

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "db_unavailable", "database unavailable", cause)
}

func ErrStorageUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "storage_unavailable", "file storage unavailable", cause)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "password hashing failed", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, "token_sign_failed", "token signing failed", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "internal error", cause)
}
