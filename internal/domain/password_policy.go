package domain

import (
	"strings"
	"unicode"
)

// PasswordPolicy describes a strength rule set for new passwords.
type PasswordPolicy struct {
	MinLength        int
	RequireDigit     bool
	RequireSymbol    bool
	RequireUppercase bool
	// Symbols is the set of characters that count as a symbol.
	Symbols string
	// RestrictCharset limits passwords to ASCII letters, digits and Symbols.
	RestrictCharset bool
	// Message is reported when the policy is not met.
	Message string
}

const DefaultPasswordSymbols = "!@#$%^&*"

// SignupPasswordPolicy is used at signup and by the self-service change-password endpoint.
var SignupPasswordPolicy = PasswordPolicy{
	MinLength:       8,
	RequireDigit:    true,
	RequireSymbol:   true,
	Symbols:         DefaultPasswordSymbols,
	RestrictCharset: true,
	Message:         "Password must be at least 8 characters, include a number and special character",
}

// ProfilePasswordPolicy is used by the profile change-password endpoint and
// additionally requires an uppercase letter.
var ProfilePasswordPolicy = PasswordPolicy{
	MinLength:        8,
	RequireDigit:     true,
	RequireSymbol:    true,
	RequireUppercase: true,
	Symbols:          DefaultPasswordSymbols,
	Message:          "Password must be at least 8 characters, include 1 uppercase, 1 number, and 1 special character",
}

// Check returns nil when pw satisfies the policy.
func (p PasswordPolicy) Check(pw string) error {
	if p.Satisfied(pw) {
		return nil
	}
	return ErrWeakPassword(p.Message)
}

func (p PasswordPolicy) Satisfied(pw string) bool {
	symbols := p.Symbols
	if symbols == "" {
		symbols = DefaultPasswordSymbols
	}

	n, hasDigit, hasSymbol, hasUpper := 0, false, false, false
	for _, r := range pw {
		n++
		isSymbol := strings.ContainsRune(symbols, r)
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case isSymbol:
			hasSymbol = true
		case unicode.IsUpper(r):
			hasUpper = true
		}
		if p.RestrictCharset && !isSymbol && !isASCIIAlnum(r) {
			return false
		}
	}

	if n < p.MinLength {
		return false
	}
	if p.RequireDigit && !hasDigit {
		return false
	}
	if p.RequireSymbol && !hasSymbol {
		return false
	}
	if p.RequireUppercase && !hasUpper {
		return false
	}
	return true
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// PasswordChangeVariant selects the rules and messages of a change-password entry point.
type PasswordChangeVariant struct {
	Name            string
	Policy          PasswordPolicy
	MissingMessage  string
	IncorrectOld    string
	SameAsOld       string
	NewPolicyPrefix string
	SuccessMessage  string
}

// PasswordChangeSelfService backs PUT /api/auth/change-password.
var PasswordChangeSelfService = PasswordChangeVariant{
	Name:            "self_service",
	Policy:          SignupPasswordPolicy,
	MissingMessage:  "Both old and new passwords are required",
	IncorrectOld:    "Old password is incorrect",
	SameAsOld:       "New password must be different from old password",
	NewPolicyPrefix: "New password",
	SuccessMessage:  "Password updated successfully",
}

// PasswordChangeProfile backs POST /api/profile/change-password.
var PasswordChangeProfile = PasswordChangeVariant{
	Name:           "profile",
	Policy:         ProfilePasswordPolicy,
	MissingMessage: "Current and new passwords are required",
	IncorrectOld:   "Current password is incorrect",
	SameAsOld:      "New password must not be same as old password",
	SuccessMessage: "Password changed successfully",
}

// CheckNew validates a proposed password with the variant's policy and message.
func (v PasswordChangeVariant) CheckNew(pw string) error {
	if v.Policy.Satisfied(pw) {
		return nil
	}
	msg := v.Policy.Message
	if v.NewPolicyPrefix != "" {
		msg = v.NewPolicyPrefix + strings.TrimPrefix(msg, "Password")
	}
	return ErrWeakPassword(msg)
}
