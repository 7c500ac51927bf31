package domain

import (
	"regexp"
	"time"
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Blocked      bool

	Phone      string
	DOB        *time.Time
	Address    string
	ProfilePic string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicUser is the projection handed to clients; it never carries the password hash.
type PublicUser struct {
	ID         string
	Name       string
	Email      string
	Role       string
	Blocked    bool
	Phone      string
	DOB        *time.Time
	Address    string
	ProfilePic string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Blocked:    u.Blocked,
		Phone:      u.Phone,
		DOB:        u.DOB,
		Address:    u.Address,
		ProfilePic: u.ProfilePic,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// ProfileUpdate carries the mutable profile attributes.
// Empty values keep the stored value.
type ProfileUpdate struct {
	Name    string
	Phone   string
	DOB     *time.Time
	Address string
}

// Apply merges non-empty fields into u.
func (p ProfileUpdate) Apply(u User) User {
	if p.Name != "" {
		u.Name = p.Name
	}
	if p.Phone != "" {
		u.Phone = p.Phone
	}
	if p.DOB != nil {
		u.DOB = p.DOB
	}
	if p.Address != "" {
		u.Address = p.Address
	}
	return u
}

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmailShape reports whether s looks like local@domain.tld.
func IsEmailShape(s string) bool {
	return emailShape.MatchString(s)
}
