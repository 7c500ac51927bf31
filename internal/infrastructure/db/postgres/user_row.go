package postgres

import (
	"database/sql"
	"time"

	"github.com/baechuer/course-feedback/internal/domain"
)

const userColumns = `id, name, email, password_hash, role, blocked, phone, dob, address, profile_pic, created_at, updated_at`

type userRow struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Blocked      bool
	Phone        sql.NullString
	DOB          sql.NullTime
	Address      sql.NullString
	ProfilePic   sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (userRow, error) {
	var ur userRow
	err := row.Scan(
		&ur.ID,
		&ur.Name,
		&ur.Email,
		&ur.PasswordHash,
		&ur.Role,
		&ur.Blocked,
		&ur.Phone,
		&ur.DOB,
		&ur.Address,
		&ur.ProfilePic,
		&ur.CreatedAt,
		&ur.UpdatedAt,
	)
	return ur, err
}

func toDomainUser(ur userRow) domain.User {
	u := domain.User{
		ID:           ur.ID,
		Name:         ur.Name,
		Email:        ur.Email,
		PasswordHash: ur.PasswordHash,
		Role:         ur.Role,
		Blocked:      ur.Blocked,
		Phone:        ur.Phone.String,
		Address:      ur.Address.String,
		ProfilePic:   ur.ProfilePic.String,
		CreatedAt:    ur.CreatedAt,
		UpdatedAt:    ur.UpdatedAt,
	}
	if ur.DOB.Valid {
		dob := ur.DOB.Time
		u.DOB = &dob
	}
	return u
}
