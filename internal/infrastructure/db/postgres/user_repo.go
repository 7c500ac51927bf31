package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/baechuer/course-feedback/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// one runs a single-row query and maps no rows to user_not_found.
func (r *UserRepo) one(ctx context.Context, q string, args ...any) (domain.User, error) {
	ur, err := scanUser(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

// Emails are compared exactly as stored.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.one(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 LIMIT 1;`, email)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	return r.one(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 LIMIT 1;`, id)
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if u.ID == "" || u.PasswordHash == "" {
		return domain.User{}, domain.ErrInternal(errors.New("user id and password hash are required"))
	}
	if u.Role == "" {
		u.Role = string(domain.RoleStudent)
	}

	const q = `
INSERT INTO users (id, name, email, password_hash, role, blocked)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + userColumns + `;`

	ur, err := scanUser(r.db.QueryRowContext(ctx, q, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Blocked))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	const q = `
UPDATE users
SET password_hash = $2,
    updated_at = NOW()
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, userID, newHash)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

// UpdateProfile keeps the stored value for every empty field.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (domain.User, error) {
	const q = `
UPDATE users
SET name = COALESCE(NULLIF($2, ''), name),
    phone = COALESCE(NULLIF($3, ''), phone),
    dob = COALESCE($4, dob),
    address = COALESCE(NULLIF($5, ''), address),
    updated_at = NOW()
WHERE id = $1
RETURNING ` + userColumns + `;`

	var dob sql.NullTime
	if upd.DOB != nil {
		dob = sql.NullTime{Time: *upd.DOB, Valid: true}
	}
	return r.one(ctx, q, userID, upd.Name, upd.Phone, dob, upd.Address)
}

func (r *UserRepo) SetProfilePic(ctx context.Context, userID string, url string) (domain.User, error) {
	const q = `
UPDATE users SET profile_pic = $2, updated_at = NOW()
WHERE id = $1
RETURNING ` + userColumns + `;`
	return r.one(ctx, q, userID, url)
}

func (r *UserRepo) SetBlocked(ctx context.Context, userID string, blocked bool) (domain.User, error) {
	const q = `
UPDATE users SET blocked = $2, updated_at = NOW()
WHERE id = $1
RETURNING ` + userColumns + `;`
	return r.one(ctx, q, userID, blocked)
}

func (r *UserRepo) SetRoleByEmail(ctx context.Context, email string, role string) (domain.User, error) {
	const q = `
UPDATE users SET role = $2, updated_at = NOW()
WHERE email = $1
RETURNING ` + userColumns + `;`
	return r.one(ctx, q, email, role)
}

func (r *UserRepo) Delete(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1;`, userID)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) ListByRole(ctx context.Context, role string) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at ASC;`, role)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := make([]domain.User, 0)
	for rows.Next() {
		ur, err := scanUser(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, toDomainUser(ur))
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *UserRepo) CountByRole(ctx context.Context, role string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = $1;`, role).Scan(&n); err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	return n, nil
}
