package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/baechuer/course-feedback/internal/domain"
)

type CourseRepo struct {
	db *sql.DB
}

func NewCourseRepo(db *sql.DB) *CourseRepo {
	return &CourseRepo{db: db}
}

const courseColumns = `id, name, description, created_at`

func (r *CourseRepo) one(ctx context.Context, q string, args ...any) (domain.Course, error) {
	var c domain.Course
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Course{}, domain.ErrCourseNotFound()
		}
		return domain.Course{}, domain.ErrDBUnavailable(err)
	}
	return c, nil
}

func (r *CourseRepo) List(ctx context.Context) ([]domain.Course, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY created_at ASC;`)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := make([]domain.Course, 0)
	for rows.Next() {
		var c domain.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *CourseRepo) GetByID(ctx context.Context, id string) (domain.Course, error) {
	return r.one(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1;`, id)
}

func (r *CourseRepo) GetByName(ctx context.Context, name string) (domain.Course, error) {
	return r.one(ctx, `SELECT `+courseColumns+` FROM courses WHERE name = $1;`, name)
}

func (r *CourseRepo) Create(ctx context.Context, c domain.Course) (domain.Course, error) {
	const q = `
INSERT INTO courses (id, name, description, created_at)
VALUES ($1, $2, $3, $4)
RETURNING ` + courseColumns + `;`

	out, err := r.one(ctx, q, c.ID, c.Name, c.Description, c.CreatedAt)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) && de.Cause != nil && isUniqueViolation(de.Cause) {
			return domain.Course{}, domain.ErrCourseAlreadyExists()
		}
		return domain.Course{}, err
	}
	return out, nil
}

func (r *CourseRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1;`, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrCourseNotFound()
	}
	return nil
}
