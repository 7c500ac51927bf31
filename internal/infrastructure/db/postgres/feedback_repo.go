package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/baechuer/course-feedback/internal/domain"
)

type FeedbackRepo struct {
	db *sql.DB
}

func NewFeedbackRepo(db *sql.DB) *FeedbackRepo {
	return &FeedbackRepo{db: db}
}

const feedbackColumns = `id, course_id, student_id, rating, comments, created_at, updated_at`

func scanFeedback(row rowScanner) (domain.Feedback, error) {
	var f domain.Feedback
	err := row.Scan(&f.ID, &f.CourseID, &f.StudentID, &f.Rating, &f.Comments, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

func (r *FeedbackRepo) one(ctx context.Context, q string, args ...any) (domain.Feedback, error) {
	f, err := scanFeedback(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Feedback{}, domain.ErrFeedbackNotFound()
		}
		return domain.Feedback{}, domain.ErrDBUnavailable(err)
	}
	return f, nil
}

func (r *FeedbackRepo) Create(ctx context.Context, f domain.Feedback) (domain.Feedback, error) {
	const q = `
INSERT INTO feedbacks (id, course_id, student_id, rating, comments, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + feedbackColumns + `;`
	return r.one(ctx, q, f.ID, f.CourseID, f.StudentID, f.Rating, f.Comments, f.CreatedAt, f.UpdatedAt)
}

func (r *FeedbackRepo) GetByID(ctx context.Context, id string) (domain.Feedback, error) {
	return r.one(ctx, `SELECT `+feedbackColumns+` FROM feedbacks WHERE id = $1;`, id)
}

func (r *FeedbackRepo) Update(ctx context.Context, f domain.Feedback) (domain.Feedback, error) {
	const q = `
UPDATE feedbacks
SET rating = $2, comments = $3, updated_at = $4
WHERE id = $1
RETURNING ` + feedbackColumns + `;`
	return r.one(ctx, q, f.ID, f.Rating, f.Comments, f.UpdatedAt)
}

func (r *FeedbackRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM feedbacks WHERE id = $1;`, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrFeedbackNotFound()
	}
	return nil
}

// buildListQuery turns the filter into a WHERE clause with positional args.
func buildListQuery(filter domain.FeedbackFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if filter.CourseID != "" {
		add("course_id", filter.CourseID)
	}
	if filter.StudentID != "" {
		add("student_id", filter.StudentID)
	}
	if filter.Rating != 0 {
		add("rating", filter.Rating)
	}

	q := `SELECT ` + feedbackColumns + ` FROM feedbacks`
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY created_at DESC;`
	return q, args
}

func (r *FeedbackRepo) List(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	q, args := buildListQuery(filter)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := make([]domain.Feedback, 0)
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *FeedbackRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedbacks;`).Scan(&n); err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	return n, nil
}

// Trends uses an inner join so feedback of deleted courses drops out.
func (r *FeedbackRepo) Trends(ctx context.Context) ([]domain.CourseTrend, error) {
	const q = `
SELECT f.course_id, c.name, AVG(f.rating)::float8 AS average_rating, COUNT(*) AS total_feedbacks
FROM feedbacks f
JOIN courses c ON c.id = f.course_id
GROUP BY f.course_id, c.name
ORDER BY average_rating DESC, c.name ASC;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := make([]domain.CourseTrend, 0)
	for rows.Next() {
		var t domain.CourseTrend
		if err := rows.Scan(&t.CourseID, &t.CourseName, &t.AverageRating, &t.TotalFeedbacks); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}
