package postgres

import (
	"context"
	"database/sql"

	"github.com/baechuer/course-feedback/internal/domain"
)

// Feedback rows keep plain references so that deleting a course or a student
// leaves their feedback in place.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'student' CHECK (role IN ('student', 'admin')),
	blocked       BOOLEAN NOT NULL DEFAULT FALSE,
	phone         TEXT,
	dob           TIMESTAMPTZ,
	address       TEXT,
	profile_pic   TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	`CREATE TABLE IF NOT EXISTS courses (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	`CREATE TABLE IF NOT EXISTS feedbacks (
	id         TEXT PRIMARY KEY,
	course_id  TEXT NOT NULL,
	student_id TEXT NOT NULL,
	rating     INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
	comments   TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	`CREATE INDEX IF NOT EXISTS feedbacks_student_idx ON feedbacks (student_id, created_at DESC);`,
	`CREATE INDEX IF NOT EXISTS feedbacks_course_idx ON feedbacks (course_id);`,
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return domain.ErrDBUnavailable(err)
		}
	}
	return nil
}
