package enrollment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound = errors.New("enrollment not found")

	// ErrAlreadyEnrolled reports an active enrollment for the same
	// student and course.
	ErrAlreadyEnrolled = errors.New("student already enrolled")
)

func Create(ctx context.Context, db sqlx.ExtContext, e Enrollment) error {
	const q = `
	INSERT INTO enrollments
		(enrollment_id, course_id, student_id, course_owner_id, student_name,
		 course_owner_name, status, progress, enrolled_at, updated_at)
	VALUES
		(:enrollment_id, :course_id, :student_id, :course_owner_id, :student_name,
		 :course_owner_name, :status, :progress, :enrolled_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, e); err != nil {
		return fmt.Errorf("inserting enrollment: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, courseID string, studentID string) (Enrollment, error) {
	const q = `SELECT * FROM enrollments WHERE course_id = $1 AND student_id = $2`

	var e Enrollment
	if err := sqlx.GetContext(ctx, db, &e, q, courseID, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Enrollment{}, ErrNotFound
		}
		return Enrollment{}, fmt.Errorf("selecting enrollment of student[%s] on course[%s]: %w", studentID, courseID, err)
	}

	return e, nil
}

func FetchByStudent(ctx context.Context, db sqlx.ExtContext, studentID string) ([]Enrollment, error) {
	const q = `SELECT * FROM enrollments WHERE student_id = $1 AND status = $2 ORDER BY enrolled_at DESC`

	enrs := []Enrollment{}
	if err := sqlx.SelectContext(ctx, db, &enrs, q, studentID, Active); err != nil {
		return nil, fmt.Errorf("selecting enrollments of student[%s]: %w", studentID, err)
	}

	return enrs, nil
}

func SetStatus(ctx context.Context, db sqlx.ExtContext, id string, status string) error {
	const q = `UPDATE enrollments SET status = $2, updated_at = $3 WHERE enrollment_id = $1`

	if _, err := db.ExecContext(ctx, q, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("updating status of enrollment[%s]: %w", id, err)
	}

	return nil
}
