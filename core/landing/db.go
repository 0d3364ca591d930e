package landing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("landing page not found")

func Fetch(ctx context.Context, db sqlx.ExtContext, courseID string) (LandingPage, error) {
	const q = `SELECT * FROM landing_pages WHERE course_id = $1`

	var lp LandingPage
	if err := sqlx.GetContext(ctx, db, &lp, q, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LandingPage{}, ErrNotFound
		}
		return LandingPage{}, fmt.Errorf("selecting landing page of course[%s]: %w", courseID, err)
	}

	return lp, nil
}

// Upsert inserts the page on first save and overwrites it afterwards.
// The backing database has no native upsert for this table, so callers
// should run it inside a transaction.
func Upsert(ctx context.Context, db sqlx.ExtContext, lp LandingPage) error {
	lp.UpdatedAt = time.Now().UTC()

	_, err := Fetch(ctx, db, lp.CourseID)
	switch {
	case errors.Is(err, ErrNotFound):
		lp.CreatedAt = lp.UpdatedAt

		const q = `
		INSERT INTO landing_pages
			(course_id, layout_name, body, is_active, created_at, updated_at)
		VALUES
			(:course_id, :layout_name, :body, :is_active, :created_at, :updated_at)`

		if _, err := sqlx.NamedExecContext(ctx, db, q, lp); err != nil {
			return fmt.Errorf("inserting landing page: %w", err)
		}
		return nil

	case err != nil:
		return err

	default:
		const q = `
		UPDATE landing_pages SET
			layout_name = :layout_name,
			body = :body,
			is_active = :is_active,
			updated_at = :updated_at
		WHERE course_id = :course_id`

		if _, err := sqlx.NamedExecContext(ctx, db, q, lp); err != nil {
			return fmt.Errorf("updating landing page of course[%s]: %w", lp.CourseID, err)
		}
		return nil
	}
}
