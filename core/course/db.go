package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound = errors.New("course not found")

	// ErrVersionConflict reports that the course row changed between the
	// read and the conditional write of the payment references.
	ErrVersionConflict = errors.New("course changed concurrently")
)

func Create(ctx context.Context, db sqlx.ExtContext, c Course) error {
	const q = `
	INSERT INTO courses
		(course_id, mentor_id, title, description, image_url, price, is_paid, is_public,
		 is_published, stripe_product_id, stripe_price_id, created_at, updated_at, version)
	VALUES
		(:course_id, :mentor_id, :title, :description, :image_url, :price, :is_paid, :is_public,
		 :is_published, :stripe_product_id, :stripe_price_id, :created_at, :updated_at, :version)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, c); err != nil {
		return fmt.Errorf("inserting course: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Course, error) {
	const q = `SELECT * FROM courses WHERE course_id = $1`

	var c Course
	if err := sqlx.GetContext(ctx, db, &c, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Course{}, ErrNotFound
		}
		return Course{}, fmt.Errorf("selecting course[%s]: %w", id, err)
	}

	return c, nil
}

func FetchByMentor(ctx context.Context, db sqlx.ExtContext, mentorID string) ([]Course, error) {
	const q = `SELECT * FROM courses WHERE mentor_id = $1 ORDER BY created_at DESC`

	courses := []Course{}
	if err := sqlx.SelectContext(ctx, db, &courses, q, mentorID); err != nil {
		return nil, fmt.Errorf("selecting courses of mentor[%s]: %w", mentorID, err)
	}

	return courses, nil
}

func FetchPublished(ctx context.Context, db sqlx.ExtContext) ([]Course, error) {
	const q = `SELECT * FROM courses WHERE is_public AND is_published ORDER BY created_at DESC`

	courses := []Course{}
	if err := sqlx.SelectContext(ctx, db, &courses, q); err != nil {
		return nil, fmt.Errorf("selecting published courses: %w", err)
	}

	return courses, nil
}

// Update writes the mutable course fields. The payment reference
// columns are written only through UpdateStripeRefs / UpdatePriceRef.
func Update(ctx context.Context, db sqlx.ExtContext, c Course) error {
	const q = `
	UPDATE courses SET
		title = :title,
		description = :description,
		image_url = :image_url,
		price = :price,
		is_paid = :is_paid,
		is_public = :is_public,
		updated_at = :updated_at,
		version = version + 1
	WHERE course_id = :course_id`

	c.UpdatedAt = time.Now().UTC()

	if _, err := sqlx.NamedExecContext(ctx, db, q, c); err != nil {
		return fmt.Errorf("updating course[%s]: %w", c.ID, err)
	}

	return nil
}

func SetPublication(ctx context.Context, db sqlx.ExtContext, id string, published bool) error {
	const q = `
	UPDATE courses SET
		is_published = $2,
		updated_at = $3,
		version = version + 1
	WHERE course_id = $1`

	if _, err := db.ExecContext(ctx, q, id, published, time.Now().UTC()); err != nil {
		return fmt.Errorf("updating publication of course[%s]: %w", id, err)
	}

	return nil
}

// UpdateStripeRefs stores both payment references, guarded by the
// version observed when the sync started. A conflict fails only the
// sync: the course row keeps whatever the concurrent writer stored.
func UpdateStripeRefs(ctx context.Context, db sqlx.ExtContext, id string, productID string, priceID string, version int) error {
	const q = `
	UPDATE courses SET
		stripe_product_id = $2,
		stripe_price_id = $3,
		updated_at = $4,
		version = version + 1
	WHERE course_id = $1 AND version = $5`

	res, err := db.ExecContext(ctx, q, id, productID, priceID, time.Now().UTC(), version)
	if err != nil {
		return fmt.Errorf("storing payment refs on course[%s]: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking payment ref write on course[%s]: %w", id, err)
	}
	if n == 0 {
		return ErrVersionConflict
	}

	return nil
}

// UpdatePriceRef re-points the course at a freshly created price,
// with the same version guard as UpdateStripeRefs.
func UpdatePriceRef(ctx context.Context, db sqlx.ExtContext, id string, priceID string, version int) error {
	const q = `
	UPDATE courses SET
		stripe_price_id = $2,
		updated_at = $3,
		version = version + 1
	WHERE course_id = $1 AND version = $4`

	res, err := db.ExecContext(ctx, q, id, priceID, time.Now().UTC(), version)
	if err != nil {
		return fmt.Errorf("storing price ref on course[%s]: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking price ref write on course[%s]: %w", id, err)
	}
	if n == 0 {
		return ErrVersionConflict
	}

	return nil
}
