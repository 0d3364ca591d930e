package module

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("module not found")

func Create(ctx context.Context, db sqlx.ExtContext, m Module) error {
	const q = `
	INSERT INTO modules
		(module_id, course_id, title, description, "index", created_at, updated_at)
	VALUES
		(:module_id, :course_id, :title, :description, :index, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, m); err != nil {
		return fmt.Errorf("inserting module: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Module, error) {
	const q = `SELECT * FROM modules WHERE module_id = $1`

	var m Module
	if err := sqlx.GetContext(ctx, db, &m, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Module{}, ErrNotFound
		}
		return Module{}, fmt.Errorf("selecting module[%s]: %w", id, err)
	}

	return m, nil
}

func FetchByCourse(ctx context.Context, db sqlx.ExtContext, courseID string) ([]Module, error) {
	const q = `SELECT * FROM modules WHERE course_id = $1 ORDER BY "index" ASC`

	mods := []Module{}
	if err := sqlx.SelectContext(ctx, db, &mods, q, courseID); err != nil {
		return nil, fmt.Errorf("selecting modules of course[%s]: %w", courseID, err)
	}

	return mods, nil
}

func Update(ctx context.Context, db sqlx.ExtContext, m Module) error {
	const q = `
	UPDATE modules SET
		title = :title,
		description = :description,
		"index" = :index,
		updated_at = :updated_at
	WHERE module_id = :module_id`

	m.UpdatedAt = time.Now().UTC()

	if _, err := sqlx.NamedExecContext(ctx, db, q, m); err != nil {
		return fmt.Errorf("updating module[%s]: %w", m.ID, err)
	}

	return nil
}

func Delete(ctx context.Context, db sqlx.ExtContext, id string) error {
	const q = `DELETE FROM modules WHERE module_id = $1`

	if _, err := db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("deleting module[%s]: %w", id, err)
	}

	return nil
}

// SetIndex updates a single module's ordering hint; reordering a course
// runs one SetIndex per entry inside a transaction.
func SetIndex(ctx context.Context, db sqlx.ExtContext, id string, index int) error {
	const q = `UPDATE modules SET "index" = $2, updated_at = $3 WHERE module_id = $1`

	if _, err := db.ExecContext(ctx, q, id, index, time.Now().UTC()); err != nil {
		return fmt.Errorf("setting index of module[%s]: %w", id, err)
	}

	return nil
}
