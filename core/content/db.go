package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("content not found")

func Create(ctx context.Context, db sqlx.ExtContext, c Content) error {
	const q = `
	INSERT INTO contents
		(content_id, module_id, title, description, "index", kind, payload, created_at, updated_at)
	VALUES
		(:content_id, :module_id, :title, :description, :index, :kind, :payload, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, c); err != nil {
		return fmt.Errorf("inserting content: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Content, error) {
	const q = `SELECT * FROM contents WHERE content_id = $1`

	var c Content
	if err := sqlx.GetContext(ctx, db, &c, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Content{}, ErrNotFound
		}
		return Content{}, fmt.Errorf("selecting content[%s]: %w", id, err)
	}

	return c, nil
}

func FetchByModule(ctx context.Context, db sqlx.ExtContext, moduleID string) ([]Content, error) {
	const q = `SELECT * FROM contents WHERE module_id = $1 ORDER BY "index" ASC`

	items := []Content{}
	if err := sqlx.SelectContext(ctx, db, &items, q, moduleID); err != nil {
		return nil, fmt.Errorf("selecting contents of module[%s]: %w", moduleID, err)
	}

	return items, nil
}

func Update(ctx context.Context, db sqlx.ExtContext, c Content) error {
	const q = `
	UPDATE contents SET
		title = :title,
		description = :description,
		"index" = :index,
		payload = :payload,
		updated_at = :updated_at
	WHERE content_id = :content_id`

	c.UpdatedAt = time.Now().UTC()

	if _, err := sqlx.NamedExecContext(ctx, db, q, c); err != nil {
		return fmt.Errorf("updating content[%s]: %w", c.ID, err)
	}

	return nil
}

func Delete(ctx context.Context, db sqlx.ExtContext, id string) error {
	const q = `DELETE FROM contents WHERE content_id = $1`

	if _, err := db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("deleting content[%s]: %w", id, err)
	}

	return nil
}

func SetIndex(ctx context.Context, db sqlx.ExtContext, id string, index int) error {
	const q = `UPDATE contents SET "index" = $2, updated_at = $3 WHERE content_id = $1`

	if _, err := db.ExecContext(ctx, q, id, index, time.Now().UTC()); err != nil {
		return fmt.Errorf("setting index of content[%s]: %w", id, err)
	}

	return nil
}
