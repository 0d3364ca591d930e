package module

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mentorx/platform/api/web"
	"github.com/mentorx/platform/api/weberr"
	"github.com/mentorx/platform/core/claims"
	"github.com/mentorx/platform/database"
	"github.com/mentorx/platform/validate"
)

// courseOwner reports whether the authenticated mentor owns the course
// a module belongs to.
func courseOwner(ctx context.Context, db sqlx.ExtContext, courseID string) error {
	clm, err := claims.Get(ctx)
	if err != nil {
		return weberr.NotAuthorized(errors.New("user not authenticated"))
	}

	var mentorID string
	const q = `SELECT mentor_id FROM courses WHERE course_id = $1`
	if err := sqlx.GetContext(ctx, db, &mentorID, q, courseID); err != nil {
		return weberr.NotFound(err)
	}

	if mentorID != clm.UserID {
		return weberr.Forbidden(errors.New("course belongs to another mentor"))
	}

	return nil
}

func HandleListByCourse(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courseID := web.Param(r, "course_id")
		if err := validate.CheckID(courseID); err != nil {
			return weberr.BadRequest(err)
		}

		mods, err := FetchByCourse(ctx, db, courseID)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, mods, http.StatusOK)
	}
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var nm ModuleNew
		if err := web.Decode(w, r, &nm); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(nm); err != nil {
			return weberr.BadRequest(err)
		}

		if err := courseOwner(ctx, db, nm.CourseID); err != nil {
			return err
		}

		now := time.Now().UTC()
		m := Module{
			ID:          validate.GenerateID(),
			CourseID:    nm.CourseID,
			Title:       nm.Title,
			Description: nm.Description,
			Index:       nm.Index,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := Create(ctx, db, m); err != nil {
			return err
		}

		return web.Respond(ctx, w, m, http.StatusCreated)
	}
}

func HandleUpdate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		var up ModuleUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(up); err != nil {
			return weberr.BadRequest(err)
		}

		m, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		if err := courseOwner(ctx, db, m.CourseID); err != nil {
			return err
		}

		if up.Title != nil {
			m.Title = *up.Title
		}
		if up.Description != nil {
			m.Description = *up.Description
		}
		if up.Index != nil {
			m.Index = *up.Index
		}

		if err := Update(ctx, db, m); err != nil {
			return err
		}

		return web.Respond(ctx, w, m, http.StatusOK)
	}
}

func HandleDelete(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		m, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		if err := courseOwner(ctx, db, m.CourseID); err != nil {
			return err
		}

		if err := Delete(ctx, db, id); err != nil {
			return err
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleReorder(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courseID := web.Param(r, "course_id")
		if err := validate.CheckID(courseID); err != nil {
			return weberr.BadRequest(err)
		}

		if err := courseOwner(ctx, db, courseID); err != nil {
			return err
		}

		var ups []OrderUp
		if err := web.Decode(w, r, &ups); err != nil {
			return weberr.BadRequest(err)
		}

		for _, up := range ups {
			if err := validate.Check(up); err != nil {
				return weberr.BadRequest(err)
			}
		}

		err := database.Transaction(db, func(tx sqlx.ExtContext) error {
			for _, up := range ups {
				if err := SetIndex(ctx, tx, up.ID, up.Index); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
