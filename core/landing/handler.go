package landing

import (
	"context"
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/mentorx/platform/api/web"
	"github.com/mentorx/platform/api/weberr"
	"github.com/mentorx/platform/core/claims"
	"github.com/mentorx/platform/database"
	"github.com/mentorx/platform/validate"
)

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

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courseID := web.Param(r, "course_id")
		if err := validate.CheckID(courseID); err != nil {
			return weberr.BadRequest(err)
		}

		lp, err := Fetch(ctx, db, courseID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		return web.Respond(ctx, w, lp, http.StatusOK)
	}
}

func HandleUpsert(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courseID := web.Param(r, "course_id")
		if err := validate.CheckID(courseID); err != nil {
			return weberr.BadRequest(err)
		}

		if err := courseOwner(ctx, db, courseID); err != nil {
			return err
		}

		var up LandingPageUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(err)
		}

		lp := LandingPage{
			CourseID:   courseID,
			LayoutName: up.LayoutName,
			Body:       up.Body,
			IsActive:   true,
		}
		if lp.LayoutName == "" {
			lp.LayoutName = "simple_checkout"
		}
		if up.IsActive != nil {
			lp.IsActive = *up.IsActive
		}

		err := database.Transaction(db, func(tx sqlx.ExtContext) error {
			return Upsert(ctx, tx, lp)
		})
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, lp, http.StatusOK)
	}
}
