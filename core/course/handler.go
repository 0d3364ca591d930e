package course

import (
	"context"
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/mentorx/platform/api/web"
	"github.com/mentorx/platform/api/weberr"
	"github.com/mentorx/platform/core/claims"
	"github.com/mentorx/platform/validate"
)

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courses, err := FetchPublished(ctx, db)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, courses, http.StatusOK)
	}
}

func HandleListOwned(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		courses, err := FetchByMentor(ctx, db, clm.UserID)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, courses, http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		crs, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		// Drafts are visible to their mentor only.
		if !crs.IsPublic || !crs.IsPublished {
			clm, err := claims.Get(ctx)
			if err != nil || clm.UserID != crs.MentorID {
				return weberr.NotFound(ErrNotFound)
			}
		}

		return web.Respond(ctx, w, crs, http.StatusOK)
	}
}

// HandleSetPublication flips the published flag. Publishing runs the
// readiness gate first; unpublishing is always allowed.
func HandleSetPublication(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var up PublicationUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(err)
		}

		crs, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		if crs.MentorID != clm.UserID {
			return weberr.Forbidden(errors.New("course belongs to another mentor"))
		}

		if up.Published && !crs.IsPublished {
			if dec := CanPublish(ctx, db, id); !dec.Allowed {
				return weberr.Unprocessable(errors.New(dec.Reason), dec.Reason)
			}
		}

		if err := SetPublication(ctx, db, id, up.Published); err != nil {
			return err
		}

		crs.IsPublished = up.Published
		return web.Respond(ctx, w, crs, http.StatusOK)
	}
}
