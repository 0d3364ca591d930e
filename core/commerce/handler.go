package commerce

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mentorx/platform/api/web"
	"github.com/mentorx/platform/api/weberr"
	"github.com/mentorx/platform/core/claims"
	"github.com/mentorx/platform/core/course"
	"github.com/mentorx/platform/core/user"
	"github.com/mentorx/platform/validate"
	"github.com/sirupsen/logrus"
	stripecl "github.com/stripe/stripe-go/v74/client"
)

// courseResult is the response of the course mutations: the row as
// written plus the explicit outcome of the payment mirror.
type courseResult struct {
	course.Course
	Sync Result `json:"sync"`
}

func HandleCreateCourse(db *sqlx.DB, sc *stripecl.API, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var nc course.CourseNew
		if err := web.Decode(w, r, &nc); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(nc); err != nil {
			return weberr.BadRequest(err)
		}

		now := time.Now().UTC()
		crs := course.Course{
			ID:          validate.GenerateID(),
			MentorID:    clm.UserID,
			Title:       nc.Title,
			Description: nc.Description,
			ImageURL:    nc.ImageURL,
			Price:       nc.Price,
			IsPaid:      nc.IsPaid,
			IsPublic:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
			Version:     1,
		}
		if nc.IsPublic != nil {
			crs.IsPublic = *nc.IsPublic
		}

		if err := course.Create(ctx, db, crs); err != nil {
			return err
		}

		// The course is created no matter what happens from here on:
		// mirroring problems are reported, never propagated.
		var res Result
		accountID, err := user.StripeAccount(ctx, db, clm.UserID)
		if err != nil {
			res = failed(err)
		} else {
			res = SyncOnCreate(ctx, db, sc, crs, accountID)
		}
		res.Log(log, crs.ID)

		if res.Outcome == OutcomeSynced {
			crs.StripeProductID = &res.Refs.ProductID
			crs.StripePriceID = &res.Refs.PriceID
		}

		return web.Respond(ctx, w, courseResult{Course: crs, Sync: res}, http.StatusCreated)
	}
}

func HandleUpdateCourse(db *sqlx.DB, sc *stripecl.API, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		var up course.CourseUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(up); err != nil {
			return weberr.BadRequest(err)
		}

		if err := owner(ctx, db, id); err != nil {
			return err
		}

		crs, res, err := SyncOnUpdate(ctx, db, sc, id, up)
		if err != nil {
			if errors.Is(err, course.ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}
		res.Log(log, crs.ID)

		return web.Respond(ctx, w, courseResult{Course: crs, Sync: res}, http.StatusOK)
	}
}

// HandleSyncCourse is the explicit backfill for courses created before
// the mentor onboarded. Unlike the implicit mirror it fails loudly.
func HandleSyncCourse(db *sqlx.DB, sc *stripecl.API) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		if err := owner(ctx, db, id); err != nil {
			return err
		}

		refs, err := SyncExisting(ctx, db, sc, id)
		if err != nil {
			switch {
			case errors.Is(err, course.ErrNotFound):
				return weberr.NotFound(err)
			case errors.Is(err, ErrNoAccount):
				return weberr.Unprocessable(err, "complete the payment onboarding before syncing courses")
			}
			return err
		}

		return web.Respond(ctx, w, refs, http.StatusOK)
	}
}

// HandleOnboardAccount starts the mentor's payment onboarding. The
// connected account is created server side; clients never handle raw
// provider references.
func HandleOnboardAccount(db *sqlx.DB, sc *stripecl.API) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		usr, err := user.Fetch(ctx, db, clm.UserID)
		if err != nil {
			return err
		}

		st, err := OnboardAccount(ctx, db, sc, usr)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, st, http.StatusOK)
	}
}

// HandleAccountStatus reports the verification state of the mentor's
// connected account.
func HandleAccountStatus(db *sqlx.DB, sc *stripecl.API) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		usr, err := user.Fetch(ctx, db, clm.UserID)
		if err != nil {
			return err
		}

		if !usr.StripeAccountID.Valid || usr.StripeAccountID.String == "" {
			return weberr.Unprocessable(ErrNoAccount, "payment onboarding has not started")
		}

		st, err := FetchAccountStatus(sc, usr.StripeAccountID.String)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, st, http.StatusOK)
	}
}

// owner reports whether the authenticated mentor owns the course.
func owner(ctx context.Context, db sqlx.ExtContext, courseID string) error {
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
