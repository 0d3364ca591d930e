package enrollment

import (
	"context"
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/mentorx/platform/api/background"
	"github.com/mentorx/platform/api/web"
	"github.com/mentorx/platform/api/weberr"
	"github.com/mentorx/platform/core/claims"
	"github.com/mentorx/platform/core/course"
	"github.com/mentorx/platform/core/user"
	"github.com/mentorx/platform/validate"
)

// Mailer confirms a new enrollment to the student.
type Mailer interface {
	SendEnrollmentConfirmation(to string, name string, courseTitle string) error
}

// HandleEnroll grants immediate access to a free course. Paid courses
// go through checkout instead.
func HandleEnroll(db *sqlx.DB, bg *background.Background, mailer Mailer) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		courseID := web.Param(r, "id")
		if err := validate.CheckID(courseID); err != nil {
			return weberr.BadRequest(err)
		}

		crs, err := course.Fetch(ctx, db, courseID)
		if err != nil {
			if errors.Is(err, course.ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		if !crs.IsPublished {
			return weberr.NotFound(course.ErrNotFound)
		}

		if crs.EffectivePrice() > 0 {
			err := errors.New("course is paid")
			return weberr.Unprocessable(err, "this course requires checkout")
		}

		student, err := user.Fetch(ctx, db, clm.UserID)
		if err != nil {
			return err
		}

		owner, err := user.Fetch(ctx, db, crs.MentorID)
		if err != nil {
			return err
		}

		e, err := Enroll(ctx, db, crs, student, owner)
		if err != nil {
			if errors.Is(err, ErrAlreadyEnrolled) {
				return weberr.NewError(err, "you are already enrolled in this course", http.StatusConflict)
			}
			return err
		}

		bg.Add(func() error {
			return mailer.SendEnrollmentConfirmation(student.Email, student.Name, crs.Title)
		})

		return web.Respond(ctx, w, e, http.StatusCreated)
	}
}

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		enrs, err := FetchByStudent(ctx, db, clm.UserID)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, enrs, http.StatusOK)
	}
}
