package enrollment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mentorx/platform/core/course"
	"github.com/mentorx/platform/core/user"
	"github.com/mentorx/platform/validate"
)

// Enroll grants a student access to a course. An inactive row is
// reactivated instead of duplicated; an active one is reported with
// ErrAlreadyEnrolled so free enrollment can reject it while checkout
// fulfillment treats it as done.
func Enroll(ctx context.Context, db sqlx.ExtContext, crs course.Course, student user.User, owner user.User) (Enrollment, error) {
	e, err := Fetch(ctx, db, crs.ID, student.ID)
	switch {
	case err == nil:
		if e.Status == Active {
			return e, ErrAlreadyEnrolled
		}

		if err := SetStatus(ctx, db, e.ID, Active); err != nil {
			return Enrollment{}, err
		}

		e.Status = Active
		return e, nil

	case errors.Is(err, ErrNotFound):
		now := time.Now().UTC()
		e := Enrollment{
			ID:          validate.GenerateID(),
			CourseID:    crs.ID,
			StudentID:   student.ID,
			OwnerID:     crs.MentorID,
			StudentName: student.Name,
			OwnerName:   owner.Name,
			Status:      Active,
			Progress:    0,
			EnrolledAt:  now,
			UpdatedAt:   now,
		}

		if err := Create(ctx, db, e); err != nil {
			return Enrollment{}, err
		}
		return e, nil

	default:
		return Enrollment{}, fmt.Errorf("checking existing enrollment: %w", err)
	}
}
