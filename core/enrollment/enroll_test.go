package enrollment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/mentorx/platform/core/course"
	"github.com/mentorx/platform/core/user"
)

func newDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mk, err := sqlmock.New()
	if err != nil {
		t.Fatalf("opening mock db: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "postgres"), mk
}

func enrollmentRow(status string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"enrollment_id", "course_id", "student_id", "course_owner_id", "student_name",
		"course_owner_name", "status", "progress", "enrolled_at", "updated_at",
	}).AddRow("e1", "c1", "s1", "m1", "João", "Ana", status, 0, now, now)
}

func fixtures() (course.Course, user.User, user.User) {
	crs := course.Course{ID: "c1", MentorID: "m1", Title: "Go do Zero"}
	student := user.User{ID: "s1", Name: "João", Email: "joao@example.com"}
	owner := user.User{ID: "m1", Name: "Ana", Email: "ana@example.com"}
	return crs, student, owner
}

func TestEnrollCreates(t *testing.T) {
	db, mk := newDB(t)
	crs, student, owner := fixtures()

	mk.ExpectQuery(`SELECT \* FROM enrollments`).WillReturnRows(sqlmock.NewRows([]string{
		"enrollment_id", "course_id", "student_id", "course_owner_id", "student_name",
		"course_owner_name", "status", "progress", "enrolled_at", "updated_at",
	}))
	mk.ExpectExec(`INSERT INTO enrollments`).WillReturnResult(sqlmock.NewResult(0, 1))

	e, err := Enroll(context.Background(), db, crs, student, owner)
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	if e.Status != Active {
		t.Fatalf("got status %q, want active", e.Status)
	}
	if e.StudentName != "João" || e.OwnerName != "Ana" {
		t.Fatalf("names not denormalized: %+v", e)
	}
	if err := mk.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestEnrollReactivatesInactive(t *testing.T) {
	db, mk := newDB(t)
	crs, student, owner := fixtures()

	mk.ExpectQuery(`SELECT \* FROM enrollments`).WillReturnRows(enrollmentRow(Inactive))
	mk.ExpectExec(`UPDATE enrollments SET`).WillReturnResult(sqlmock.NewResult(0, 1))

	e, err := Enroll(context.Background(), db, crs, student, owner)
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	if e.ID != "e1" {
		t.Fatalf("a new row was created instead of reactivating: %+v", e)
	}
	if e.Status != Active {
		t.Fatalf("got status %q, want active", e.Status)
	}
	if err := mk.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestEnrollRejectsActiveDuplicate(t *testing.T) {
	db, mk := newDB(t)
	crs, student, owner := fixtures()

	mk.ExpectQuery(`SELECT \* FROM enrollments`).WillReturnRows(enrollmentRow(Active))

	_, err := Enroll(context.Background(), db, crs, student, owner)
	if !errors.Is(err, ErrAlreadyEnrolled) {
		t.Fatalf("got err %v, want ErrAlreadyEnrolled", err)
	}
	if err := mk.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
