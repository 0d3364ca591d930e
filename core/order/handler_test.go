package order

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/mentorx/platform/api/background"
	"github.com/sirupsen/logrus"
)

type mockMailer struct {
	mu      sync.Mutex
	notices []string
}

func (m *mockMailer) SendPurchaseNotice(to string, mentorName string, courseTitle string, studentName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, to)
	return nil
}

func newDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mk, err := sqlmock.New()
	if err != nil {
		t.Fatalf("opening mock db: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "postgres"), mk
}

func orderRow(status string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"order_id", "user_id", "provider_id", "status", "created_at", "updated_at",
	}).AddRow("o1", "buyer", "cs_1", status, now, now)
}

func userRow(id string, email string, name string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"user_id", "email", "name", "role", "password_hash", "stripe_account_id",
		"created_at", "updated_at", "version",
	}).AddRow(id, email, name, "MENTOR", []byte("x"), nil, now, now, 1)
}

func TestFulfillActivatesEnrollmentAndNotifies(t *testing.T) {
	db, mk := newDB(t)
	now := time.Now().UTC()

	mk.ExpectQuery(`SELECT \* FROM orders`).WillReturnRows(orderRow(Pending))
	mk.ExpectQuery(`SELECT \* FROM order_items`).WillReturnRows(
		sqlmock.NewRows([]string{"order_id", "course_id", "price", "created_at"}).
			AddRow("o1", "c1", 149.90, now))
	mk.ExpectQuery(`SELECT \* FROM users`).WillReturnRows(userRow("buyer", "joao@example.com", "João"))

	mk.ExpectBegin()
	mk.ExpectExec(`UPDATE orders SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mk.ExpectQuery(`SELECT \* FROM courses`).WillReturnRows(
		sqlmock.NewRows([]string{
			"course_id", "mentor_id", "title", "description", "image_url", "price",
			"is_paid", "is_public", "is_published", "stripe_product_id",
			"stripe_price_id", "created_at", "updated_at", "version",
		}).AddRow("c1", "mentor", "Go do Zero", "", "", 149.90, true, true, true, "prod_1", "price_1", now, now, 2))
	mk.ExpectQuery(`SELECT \* FROM users`).WillReturnRows(userRow("mentor", "ana@example.com", "Ana"))
	mk.ExpectQuery(`SELECT \* FROM enrollments`).WillReturnRows(
		sqlmock.NewRows([]string{
			"enrollment_id", "course_id", "student_id", "course_owner_id", "student_name",
			"course_owner_name", "status", "progress", "enrolled_at", "updated_at",
		}))
	mk.ExpectExec(`INSERT INTO enrollments`).WillReturnResult(sqlmock.NewResult(0, 1))
	mk.ExpectCommit()

	bg := background.New(logrus.New())
	mailer := &mockMailer{}

	if err := fulfill(context.Background(), db, "cs_1", bg, mailer); err != nil {
		t.Fatalf("fulfill failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := bg.Shutdown(ctx); err != nil {
		t.Fatalf("draining background tasks: %v", err)
	}

	if len(mailer.notices) != 1 || mailer.notices[0] != "ana@example.com" {
		t.Fatalf("purchase notices %v, want the mentor's address", mailer.notices)
	}
	if err := mk.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestFulfillReplayIsNoOp(t *testing.T) {
	db, mk := newDB(t)

	mk.ExpectQuery(`SELECT \* FROM orders`).WillReturnRows(orderRow(Success))

	bg := background.New(logrus.New())
	mailer := &mockMailer{}

	if err := fulfill(context.Background(), db, "cs_1", bg, mailer); err != nil {
		t.Fatalf("replay must be a no-op: %v", err)
	}

	if len(mailer.notices) != 0 {
		t.Fatal("replay must not notify again")
	}
	if err := mk.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
