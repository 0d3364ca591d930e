package course

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("opening mock db: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func moduleRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"module_id", "course_id", "title", "description", "index", "created_at", "updated_at",
	})
}

func contentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"content_id", "module_id", "title", "description", "index", "kind", "payload", "created_at", "updated_at",
	})
}

func landingRows(body string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"course_id", "layout_name", "body", "is_active", "created_at", "updated_at",
	}).AddRow("c1", "simple_checkout", []byte(body), true, now, now)
}

func TestCanPublishRejectsWithoutModules(t *testing.T) {
	db, mock := newDB(t)

	mock.ExpectQuery(`SELECT \* FROM modules`).WillReturnRows(moduleRows())

	dec := CanPublish(context.Background(), db, "c1")
	if dec.Allowed {
		t.Fatal("expected rejection")
	}
	if dec.Reason != ReasonNoContent {
		t.Fatalf("got reason %q, want %q", dec.Reason, ReasonNoContent)
	}
}

func TestCanPublishRejectsWithEmptyModules(t *testing.T) {
	db, mock := newDB(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT \* FROM modules`).WillReturnRows(
		moduleRows().
			AddRow("m1", "c1", "Introdução", "", 0, now, now).
			AddRow("m2", "c1", "Avançado", "", 1, now, now))
	mock.ExpectQuery(`SELECT \* FROM contents`).WillReturnRows(contentRows())
	mock.ExpectQuery(`SELECT \* FROM contents`).WillReturnRows(contentRows())

	dec := CanPublish(context.Background(), db, "c1")
	if dec.Allowed {
		t.Fatal("expected rejection")
	}

	// An all-empty course and a module-less course read the same to the
	// mentor: both need content before selling.
	if dec.Reason != ReasonNoContent {
		t.Fatalf("got reason %q, want %q", dec.Reason, ReasonNoContent)
	}
}

func TestCanPublishRejectsWithoutLanding(t *testing.T) {
	db, mock := newDB(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT \* FROM modules`).WillReturnRows(
		moduleRows().AddRow("m1", "c1", "Introdução", "", 0, now, now))
	mock.ExpectQuery(`SELECT \* FROM contents`).WillReturnRows(
		contentRows().AddRow("ct1", "m1", "Aula 1", "", 0, "rich_text", []byte(`{"body":"oi"}`), now, now))
	mock.ExpectQuery(`SELECT \* FROM landing_pages`).WillReturnError(sql.ErrNoRows)

	dec := CanPublish(context.Background(), db, "c1")
	if dec.Allowed {
		t.Fatal("expected rejection")
	}
	if dec.Reason != ReasonLanding {
		t.Fatalf("got reason %q, want %q", dec.Reason, ReasonLanding)
	}
}

func TestCanPublishRejectsPlaceholderAnywhere(t *testing.T) {
	db, mock := newDB(t)
	now := time.Now().UTC()

	// The placeholder moved out of the testimonial field into the
	// guarantee: the whole-body search must still catch it.
	body := `{"headline":"Aprenda Go","testimonial":"Ótimo curso","guarantee":"` + PlaceholderTestimonial + `"}`

	mock.ExpectQuery(`SELECT \* FROM modules`).WillReturnRows(
		moduleRows().AddRow("m1", "c1", "Introdução", "", 0, now, now))
	mock.ExpectQuery(`SELECT \* FROM contents`).WillReturnRows(
		contentRows().AddRow("ct1", "m1", "Aula 1", "", 0, "rich_text", []byte(`{"body":"oi"}`), now, now))
	mock.ExpectQuery(`SELECT \* FROM landing_pages`).WillReturnRows(landingRows(body))

	dec := CanPublish(context.Background(), db, "c1")
	if dec.Allowed {
		t.Fatal("expected rejection")
	}
	if dec.Reason != ReasonLanding {
		t.Fatalf("got reason %q, want %q", dec.Reason, ReasonLanding)
	}
}

func TestCanPublishAllows(t *testing.T) {
	db, mock := newDB(t)
	now := time.Now().UTC()

	body := `{"headline":"Aprenda Go","testimonial":"Mudou minha forma de programar","rating":4.8}`

	mock.ExpectQuery(`SELECT \* FROM modules`).WillReturnRows(
		moduleRows().AddRow("m1", "c1", "Introdução", "", 0, now, now))
	mock.ExpectQuery(`SELECT \* FROM contents`).WillReturnRows(
		contentRows().AddRow("ct1", "m1", "Aula 1", "", 0, "rich_text", []byte(`{"body":"oi"}`), now, now))
	mock.ExpectQuery(`SELECT \* FROM landing_pages`).WillReturnRows(landingRows(body))

	dec := CanPublish(context.Background(), db, "c1")
	if !dec.Allowed {
		t.Fatalf("expected approval, got rejection %q", dec.Reason)
	}
	if dec.Reason != "" {
		t.Fatalf("approval must carry no reason, got %q", dec.Reason)
	}
}

func TestCanPublishCollapsesErrorsIntoRejection(t *testing.T) {
	db, mock := newDB(t)

	mock.ExpectQuery(`SELECT \* FROM modules`).WillReturnError(errors.New("connection reset"))

	dec := CanPublish(context.Background(), db, "c1")
	if dec.Allowed {
		t.Fatal("a broken check must never approve")
	}
	if dec.Reason != ReasonUnavailable {
		t.Fatalf("got reason %q, want %q", dec.Reason, ReasonUnavailable)
	}
}
