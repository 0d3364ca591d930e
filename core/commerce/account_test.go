package commerce

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mentorx/platform/core/user"
)

func mentor(accountID string) user.User {
	u := user.User{ID: "u1", Email: "ana@example.com", Name: "Ana", Role: "MENTOR"}
	if accountID != "" {
		u.StripeAccountID = sql.NullString{String: accountID, Valid: true}
	}
	return u
}

func TestOnboardAccountCreatesAndStoresRef(t *testing.T) {
	db, mk := newDB(t)
	srv := &stripeServer{}
	sc := newStripeClient(t, srv)

	mk.ExpectExec(`UPDATE users SET`).WillReturnResult(sqlmock.NewResult(0, 1))

	st, err := OnboardAccount(context.Background(), db, sc, mentor(""))
	if err != nil {
		t.Fatalf("onboarding failed: %v", err)
	}

	if st.AccountID != "acct_1" {
		t.Fatalf("unexpected status %+v", st)
	}
	if st.ChargesEnabled {
		t.Error("a fresh account cannot take charges before verification")
	}
	if srv.accountCreates != 1 {
		t.Errorf("account creates %d, want 1", srv.accountCreates)
	}

	if err := mk.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestOnboardAccountIsIdempotent(t *testing.T) {
	db, mk := newDB(t)
	srv := &stripeServer{}
	sc := newStripeClient(t, srv)

	st, err := OnboardAccount(context.Background(), db, sc, mentor("acct_9"))
	if err != nil {
		t.Fatalf("onboarding failed: %v", err)
	}

	if st.AccountID != "acct_9" || !st.ChargesEnabled {
		t.Fatalf("unexpected status %+v", st)
	}
	if srv.accountCreates != 0 {
		t.Error("an onboarded mentor must not get a second account")
	}
	if len(srv.accountGets) != 1 || srv.accountGets[0] != "acct_9" {
		t.Errorf("account reads %v, want [acct_9]", srv.accountGets)
	}

	if err := mk.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestFetchAccountStatus(t *testing.T) {
	srv := &stripeServer{}
	sc := newStripeClient(t, srv)

	st, err := FetchAccountStatus(sc, "acct_3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if st.AccountID != "acct_3" || !st.PayoutsEnabled || !st.DetailsSubmitted {
		t.Fatalf("unexpected status %+v", st)
	}
}
