package commerce

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/mentorx/platform/core/user"
	"github.com/stripe/stripe-go/v74"
	stripecl "github.com/stripe/stripe-go/v74/client"
)

// AccountStatus describes how far the mentor's connected account got
// through the provider's verification.
type AccountStatus struct {
	AccountID        string   `json:"accountId"`
	ChargesEnabled   bool     `json:"chargesEnabled"`
	PayoutsEnabled   bool     `json:"payoutsEnabled"`
	DetailsSubmitted bool     `json:"detailsSubmitted"`
	RequirementsDue  []string `json:"requirementsDue"`
}

func statusOf(acct *stripe.Account) AccountStatus {
	st := AccountStatus{
		AccountID:        acct.ID,
		ChargesEnabled:   acct.ChargesEnabled,
		PayoutsEnabled:   acct.PayoutsEnabled,
		DetailsSubmitted: acct.DetailsSubmitted,
	}
	if acct.Requirements != nil {
		st.RequirementsDue = acct.Requirements.CurrentlyDue
	}
	return st
}

// OnboardAccount provisions the mentor's connected account and stores
// its reference on the user row. The account is created with the
// minimal payload; the provider collects the remaining verification
// data afterwards. Calling it for an already onboarded mentor only
// refreshes the status.
func OnboardAccount(ctx context.Context, db *sqlx.DB, sc *stripecl.API, usr user.User) (AccountStatus, error) {
	if usr.StripeAccountID.Valid && usr.StripeAccountID.String != "" {
		return FetchAccountStatus(sc, usr.StripeAccountID.String)
	}

	params := &stripe.AccountParams{
		Type:         stripe.String(string(stripe.AccountTypeCustom)),
		Country:      stripe.String("BR"),
		Email:        stripe.String(usr.Email),
		BusinessType: stripe.String(string(stripe.AccountBusinessTypeIndividual)),
		Capabilities: &stripe.AccountCapabilitiesParams{
			CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{Requested: stripe.Bool(true)},
			Transfers:    &stripe.AccountCapabilitiesTransfersParams{Requested: stripe.Bool(true)},
		},
	}

	acct, err := sc.Accounts.New(params)
	if err != nil {
		return AccountStatus{}, fmt.Errorf("creating payment account for user[%s]: %w", usr.ID, err)
	}

	if err := user.UpdateStripeAccount(ctx, db, usr.ID, acct.ID); err != nil {
		return AccountStatus{}, err
	}

	return statusOf(acct), nil
}

// FetchAccountStatus reads the current verification state of a
// connected account.
func FetchAccountStatus(sc *stripecl.API, accountID string) (AccountStatus, error) {
	acct, err := sc.Accounts.GetByID(accountID, nil)
	if err != nil {
		return AccountStatus{}, fmt.Errorf("retrieving payment account %s: %w", accountID, err)
	}
	return statusOf(acct), nil
}
