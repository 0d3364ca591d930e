package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mentorx/platform/api/background"
	"github.com/mentorx/platform/api/web"
	"github.com/mentorx/platform/api/weberr"
	"github.com/mentorx/platform/config"
	"github.com/mentorx/platform/core/claims"
	"github.com/mentorx/platform/core/course"
	"github.com/mentorx/platform/core/enrollment"
	"github.com/mentorx/platform/core/user"
	"github.com/mentorx/platform/database"
	"github.com/mentorx/platform/validate"
	"github.com/stripe/stripe-go/v74"
	stripecl "github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"
)

// Mailer sends the purchase notice to the course owner.
type Mailer interface {
	SendPurchaseNotice(to string, mentorName string, courseTitle string, studentName string) error
}

// HandleCheckout starts a payment for a paid course. The session is
// created on the mentor's connected account against the synced price,
// with the platform commission taken as an application fee.
func HandleCheckout(db *sqlx.DB, sc *stripecl.API, cfg config.Stripe) web.Handler {
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

		amount := crs.EffectivePrice()
		if amount == 0 {
			err := errors.New("course is free")
			return weberr.Unprocessable(err, "this course is free, enroll directly")
		}

		if e, err := enrollment.Fetch(ctx, db, crs.ID, clm.UserID); err == nil && e.Status == enrollment.Active {
			err := errors.New("student already enrolled")
			return weberr.NewError(err, "you already own this course", http.StatusConflict)
		}

		accountID, err := user.StripeAccount(ctx, db, crs.MentorID)
		if err != nil {
			return fmt.Errorf("resolving payment account of mentor[%s]: %w", crs.MentorID, err)
		}
		if accountID == "" || crs.StripePriceID == nil {
			err := errors.New("course has no payment objects")
			return weberr.Unprocessable(err, "this course cannot be purchased yet")
		}

		fee := int64(math.Round(float64(amount) * cfg.FeePercent / 100))

		params := &stripe.CheckoutSessionParams{
			SuccessURL: stripe.String(cfg.SuccessURL),
			CancelURL:  stripe.String(cfg.CancelURL),
			Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),

			LineItems: []*stripe.CheckoutSessionLineItemParams{{
				Price:    stripe.String(*crs.StripePriceID),
				Quantity: stripe.Int64(1),
			}},

			PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
				ApplicationFeeAmount: stripe.Int64(fee),
			},
		}
		params.SetStripeAccount(accountID)

		s, err := sc.CheckoutSessions.New(params)
		if err != nil {
			return fmt.Errorf("creating checkout session: %w", err)
		}

		if err := prepare(ctx, db, clm.UserID, s.ID, crs); err != nil {
			return fmt.Errorf("creating the order on the database: %w", err)
		}

		return web.Respond(ctx, w, s.URL, http.StatusOK)
	}
}

// prepare records the pending order bound to the provider session, so
// the webhook can resolve the purchase later.
func prepare(ctx context.Context, db *sqlx.DB, userID string, providerID string, crs course.Course) error {
	err := database.Transaction(db, func(tx sqlx.ExtContext) error {
		now := time.Now().UTC()
		ord := Order{
			ID:         validate.GenerateID(),
			UserID:     userID,
			ProviderID: providerID,
			Status:     Pending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if err := Create(ctx, tx, ord); err != nil {
			return err
		}

		var price float64
		if crs.Price != nil {
			price = *crs.Price
		}

		it := Item{
			OrderID:   ord.ID,
			CourseID:  crs.ID,
			Price:     price,
			CreatedAt: now,
		}

		return CreateItem(ctx, tx, it)
	})

	if err != nil {
		return fmt.Errorf("creating the order bound to payment[%s] for user[%s]: %w", providerID, userID, err)
	}
	return nil
}

// HandleCapture is the payment webhook. A replayed event is a no-op:
// fulfillment runs once per order.
func HandleCapture(db *sqlx.DB, cfg config.Stripe, bg *background.Background, mailer Mailer) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("cannot read the request body: %w", err))
		}

		sig := r.Header.Get("Stripe-Signature")
		if sig == "" {
			return weberr.BadRequest(errors.New("received stripe event is not signed"))
		}

		event, err := webhook.ConstructEvent(b, sig, cfg.WebhookSecret)
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("cannot construct stripe event: %w", err))
		}

		if event.Type != "checkout.session.completed" {
			return web.Respond(ctx, w, nil, http.StatusNoContent)
		}

		var session stripe.CheckoutSession
		if err = json.Unmarshal(event.Data.Raw, &session); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode stripe event: %w", err))
		}

		if session.Mode != stripe.CheckoutSessionModePayment {
			return web.Respond(ctx, w, nil, http.StatusNoContent)
		}

		if err := fulfill(ctx, db, session.ID, bg, mailer); err != nil {
			return fmt.Errorf("the order was payed but its fulfillment failed: %w", err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func fulfill(ctx context.Context, db *sqlx.DB, providerID string, bg *background.Background, mailer Mailer) error {
	ord, err := FetchByProviderID(ctx, db, providerID)
	if err != nil {
		return fmt.Errorf("fetching the order bound to payment[%s]: %w", providerID, err)
	}

	if ord.Status == Success {
		return nil
	}

	items, err := FetchItems(ctx, db, ord.ID)
	if err != nil {
		return err
	}

	student, err := user.Fetch(ctx, db, ord.UserID)
	if err != nil {
		return fmt.Errorf("fetching the buyer of order[%s]: %w", ord.ID, err)
	}

	type notice struct {
		owner user.User
		title string
	}
	notices := make([]notice, 0, len(items))

	err = database.Transaction(db, func(tx sqlx.ExtContext) error {
		if err := UpdateStatus(ctx, tx, ord.ID, Success); err != nil {
			return err
		}

		for _, it := range items {
			crs, err := course.Fetch(ctx, tx, it.CourseID)
			if err != nil {
				return fmt.Errorf("fetching course[%s] of order[%s]: %w", it.CourseID, ord.ID, err)
			}

			owner, err := user.Fetch(ctx, tx, crs.MentorID)
			if err != nil {
				return fmt.Errorf("fetching owner of course[%s]: %w", crs.ID, err)
			}

			if _, err := enrollment.Enroll(ctx, tx, crs, student, owner); err != nil {
				// The buyer got access through another path already;
				// the purchase record still stands.
				if !errors.Is(err, enrollment.ErrAlreadyEnrolled) {
					return fmt.Errorf("enrolling buyer on course[%s]: %w", crs.ID, err)
				}
			}

			notices = append(notices, notice{owner: owner, title: crs.Title})
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("fulfilling the order[%s] bound to payment[%s]: %w", ord.ID, providerID, err)
	}

	for _, n := range notices {
		n := n
		bg.Add(func() error {
			return mailer.SendPurchaseNotice(n.owner.Email, n.owner.Name, n.title, student.Name)
		})
	}

	return nil
}
