package commerce

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/mentorx/platform/core/course"
	"github.com/mentorx/platform/core/user"
	stripecl "github.com/stripe/stripe-go/v74/client"
)

// ErrNoAccount reports an explicit sync request for a course whose
// mentor never completed the payment onboarding.
var ErrNoAccount = errors.New("mentor has no payment account")

// SyncOnCreate mirrors a freshly created course: one product, one
// price, both references stored on the course row. The row write is
// guarded by the version the caller read, so a concurrent sync cannot
// be silently overwritten.
func SyncOnCreate(ctx context.Context, db *sqlx.DB, sc *stripecl.API, crs course.Course, accountID string) Result {
	if accountID == "" {
		return skipped()
	}

	productID, err := createProduct(sc, crs, accountID)
	if err != nil {
		return failed(err)
	}

	priceID, err := createPrice(sc, productID, crs.EffectivePrice(), accountID)
	if err != nil {
		return failed(err)
	}

	if err := course.UpdateStripeRefs(ctx, db, crs.ID, productID, priceID, crs.Version); err != nil {
		return failed(err)
	}

	return synced(Refs{ProductID: productID, PriceID: priceID})
}

// SyncOnUpdate applies a partial update to a course and then mirrors
// the result. The returned error covers only the course mutation
// itself; once the row is written, every provider-side problem lands
// in the Result and the update stands.
func SyncOnUpdate(ctx context.Context, db *sqlx.DB, sc *stripecl.API, courseID string, up course.CourseUp) (course.Course, Result, error) {
	before, err := course.Fetch(ctx, db, courseID)
	if err != nil {
		return course.Course{}, Result{}, err
	}

	if err := course.Update(ctx, db, up.Apply(before)); err != nil {
		return course.Course{}, Result{}, err
	}

	// Re-read instead of trusting the merge: the sync must mirror what
	// the row actually holds, including the bumped version.
	after, err := course.Fetch(ctx, db, courseID)
	if err != nil {
		return course.Course{}, Result{}, fmt.Errorf("reloading course[%s] after update: %w", courseID, err)
	}

	accountID, err := user.StripeAccount(ctx, db, after.MentorID)
	if err != nil {
		return after, failed(fmt.Errorf("resolving payment account of mentor[%s]: %w", after.MentorID, err)), nil
	}
	if accountID == "" {
		return after, skipped(), nil
	}

	if after.StripeProductID == nil {
		// The course predates the mentor's onboarding or an earlier
		// sync failed; recover by mirroring from scratch.
		return after, SyncOnCreate(ctx, db, sc, after, accountID), nil
	}

	if err := updateProduct(sc, after, accountID); err != nil {
		return after, failed(err), nil
	}

	refs := Refs{ProductID: *after.StripeProductID}
	if after.StripePriceID != nil {
		refs.PriceID = *after.StripePriceID
	}

	// A missing price ref means an earlier sync stopped halfway; mint a
	// fresh price even when the amount itself is unchanged.
	if !priceChanged(before, after) && after.StripePriceID != nil {
		return after, synced(refs), nil
	}

	if after.StripePriceID != nil {
		if err := deactivatePrice(sc, *after.StripePriceID, accountID); err != nil {
			return after, failed(err), nil
		}
	}

	priceID, err := createPrice(sc, *after.StripeProductID, after.EffectivePrice(), accountID)
	if err != nil {
		return after, failed(err), nil
	}

	if err := course.UpdatePriceRef(ctx, db, after.ID, priceID, after.Version); err != nil {
		return after, failed(err), nil
	}

	refs.PriceID = priceID
	return after, synced(refs), nil
}

// priceChanged compares the monetization of the two snapshots. A flip
// between free and paid always counts, even when the effective amount
// stays at the same value.
func priceChanged(before, after course.Course) bool {
	return before.EffectivePrice() != after.EffectivePrice() || before.IsPaid != after.IsPaid
}

// SyncExisting backfills the payment objects for a course created
// before its mentor onboarded. Unlike the implicit syncs it propagates
// every failure: the caller asked for exactly this.
func SyncExisting(ctx context.Context, db *sqlx.DB, sc *stripecl.API, courseID string) (Refs, error) {
	crs, err := course.Fetch(ctx, db, courseID)
	if err != nil {
		return Refs{}, err
	}

	if crs.StripeProductID != nil && crs.StripePriceID != nil {
		return Refs{ProductID: *crs.StripeProductID, PriceID: *crs.StripePriceID}, nil
	}

	accountID, err := user.StripeAccount(ctx, db, crs.MentorID)
	if err != nil {
		return Refs{}, fmt.Errorf("resolving payment account of mentor[%s]: %w", crs.MentorID, err)
	}
	if accountID == "" {
		return Refs{}, ErrNoAccount
	}

	res := SyncOnCreate(ctx, db, sc, crs, accountID)
	if res.Outcome == OutcomeFailed {
		return Refs{}, res.Err
	}

	return res.Refs, nil
}
