package commerce

import (
	"fmt"
	"strconv"

	"github.com/mentorx/platform/core/course"
	"github.com/stripe/stripe-go/v74"
	stripecl "github.com/stripe/stripe-go/v74/client"
)

// All calls run on the mentor's connected account, never on the
// platform account.

func productParams(c course.Course, accountID string) *stripe.ProductParams {
	params := &stripe.ProductParams{
		Name: stripe.String(c.Title),
	}
	if c.Description != "" {
		params.Description = stripe.String(c.Description)
	}
	if c.ImageURL != "" {
		params.Images = stripe.StringSlice([]string{c.ImageURL})
	}

	params.AddMetadata("course_id", c.ID)
	params.AddMetadata("mentor_id", c.MentorID)
	params.AddMetadata("is_free", strconv.FormatBool(!c.IsPaid))

	params.SetStripeAccount(accountID)
	return params
}

func createProduct(sc *stripecl.API, c course.Course, accountID string) (string, error) {
	prod, err := sc.Products.New(productParams(c, accountID))
	if err != nil {
		return "", fmt.Errorf("creating product for course[%s]: %w", c.ID, err)
	}
	return prod.ID, nil
}

func updateProduct(sc *stripecl.API, c course.Course, accountID string) error {
	if _, err := sc.Products.Update(*c.StripeProductID, productParams(c, accountID)); err != nil {
		return fmt.Errorf("updating product[%s] of course[%s]: %w", *c.StripeProductID, c.ID, err)
	}
	return nil
}

func createPrice(sc *stripecl.API, productID string, amount int64, accountID string) (string, error) {
	params := &stripe.PriceParams{
		Product:    stripe.String(productID),
		UnitAmount: stripe.Int64(amount),
		Currency:   stripe.String(string(stripe.CurrencyBRL)),
	}
	params.SetStripeAccount(accountID)

	price, err := sc.Prices.New(params)
	if err != nil {
		return "", fmt.Errorf("creating price on product[%s]: %w", productID, err)
	}
	return price.ID, nil
}

// deactivatePrice retires a price instead of deleting it: prices that
// backed past purchases must remain resolvable.
func deactivatePrice(sc *stripecl.API, priceID string, accountID string) error {
	params := &stripe.PriceParams{
		Active: stripe.Bool(false),
	}
	params.SetStripeAccount(accountID)

	if _, err := sc.Prices.Update(priceID, params); err != nil {
		return fmt.Errorf("deactivating price[%s]: %w", priceID, err)
	}
	return nil
}
