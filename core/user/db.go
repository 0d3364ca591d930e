package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("user not found")

func Create(ctx context.Context, db sqlx.ExtContext, u User) error {
	const q = `
	INSERT INTO users
		(user_id, email, name, role, password_hash, stripe_account_id, created_at, updated_at, version)
	VALUES
		(:user_id, :email, :name, :role, :password_hash, :stripe_account_id, :created_at, :updated_at, :version)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, u); err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (User, error) {
	const q = `SELECT * FROM users WHERE user_id = $1`

	var u User
	if err := sqlx.GetContext(ctx, db, &u, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("selecting user[%s]: %w", id, err)
	}

	return u, nil
}

func FetchByEmail(ctx context.Context, db sqlx.ExtContext, email string) (User, error) {
	const q = `SELECT * FROM users WHERE email = $1`

	var u User
	if err := sqlx.GetContext(ctx, db, &u, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("selecting user by email: %w", err)
	}

	return u, nil
}

// StripeAccount returns the connected payment account of a user, or
// "" when the user never completed the payment onboarding.
func StripeAccount(ctx context.Context, db sqlx.ExtContext, id string) (string, error) {
	u, err := Fetch(ctx, db, id)
	if err != nil {
		return "", err
	}

	if !u.StripeAccountID.Valid {
		return "", nil
	}
	return u.StripeAccountID.String, nil
}

func UpdateStripeAccount(ctx context.Context, db sqlx.ExtContext, id string, accountID string) error {
	const q = `
	UPDATE users SET
		stripe_account_id = $2,
		updated_at = $3,
		version = version + 1
	WHERE user_id = $1`

	if _, err := db.ExecContext(ctx, q, id, accountID, time.Now().UTC()); err != nil {
		return fmt.Errorf("updating stripe account of user[%s]: %w", id, err)
	}

	return nil
}
