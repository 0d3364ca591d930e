package user

import (
	"database/sql"
	"time"
)

type User struct {
	ID              string         `json:"id" db:"user_id"`
	Email           string         `json:"email" db:"email"`
	Name            string         `json:"name" db:"name"`
	Role            string         `json:"role" db:"role"`
	PasswordHash    []byte         `json:"-" db:"password_hash"`
	StripeAccountID sql.NullString `json:"-" db:"stripe_account_id"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time      `json:"updatedAt" db:"updated_at"`
	Version         int            `json:"-" db:"version"`
}

type UserNew struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=MENTOR MENTORADO"`
	Password string `json:"password" validate:"required,min=8"`
}
