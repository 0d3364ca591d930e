package course

import (
	"math"
	"time"
)

type Course struct {
	ID              string    `json:"id" db:"course_id"`
	MentorID        string    `json:"mentorId" db:"mentor_id"`
	Title           string    `json:"title" db:"title"`
	Description     string    `json:"description" db:"description"`
	ImageURL        string    `json:"imageUrl" db:"image_url"`
	Price           *float64  `json:"price" db:"price"`
	IsPaid          bool      `json:"isPaid" db:"is_paid"`
	IsPublic        bool      `json:"isPublic" db:"is_public"`
	IsPublished     bool      `json:"isPublished" db:"is_published"`
	StripeProductID *string   `json:"stripeProductId" db:"stripe_product_id"`
	StripePriceID   *string   `json:"stripePriceId" db:"stripe_price_id"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
	Version         int       `json:"-" db:"version"`
}

type CourseNew struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl" validate:"omitempty,url"`
	IsPaid      bool     `json:"isPaid"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	IsPublic    *bool    `json:"isPublic"`
}

type CourseUp struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"imageUrl" validate:"omitempty,url"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	IsPaid      *bool    `json:"isPaid"`
	IsPublic    *bool    `json:"isPublic"`
}

type PublicationUp struct {
	Published bool `json:"published"`
}

// EffectivePrice is the amount in minor currency units used for any
// payment-provider sync: always zero for a free course, whatever value
// the price column happens to hold.
func (c Course) EffectivePrice() int64 {
	if !c.IsPaid || c.Price == nil {
		return 0
	}
	return int64(math.Round(*c.Price * 100))
}

// Apply merges a partial update into the course.
func (up CourseUp) Apply(c Course) Course {
	if up.Title != nil {
		c.Title = *up.Title
	}
	if up.Description != nil {
		c.Description = *up.Description
	}
	if up.ImageURL != nil {
		c.ImageURL = *up.ImageURL
	}
	if up.Price != nil {
		price := *up.Price
		c.Price = &price
	}
	if up.IsPaid != nil {
		c.IsPaid = *up.IsPaid
	}
	if up.IsPublic != nil {
		c.IsPublic = *up.IsPublic
	}
	return c
}
