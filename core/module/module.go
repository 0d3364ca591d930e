package module

import "time"

type Module struct {
	ID          string    `json:"id" db:"module_id"`
	CourseID    string    `json:"courseId" db:"course_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Index       int       `json:"index" db:"index"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type ModuleNew struct {
	CourseID    string `json:"courseId" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Index       int    `json:"index" validate:"gte=0"`
}

type ModuleUp struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Index       *int    `json:"index" validate:"omitempty,gte=0"`
}

// OrderUp is one entry of a bulk reorder request.
type OrderUp struct {
	ID    string `json:"id" validate:"required"`
	Index int    `json:"index" validate:"gte=0"`
}
