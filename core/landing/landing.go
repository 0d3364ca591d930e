package landing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Body is the structured content of a course sales page. It is stored
// as a single jsonb document; editors overwrite the whole body at once.
type Body struct {
	Headline       string   `json:"headline"`
	Subheadline    string   `json:"subheadline"`
	KeyBenefits    []string `json:"keyBenefits"`
	Testimonial    string   `json:"testimonial"`
	Rating         float64  `json:"rating"`
	AvatarURLs     []string `json:"avatarUrls"`
	Guarantee      string   `json:"guarantee"`
	BonusOffer     string   `json:"bonusOffer"`
	UrgencyMessage string   `json:"urgencyMessage"`
	CaptureLeads   bool     `json:"captureLeads"`
}

func (b Body) Value() (driver.Value, error) {
	return json.Marshal(b)
}

func (b *Body) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	default:
		return fmt.Errorf("unsupported body column type %T", src)
	}
}

type LandingPage struct {
	CourseID   string    `json:"courseId" db:"course_id"`
	LayoutName string    `json:"layoutName" db:"layout_name"`
	Body       Body      `json:"body" db:"body"`
	IsActive   bool      `json:"isActive" db:"is_active"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

type LandingPageUp struct {
	LayoutName string `json:"layoutName"`
	Body       Body   `json:"body"`
	IsActive   *bool  `json:"isActive"`
}
