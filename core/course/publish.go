package course

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mentorx/platform/core/content"
	"github.com/mentorx/platform/core/landing"
	"github.com/mentorx/platform/core/module"
)

// PlaceholderTestimonial is the testimonial text seeded into every new
// sales page. A course whose page still carries it is not ready to sell.
const PlaceholderTestimonial = "Este curso mudou completamente minha carreira. Recomendo!"

const (
	ReasonNoContent   = "add at least one module with content before publishing"
	ReasonLanding     = "customize your sales page before publishing"
	ReasonUnavailable = "could not validate the course, try again"
)

// Decision is the outcome of the publication gate.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func reject(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// CanPublish decides whether a course may flip to published. It is a
// read-only predicate: the caller performs the actual state change.
// It never returns an error; anything unexpected collapses into a
// rejection so a transport hiccup can neither block the process with a
// failure nor slip through as an approval.
//
// A course with zero modules and a course whose modules are all empty
// share one rejection reason. The landing check searches the whole
// serialized page body for the seeded testimonial, not just the
// testimonial field, so the placeholder anywhere on the page blocks
// publication.
func CanPublish(ctx context.Context, db *sqlx.DB, courseID string) Decision {
	mods, err := module.FetchByCourse(ctx, db, courseID)
	if err != nil {
		return reject(ReasonUnavailable)
	}
	if len(mods) == 0 {
		return reject(ReasonNoContent)
	}

	hasContent := false
	for _, m := range mods {
		items, err := content.FetchByModule(ctx, db, m.ID)
		if err != nil {
			return reject(ReasonUnavailable)
		}
		if len(items) > 0 {
			hasContent = true
			break
		}
	}
	if !hasContent {
		return reject(ReasonNoContent)
	}

	lp, err := landing.Fetch(ctx, db, courseID)
	if err != nil {
		if errors.Is(err, landing.ErrNotFound) {
			return reject(ReasonLanding)
		}
		return reject(ReasonUnavailable)
	}

	serialized, err := json.Marshal(lp.Body)
	if err != nil {
		return reject(ReasonUnavailable)
	}
	if strings.Contains(string(serialized), PlaceholderTestimonial) {
		return reject(ReasonLanding)
	}

	return Decision{Allowed: true}
}
