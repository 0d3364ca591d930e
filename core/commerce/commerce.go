// Package commerce mirrors a course's monetization state into the
// payment provider's product and price objects, and owns the course
// mutations that trigger that mirroring.
package commerce

import (
	"github.com/sirupsen/logrus"
)

type Outcome string

const (
	// OutcomeSynced: product and price references are stored on the course.
	OutcomeSynced Outcome = "synced"

	// OutcomeSkipped: the mentor has no payment account; nothing to do.
	OutcomeSkipped Outcome = "skipped"

	// OutcomeFailed: an external call or the guarded ref write failed.
	// The triggering course mutation stands regardless.
	OutcomeFailed Outcome = "failed"
)

// Refs is the pair of external references stored on a course.
type Refs struct {
	ProductID string `json:"stripeProductId"`
	PriceID   string `json:"stripePriceId"`
}

// Result is the explicit outcome of one sync attempt, so callers can
// tell "skipped" from "failed" from "synced" instead of inferring it
// from log lines.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Refs    Refs    `json:"refs,omitempty"`
	Err     error   `json:"-"`
}

func synced(refs Refs) Result {
	return Result{Outcome: OutcomeSynced, Refs: refs}
}

func skipped() Result {
	return Result{Outcome: OutcomeSkipped}
}

func failed(err error) Result {
	return Result{Outcome: OutcomeFailed, Err: err}
}

// Log records a non-synced outcome. Implicit sync paths call it and
// move on; the course mutation that triggered them must never fail
// because the payment mirror did.
func (r Result) Log(log logrus.FieldLogger, courseID string) {
	switch r.Outcome {
	case OutcomeSkipped:
		log.WithField("course_id", courseID).Info("payment sync skipped: mentor has no payment account")
	case OutcomeFailed:
		log.WithField("course_id", courseID).Errorf("payment sync failed: %v", r.Err)
	}
}
