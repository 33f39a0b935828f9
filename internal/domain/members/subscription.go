package members

import (
	"errors"
	"time"
)

var ErrOutOfOrder = errors.New("billing event is older than the last one applied")

// SubscriptionUpdate is what one billing event sets on a membership.
type SubscriptionUpdate struct {
	SubscriptionID string
	// nil = no paid tier
	TierID *string
	Status Status
	// when the billing provider created the event; zero when unknown
	At time.Time
}

// Accepts reports whether u may still be applied to m. Events older than
// the last applied one are refused so a late delivery cannot undo a newer
// state. Events without a time are always applied.
func (m *Member) Accepts(u SubscriptionUpdate) bool {
	if u.At.IsZero() || m.SubscriptionSyncedAt == nil {
		return true
	}
	return !u.At.Before(*m.SubscriptionSyncedAt)
}

// ApplySubscription sets the fields carried by u. The caller has checked
// Accepts and that the tier belongs to the member's platform.
func (m *Member) ApplySubscription(u SubscriptionUpdate, now time.Time) {
	sub := u.SubscriptionID
	m.SubscriptionID = &sub
	m.TierID = u.TierID
	m.Status = u.Status
	if !u.At.IsZero() {
		at := u.At
		m.SubscriptionSyncedAt = &at
	}
	m.LastActiveAt = now
}
