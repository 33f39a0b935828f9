package stripe

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"creator-platform/internal/domain/members"

	stripego "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

const (
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

var ErrIncompleteSubscription = errors.New("subscription missing id or platform/user metadata")

// SubscriptionChange is what a subscription webhook means for a membership.
type SubscriptionChange struct {
	SubscriptionID string
	PlatformID     string
	UserID         string
	// nil when the subscription was deleted or names no tier
	TierID *string
	Status members.Status
	// event creation time, used to refuse out-of-order deliveries
	At time.Time
}

// Update is the membership write the change asks for.
func (ch SubscriptionChange) Update() members.SubscriptionUpdate {
	return members.SubscriptionUpdate{
		SubscriptionID: ch.SubscriptionID,
		TierID:         ch.TierID,
		Status:         ch.Status,
		At:             ch.At,
	}
}

// ParseEvent checks the stripe signature and decodes the event.
func ParseEvent(payload []byte, signature, secret string) (stripego.Event, error) {
	return webhook.ConstructEventWithOptions(
		payload,
		signature,
		secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
}

// ChangeFromEvent decodes a subscription event. ok is false for event
// types that do not concern memberships.
func ChangeFromEvent(ev stripego.Event) (SubscriptionChange, bool, error) {
	typ := string(ev.Type)
	if typ != EventSubscriptionUpdated && typ != EventSubscriptionDeleted {
		return SubscriptionChange{}, false, nil
	}
	if ev.Data == nil {
		return SubscriptionChange{}, true, ErrIncompleteSubscription
	}

	var sub stripego.Subscription
	if err := json.Unmarshal(ev.Data.Raw, &sub); err != nil {
		return SubscriptionChange{}, true, fmt.Errorf("decode subscription: %w", err)
	}
	ch, err := FromSubscription(&sub, typ == EventSubscriptionDeleted)
	if err == nil && ev.Created > 0 {
		ch.At = time.Unix(ev.Created, 0).UTC()
	}
	return ch, true, err
}

// FromSubscription maps a subscription to a membership change. The
// platform and user come from the subscription metadata; the tier from
// the first item's price metadata.
func FromSubscription(sub *stripego.Subscription, deleted bool) (SubscriptionChange, error) {
	if sub == nil || sub.ID == "" {
		return SubscriptionChange{}, ErrIncompleteSubscription
	}
	platformID := strings.TrimSpace(sub.Metadata["platform_id"])
	userID := strings.TrimSpace(sub.Metadata["user_id"])
	if platformID == "" || userID == "" {
		return SubscriptionChange{}, ErrIncompleteSubscription
	}

	ch := SubscriptionChange{
		SubscriptionID: sub.ID,
		PlatformID:     platformID,
		UserID:         userID,
		Status:         MemberStatus(string(sub.Status)),
	}
	if deleted {
		ch.Status = members.StatusInactive
		return ch, nil
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		if tierID := strings.TrimSpace(sub.Items.Data[0].Price.Metadata["tier_id"]); tierID != "" {
			ch.TierID = &tierID
		}
	}
	return ch, nil
}
