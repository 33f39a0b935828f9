package stripe

import (
	"strings"

	"creator-platform/internal/domain/members"
)

// MemberStatus maps a stripe subscription status onto a membership status.
// Paying or trialing subscriptions are active, ones stripe is still trying
// to collect are pending, everything else is inactive.
func MemberStatus(s string) members.Status {
	switch strings.TrimSpace(s) {
	case "active", "trialing":
		return members.StatusActive
	case "past_due", "unpaid", "incomplete":
		return members.StatusPending
	default:
		return members.StatusInactive
	}
}
