package service

import (
	"context"

	"creator-platform/internal/apperr"
	"creator-platform/internal/domain/access"
	"creator-platform/internal/domain/members"
	"creator-platform/internal/domain/platforms"
	"creator-platform/internal/domain/tiers"
	"creator-platform/internal/infra/metrics"
	"creator-platform/internal/infra/retry"
	"creator-platform/internal/infra/stripe"
)

// MembershipView is the caller's standing on one platform.
type MembershipView struct {
	Authenticated bool            `json:"authenticated"`
	IsOwner       bool            `json:"is_owner"`
	Member        *members.Member `json:"member,omitempty"`
	EffectiveTier *tiers.Tier     `json:"effective_tier,omitempty"`
}

func (s *Service) Me(ctx context.Context, actor, platformID string) (*MembershipView, error) {
	p, err := s.platform(ctx, platformID)
	if err != nil {
		return nil, err
	}
	view := &MembershipView{Authenticated: actor != "", IsOwner: p.IsOwner(actor)}

	m, err := s.membership(ctx, p, actor)
	if err != nil || m == nil {
		return view, err
	}
	view.Member = m

	if id := access.EffectiveTier(m); id != nil {
		t, err := retry.Value(ctx, s.retry, "GetTier", func() (*tiers.Tier, error) {
			return s.store.GetTier(ctx, *id)
		})
		if err != nil {
			return nil, err
		}
		view.EffectiveTier = t
	}
	return view, nil
}

// JoinPlatform makes actor a member without a paid tier. Joining twice
// returns the existing membership and created=false.
func (s *Service) JoinPlatform(ctx context.Context, actor, platformID string) (*members.Member, bool, error) {
	if actor == "" {
		return nil, false, apperr.Unauthorized("JoinPlatform", "sign in required")
	}
	p, err := s.platform(ctx, platformID)
	if err != nil {
		return nil, false, err
	}
	if p.IsOwner(actor) {
		return nil, false, apperr.Conflict("JoinPlatform", "the owner cannot join their own platform", nil)
	}

	m := members.New(p.ID, actor, s.now())
	err = s.store.CreateMember(ctx, m)
	if apperr.Is(err, apperr.KindConflict) {
		existing, gerr := s.store.GetMember(ctx, p.ID, actor)
		if gerr != nil {
			return nil, false, gerr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}

func (s *Service) ListMembers(ctx context.Context, actor, platformID string) ([]members.Member, error) {
	if _, err := s.ownedPlatform(ctx, "ListMembers", actor, platformID); err != nil {
		return nil, err
	}
	return retry.Value(ctx, s.retry, "ListMembers", func() ([]members.Member, error) {
		return s.store.ListMembers(ctx, platformID)
	})
}

// ChangeMemberTier moves a member to tierID (nil = no paid tier). The
// owner may set any tier of the platform; a member may change their own.
func (s *Service) ChangeMemberTier(ctx context.Context, actor, memberID string, tierID *string) (*TierChangeResult, error) {
	return s.changeTier(ctx, "ChangeMemberTier", actor, memberID, tierID, "")
}

// CancelMembership drops the member's paid tier.
func (s *Service) CancelMembership(ctx context.Context, actor, memberID string) (*TierChangeResult, error) {
	return s.changeTier(ctx, "CancelMembership", actor, memberID, nil, access.ReasonCancellation)
}

func (s *Service) changeTier(
	ctx context.Context,
	op, actor, memberID string,
	tierID *string,
	reason access.ChangeReason,
) (*TierChangeResult, error) {
	if actor == "" {
		return nil, apperr.Unauthorized(op, "sign in required")
	}
	release, ok := s.inflight.Acquire("member:" + memberID)
	if !ok {
		metrics.InFlightRejections.Inc()
		return nil, apperr.Conflict(op, ErrBusy.Error(), ErrBusy)
	}
	defer release()

	m, err := s.memberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	p, err := s.platform(ctx, m.PlatformID)
	if err != nil {
		return nil, err
	}

	byOwner := p.IsOwner(actor)
	if !byOwner && actor != m.UserID {
		return nil, apperr.Unauthorized(op, "you cannot change this membership")
	}

	ts, err := s.tiers(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if tierID != nil && !containsTier(ts, *tierID) {
		return nil, apperr.Conflict(op, "tier does not belong to this platform", nil)
	}

	if reason == "" {
		reason = access.ReasonFor(byOwner, m.TierID, tierID, tierPrices(ts))
	}

	prior := s.snapshot(ctx, p, m)

	updated, err := s.store.UpdateMemberTier(ctx, m.ID, tierID)
	if err != nil {
		return nil, err
	}
	return s.reconcile(ctx, p, m, updated, reason, prior), nil
}

// SetMemberStatus is an owner edit of the membership status. Only active
// members exercise their tier, so a status change is reconciled like a
// tier change.
func (s *Service) SetMemberStatus(ctx context.Context, actor, memberID string, status members.Status) (*TierChangeResult, error) {
	const op = "SetMemberStatus"
	if actor == "" {
		return nil, apperr.Unauthorized(op, "sign in required")
	}
	release, ok := s.inflight.Acquire("member:" + memberID)
	if !ok {
		metrics.InFlightRejections.Inc()
		return nil, apperr.Conflict(op, ErrBusy.Error(), ErrBusy)
	}
	defer release()

	m, err := s.memberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	p, err := s.platform(ctx, m.PlatformID)
	if err != nil {
		return nil, err
	}
	if !p.IsOwner(actor) {
		return nil, apperr.Unauthorized(op, "only the platform owner can do this")
	}

	prior := s.snapshot(ctx, p, m)

	updated, err := s.store.UpdateMemberStatus(ctx, m.ID, status)
	if err != nil {
		return nil, err
	}
	return s.reconcile(ctx, p, m, updated, access.ReasonStatusChange, prior), nil
}

// ApplySubscription applies a billing subscription change to the
// membership it names, creating the membership if needed. A change older
// than the last one applied is refused with a Conflict wrapping
// members.ErrOutOfOrder.
func (s *Service) ApplySubscription(ctx context.Context, ch stripe.SubscriptionChange) (*TierChangeResult, error) {
	const op = "ApplySubscription"

	p, err := s.platform(ctx, ch.PlatformID)
	if err != nil {
		return nil, err
	}
	ts, err := s.tiers(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if ch.TierID != nil && !containsTier(ts, *ch.TierID) {
		return nil, apperr.Conflict(op, "tier does not belong to this platform", nil)
	}

	found, err := s.subscriber(ctx, op, p, ch)
	if err != nil {
		return nil, err
	}

	release, ok := s.inflight.Acquire("member:" + found.ID)
	if !ok {
		metrics.InFlightRejections.Inc()
		return nil, apperr.Conflict(op, ErrBusy.Error(), ErrBusy)
	}
	defer release()

	// read again under the key; the lookup may predate another write
	m, err := s.memberByID(ctx, found.ID)
	if err != nil {
		return nil, err
	}
	prior := s.snapshot(ctx, p, m)

	updated, applied, err := s.store.ApplySubscription(ctx, m.ID, ch.Update())
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, apperr.Conflict(op, members.ErrOutOfOrder.Error(), members.ErrOutOfOrder)
	}

	var reason access.ChangeReason
	switch {
	case ch.Status == members.StatusInactive:
		reason = access.ReasonCancellation
	case members.SameTier(m.TierID, updated.TierID):
		reason = access.ReasonStatusChange
	default:
		reason = access.ReasonFor(false, m.TierID, updated.TierID, tierPrices(ts))
	}
	return s.reconcile(ctx, p, m, updated, reason, prior), nil
}

// subscriber finds the member a subscription change is for: the member
// already linked to the subscription, else the user's membership on p,
// else a new membership.
func (s *Service) subscriber(ctx context.Context, op string, p *platforms.Platform, ch stripe.SubscriptionChange) (*members.Member, error) {
	m, err := retry.Value(ctx, s.retry, "GetMemberBySubscription", func() (*members.Member, error) {
		return s.store.GetMemberBySubscription(ctx, ch.SubscriptionID)
	})
	switch {
	case err == nil:
		if m.PlatformID != p.ID {
			return nil, apperr.Conflict(op, "subscription is linked to another platform", nil)
		}
		return m, nil
	case !apperr.Is(err, apperr.KindNotFound):
		return nil, err
	}

	m, err = s.membership(ctx, p, ch.UserID)
	if err != nil || m != nil {
		return m, err
	}
	if p.IsOwner(ch.UserID) {
		return nil, apperr.Conflict(op, "the owner cannot subscribe to their own platform", nil)
	}

	m = members.New(p.ID, ch.UserID, s.now())
	err = s.store.CreateMember(ctx, m)
	if apperr.Is(err, apperr.KindConflict) {
		// joined between the read and the insert
		return s.store.GetMember(ctx, p.ID, ch.UserID)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) memberByID(ctx context.Context, id string) (*members.Member, error) {
	return retry.Value(ctx, s.retry, "GetMemberByID", func() (*members.Member, error) {
		return s.store.GetMemberByID(ctx, id)
	})
}

func containsTier(ts []tiers.Tier, id string) bool {
	for _, t := range ts {
		if t.ID == id {
			return true
		}
	}
	return false
}

func tierPrices(ts []tiers.Tier) map[string]float64 {
	out := make(map[string]float64, len(ts))
	for _, t := range ts {
		out[t.ID] = t.MonthlyPrice
	}
	return out
}
