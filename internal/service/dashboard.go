package service

import (
	"context"

	"creator-platform/internal/apperr"
	"creator-platform/internal/domain/access"
	"creator-platform/internal/domain/content"
	"creator-platform/internal/domain/members"
	"creator-platform/internal/domain/platforms"
	"creator-platform/internal/domain/tiers"
	"creator-platform/internal/infra/retry"

	"golang.org/x/sync/errgroup"
)

// Dashboard is the owner's overview. Sections are loaded independently;
// a failed section carries its own error and does not blank the others.
type Dashboard struct {
	Platform  *platforms.Platform `json:"platform"`
	PublicURL string              `json:"public_url"`

	Tiers      []tiers.Tier `json:"tiers"`
	TiersError string       `json:"tiers_error,omitempty"`

	Members      []members.Member `json:"members"`
	MembersError string           `json:"members_error,omitempty"`

	Content      []content.Item `json:"content"`
	ContentError string         `json:"content_error,omitempty"`

	Stats DashboardStats `json:"stats"`
}

// DashboardStats.MembersByTier counts active members per effective tier
// ID; "" is no paid tier. PaidMembers are the active members on a tier
// that costs something.
type DashboardStats struct {
	Members       int            `json:"members"`
	ActiveMembers int            `json:"active_members"`
	PaidMembers   int            `json:"paid_members"`
	MembersByTier map[string]int `json:"members_by_tier"`
	Published     int            `json:"published"`
	Drafts        int            `json:"drafts"`
	Scheduled     int            `json:"scheduled"`
}

func (s *Service) Dashboard(ctx context.Context, actor, platformID string) (*Dashboard, error) {
	p, err := s.ownedPlatform(ctx, "Dashboard", actor, platformID)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{Platform: p, PublicURL: p.PublicURL(s.baseDomain)}

	var g errgroup.Group
	g.Go(func() error {
		ts, err := s.tiers(ctx, platformID)
		if err != nil {
			d.TiersError = apperr.PublicMessage(err)
			return nil
		}
		d.Tiers = ts
		return nil
	})
	g.Go(func() error {
		ms, err := retry.Value(ctx, s.retry, "ListMembers", func() ([]members.Member, error) {
			return s.store.ListMembers(ctx, platformID)
		})
		if err != nil {
			d.MembersError = apperr.PublicMessage(err)
			return nil
		}
		d.Members = ms
		return nil
	})
	g.Go(func() error {
		items, err := retry.Value(ctx, s.retry, "ListContent", func() ([]content.Item, error) {
			return s.store.ListContent(ctx, platformID)
		})
		if err != nil {
			d.ContentError = apperr.PublicMessage(err)
			return nil
		}
		d.Content = items
		return nil
	})
	_ = g.Wait()

	d.Stats = stats(d.Tiers, d.Members, d.Content)
	return d, nil
}

func stats(ts []tiers.Tier, ms []members.Member, items []content.Item) DashboardStats {
	paid := make(map[string]bool, len(ts))
	for _, t := range ts {
		paid[t.ID] = !t.IsFree()
	}

	st := DashboardStats{Members: len(ms), MembersByTier: make(map[string]int)}
	for i := range ms {
		if !ms[i].IsActive() {
			continue
		}
		st.ActiveMembers++
		key := ""
		if t := access.EffectiveTier(&ms[i]); t != nil {
			key = *t
			if paid[key] {
				st.PaidMembers++
			}
		}
		st.MembersByTier[key]++
	}
	for _, it := range items {
		switch it.Status {
		case content.StatusPublished:
			st.Published++
		case content.StatusScheduled:
			st.Scheduled++
		default:
			st.Drafts++
		}
	}
	return st
}
