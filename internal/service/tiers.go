package service

import (
	"context"
	"strings"

	"creator-platform/internal/apperr"
	"creator-platform/internal/domain/tiers"
	"creator-platform/internal/infra/retry"

	"go.uber.org/zap"
)

type TierInput struct {
	Name         string
	MonthlyPrice float64
	Benefits     []string
	IsPopular    bool
	IsPublic     *bool
}

// TierUpdate carries the fields to change; nil means unchanged.
type TierUpdate struct {
	Name         *string
	MonthlyPrice *float64
	Benefits     []string
	IsPopular    *bool
	IsPublic     *bool
}

type PriceSyncReport struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// ListTiers returns the platform's tiers by price. Hidden tiers are only
// listed for the owner.
func (s *Service) ListTiers(ctx context.Context, actor, platformID string) ([]tiers.Tier, error) {
	p, err := s.platform(ctx, platformID)
	if err != nil {
		return nil, err
	}
	ts, err := s.tiers(ctx, platformID)
	if err != nil {
		return nil, err
	}
	if p.IsOwner(actor) {
		return ts, nil
	}
	return tiers.Public(ts), nil
}

func (s *Service) CreateTier(ctx context.Context, actor, platformID string, in TierInput) (*tiers.Tier, error) {
	const op = "CreateTier"
	if _, err := s.ownedPlatform(ctx, op, actor, platformID); err != nil {
		return nil, err
	}

	t := &tiers.Tier{
		PlatformID:   platformID,
		Name:         strings.TrimSpace(in.Name),
		MonthlyPrice: in.MonthlyPrice,
		Benefits:     in.Benefits,
		IsPopular:    in.IsPopular,
		IsPublic:     in.IsPublic == nil || *in.IsPublic,
	}
	if err := t.Validate(); err != nil {
		return nil, apperr.Invalid(op, err)
	}

	existing, err := s.tiers(ctx, platformID)
	if err != nil {
		return nil, err
	}
	if err := tiers.CheckOrder(existing, *t); err != nil {
		return nil, apperr.Conflict(op, err.Error(), err)
	}

	if err := s.store.CreateTier(ctx, t); err != nil {
		return nil, err
	}
	s.catalogChanged(ctx, platformID)
	return t, nil
}

func (s *Service) UpdateTier(ctx context.Context, actor, tierID string, in TierUpdate) (*tiers.Tier, error) {
	const op = "UpdateTier"
	t, err := retry.Value(ctx, s.retry, "GetTier", func() (*tiers.Tier, error) {
		return s.store.GetTier(ctx, tierID)
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedPlatform(ctx, op, actor, t.PlatformID); err != nil {
		return nil, err
	}

	if in.Name != nil {
		t.Name = strings.TrimSpace(*in.Name)
	}
	if in.MonthlyPrice != nil {
		t.MonthlyPrice = *in.MonthlyPrice
	}
	if in.Benefits != nil {
		t.Benefits = in.Benefits
	}
	if in.IsPopular != nil {
		t.IsPopular = *in.IsPopular
	}
	if in.IsPublic != nil {
		t.IsPublic = *in.IsPublic
	}
	if err := t.Validate(); err != nil {
		return nil, apperr.Invalid(op, err)
	}

	existing, err := s.tiers(ctx, t.PlatformID)
	if err != nil {
		return nil, err
	}
	if err := tiers.CheckOrder(existing, *t); err != nil {
		return nil, apperr.Conflict(op, err.Error(), err)
	}

	if err := s.store.UpdateTier(ctx, t); err != nil {
		return nil, err
	}
	s.catalogChanged(ctx, t.PlatformID)
	return t, nil
}

// SeedDefaultTiers creates the default template on a platform that has
// no tiers yet. It is a no-op returning the existing tiers otherwise.
func (s *Service) SeedDefaultTiers(ctx context.Context, actor, platformID string) ([]tiers.Tier, bool, error) {
	if _, err := s.ownedPlatform(ctx, "SeedDefaultTiers", actor, platformID); err != nil {
		return nil, false, err
	}

	list, created, err := s.store.SeedTiers(ctx, platformID, tiers.DefaultTemplate(platformID))
	if err != nil {
		return nil, false, err
	}
	if created {
		s.catalogChanged(ctx, platformID)
	}
	return list, created, nil
}

// SyncStripePrices pulls the monthly price of every tier that has a
// matching active stripe price.
func (s *Service) SyncStripePrices(ctx context.Context, actor, platformID string) (*PriceSyncReport, error) {
	const op = "SyncStripePrices"
	if _, err := s.ownedPlatform(ctx, op, actor, platformID); err != nil {
		return nil, err
	}
	if s.prices == nil {
		return nil, apperr.Conflict(op, "billing is not configured", nil)
	}

	prices, err := s.prices.ActivePrices(ctx, platformID)
	if err != nil {
		return nil, apperr.Transient(op, err)
	}
	ts, err := s.tiers(ctx, platformID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]tiers.Tier, len(ts))
	for _, t := range ts {
		byID[t.ID] = t
	}

	report := &PriceSyncReport{}
	for _, tp := range prices {
		t, ok := byID[tp.TierID]
		if !ok {
			report.Skipped++
			continue
		}
		t.MonthlyPrice = tp.MonthlyPrice
		priceID := tp.PriceID
		t.StripePriceID = &priceID

		if err := tiers.CheckOrder(ts, t); err != nil {
			s.log.Warn("stripe price collides with another tier",
				zap.String("tier_id", t.ID),
				zap.String("price_id", tp.PriceID),
				zap.Error(err),
			)
			report.Skipped++
			continue
		}
		if err := s.store.UpdateTier(ctx, &t); err != nil {
			return nil, err
		}
		byID[t.ID] = t
		for i := range ts {
			if ts[i].ID == t.ID {
				ts[i] = t
			}
		}
		report.Updated++
	}

	if report.Updated > 0 {
		s.catalogChanged(ctx, platformID)
	}
	return report, nil
}
