package service

import (
	"context"
	"errors"
	"strings"

	"creator-platform/internal/apperr"
	"creator-platform/internal/domain/platforms"
	"creator-platform/internal/domain/tiers"
	"creator-platform/internal/infra/retry"

	"go.uber.org/zap"
)

type PlatformInput struct {
	Name         string
	Subdomain    string
	Branding     platforms.Branding
	CustomDomain *string
}

// PlatformUpdate carries the fields to change; nil means unchanged.
type PlatformUpdate struct {
	Name         *string
	Subdomain    *string
	Branding     *platforms.Branding
	CustomDomain *string
}

// CreatePlatform creates a draft platform owned by actor together with
// the default tiers, in one transaction.
func (s *Service) CreatePlatform(ctx context.Context, actor string, in PlatformInput) (*platforms.Platform, []tiers.Tier, error) {
	const op = "CreatePlatform"
	if actor == "" {
		return nil, nil, apperr.Unauthorized(op, "sign in required")
	}

	sub := platforms.MakeSubdomain(in.Name)
	derived := true
	if strings.TrimSpace(in.Subdomain) != "" {
		n, err := platforms.NormalizeSubdomain(in.Subdomain)
		if err != nil {
			return nil, nil, apperr.Invalid(op, err)
		}
		sub = n
		derived = false
	}

	p := &platforms.Platform{
		OwnerID:      actor,
		Name:         strings.TrimSpace(in.Name),
		Branding:     in.Branding,
		Subdomain:    sub,
		CustomDomain: normalizeDomain(in.CustomDomain),
		Status:       platforms.StatusDraft,
	}
	p.EnsureID()

	seeded, err := s.store.CreatePlatform(ctx, p, tiers.DefaultTemplate(p.ID))
	if derived && apperr.Is(err, apperr.KindConflict) {
		// a caller who picked the subdomain gets the conflict; a derived
		// one is made unique with the platform ID
		p.Subdomain = platforms.SuffixedSubdomain(sub, p.ID)
		seeded, err = s.store.CreatePlatform(ctx, p, tiers.DefaultTemplate(p.ID))
	}
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("platform created",
		zap.String("platform_id", p.ID),
		zap.String("owner_id", actor),
		zap.String("subdomain", p.Subdomain),
	)
	return p, seeded, nil
}

func (s *Service) GetPlatform(ctx context.Context, id string) (*platforms.Platform, error) {
	return s.platform(ctx, id)
}

func (s *Service) ListOwnPlatforms(ctx context.Context, actor string) ([]platforms.Platform, error) {
	if actor == "" {
		return nil, apperr.Unauthorized("ListOwnPlatforms", "sign in required")
	}
	return retry.Value(ctx, s.retry, "ListPlatformsByOwner", func() ([]platforms.Platform, error) {
		return s.store.ListPlatformsByOwner(ctx, actor)
	})
}

func (s *Service) UpdatePlatform(ctx context.Context, actor, id string, in PlatformUpdate) (*platforms.Platform, error) {
	const op = "UpdatePlatform"
	p, err := s.ownedPlatform(ctx, op, actor, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Subdomain != nil {
		sub, err := platforms.NormalizeSubdomain(*in.Subdomain)
		if err != nil {
			return nil, apperr.Invalid(op, err)
		}
		p.Subdomain = sub
	}
	if in.Branding != nil {
		p.Branding = *in.Branding
	}
	if in.CustomDomain != nil {
		p.CustomDomain = normalizeDomain(in.CustomDomain)
	}

	if err := s.store.UpdatePlatform(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Deploy publishes a draft platform. Deployment is a status flip; the
// public URL is derived from the subdomain or custom domain.
func (s *Service) Deploy(ctx context.Context, actor, id string) (*platforms.Platform, string, error) {
	const op = "Deploy"
	p, err := s.ownedPlatform(ctx, op, actor, id)
	if err != nil {
		return nil, "", err
	}

	if err := p.Deploy(s.now()); err != nil {
		if errors.Is(err, platforms.ErrAlreadyActive) {
			return nil, "", apperr.Conflict(op, "platform is already deployed", err)
		}
		return nil, "", apperr.Invalid(op, err)
	}
	if err := s.store.UpdatePlatform(ctx, p); err != nil {
		return nil, "", err
	}

	url := p.PublicURL(s.baseDomain)
	s.log.Info("platform deployed", zap.String("platform_id", p.ID), zap.String("url", url))
	return p, url, nil
}

func (s *Service) PublicURL(p *platforms.Platform) string {
	return p.PublicURL(s.baseDomain)
}

func normalizeDomain(d *string) *string {
	if d == nil {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(*d))
	if v == "" {
		return nil
	}
	return &v
}
