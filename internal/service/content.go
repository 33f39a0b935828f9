package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"creator-platform/internal/apperr"
	"creator-platform/internal/domain/content"
	"creator-platform/internal/domain/platforms"
	"creator-platform/internal/infra/retry"
)

type ContentInput struct {
	Title        string
	Description  string
	Type         content.Type
	AccessTierID *string
	ThumbnailURL string
}

// ContentUpdate carries the fields to change; nil means unchanged.
// ClearAccessTier makes the item ungated.
type ContentUpdate struct {
	Title           *string
	Description     *string
	Type            *content.Type
	AccessTierID    *string
	ClearAccessTier bool
	ThumbnailURL    *string
}

// ListAllContent returns every item, drafts included, for the owner.
func (s *Service) ListAllContent(ctx context.Context, actor, platformID string) ([]content.Item, error) {
	if _, err := s.ownedPlatform(ctx, "ListAllContent", actor, platformID); err != nil {
		return nil, err
	}
	return retry.Value(ctx, s.retry, "ListContent", func() ([]content.Item, error) {
		return s.store.ListContent(ctx, platformID)
	})
}

// CreateContent adds a draft item.
func (s *Service) CreateContent(ctx context.Context, actor, platformID string, in ContentInput) (*content.Item, error) {
	const op = "CreateContent"
	if _, err := s.ownedPlatform(ctx, op, actor, platformID); err != nil {
		return nil, err
	}
	if err := s.checkAccessTier(ctx, op, platformID, in.AccessTierID); err != nil {
		return nil, err
	}

	it := &content.Item{
		PlatformID:   platformID,
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		Type:         in.Type,
		AccessTierID: in.AccessTierID,
		Status:       content.StatusDraft,
		ThumbnailURL: strings.TrimSpace(in.ThumbnailURL),
		CreatedAt:    s.now(),
	}
	if err := it.Validate(); err != nil {
		return nil, apperr.Invalid(op, err)
	}
	if err := s.store.CreateContent(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *Service) UpdateContent(ctx context.Context, actor, id string, in ContentUpdate) (*content.Item, error) {
	const op = "UpdateContent"
	it, _, err := s.ownedContent(ctx, op, actor, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		it.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		it.Description = *in.Description
	}
	if in.Type != nil {
		it.Type = *in.Type
	}
	if in.ThumbnailURL != nil {
		it.ThumbnailURL = strings.TrimSpace(*in.ThumbnailURL)
	}
	switch {
	case in.ClearAccessTier:
		it.AccessTierID = nil
	case in.AccessTierID != nil:
		if err := s.checkAccessTier(ctx, op, it.PlatformID, in.AccessTierID); err != nil {
			return nil, err
		}
		it.AccessTierID = in.AccessTierID
	}

	return s.saveContent(ctx, op, it, it.IsPublished())
}

func (s *Service) PublishContent(ctx context.Context, actor, id string) (*content.Item, error) {
	const op = "PublishContent"
	it, _, err := s.ownedContent(ctx, op, actor, id)
	if err != nil {
		return nil, err
	}
	if err := it.Publish(s.now()); err != nil {
		return nil, apperr.Conflict(op, err.Error(), err)
	}
	return s.saveContent(ctx, op, it, true)
}

func (s *Service) UnpublishContent(ctx context.Context, actor, id string) (*content.Item, error) {
	const op = "UnpublishContent"
	it, _, err := s.ownedContent(ctx, op, actor, id)
	if err != nil {
		return nil, err
	}
	was := it.IsPublished()
	if err := it.Unpublish(); err != nil {
		return nil, apperr.Conflict(op, err.Error(), err)
	}
	return s.saveContent(ctx, op, it, was)
}

func (s *Service) ScheduleContent(ctx context.Context, actor, id string, at time.Time) (*content.Item, error) {
	const op = "ScheduleContent"
	it, _, err := s.ownedContent(ctx, op, actor, id)
	if err != nil {
		return nil, err
	}
	if err := it.Schedule(s.now(), at); err != nil {
		if errors.Is(err, content.ErrScheduleInPast) {
			return nil, apperr.Invalid(op, err)
		}
		return nil, apperr.Conflict(op, err.Error(), err)
	}
	return s.saveContent(ctx, op, it, false)
}

func (s *Service) DeleteContent(ctx context.Context, actor, id string) error {
	const op = "DeleteContent"
	it, _, err := s.ownedContent(ctx, op, actor, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteContent(ctx, it.ID); err != nil {
		return err
	}
	if it.IsPublished() {
		s.catalogChanged(ctx, it.PlatformID)
	}
	return nil
}

func (s *Service) ownedContent(ctx context.Context, op, actor, id string) (*content.Item, *platforms.Platform, error) {
	if actor == "" {
		return nil, nil, apperr.Unauthorized(op, "sign in required")
	}
	it, err := retry.Value(ctx, s.retry, "GetContent", func() (*content.Item, error) {
		return s.store.GetContent(ctx, id)
	})
	if err != nil {
		return nil, nil, err
	}
	p, err := s.ownedPlatform(ctx, op, actor, it.PlatformID)
	if err != nil {
		return nil, nil, err
	}
	return it, p, nil
}

// checkAccessTier rejects a gate on a tier of another platform.
func (s *Service) checkAccessTier(ctx context.Context, op, platformID string, tierID *string) error {
	if tierID == nil {
		return nil
	}
	ts, err := s.tiers(ctx, platformID)
	if err != nil {
		return err
	}
	if !containsTier(ts, *tierID) {
		return apperr.Conflict(op, "access tier does not belong to this platform", nil)
	}
	return nil
}

// saveContent writes it and, when the published catalog is affected,
// reconciles every viewer of the platform.
func (s *Service) saveContent(ctx context.Context, op string, it *content.Item, affectsCatalog bool) (*content.Item, error) {
	if err := it.Validate(); err != nil {
		return nil, apperr.Invalid(op, err)
	}
	if err := s.store.UpdateContent(ctx, it); err != nil {
		return nil, err
	}
	if affectsCatalog {
		s.catalogChanged(ctx, it.PlatformID)
	}
	return it, nil
}
