package content

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrInvalidTransition = errors.New("invalid content status transition")
	ErrScheduleInPast    = errors.New("scheduled time must be in the future")
)

// Publish moves the item to published. PublishedAt is only stamped on the
// transition itself; re-publishing an already published item keeps the
// original timestamp.
func (i *Item) Publish(now time.Time) error {
	if i.Status == StatusPublished {
		return nil
	}
	i.Status = StatusPublished
	i.PublishedAt = &now
	i.ScheduledFor = nil
	return nil
}

// Unpublish moves the item back to draft.
func (i *Item) Unpublish() error {
	if i.Status == StatusDraft {
		return nil
	}
	i.Status = StatusDraft
	i.PublishedAt = nil
	i.ScheduledFor = nil
	return nil
}

// Schedule marks a draft for later publication.
func (i *Item) Schedule(now, at time.Time) error {
	if i.Status == StatusPublished {
		return ErrInvalidTransition
	}
	if !at.After(now) {
		return ErrScheduleInPast
	}
	i.Status = StatusScheduled
	i.ScheduledFor = &at
	return nil
}

// SortNewestFirst orders items by creation time, most recent first. Equal
// timestamps keep their incoming order.
func SortNewestFirst(items []Item) {
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].CreatedAt.After(items[b].CreatedAt)
	})
}
