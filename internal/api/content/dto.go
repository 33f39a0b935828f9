package content

import (
	"time"

	"creator-platform/internal/domain/access"
	"creator-platform/internal/domain/content"
	"creator-platform/internal/service"
)

// ---------- requests

type CreateContentRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description"`
	Type         string  `json:"content_type" binding:"required,oneof=article video image audio"`
	AccessTierID *string `json:"access_tier"`
	ThumbnailURL string  `json:"thumbnail_url"`
}

type UpdateContentRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Type         *string `json:"content_type" binding:"omitempty,oneof=article video image audio"`
	AccessTierID *string `json:"access_tier"`
	// makes the item visible to everyone
	ClearAccessTier bool    `json:"clear_access_tier"`
	ThumbnailURL    *string `json:"thumbnail_url"`
}

type ScheduleRequest struct {
	At time.Time `json:"scheduled_for" binding:"required"`
}

// ---------- responses

// Teaser is a locked item as shown to a viewer who cannot open it.
type Teaser struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Type         content.Type `json:"content_type"`
	ThumbnailURL string       `json:"thumbnail_url,omitempty"`
	RequiredTier *TierRef     `json:"required_tier,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

type TierRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type ViewResponse struct {
	Viewer         access.Viewer  `json:"viewer"`
	Visible        []content.Item `json:"visible"`
	Locked         []Teaser       `json:"locked"`
	AnomaliesCount int            `json:"anomalies_count"`
}

func toTeaser(it content.Item, tierNames map[string]string) Teaser {
	t := Teaser{
		ID:           it.ID,
		Title:        it.Title,
		Type:         it.Type,
		ThumbnailURL: it.ThumbnailURL,
		CreatedAt:    it.CreatedAt,
	}
	if it.AccessTierID != nil {
		// a foreign tier has no name; the ID alone is still rendered
		t.RequiredTier = &TierRef{ID: *it.AccessTierID, Name: tierNames[*it.AccessTierID]}
	}
	return t
}

// NewViewResponse renders a classified view; locked items become teasers.
func NewViewResponse(view *service.ContentView) ViewResponse {
	p := view.Partition
	out := ViewResponse{
		Viewer:         view.Viewer,
		Visible:        p.Visible,
		Locked:         make([]Teaser, 0, len(p.Locked)),
		AnomaliesCount: len(p.Anomalies),
	}
	if out.Visible == nil {
		out.Visible = []content.Item{}
	}
	for _, it := range p.Locked {
		out.Locked = append(out.Locked, toTeaser(it, view.TierNames))
	}
	return out
}
