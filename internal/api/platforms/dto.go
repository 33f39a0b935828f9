package platforms

import (
	"creator-platform/internal/domain/platforms"
	"creator-platform/internal/domain/tiers"
)

// ---------- requests

type BrandingInput struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	LogoURL        string `json:"logo_url"`
}

type CreatePlatformRequest struct {
	Name         string         `json:"name" binding:"required"`
	Subdomain    string         `json:"subdomain"`
	Branding     *BrandingInput `json:"branding"`
	CustomDomain *string        `json:"custom_domain"`
}

type UpdatePlatformRequest struct {
	Name         *string        `json:"name"`
	Subdomain    *string        `json:"subdomain"`
	Branding     *BrandingInput `json:"branding"`
	CustomDomain *string        `json:"custom_domain"` // "" removes it
}

// ---------- responses

type PlatformResponse struct {
	platforms.Platform
	PublicURL string `json:"public_url"`
}

type CreatePlatformResponse struct {
	Platform PlatformResponse `json:"platform"`
	Tiers    []tiers.Tier     `json:"tiers"`
}

type DeployResponse struct {
	Platform PlatformResponse `json:"platform"`
	URL      string           `json:"url"`
}

func (b *BrandingInput) toDomain() platforms.Branding {
	if b == nil {
		return platforms.Branding{}
	}
	return platforms.Branding{
		PrimaryColor:   b.PrimaryColor,
		SecondaryColor: b.SecondaryColor,
		LogoURL:        b.LogoURL,
	}
}
