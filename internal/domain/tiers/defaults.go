package tiers

// Default template names (single source of truth)
const (
	NameFree    = "Free"
	NameBasic   = "Basic"
	NamePremium = "Premium"
)

// DefaultTemplate returns the tiers every new platform starts with.
// The returned slice is fresh on every call; IDs are left empty.
func DefaultTemplate(platformID string) []Tier {
	return []Tier{
		{
			PlatformID:   platformID,
			Name:         NameFree,
			MonthlyPrice: 0,
			Benefits:     []string{"Access to free content", "Community updates"},
			IsPublic:     true,
		},
		{
			PlatformID:   platformID,
			Name:         NameBasic,
			MonthlyPrice: 9.99,
			Benefits:     []string{"Access to basic content", "Monthly newsletter"},
			IsPublic:     true,
		},
		{
			PlatformID:   platformID,
			Name:         NamePremium,
			MonthlyPrice: 19.99,
			Benefits:     []string{"Access to premium content", "Early access", "Direct messages"},
			IsPublic:     true,
			IsPopular:    true,
		},
	}
}
