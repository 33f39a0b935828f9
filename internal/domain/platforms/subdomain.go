package platforms

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"creator-platform/internal/validation"
)

/*
	Subdomain / lifecycle helpers
	-----------------------------
	- Responsible ONLY for:
	  • deriving subdomain labels from display names
	  • building public URLs
	  • the draft -> active transition
	- No access logic here
*/

var (
	nonLabel  = regexp.MustCompile(`[^a-z0-9\-]+`)
	multiDash = regexp.MustCompile(`-+`)

	ErrAlreadyActive    = errors.New("platform is already active")
	ErrInvalidSubdomain = errors.New("invalid subdomain")
)

// MakeSubdomain derives a DNS-label-safe subdomain from a display name.
// Example: "Jane's Pottery Club" -> "janes-pottery-club"
func MakeSubdomain(name string) string {
	base := strings.ToLower(strings.TrimSpace(name))
	base = strings.ReplaceAll(base, " ", "-")
	base = nonLabel.ReplaceAllString(base, "")
	base = multiDash.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	if len(base) > 63 {
		base = strings.TrimRight(base[:63], "-")
	}
	if len(base) < 3 {
		base = "creator-" + base
		base = strings.Trim(base, "-")
	}
	return base
}

// SuffixedSubdomain makes base unique by appending the first characters
// of the platform ID.
// Example: "art-club" + "3f2a9c1e-..." -> "art-club-3f2a9c1e"
func SuffixedSubdomain(base, platformID string) string {
	suffix := strings.ReplaceAll(strings.ToLower(platformID), "-", "")
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	if suffix == "" {
		return base
	}
	if max := 63 - len(suffix) - 1; len(base) > max {
		base = strings.TrimRight(base[:max], "-")
	}
	return base + "-" + suffix
}

// NormalizeSubdomain lowercases and validates a caller supplied label.
func NormalizeSubdomain(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !validation.IsSubdomain(s) {
		return "", ErrInvalidSubdomain
	}
	return s, nil
}

// PublicURL builds the public site URL. A verified custom domain wins
// over the platform subdomain.
// Example: "janes-pottery" + "creators.example" -> "https://janes-pottery.creators.example"
func (p *Platform) PublicURL(baseDomain string) string {
	if p.CustomDomain != nil && strings.TrimSpace(*p.CustomDomain) != "" {
		return "https://" + strings.TrimSpace(*p.CustomDomain)
	}
	return "https://" + p.Subdomain + "." + baseDomain
}

// Deploy flips a draft platform to active.
func (p *Platform) Deploy(now time.Time) error {
	if p.Status == StatusActive {
		return ErrAlreadyActive
	}
	if !validation.IsSubdomain(p.Subdomain) {
		return ErrInvalidSubdomain
	}
	p.Status = StatusActive
	p.DeployedAt = &now
	return nil
}
