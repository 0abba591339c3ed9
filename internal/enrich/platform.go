package enrich

import "strings"

const (
	PlatformGitHub        = "github"
	PlatformLinkedIn      = "linkedin"
	PlatformStackOverflow = "stackoverflow"
	PlatformMedium        = "medium"
	PlatformDevTo         = "dev.to"
	PlatformPortfolio     = "portfolio"
)

// DetectPlatform classifies a profile URL; anything unrecognized is
// treated as a personal portfolio site.
func DetectPlatform(url string) string {
	u := strings.ToLower(url)
	switch {
	case strings.Contains(u, "github.com"):
		return PlatformGitHub
	case strings.Contains(u, "linkedin.com"):
		return PlatformLinkedIn
	case strings.Contains(u, "stackoverflow.com"):
		return PlatformStackOverflow
	case strings.Contains(u, "medium.com"):
		return PlatformMedium
	case strings.Contains(u, "dev.to"):
		return PlatformDevTo
	default:
		return PlatformPortfolio
	}
}

// NormalizeURL prepends https:// when the scheme is missing and rejects
// obviously invalid values.
func NormalizeURL(url string) string {
	u := strings.TrimSpace(url)
	if u == "" {
		return ""
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	if !strings.Contains(strings.TrimPrefix(strings.TrimPrefix(u, "https://"), "http://"), ".") {
		return ""
	}
	return u
}
