package enrich

import "misterhr/internal/domain"

// Credibility scores online presence 0-100: 30 points for reachable-URL
// ratio, up to 30 for GitHub (reachable plus skill evidence), 20 for
// LinkedIn, 20 for a portfolio site.
func Credibility(profiles []domain.VerifiedProfile, skillHints []string) float64 {
	if len(profiles) == 0 {
		return 0
	}

	reachable := 0
	byPlatform := map[string]bool{}
	for _, p := range profiles {
		if p.Reachable {
			reachable++
			byPlatform[p.Platform] = true
		}
	}

	score := float64(reachable) / float64(len(profiles)) * 30

	if byPlatform[PlatformGitHub] {
		score += 15
		if len(skillHints) > 0 {
			score += 15
		}
	}
	if byPlatform[PlatformLinkedIn] {
		score += 20
	}
	if byPlatform[PlatformPortfolio] {
		score += 20
	}

	if score > 100 {
		score = 100
	}
	return score
}
