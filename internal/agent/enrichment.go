package agent

import (
	"context"
	"errors"
	"strings"

	"misterhr/internal/domain"
)

var (
	ErrNoOnlinePresence   = errors.New("no online presence to verify")
	ErrEnrichmentDisabled = errors.New("enrichment disabled")
)

// Verifier is implemented by internal/enrich.Verifier.
type Verifier interface {
	VerifyAll(ctx context.Context, urls []string) domain.EnrichmentResult
}

// Enricher verifies a candidate's online presence and scores its
// credibility.
type Enricher struct {
	verifier Verifier
	metrics  Metrics
}

func NewEnricher(verifier Verifier) *Enricher {
	return &Enricher{verifier: verifier}
}

func (e *Enricher) Metrics() *Metrics { return &e.metrics }

func (e *Enricher) Enrich(ctx context.Context, profile domain.ResumeProfile) (domain.EnrichmentResult, error) {
	var result domain.EnrichmentResult
	err := observe(&e.metrics, func() error {
		if e.verifier == nil {
			return ErrEnrichmentDisabled
		}
		urls := profile.OnlinePresence.URLs()
		if len(urls) == 0 {
			return ErrNoOnlinePresence
		}
		result = e.verifier.VerifyAll(ctx, urls)
		return ctx.Err()
	})
	return result, err
}

// MergeEnrichment folds verified skill hints into the profile without
// duplicating skills the parser already found.
func MergeEnrichment(profile domain.ResumeProfile, result domain.EnrichmentResult) domain.ResumeProfile {
	have := map[string]bool{}
	for _, s := range profile.Skills.Technical {
		have[strings.ToLower(s)] = true
	}
	for _, hint := range result.SkillHints {
		if !have[strings.ToLower(hint)] {
			have[strings.ToLower(hint)] = true
			profile.Skills.Technical = append(profile.Skills.Technical, hint)
		}
	}
	return profile
}
