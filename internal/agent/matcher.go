package agent

import (
	"context"

	"misterhr/internal/domain"
	"misterhr/internal/domain/match"
)

// Matcher wraps the deterministic scoring engine with call metrics so it
// shows up in agent health alongside the LLM-backed agents.
type Matcher struct {
	metrics Metrics
}

func NewMatcher() *Matcher {
	return &Matcher{}
}

func (m *Matcher) Metrics() *Metrics { return &m.metrics }

func (m *Matcher) Match(ctx context.Context, profile domain.ResumeProfile, analysis domain.JobAnalysis) (domain.MatchResult, error) {
	if err := ctx.Err(); err != nil {
		m.metrics.Record(false, 0)
		return domain.MatchResult{}, err
	}

	var result domain.MatchResult
	_ = observe(&m.metrics, func() error {
		result = match.Calculate(profile, analysis)
		return nil
	})
	return result, nil
}
