package agent

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"misterhr/internal/domain"

	"github.com/google/uuid"
)

type stubVerifier struct {
	result domain.EnrichmentResult
}

func (s stubVerifier) VerifyAll(_ context.Context, _ []string) domain.EnrichmentResult {
	return s.result
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (r *recordingNotifier) Progress(e ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingNotifier) find(step, status string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Step == step && e.Status == status {
			return true
		}
	}
	return false
}

func newTestOrchestrator(notifier ProgressNotifier, verifier Verifier) *Orchestrator {
	return NewOrchestrator(
		NewResumeParser(nil, time.Second, nil),
		NewJDAnalyzer(nil, time.Second, nil),
		NewMatcher(),
		NewContentGenerator(nil, time.Second, nil),
		NewEnricher(verifier),
		notifier,
		0,
		nil,
	)
}

func TestJobApplicationWorkflow(t *testing.T) {
	notifier := &recordingNotifier{}
	o := newTestOrchestrator(notifier, stubVerifier{})

	result, err := o.JobApplication(context.Background(), sampleResume, sampleJD, "")
	if err != nil {
		t.Fatalf("JobApplication error: %v", err)
	}

	if result.Profile.PersonalInfo.Name != "Dana Smith" {
		t.Fatalf("Profile.Name = %q", result.Profile.PersonalInfo.Name)
	}
	if result.Analysis.JobTitle == "" {
		t.Fatalf("expected a job title from analysis")
	}
	if result.Match.OverallScore <= 0 || result.Match.Category == "" {
		t.Fatalf("Match = %+v", result.Match)
	}
	if result.Content == nil {
		t.Fatalf("expected generated content")
	}

	for _, step := range []string{"parse_and_analyze", "match", "generate"} {
		if !notifier.find(step, StepCompleted) {
			t.Fatalf("missing completed event for step %q", step)
		}
	}
}

func TestJobApplicationGenerationFailureIsNonFatal(t *testing.T) {
	notifier := &recordingNotifier{}
	o := newTestOrchestrator(notifier, stubVerifier{})

	result, err := o.JobApplication(context.Background(), sampleResume, sampleJD, "sarcastic")
	if err != nil {
		t.Fatalf("JobApplication error: %v", err)
	}
	if result.Content != nil {
		t.Fatalf("expected no content when generation fails")
	}
	if result.Match.OverallScore <= 0 {
		t.Fatalf("match should still be produced: %+v", result.Match)
	}
	if !notifier.find("generate", StepFailed) {
		t.Fatalf("expected a failed generate event")
	}
}

func TestJobApplicationParseErrorIsWrapped(t *testing.T) {
	o := newTestOrchestrator(nil, stubVerifier{})

	_, err := o.JobApplication(context.Background(), "", sampleJD, "")
	if !errors.Is(err, ErrEmptyResume) {
		t.Fatalf("err = %v, want ErrEmptyResume", err)
	}
}

func TestResumeProcessingMergesEnrichment(t *testing.T) {
	verifier := stubVerifier{result: domain.EnrichmentResult{
		Profiles: []domain.VerifiedProfile{
			{URL: "https://github.com/danasmith", Platform: "github", Reachable: true},
		},
		Credibility: 45,
		SkillHints:  []string{"Terraform", "Go"},
	}}
	o := newTestOrchestrator(nil, verifier)

	profile, enrichment, err := o.ResumeProcessing(context.Background(), sampleResume)
	if err != nil {
		t.Fatalf("ResumeProcessing error: %v", err)
	}
	if enrichment == nil || enrichment.Credibility != 45 {
		t.Fatalf("enrichment = %+v", enrichment)
	}

	found := false
	goCount := 0
	for _, s := range profile.Skills.Technical {
		if s == "Terraform" {
			found = true
		}
		if s == "Go" {
			goCount++
		}
	}
	if !found {
		t.Fatalf("skill hint not merged: %v", profile.Skills.Technical)
	}
	if goCount != 1 {
		t.Fatalf("Go duplicated by merge: %v", profile.Skills.Technical)
	}
}

func TestResumeProcessingWithoutOnlinePresence(t *testing.T) {
	o := newTestOrchestrator(nil, stubVerifier{})

	text := "Alex Doe\nalex@example.com\n\nSkills\n\nGo, Docker\n"
	profile, enrichment, err := o.ResumeProcessing(context.Background(), text)
	if err != nil {
		t.Fatalf("ResumeProcessing error: %v", err)
	}
	if enrichment != nil {
		t.Fatalf("expected no enrichment, got %+v", enrichment)
	}
	if profile.PersonalInfo.Email != "alex@example.com" {
		t.Fatalf("profile = %+v", profile.PersonalInfo)
	}
}

func TestBatchMatchingRanksOutcomes(t *testing.T) {
	o := newTestOrchestrator(&recordingNotifier{}, stubVerifier{})

	strong := domain.ResumeProfile{
		PersonalInfo: domain.PersonalInfo{Title: "Senior Backend Engineer"},
		Experience: []domain.Experience{
			{Title: "Senior Engineer", StartDate: "2018"},
			{Title: "Engineer", StartDate: "2015"},
			{Title: "Engineer", StartDate: "2012"},
			{Title: "Junior Engineer", StartDate: "2010"},
		},
	}
	strong.Skills.Technical = []string{"Go", "Python", "PostgreSQL", "Docker"}

	mid := domain.ResumeProfile{
		PersonalInfo: domain.PersonalInfo{Title: "Engineer"},
		Experience:   []domain.Experience{{Title: "Engineer", StartDate: "2021"}},
	}
	mid.Skills.Technical = []string{"Go"}

	weak := domain.ResumeProfile{}

	candidates := []BatchCandidate{
		{ResumeID: uuid.New(), Profile: weak},
		{ResumeID: uuid.New(), Profile: strong},
		{ResumeID: uuid.New(), Profile: mid},
		{ResumeID: uuid.New(), Profile: weak},
	}

	result, err := o.BatchMatching(context.Background(), sampleJD, candidates)
	if err != nil {
		t.Fatalf("BatchMatching error: %v", err)
	}
	if len(result.Outcomes) != 4 {
		t.Fatalf("Outcomes = %d, want 4", len(result.Outcomes))
	}

	last := 101.0
	for i, out := range result.Outcomes {
		if out.Match == nil {
			t.Fatalf("outcome %d has no match: %+v", i, out)
		}
		if out.Match.OverallScore > last {
			t.Fatalf("outcomes not ranked: %v then %v", last, out.Match.OverallScore)
		}
		last = out.Match.OverallScore
	}
	if result.Outcomes[0].ResumeID != candidates[1].ResumeID {
		t.Fatalf("strongest candidate not ranked first")
	}

	summary := result.Summary
	if len(summary.Ranked) != 4 {
		t.Fatalf("Ranked = %d, want 4", len(summary.Ranked))
	}
	if summary.TopScore != summary.Ranked[0].Score {
		t.Fatalf("TopScore = %v, Ranked[0] = %v", summary.TopScore, summary.Ranked[0].Score)
	}

	n := 0
	for _, c := range summary.Distribution {
		n += c
	}
	if n != 4 {
		t.Fatalf("distribution counts %d entries, want 4", n)
	}
}

func TestSummarizeBatchSkipsFailures(t *testing.T) {
	id1, id2 := uuid.New(), uuid.New()
	outcomes := []BatchOutcome{
		{ResumeID: id1, Match: &domain.MatchResult{OverallScore: 80, Category: domain.MatchStrong}},
		{ResumeID: id2, Err: errors.New("boom")},
	}

	summary := SummarizeBatch(outcomes)
	if len(summary.Ranked) != 1 || summary.Ranked[0].ResumeID != id1 {
		t.Fatalf("Ranked = %+v", summary.Ranked)
	}
	if summary.TopScore != 80 || summary.AvgScore != 80 {
		t.Fatalf("TopScore = %v, AvgScore = %v", summary.TopScore, summary.AvgScore)
	}
	if summary.Distribution[domain.MatchStrong] != 1 {
		t.Fatalf("Distribution = %v", summary.Distribution)
	}
}

func TestAgentHealthReporting(t *testing.T) {
	o := newTestOrchestrator(nil, stubVerifier{})

	if _, err := o.JobApplication(context.Background(), sampleResume, sampleJD, ""); err != nil {
		t.Fatalf("JobApplication error: %v", err)
	}

	health := o.AgentHealth()
	for _, name := range []string{"resume_parser", "jd_analyzer", "matcher", "content_generator", "enricher"} {
		h, ok := health[name]
		if !ok {
			t.Fatalf("missing health for %q", name)
		}
		if h.Status != StatusHealthy {
			t.Fatalf("%s status = %q: %+v", name, h.Status, h)
		}
	}

	metrics := o.AgentMetrics()
	if metrics["resume_parser"].TotalCalls != 1 {
		t.Fatalf("resume_parser calls = %d, want 1", metrics["resume_parser"].TotalCalls)
	}
	if metrics["enricher"].TotalCalls != 0 {
		t.Fatalf("enricher calls = %d, want 0", metrics["enricher"].TotalCalls)
	}
}
