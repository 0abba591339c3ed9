package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"misterhr/internal/domain"
)

const sampleJD = `Senior Backend Engineer
Acme Corp is hiring.

We are looking for a senior engineer with 5+ years of experience
building services in Go and Python with PostgreSQL and Docker.
Strong communication and leadership skills required. Bachelor degree
in computer science or equivalent experience.

Location: Berlin, Germany | Hybrid
`

func TestAnalyzeJobWithRules(t *testing.T) {
	analysis := analyzeJobWithRules(sampleJD)

	if analysis.JobTitle != "Senior Backend Engineer" {
		t.Fatalf("JobTitle = %q", analysis.JobTitle)
	}
	if analysis.ExperienceLevel != domain.LevelSenior {
		t.Fatalf("ExperienceLevel = %q, want senior", analysis.ExperienceLevel)
	}
	if analysis.YearsMin != 5 || analysis.YearsMax != 7 {
		t.Fatalf("years = (%d, %d), want (5, 7)", analysis.YearsMin, analysis.YearsMax)
	}

	skills := map[string]bool{}
	for _, s := range analysis.RequiredSkills {
		skills[s] = true
	}
	for _, want := range []string{"Go", "Python", "Postgresql", "Docker"} {
		if !skills[want] {
			t.Fatalf("required skills missing %q: %v", want, analysis.RequiredSkills)
		}
	}

	soft := map[string]bool{}
	for _, s := range analysis.PreferredSkills {
		soft[s] = true
	}
	if !soft["Communication"] || !soft["Leadership"] {
		t.Fatalf("preferred skills = %v", analysis.PreferredSkills)
	}

	if len(analysis.Education) == 0 {
		t.Fatalf("expected education keywords")
	}
	if analysis.Location != "Berlin, Germany" {
		t.Fatalf("Location = %q", analysis.Location)
	}
	if analysis.Remote {
		t.Fatalf("Remote = true, want false")
	}

	if analysis.Metadata.Method != MethodRules {
		t.Fatalf("Method = %q", analysis.Metadata.Method)
	}
	// title + skills + level + location
	if analysis.Metadata.Confidence != 1.0 {
		t.Fatalf("Confidence = %v, want 1.0", analysis.Metadata.Confidence)
	}
}

func TestRuleExperienceLevel(t *testing.T) {
	tests := []struct {
		name  string
		lower string
		want  string
	}{
		{"senior keywords", "looking for a senior architect to lead the platform", domain.LevelSenior},
		{"junior keywords", "entry level graduate role for fresh minds", domain.LevelJunior},
		{"tie breaks senior", "senior or entry, we will see", domain.LevelSenior},
		{"no keywords defaults mid", "we build software for logistics", domain.LevelMid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ruleExperienceLevel(tt.lower); got != tt.want {
				t.Fatalf("ruleExperienceLevel(%q) = %q, want %q", tt.lower, got, tt.want)
			}
		})
	}
}

func TestRuleYears(t *testing.T) {
	tests := []struct {
		lower   string
		wantMin int
		wantMax int
	}{
		{"at least 5+ years of experience with go", 5, 7},
		{"minimum 3 years in a similar role", 3, 5},
		{"no numbers anywhere here", 0, 0},
	}
	for _, tt := range tests {
		minYears, maxYears := ruleYears(tt.lower)
		if minYears != tt.wantMin || maxYears != tt.wantMax {
			t.Fatalf("ruleYears(%q) = (%d, %d), want (%d, %d)", tt.lower, minYears, maxYears, tt.wantMin, tt.wantMax)
		}
	}
}

func TestRuleLocation(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{"location prefix", "Great job.\nLocation: Amsterdam, Netherlands\nApply now.", "Amsterdam, Netherlands"},
		{"city state", "Our office is in Austin, TX and has snacks.", "Austin, TX"},
		{"remote fallback", "This role is fully remote within the EU.", "Remote"},
		{"hybrid fallback", "We work on a hybrid schedule.", "Hybrid"},
		{"nothing", "No address to be found.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ruleLocation(tt.description); got != tt.want {
				t.Fatalf("ruleLocation = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnalyzeRejectsShortDescription(t *testing.T) {
	a := NewJDAnalyzer(nil, time.Second, nil)
	if _, err := a.Analyze(context.Background(), "too short"); !errors.Is(err, ErrDescriptionTooShort) {
		t.Fatalf("err = %v, want ErrDescriptionTooShort", err)
	}
}

func TestAnalyzeUsesLLMWhenAvailable(t *testing.T) {
	gen := stubGenerator{response: `{"job_title": "Platform Engineer", "experience_level": "senior", "required_skills": ["Go"], "location": "Remote"}`}
	a := NewJDAnalyzer(gen, time.Second, nil)

	analysis, err := a.Analyze(context.Background(), sampleJD)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if analysis.Metadata.Method != MethodLLM {
		t.Fatalf("Method = %q, want llm", analysis.Metadata.Method)
	}
	if analysis.JobTitle != "Platform Engineer" {
		t.Fatalf("JobTitle = %q", analysis.JobTitle)
	}
	if analysis.Metadata.Confidence != 1.0 {
		t.Fatalf("Confidence = %v", analysis.Metadata.Confidence)
	}
}

func TestAnalyzeNormalizesUnknownLevel(t *testing.T) {
	gen := stubGenerator{response: `{"job_title": "Wizard", "experience_level": "wizard"}`}
	a := NewJDAnalyzer(gen, time.Second, nil)

	analysis, err := a.Analyze(context.Background(), sampleJD)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if analysis.ExperienceLevel != domain.LevelMid {
		t.Fatalf("ExperienceLevel = %q, want mid", analysis.ExperienceLevel)
	}
}

func TestAnalyzeFallsBackOnLLMError(t *testing.T) {
	gen := stubGenerator{err: errors.New("provider down")}
	a := NewJDAnalyzer(gen, time.Second, nil)

	analysis, err := a.Analyze(context.Background(), sampleJD)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if analysis.Metadata.Method != MethodRules {
		t.Fatalf("Method = %q, want rules fallback", analysis.Metadata.Method)
	}
}
