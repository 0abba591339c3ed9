package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"misterhr/internal/domain"
)

func contentFixtures() (domain.ResumeProfile, domain.JobAnalysis) {
	profile := domain.ResumeProfile{
		PersonalInfo: domain.PersonalInfo{Name: "Dana Smith", Title: "backend engineer"},
		Experience: []domain.Experience{
			{Title: "Frontend Developer", Company: "Beta GmbH", Description: "Built React dashboards"},
			{Title: "Senior Backend Engineer", Company: "Acme Corp", Description: "Built Go services with PostgreSQL"},
		},
		Education: []domain.Education{{Degree: "BSc", Field: "Computer Science", Institution: "TU Berlin"}},
	}
	profile.Skills.Technical = []string{"React", "Go", "PostgreSQL"}

	analysis := domain.JobAnalysis{
		JobTitle:        "Backend Engineer",
		ExperienceLevel: domain.LevelSenior,
		RequiredSkills:  []string{"Go", "PostgreSQL"},
		YearsMin:        3,
		YearsMax:        6,
		CompanyName:     "Acme Corp",
	}
	return profile, analysis
}

func TestGenerateWithTemplates(t *testing.T) {
	profile, analysis := contentFixtures()
	g := NewContentGenerator(nil, time.Second, nil)

	content, err := g.Generate(context.Background(), profile, analysis, "")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if content.Tone != domain.ToneProfessional {
		t.Fatalf("Tone = %q, want default professional", content.Tone)
	}
	if content.Metadata.Method != MethodRules {
		t.Fatalf("Method = %q, want rules", content.Metadata.Method)
	}
	if content.TailoredResume == nil {
		t.Fatalf("expected a tailored resume")
	}

	// job-required skills come before the rest
	skills := content.TailoredResume.Skills
	if len(skills) != 3 || skills[0] != "Go" || skills[1] != "PostgreSQL" || skills[2] != "React" {
		t.Fatalf("Skills = %v", skills)
	}

	// the Go experience outranks the React one for this job
	if content.TailoredResume.Experience[0].Company != "Acme Corp" {
		t.Fatalf("first experience = %+v", content.TailoredResume.Experience[0])
	}

	if content.CoverLetter == "" || !strings.Contains(content.CoverLetter, "Dana Smith") {
		t.Fatalf("cover letter missing signature: %q", content.CoverLetter)
	}
	if !strings.Contains(content.CoverLetter, "Acme Corp") {
		t.Fatalf("cover letter missing company: %q", content.CoverLetter)
	}

	// go, postgresql, backend, engineer all occur in the output
	if content.KeywordUsage.Total != 4 || len(content.KeywordUsage.Missing) != 0 {
		t.Fatalf("KeywordUsage = %+v", content.KeywordUsage)
	}
	if content.KeywordUsage.Density != 1.0 {
		t.Fatalf("Density = %v, want 1.0", content.KeywordUsage.Density)
	}

	if content.ATSScore != 100 {
		t.Fatalf("ATSScore = %v, want 100", content.ATSScore)
	}
	if !content.Quality.HasSummary || !content.Quality.HasExperience || len(content.Quality.Sections) != 4 {
		t.Fatalf("Quality = %+v", content.Quality)
	}
}

func TestGenerateRejectsInvalidTone(t *testing.T) {
	profile, analysis := contentFixtures()
	g := NewContentGenerator(nil, time.Second, nil)

	if _, err := g.Generate(context.Background(), profile, analysis, "sarcastic"); !errors.Is(err, ErrInvalidTone) {
		t.Fatalf("err = %v, want ErrInvalidTone", err)
	}
}

func TestGenerateUsesLLMWhenAvailable(t *testing.T) {
	profile, analysis := contentFixtures()
	gen := stubGenerator{response: `{"summary": "Seasoned Go engineer.", "skills": ["Go"], "cover_letter": "Dear Hiring Manager, I build Go services."}`}
	g := NewContentGenerator(gen, time.Second, nil)

	content, err := g.Generate(context.Background(), profile, analysis, domain.ToneTechnical)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if content.Metadata.Method != MethodLLM {
		t.Fatalf("Method = %q, want llm", content.Metadata.Method)
	}
	if content.TailoredResume.Summary != "Seasoned Go engineer." {
		t.Fatalf("Summary = %q", content.TailoredResume.Summary)
	}
	// education always carries over from the parsed profile
	if len(content.TailoredResume.Education) != 1 {
		t.Fatalf("Education = %v", content.TailoredResume.Education)
	}
	if content.Tone != domain.ToneTechnical {
		t.Fatalf("Tone = %q", content.Tone)
	}
}

func TestGenerateFallsBackOnEmptyLLMContent(t *testing.T) {
	profile, analysis := contentFixtures()
	gen := stubGenerator{response: `{"summary": "", "cover_letter": ""}`}
	g := NewContentGenerator(gen, time.Second, nil)

	content, err := g.Generate(context.Background(), profile, analysis, domain.ToneConfident)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if content.Metadata.Method != MethodRules {
		t.Fatalf("Method = %q, want rules fallback", content.Metadata.Method)
	}
}

func TestGenerateFallsBackOnLLMError(t *testing.T) {
	profile, analysis := contentFixtures()
	gen := stubGenerator{err: errors.New("provider down")}
	g := NewContentGenerator(gen, time.Second, nil)

	content, err := g.Generate(context.Background(), profile, analysis, "")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if content.Metadata.Method != MethodRules {
		t.Fatalf("Method = %q, want rules fallback", content.Metadata.Method)
	}
}

func TestAnalyzeKeywordUsage(t *testing.T) {
	usage := analyzeKeywordUsage("Built Go services on Kubernetes", []string{"go", "kubernetes", "terraform", "aws"})
	if usage.Total != 4 {
		t.Fatalf("Total = %d", usage.Total)
	}
	if len(usage.Found) != 2 || len(usage.Missing) != 2 {
		t.Fatalf("Found = %v, Missing = %v", usage.Found, usage.Missing)
	}
	if usage.Density != 0.5 {
		t.Fatalf("Density = %v, want 0.5", usage.Density)
	}
}

func TestATSScore(t *testing.T) {
	full := &domain.TailoredResume{
		Summary:    "s",
		Experience: []domain.Experience{{Title: "x"}},
		Skills:     []string{"Go"},
	}

	if got := atsScore("plain text", full); got != 100 {
		t.Fatalf("full resume = %v, want 100", got)
	}
	if got := atsScore("plain text", nil); got != 80 {
		t.Fatalf("nil resume = %v, want 80", got)
	}
	if got := atsScore("plain text", &domain.TailoredResume{}); got != 70 {
		t.Fatalf("empty resume = %v, want 70", got)
	}
	// heavy glyph use bottoms out at 60 before section deductions
	if got := atsScore(strings.Repeat("•", 50), full); got != 60 {
		t.Fatalf("glyph-heavy = %v, want 60", got)
	}
}
