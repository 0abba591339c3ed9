package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"misterhr/internal/ai"
	"misterhr/internal/domain"

	"go.uber.org/zap"
)

var ErrInvalidTone = errors.New("invalid tone")

const contentGenPrompt = `Write tailored application material for this candidate and job.

CANDIDATE PROFILE (JSON):
%s

JOB REQUIREMENTS (JSON):
%s

TONE: %s

Return ONLY a JSON object with exactly this shape:

{
  "summary": "tailored professional summary, 3-4 sentences",
  "experience": [{"title": "", "company": "", "start_date": "", "end_date": "", "description": "", "achievements": []}],
  "skills": ["relevance-ordered skills, job-required first"],
  "cover_letter": "complete cover letter, 3 paragraphs"
}

Reorder and rephrase the candidate's real experience toward the job.
Incorporate the job's key terms naturally. Use standard section wording
and plain text only so applicant tracking systems parse it cleanly. Do
not invent employers, dates, or credentials.`

// toneKeywords season the template fallback output.
var toneKeywords = map[string][]string{
	domain.ToneProfessional: {"achieved", "implemented", "developed", "managed"},
	domain.ToneConfident:    {"successfully", "expertly", "proficiently"},
	domain.ToneTechnical:    {"optimized", "architected", "engineered", "scaled"},
}

// ContentGenerator produces a tailored resume and cover letter for one
// (resume, job) pair.
type ContentGenerator struct {
	gen     ai.Generator
	timeout time.Duration
	metrics Metrics
	logger  *zap.Logger
}

func NewContentGenerator(gen ai.Generator, timeout time.Duration, logger *zap.Logger) *ContentGenerator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ContentGenerator{gen: gen, timeout: timeout, logger: logger}
}

func (g *ContentGenerator) Metrics() *Metrics { return &g.metrics }

func (g *ContentGenerator) Generate(ctx context.Context, profile domain.ResumeProfile, analysis domain.JobAnalysis, tone string) (domain.GeneratedContent, error) {
	var content domain.GeneratedContent
	err := observe(&g.metrics, func() error {
		var err error
		content, err = g.generate(ctx, profile, analysis, tone)
		return err
	})
	return content, err
}

func (g *ContentGenerator) generate(ctx context.Context, profile domain.ResumeProfile, analysis domain.JobAnalysis, tone string) (domain.GeneratedContent, error) {
	if tone == "" {
		tone = domain.ToneProfessional
	}
	if !domain.ValidTone(tone) {
		return domain.GeneratedContent{}, fmt.Errorf("%w: %s", ErrInvalidTone, tone)
	}

	var (
		content domain.GeneratedContent
		method  = MethodRules
	)

	if g.gen != nil {
		llmContent, err := g.generateWithLLM(ctx, profile, analysis, tone)
		if err == nil {
			content = llmContent
			method = MethodLLM
		} else if g.logger != nil {
			g.logger.Warn("llm content generation failed, falling back to templates", zap.Error(err))
		}
	}
	if method == MethodRules {
		content = generateWithTemplates(profile, analysis, tone)
	}

	content.Tone = tone
	content.Metadata = domain.ContentMetadata{Method: method, GeneratedAt: time.Now().UTC()}

	text := contentText(content)
	content.KeywordUsage = analyzeKeywordUsage(text, jobKeywords(analysis))
	content.ATSScore = atsScore(text, content.TailoredResume)
	content.Quality = evaluateQuality(text, content.TailoredResume)

	return content, nil
}

type llmContentResponse struct {
	Summary     string              `json:"summary"`
	Experience  []domain.Experience `json:"experience"`
	Skills      []string            `json:"skills"`
	CoverLetter string              `json:"cover_letter"`
}

func (g *ContentGenerator) generateWithLLM(ctx context.Context, profile domain.ResumeProfile, analysis domain.JobAnalysis, tone string) (domain.GeneratedContent, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := fmt.Sprintf(contentGenPrompt, mustJSON(profile), mustJSON(analysis), tone)
	raw, err := g.gen.GenerateContent(ctx, prompt)
	if err != nil {
		return domain.GeneratedContent{}, err
	}

	var resp llmContentResponse
	if err := ai.DecodeJSON(raw, &resp); err != nil {
		return domain.GeneratedContent{}, err
	}
	if resp.Summary == "" && resp.CoverLetter == "" {
		return domain.GeneratedContent{}, errors.New("model returned empty content")
	}

	return domain.GeneratedContent{
		TailoredResume: &domain.TailoredResume{
			Summary:    resp.Summary,
			Experience: resp.Experience,
			Skills:     resp.Skills,
			Education:  profile.Education,
		},
		CoverLetter: resp.CoverLetter,
	}, nil
}

// jobKeywords are the terms worth weaving into generated content.
func jobKeywords(analysis domain.JobAnalysis) []string {
	seen := map[string]bool{}
	var out []string
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range analysis.RequiredSkills {
		add(s)
	}
	for _, s := range analysis.PreferredSkills {
		add(s)
	}
	for _, tok := range strings.Fields(strings.ToLower(analysis.JobTitle)) {
		if len(tok) > 3 {
			add(tok)
		}
	}
	return out
}

func analyzeKeywordUsage(text string, keywords []string) domain.KeywordUsage {
	lower := strings.ToLower(text)

	usage := domain.KeywordUsage{Total: len(keywords)}
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			usage.Found = append(usage.Found, kw)
		} else {
			usage.Missing = append(usage.Missing, kw)
		}
	}
	if usage.Total > 0 {
		usage.Density = float64(len(usage.Found)) / float64(usage.Total)
	}
	return usage
}

// standardSections are the headings ATS parsers expect to find.
var standardSections = []string{"summary", "experience", "skills", "education"}

// atsScore starts at 100 and deducts for glyphs and layout that trip up
// applicant tracking systems.
func atsScore(text string, resume *domain.TailoredResume) float64 {
	score := 100.0

	unusual := 0
	for _, r := range text {
		if r > 0x2000 && r != 0x2019 {
			unusual++
		}
	}
	if unusual > 0 {
		score -= float64(unusual)
		if score < 60 {
			score = 60
		}
	}

	if resume == nil {
		return score - 20
	}
	if resume.Summary == "" {
		score -= 10
	}
	if len(resume.Experience) == 0 {
		score -= 10
	}
	if len(resume.Skills) == 0 {
		score -= 10
	}
	if score < 0 {
		score = 0
	}
	return score
}

func evaluateQuality(text string, resume *domain.TailoredResume) domain.ContentQuality {
	q := domain.ContentQuality{WordCount: len(strings.Fields(text))}
	if resume == nil {
		return q
	}
	if resume.Summary != "" {
		q.HasSummary = true
		q.Sections = append(q.Sections, "summary")
	}
	if len(resume.Experience) > 0 {
		q.HasExperience = true
		q.Sections = append(q.Sections, "experience")
	}
	if len(resume.Skills) > 0 {
		q.Sections = append(q.Sections, "skills")
	}
	if len(resume.Education) > 0 {
		q.Sections = append(q.Sections, "education")
	}
	return q
}

func contentText(c domain.GeneratedContent) string {
	var b strings.Builder
	if c.TailoredResume != nil {
		b.WriteString(c.TailoredResume.Summary)
		for _, e := range c.TailoredResume.Experience {
			b.WriteString("\n")
			b.WriteString(e.Title)
			b.WriteString(" ")
			b.WriteString(e.Company)
			b.WriteString(" ")
			b.WriteString(e.Description)
			for _, a := range e.Achievements {
				b.WriteString(" ")
				b.WriteString(a)
			}
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(c.TailoredResume.Skills, " "))
	}
	b.WriteString("\n")
	b.WriteString(c.CoverLetter)
	return b.String()
}
