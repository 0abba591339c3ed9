package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"misterhr/internal/ai"
	"misterhr/internal/domain"

	"go.uber.org/zap"
)

const (
	MethodLLM   = "llm"
	MethodRules = "rules"
)

var ErrEmptyResume = errors.New("resume text is empty")

const resumeParsePrompt = `Parse this resume into structured JSON.

RESUME:
%s

Return ONLY a JSON object with exactly this shape:

{
  "personal_info": {"name": "", "email": "", "phone": "", "title": "", "location": "", "summary": ""},
  "experience": [{"title": "", "company": "", "start_date": "", "end_date": "", "description": "", "achievements": []}],
  "education": [{"degree": "", "field": "", "institution": "", "year": ""}],
  "skills": {"technical": [], "soft": [], "proficiency": {}},
  "projects": [{"name": "", "description": "", "technologies": [], "url": ""}],
  "certifications": [],
  "online_presence": {"github": "", "linkedin": "", "portfolio": "", "stackoverflow": "", "other": []}
}

Extract direct information only. Leave fields empty when the resume does
not mention them. Do not invent data.`

// ResumeParser structures raw resume text. The LLM is the primary path;
// a nil generator or any LLM failure falls back to rule-based parsing.
type ResumeParser struct {
	gen     ai.Generator
	timeout time.Duration
	metrics Metrics
	logger  *zap.Logger
}

func NewResumeParser(gen ai.Generator, timeout time.Duration, logger *zap.Logger) *ResumeParser {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ResumeParser{gen: gen, timeout: timeout, logger: logger}
}

func (p *ResumeParser) Metrics() *Metrics { return &p.metrics }

func (p *ResumeParser) Parse(ctx context.Context, text string) (domain.ResumeProfile, error) {
	var profile domain.ResumeProfile
	err := observe(&p.metrics, func() error {
		var err error
		profile, err = p.parse(ctx, text)
		return err
	})
	return profile, err
}

func (p *ResumeParser) parse(ctx context.Context, text string) (domain.ResumeProfile, error) {
	if len(text) == 0 {
		return domain.ResumeProfile{}, ErrEmptyResume
	}

	if p.gen != nil {
		profile, err := p.parseWithLLM(ctx, text)
		if err == nil {
			return profile, nil
		}
		if p.logger != nil {
			p.logger.Warn("llm resume parse failed, falling back to rules", zap.Error(err))
		}
	}

	return parseResumeWithRules(text), nil
}

func (p *ResumeParser) parseWithLLM(ctx context.Context, text string) (domain.ResumeProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := p.gen.GenerateContent(ctx, fmt.Sprintf(resumeParsePrompt, text))
	if err != nil {
		return domain.ResumeProfile{}, err
	}

	var profile domain.ResumeProfile
	if err := ai.DecodeJSON(raw, &profile); err != nil {
		return domain.ResumeProfile{}, err
	}

	profile.Metadata = domain.ProfileMetadata{
		Method:     MethodLLM,
		Confidence: resumeConfidence(profile),
	}
	return profile, nil
}
