package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"misterhr/internal/ai"
	"misterhr/internal/domain"
	"misterhr/internal/logger"

	"go.uber.org/zap"
)

// minDescriptionLen guards against fragments that cannot be analyzed.
const minDescriptionLen = 50

var ErrDescriptionTooShort = errors.New("job description too short")

const jobAnalyzePrompt = `Analyze this job description and extract structured information:

JOB DESCRIPTION:
%s

Return ONLY a JSON object with exactly this shape:

{
  "job_title": "exact job title",
  "experience_level": "entry|junior|mid|senior|lead|executive",
  "years_min": 0,
  "years_max": 0,
  "required_skills": [],
  "preferred_skills": [],
  "education": [],
  "responsibilities": [],
  "qualifications": [],
  "benefits": [],
  "location": "job location or remote",
  "remote": false,
  "salary_range": "",
  "company_name": ""
}

Focus on technical skills, experience requirements, and key
qualifications. Be specific and extract direct information from the job
posting.`

// JDAnalyzer extracts structured requirements from a job description.
type JDAnalyzer struct {
	gen     ai.Generator
	timeout time.Duration
	metrics Metrics
	logger  *zap.Logger
}

func NewJDAnalyzer(gen ai.Generator, timeout time.Duration, logger *zap.Logger) *JDAnalyzer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &JDAnalyzer{gen: gen, timeout: timeout, logger: logger}
}

func (a *JDAnalyzer) Metrics() *Metrics { return &a.metrics }

func (a *JDAnalyzer) Analyze(ctx context.Context, description string) (domain.JobAnalysis, error) {
	var analysis domain.JobAnalysis
	err := observe(&a.metrics, func() error {
		var err error
		analysis, err = a.analyze(ctx, description)
		return err
	})
	return analysis, err
}

func (a *JDAnalyzer) analyze(ctx context.Context, description string) (domain.JobAnalysis, error) {
	if len(strings.TrimSpace(description)) < minDescriptionLen {
		return domain.JobAnalysis{}, ErrDescriptionTooShort
	}

	if a.gen != nil {
		analysis, err := a.analyzeWithLLM(ctx, description)
		if err == nil {
			return analysis, nil
		}
		if a.logger != nil {
			a.logger.Warn("llm job analysis failed, falling back to rules",
				zap.String("description", logger.TruncateForLog(description, 120)),
				zap.Error(err))
		}
	}

	return analyzeJobWithRules(description), nil
}

func (a *JDAnalyzer) analyzeWithLLM(ctx context.Context, description string) (domain.JobAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.gen.GenerateContent(ctx, fmt.Sprintf(jobAnalyzePrompt, description))
	if err != nil {
		return domain.JobAnalysis{}, err
	}

	var analysis domain.JobAnalysis
	if err := ai.DecodeJSON(raw, &analysis); err != nil {
		return domain.JobAnalysis{}, err
	}
	if _, ok := domain.LevelRank[analysis.ExperienceLevel]; !ok {
		analysis.ExperienceLevel = domain.LevelMid
	}

	analysis.Metadata = domain.AnalysisMetadata{
		Method:     MethodLLM,
		Confidence: analysisConfidence(analysis),
	}
	return analysis, nil
}

// analysisConfidence: 0.25 each for title, skills, level and location.
func analysisConfidence(a domain.JobAnalysis) float64 {
	score := 0.0
	if a.JobTitle != "" {
		score += 0.25
	}
	if len(a.RequiredSkills) > 0 {
		score += 0.25
	}
	if a.ExperienceLevel != "" {
		score += 0.25
	}
	if a.Location != "" {
		score += 0.25
	}
	return score
}
