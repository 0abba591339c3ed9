package usecase

import (
	"context"
	"errors"

	"misterhr/internal/domain"
	"misterhr/internal/repository"

	"github.com/google/uuid"
)

var ErrResumeNotParsed = errors.New("resume has not been parsed yet")

// profileMatcher scores a parsed profile against a job analysis.
// Satisfied by agent.Matcher.
type profileMatcher interface {
	Match(ctx context.Context, profile domain.ResumeProfile, analysis domain.JobAnalysis) (domain.MatchResult, error)
}

type MatchInput struct {
	UserID   uuid.UUID
	ResumeID uuid.UUID
	JobID    uuid.UUID
}

type MatchingUsecase interface {
	Run(ctx context.Context, in MatchInput) (domain.MatchResult, error)
}

type MatchingService struct {
	resumes  repository.ResumeRepository
	jobs     repository.JobRepository
	analyzer jobAnalyzer
	matcher  profileMatcher
}

func NewMatchingUsecase(
	resumes repository.ResumeRepository,
	jobs repository.JobRepository,
	analyzer jobAnalyzer,
	matcher profileMatcher,
) *MatchingService {
	return &MatchingService{resumes: resumes, jobs: jobs, analyzer: analyzer, matcher: matcher}
}

// Run scores an already-parsed resume against a job, analyzing the job
// on the fly when it has no stored analysis. Nothing is persisted.
func (u *MatchingService) Run(ctx context.Context, in MatchInput) (domain.MatchResult, error) {
	resume, err := u.resumes.GetByID(ctx, in.ResumeID)
	if err != nil {
		if errors.Is(err, repository.ErrResumeNotFound) {
			return domain.MatchResult{}, ErrResumeNotFound
		}
		return domain.MatchResult{}, ErrInternal
	}
	if resume.UserID != in.UserID {
		return domain.MatchResult{}, ErrForbidden
	}
	if resume.Parsed == nil {
		return domain.MatchResult{}, ErrResumeNotParsed
	}

	job, err := u.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return domain.MatchResult{}, ErrJobNotFound
		}
		return domain.MatchResult{}, ErrInternal
	}

	analysis := job.Analysis
	if analysis == nil {
		fresh, err := u.analyzer.Analyze(ctx, job.Description)
		if err != nil {
			return domain.MatchResult{}, ErrInternal
		}
		if err := u.jobs.UpdateAnalysis(ctx, job.ID, fresh); err != nil {
			return domain.MatchResult{}, ErrInternal
		}
		analysis = &fresh
	}

	result, err := u.matcher.Match(ctx, *resume.Parsed, *analysis)
	if err != nil {
		return domain.MatchResult{}, ErrInternal
	}
	return result, nil
}
