package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"misterhr/internal/agent"
	"misterhr/internal/domain"
	"misterhr/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrJobNotFound         = errors.New("job not found")
	ErrDescriptionTooShort = errors.New("job description too short")
)

const analysisCacheTTL = 24 * time.Hour

// jobAnalyzer extracts structured requirements from a description.
// Satisfied by agent.JDAnalyzer.
type jobAnalyzer interface {
	Analyze(ctx context.Context, description string) (domain.JobAnalysis, error)
}

// analysisCache keeps analyses for identical descriptions. Satisfied by
// cache.Redis.
type analysisCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type CreateJobInput struct {
	OwnerID     uuid.UUID
	Title       string
	Company     string
	Location    string
	Description string
}

type JobUsecase interface {
	Create(ctx context.Context, in CreateJobInput) (domain.Job, error)
	Analyze(ctx context.Context, id, ownerID uuid.UUID) (domain.Job, error)
	Get(ctx context.Context, id, ownerID uuid.UUID) (domain.Job, error)
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Job, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

type JobService struct {
	jobs     repository.JobRepository
	analyzer jobAnalyzer
	cache    analysisCache
	logger   *zap.Logger
}

func NewJobUsecase(jobs repository.JobRepository, analyzer jobAnalyzer, cache analysisCache, logger *zap.Logger) *JobService {
	return &JobService{jobs: jobs, analyzer: analyzer, cache: cache, logger: logger}
}

func (u *JobService) Create(ctx context.Context, in CreateJobInput) (domain.Job, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return domain.Job{}, ErrInvalidInput
	}

	job, err := u.jobs.Create(ctx, domain.Job{
		OwnerID:     in.OwnerID,
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		Description: description,
	})
	if err != nil {
		return domain.Job{}, ErrInternal
	}
	return job, nil
}

// Analyze runs requirement extraction for the job, reusing a cached
// analysis when an identical description was analyzed before.
func (u *JobService) Analyze(ctx context.Context, id, ownerID uuid.UUID) (domain.Job, error) {
	job, err := u.Get(ctx, id, ownerID)
	if err != nil {
		return domain.Job{}, err
	}

	key := analysisCacheKey(job.Description)

	var analysis domain.JobAnalysis
	hit := false
	if u.cache != nil {
		if ok, err := u.cache.GetJSON(ctx, key, &analysis); err == nil && ok {
			hit = true
		}
	}

	if !hit {
		analysis, err = u.analyzer.Analyze(ctx, job.Description)
		if err != nil {
			if errors.Is(err, agent.ErrDescriptionTooShort) {
				return domain.Job{}, ErrDescriptionTooShort
			}
			return domain.Job{}, ErrInternal
		}
		if u.cache != nil {
			if err := u.cache.SetJSON(ctx, key, analysis, analysisCacheTTL); err != nil && u.logger != nil {
				u.logger.Warn("failed to cache job analysis", zap.Error(err))
			}
		}
	}

	if err := u.jobs.UpdateAnalysis(ctx, job.ID, analysis); err != nil {
		return domain.Job{}, ErrInternal
	}

	now := time.Now().UTC()
	job.Analysis = &analysis
	job.AnalyzedAt = &now
	return job, nil
}

func (u *JobService) Get(ctx context.Context, id, ownerID uuid.UUID) (domain.Job, error) {
	job, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return domain.Job{}, ErrJobNotFound
		}
		return domain.Job{}, ErrInternal
	}
	if job.OwnerID != ownerID {
		return domain.Job{}, ErrForbidden
	}
	return job, nil
}

func (u *JobService) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Job, error) {
	jobs, err := u.jobs.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, ErrInternal
	}
	return jobs, nil
}

func (u *JobService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	err := u.jobs.Delete(ctx, id, ownerID)
	if errors.Is(err, repository.ErrJobNotFound) {
		return ErrJobNotFound
	}
	if err != nil {
		return ErrInternal
	}
	return nil
}

func analysisCacheKey(description string) string {
	sum := sha256.Sum256([]byte(description))
	return "job:analysis:" + hex.EncodeToString(sum[:])
}
