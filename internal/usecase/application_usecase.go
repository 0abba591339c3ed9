package usecase

import (
	"context"
	"errors"

	"misterhr/internal/agent"
	"misterhr/internal/domain"
	"misterhr/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrInvalidTone         = errors.New("invalid tone")
)

// applicationRunner executes the full application workflow. Satisfied
// by agent.Orchestrator.
type applicationRunner interface {
	JobApplication(ctx context.Context, resumeText, jobDescription, tone string) (agent.ApplicationResult, error)
}

type ApplyInput struct {
	UserID   uuid.UUID
	ResumeID uuid.UUID
	JobID    uuid.UUID
	Tone     string
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, in ApplyInput) (domain.Application, error)
	Get(ctx context.Context, id, userID uuid.UUID) (domain.Application, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Application, error)
}

type ApplicationService struct {
	applications repository.ApplicationRepository
	resumes      repository.ResumeRepository
	jobs         repository.JobRepository
	runner       applicationRunner
	logger       *zap.Logger
}

func NewApplicationUsecase(
	applications repository.ApplicationRepository,
	resumes repository.ResumeRepository,
	jobs repository.JobRepository,
	runner applicationRunner,
	logger *zap.Logger,
) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		resumes:      resumes,
		jobs:         jobs,
		runner:       runner,
		logger:       logger,
	}
}

// Apply runs the parse, analyze, match and generate workflow for one
// (resume, job) pair and stores the outcome as an application.
func (u *ApplicationService) Apply(ctx context.Context, in ApplyInput) (domain.Application, error) {
	if in.Tone != "" && !domain.ValidTone(in.Tone) {
		return domain.Application{}, ErrInvalidTone
	}

	resume, err := u.resumes.GetByID(ctx, in.ResumeID)
	if err != nil {
		if errors.Is(err, repository.ErrResumeNotFound) {
			return domain.Application{}, ErrResumeNotFound
		}
		return domain.Application{}, ErrInternal
	}
	if resume.UserID != in.UserID {
		return domain.Application{}, ErrForbidden
	}

	job, err := u.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return domain.Application{}, ErrJobNotFound
		}
		return domain.Application{}, ErrInternal
	}

	result, err := u.runner.JobApplication(ctx, resume.RawText, job.Description, in.Tone)
	if err != nil {
		if errors.Is(err, agent.ErrEmptyResume) {
			return domain.Application{}, ErrUnreadableUpload
		}
		if errors.Is(err, agent.ErrDescriptionTooShort) {
			return domain.Application{}, ErrDescriptionTooShort
		}
		return domain.Application{}, ErrInternal
	}

	app, err := u.applications.Create(ctx, domain.Application{
		ResumeID: in.ResumeID,
		JobID:    in.JobID,
		UserID:   in.UserID,
		Status:   domain.ApplicationMatched,
		Match:    &result.Match,
		Content:  result.Content,
	})
	if err != nil {
		return domain.Application{}, ErrInternal
	}
	return app, nil
}

func (u *ApplicationService) Get(ctx context.Context, id, userID uuid.UUID) (domain.Application, error) {
	app, err := u.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return domain.Application{}, ErrApplicationNotFound
		}
		return domain.Application{}, ErrInternal
	}
	if app.UserID != userID {
		return domain.Application{}, ErrForbidden
	}
	return app, nil
}

func (u *ApplicationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Application, error) {
	apps, err := u.applications.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, ErrInternal
	}
	return apps, nil
}
