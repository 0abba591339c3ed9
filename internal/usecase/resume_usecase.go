package usecase

import (
	"context"
	"errors"

	"misterhr/internal/agent"
	"misterhr/internal/domain"
	"misterhr/internal/extract"
	"misterhr/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrResumeNotFound    = errors.New("resume not found")
	ErrForbidden         = errors.New("forbidden")
	ErrUnreadableUpload  = errors.New("could not extract text from upload")
	ErrUnsupportedUpload = errors.New("unsupported file format")
	ErrNothingToEnrich   = errors.New("no online presence to enrich from")
)

// resumeProcessor runs the parse-and-enrich workflow. Satisfied by
// agent.Orchestrator.
type resumeProcessor interface {
	ResumeProcessing(ctx context.Context, text string) (domain.ResumeProfile, *domain.EnrichmentResult, error)
}

// profileEnricher re-runs web enrichment on an already-parsed profile.
// Satisfied by agent.Enricher.
type profileEnricher interface {
	Enrich(ctx context.Context, profile domain.ResumeProfile) (domain.EnrichmentResult, error)
}

type UploadResumeInput struct {
	UserID   uuid.UUID
	Filename string
	Data     []byte
}

type ResumeUsecase interface {
	Upload(ctx context.Context, in UploadResumeInput) (domain.Resume, *domain.EnrichmentResult, error)
	Enrich(ctx context.Context, id, userID uuid.UUID) (domain.Resume, *domain.EnrichmentResult, error)
	Get(ctx context.Context, id, userID uuid.UUID) (domain.Resume, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Resume, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type Resume struct {
	resumes   repository.ResumeRepository
	processor resumeProcessor
	enricher  profileEnricher
	logger    *zap.Logger
}

func NewResumeUsecase(resumes repository.ResumeRepository, processor resumeProcessor, enricher profileEnricher, logger *zap.Logger) *Resume {
	return &Resume{resumes: resumes, processor: processor, enricher: enricher, logger: logger}
}

// Upload extracts text from the file, stores the raw resume, then
// parses and enriches it. A parse failure still leaves the raw resume
// stored for a later retry.
func (u *Resume) Upload(ctx context.Context, in UploadResumeInput) (domain.Resume, *domain.EnrichmentResult, error) {
	text, err := extract.Text(in.Filename, in.Data)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupportedFormat):
			return domain.Resume{}, nil, ErrUnsupportedUpload
		case errors.Is(err, extract.ErrEmptyFile), errors.Is(err, extract.ErrNoText):
			return domain.Resume{}, nil, ErrUnreadableUpload
		}
		return domain.Resume{}, nil, ErrUnreadableUpload
	}

	resume, err := u.resumes.Create(ctx, domain.Resume{
		UserID:     in.UserID,
		SourceName: in.Filename,
		RawText:    text,
	})
	if err != nil {
		return domain.Resume{}, nil, ErrInternal
	}

	profile, enrichment, err := u.processor.ResumeProcessing(ctx, text)
	if err != nil {
		if u.logger != nil {
			u.logger.Warn("resume stored but parsing failed",
				zap.String("resume_id", resume.ID.String()), zap.Error(err))
		}
		return resume, nil, nil
	}

	credibility := 0.0
	if enrichment != nil {
		credibility = enrichment.Credibility
	}
	if err := u.resumes.UpdateParsed(ctx, resume.ID, profile, profile.Metadata.Confidence, credibility); err != nil {
		return domain.Resume{}, nil, ErrInternal
	}

	resume.Parsed = &profile
	resume.Confidence = profile.Metadata.Confidence
	resume.Credibility = credibility
	return resume, enrichment, nil
}

// Enrich re-runs web enrichment on a parsed resume and folds the
// verified skill hints back into the stored profile.
func (u *Resume) Enrich(ctx context.Context, id, userID uuid.UUID) (domain.Resume, *domain.EnrichmentResult, error) {
	resume, err := u.Get(ctx, id, userID)
	if err != nil {
		return domain.Resume{}, nil, err
	}
	if resume.Parsed == nil {
		return domain.Resume{}, nil, ErrResumeNotParsed
	}

	result, err := u.enricher.Enrich(ctx, *resume.Parsed)
	if err != nil {
		if errors.Is(err, agent.ErrNoOnlinePresence) || errors.Is(err, agent.ErrEnrichmentDisabled) {
			return domain.Resume{}, nil, ErrNothingToEnrich
		}
		return domain.Resume{}, nil, ErrInternal
	}

	merged := agent.MergeEnrichment(*resume.Parsed, result)
	if err := u.resumes.UpdateParsed(ctx, resume.ID, merged, resume.Confidence, result.Credibility); err != nil {
		return domain.Resume{}, nil, ErrInternal
	}

	resume.Parsed = &merged
	resume.Credibility = result.Credibility
	return resume, &result, nil
}

func (u *Resume) Get(ctx context.Context, id, userID uuid.UUID) (domain.Resume, error) {
	resume, err := u.resumes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrResumeNotFound) {
			return domain.Resume{}, ErrResumeNotFound
		}
		return domain.Resume{}, ErrInternal
	}
	if resume.UserID != userID {
		return domain.Resume{}, ErrForbidden
	}
	return resume, nil
}

func (u *Resume) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Resume, error) {
	resumes, err := u.resumes.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, ErrInternal
	}
	return resumes, nil
}

func (u *Resume) Delete(ctx context.Context, id, userID uuid.UUID) error {
	err := u.resumes.Delete(ctx, id, userID)
	if errors.Is(err, repository.ErrResumeNotFound) {
		return ErrResumeNotFound
	}
	if err != nil {
		return ErrInternal
	}
	return nil
}
