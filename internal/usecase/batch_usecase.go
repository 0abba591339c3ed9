package usecase

import (
	"context"
	"errors"
	"time"

	"misterhr/internal/agent"
	"misterhr/internal/domain"
	"misterhr/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrBatchNotFound = errors.New("batch not found")
	ErrEmptyBatch    = errors.New("batch needs at least one resume")
)

const (
	maxBatchResumes = 50

	// batchLockTTL caps how long a crashed worker can hold a batch; the
	// queue redelivers well within this window.
	batchLockTTL = 10 * time.Minute
)

// batchPublisher hands a queued batch to the worker. Satisfied by
// queue.Publisher.
type batchPublisher interface {
	PublishBatch(ctx context.Context, batchID uuid.UUID) error
}

// batchMatcher scores candidates against one job. Satisfied by
// agent.Orchestrator.
type batchMatcher interface {
	BatchMatching(ctx context.Context, jobDescription string, candidates []agent.BatchCandidate) (agent.BatchMatchResult, error)
}

// batchLocker dedupes concurrent runs of the same batch across workers.
// Satisfied by cache.Redis.
type batchLocker interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

type CreateBatchInput struct {
	OwnerID   uuid.UUID
	JobID     uuid.UUID
	ResumeIDs []uuid.UUID
}

type BatchUsecase interface {
	Create(ctx context.Context, in CreateBatchInput) (domain.Batch, error)
	Get(ctx context.Context, id, ownerID uuid.UUID) (domain.Batch, []domain.BatchItem, error)
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Batch, error)
}

type BatchService struct {
	batches   repository.BatchRepository
	resumes   repository.ResumeRepository
	jobs      repository.JobRepository
	publisher batchPublisher
	matcher   batchMatcher
	locks     batchLocker
	logger    *zap.Logger
}

func NewBatchUsecase(
	batches repository.BatchRepository,
	resumes repository.ResumeRepository,
	jobs repository.JobRepository,
	publisher batchPublisher,
	matcher batchMatcher,
	locks batchLocker,
	logger *zap.Logger,
) *BatchService {
	return &BatchService{
		batches:   batches,
		resumes:   resumes,
		jobs:      jobs,
		publisher: publisher,
		matcher:   matcher,
		locks:     locks,
		logger:    logger,
	}
}

// Create validates the job and resumes, stores the queued batch and
// hands it to the worker queue. Scoring happens asynchronously.
func (u *BatchService) Create(ctx context.Context, in CreateBatchInput) (domain.Batch, error) {
	if len(in.ResumeIDs) == 0 {
		return domain.Batch{}, ErrEmptyBatch
	}
	if len(in.ResumeIDs) > maxBatchResumes {
		return domain.Batch{}, ErrInvalidInput
	}

	job, err := u.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return domain.Batch{}, ErrJobNotFound
		}
		return domain.Batch{}, ErrInternal
	}
	if job.OwnerID != in.OwnerID {
		return domain.Batch{}, ErrForbidden
	}

	seen := map[uuid.UUID]bool{}
	ids := make([]uuid.UUID, 0, len(in.ResumeIDs))
	for _, id := range in.ResumeIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := u.resumes.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrResumeNotFound) {
				return domain.Batch{}, ErrResumeNotFound
			}
			return domain.Batch{}, ErrInternal
		}
		ids = append(ids, id)
	}

	batch, err := u.batches.CreateWithItems(ctx, domain.Batch{
		OwnerID: in.OwnerID,
		JobID:   in.JobID,
	}, ids)
	if err != nil {
		return domain.Batch{}, ErrInternal
	}

	if err := u.publisher.PublishBatch(ctx, batch.ID); err != nil {
		if u.logger != nil {
			u.logger.Error("failed to enqueue batch",
				zap.String("batch_id", batch.ID.String()), zap.Error(err))
		}
		if err := u.batches.SetStatus(ctx, batch.ID, domain.BatchFailed); err != nil && u.logger != nil {
			u.logger.Error("failed to mark batch failed", zap.Error(err))
		}
		return domain.Batch{}, ErrInternal
	}
	return batch, nil
}

func (u *BatchService) Get(ctx context.Context, id, ownerID uuid.UUID) (domain.Batch, []domain.BatchItem, error) {
	batch, err := u.batches.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBatchNotFound) {
			return domain.Batch{}, nil, ErrBatchNotFound
		}
		return domain.Batch{}, nil, ErrInternal
	}
	if batch.OwnerID != ownerID {
		return domain.Batch{}, nil, ErrForbidden
	}

	items, err := u.batches.ListItems(ctx, id)
	if err != nil {
		return domain.Batch{}, nil, ErrInternal
	}
	return batch, items, nil
}

func (u *BatchService) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Batch, error) {
	batches, err := u.batches.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, ErrInternal
	}
	return batches, nil
}

// Process scores every queued item of a batch. Called by the queue
// worker, not the HTTP layer.
func (u *BatchService) Process(ctx context.Context, batchID uuid.UUID) error {
	if u.locks != nil {
		key := "batch:lock:" + batchID.String()
		acquired, err := u.locks.SetIfNotExists(ctx, key, "1", batchLockTTL)
		switch {
		case err != nil:
			// The lock is best-effort dedup, not correctness; a broken
			// Redis must not stall batch scoring.
			if u.logger != nil {
				u.logger.Warn("batch lock unavailable, proceeding", zap.Error(err))
			}
		case !acquired:
			if u.logger != nil {
				u.logger.Info("batch already being processed, skipping",
					zap.String("batch_id", batchID.String()))
			}
			return nil
		default:
			defer func() {
				if err := u.locks.Delete(ctx, key); err != nil && u.logger != nil {
					u.logger.Warn("failed to release batch lock", zap.Error(err))
				}
			}()
		}
	}

	batch, err := u.batches.GetByID(ctx, batchID)
	if err != nil {
		return err
	}
	if batch.Status == domain.BatchCompleted {
		return nil
	}

	job, err := u.jobs.GetByID(ctx, batch.JobID)
	if err != nil {
		return err
	}

	if err := u.batches.SetStatus(ctx, batchID, domain.BatchProcessing); err != nil {
		return err
	}

	items, err := u.batches.ListItems(ctx, batchID)
	if err != nil {
		return err
	}

	candidates := make([]agent.BatchCandidate, 0, len(items))
	for _, item := range items {
		resume, err := u.resumes.GetByID(ctx, item.ResumeID)
		if err != nil || resume.Parsed == nil {
			detail := "resume has no parsed profile"
			if err != nil {
				detail = err.Error()
			}
			if recErr := u.batches.RecordItemOutcome(ctx, batchID, item.ResumeID, nil, detail); recErr != nil {
				return recErr
			}
			continue
		}
		candidates = append(candidates, agent.BatchCandidate{ResumeID: item.ResumeID, Profile: *resume.Parsed})
	}

	result, err := u.matcher.BatchMatching(ctx, job.Description, candidates)
	if err != nil {
		if stErr := u.batches.SetStatus(ctx, batchID, domain.BatchFailed); stErr != nil && u.logger != nil {
			u.logger.Error("failed to mark batch failed", zap.Error(stErr))
		}
		return err
	}

	for _, out := range result.Outcomes {
		detail := ""
		if out.Err != nil {
			detail = out.Err.Error()
		}
		if err := u.batches.RecordItemOutcome(ctx, batchID, out.ResumeID, out.Match, detail); err != nil {
			return err
		}
	}

	return u.batches.Complete(ctx, batchID, domain.BatchCompleted, result.Summary)
}
