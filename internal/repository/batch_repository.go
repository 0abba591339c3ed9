package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"misterhr/internal/database"
	"misterhr/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrBatchNotFound = errors.New("batch not found")

type BatchRepository interface {
	CreateWithItems(ctx context.Context, batch domain.Batch, resumeIDs []uuid.UUID) (domain.Batch, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Batch, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Batch, error)
	ListItems(ctx context.Context, batchID uuid.UUID) ([]domain.BatchItem, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	RecordItemOutcome(ctx context.Context, batchID, resumeID uuid.UUID, match *domain.MatchResult, itemErr string) error
	Complete(ctx context.Context, id uuid.UUID, status string, summary domain.BatchSummary) error
}

type PostgresBatchRepository struct {
	db database.DB
}

func NewPostgresBatchRepository(db database.DB) *PostgresBatchRepository {
	return &PostgresBatchRepository{db: db}
}

// CreateWithItems inserts the batch and one queued item per resume in a
// single transaction.
func (r *PostgresBatchRepository) CreateWithItems(ctx context.Context, batch domain.Batch, resumeIDs []uuid.UUID) (domain.Batch, error) {
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	batch.Status = domain.BatchQueued
	batch.Total = len(resumeIDs)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Batch{}, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`INSERT INTO batches (id, owner_id, job_id, status, total)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING created_at, updated_at`,
		batch.ID, batch.OwnerID, batch.JobID, batch.Status, batch.Total,
	)
	if err := row.Scan(&batch.CreatedAt, &batch.UpdatedAt); err != nil {
		return domain.Batch{}, err
	}

	for _, resumeID := range resumeIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO batch_items (id, batch_id, resume_id, status)
			 VALUES ($1,$2,$3,$4)
			 ON CONFLICT (batch_id, resume_id) DO NOTHING`,
			uuid.New(), batch.ID, resumeID, domain.BatchQueued,
		)
		if err != nil {
			return domain.Batch{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Batch{}, err
	}
	return batch, nil
}

func (r *PostgresBatchRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Batch, error) {
	var (
		batch   domain.Batch
		summary []byte
	)
	row := r.db.QueryRow(ctx,
		`SELECT id, owner_id, job_id, status, total, completed, failed, summary, created_at, updated_at
		 FROM batches
		 WHERE id = $1`,
		id,
	)
	err := row.Scan(&batch.ID, &batch.OwnerID, &batch.JobID, &batch.Status,
		&batch.Total, &batch.Completed, &batch.Failed, &summary, &batch.CreatedAt, &batch.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return domain.Batch{}, ErrBatchNotFound
		}
		return domain.Batch{}, err
	}

	if len(summary) > 0 {
		var s domain.BatchSummary
		if err := json.Unmarshal(summary, &s); err != nil {
			return domain.Batch{}, err
		}
		batch.Summary = &s
	}
	return batch, nil
}

func (r *PostgresBatchRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Batch, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, owner_id, job_id, status, total, completed, failed, created_at, updated_at
		 FROM batches
		 WHERE owner_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		ownerID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Batch, 0)
	for rows.Next() {
		var batch domain.Batch
		if err := rows.Scan(&batch.ID, &batch.OwnerID, &batch.JobID, &batch.Status,
			&batch.Total, &batch.Completed, &batch.Failed, &batch.CreatedAt, &batch.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, batch)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresBatchRepository) ListItems(ctx context.Context, batchID uuid.UUID) ([]domain.BatchItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, batch_id, resume_id, status, score, match, COALESCE(error, ''), created_at, updated_at
		 FROM batch_items
		 WHERE batch_id = $1
		 ORDER BY score DESC NULLS LAST, created_at ASC`,
		batchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.BatchItem, 0)
	for rows.Next() {
		var (
			item         domain.BatchItem
			matchPayload []byte
		)
		if err := rows.Scan(&item.ID, &item.BatchID, &item.ResumeID, &item.Status,
			&item.Score, &matchPayload, &item.Error, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		if len(matchPayload) > 0 {
			var m domain.MatchResult
			if err := json.Unmarshal(matchPayload, &m); err != nil {
				return nil, err
			}
			item.Match = &m
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresBatchRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE batches SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrBatchNotFound
	}
	return nil
}

// RecordItemOutcome stores one scored item and bumps the parent batch's
// completed or failed counter in the same transaction. Only queued items
// are written, so replaying a redelivered batch cannot count an item
// twice.
func (r *PostgresBatchRepository) RecordItemOutcome(ctx context.Context, batchID, resumeID uuid.UUID, match *domain.MatchResult, itemErr string) error {
	status := domain.BatchCompleted
	counter := "completed"
	var score *float64
	if itemErr != "" {
		status = domain.BatchFailed
		counter = "failed"
	} else if match != nil {
		score = &match.OverallScore
	}

	matchPayload, err := marshalNullable(match)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	affected, err := tx.Exec(ctx,
		`UPDATE batch_items
		 SET status = $3, score = $4, match = $5, error = $6, updated_at = now()
		 WHERE batch_id = $1 AND resume_id = $2 AND status = $7`,
		batchID, resumeID, status, score, matchPayload, itemErr, domain.BatchQueued,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		// Already recorded on an earlier run, or the item does not
		// exist. Either way the counters stay put.
		return nil
	}

	_, err = tx.Exec(ctx,
		`UPDATE batches SET `+counter+` = `+counter+` + 1, updated_at = now() WHERE id = $1`,
		batchID,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PostgresBatchRepository) Complete(ctx context.Context, id uuid.UUID, status string, summary domain.BatchSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	affected, err := r.db.Exec(ctx,
		`UPDATE batches
		 SET status = $2, summary = $3, updated_at = now()
		 WHERE id = $1`,
		id, status, payload,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrBatchNotFound
	}
	return nil
}
