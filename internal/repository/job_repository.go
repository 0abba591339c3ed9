package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"misterhr/internal/database"
	"misterhr/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	Create(ctx context.Context, job domain.Job) (domain.Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Job, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Job, error)
	UpdateAnalysis(ctx context.Context, id uuid.UUID, analysis domain.JobAnalysis) error
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) Create(ctx context.Context, job domain.Job) (domain.Job, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}

	analysis, err := marshalNullable(job.Analysis)
	if err != nil {
		return domain.Job{}, err
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO jobs (id, owner_id, title, company, location, description, analysis, analyzed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING created_at, updated_at`,
		job.ID, job.OwnerID, job.Title, job.Company, job.Location, job.Description, analysis, job.AnalyzedAt,
	)
	if err := row.Scan(&job.CreatedAt, &job.UpdatedAt); err != nil {
		return domain.Job{}, err
	}
	return job, nil
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Job, error) {
	var (
		job      domain.Job
		analysis []byte
	)
	row := r.db.QueryRow(ctx,
		`SELECT id, owner_id, COALESCE(title, ''), COALESCE(company, ''), COALESCE(location, ''),
		        description, analysis, analyzed_at, created_at, updated_at
		 FROM jobs
		 WHERE id = $1`,
		id,
	)
	err := row.Scan(&job.ID, &job.OwnerID, &job.Title, &job.Company, &job.Location,
		&job.Description, &analysis, &job.AnalyzedAt, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return domain.Job{}, ErrJobNotFound
		}
		return domain.Job{}, err
	}

	if len(analysis) > 0 {
		var parsed domain.JobAnalysis
		if err := json.Unmarshal(analysis, &parsed); err != nil {
			return domain.Job{}, err
		}
		job.Analysis = &parsed
	}
	return job, nil
}

func (r *PostgresJobRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Job, error) {
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
		`SELECT id, owner_id, COALESCE(title, ''), COALESCE(company, ''), COALESCE(location, ''),
		        analyzed_at, created_at, updated_at
		 FROM jobs
		 WHERE owner_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		ownerID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Job, 0)
	for rows.Next() {
		var job domain.Job
		if err := rows.Scan(&job.ID, &job.OwnerID, &job.Title, &job.Company, &job.Location,
			&job.AnalyzedAt, &job.CreatedAt, &job.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) UpdateAnalysis(ctx context.Context, id uuid.UUID, analysis domain.JobAnalysis) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return err
	}

	affected, err := r.db.Exec(ctx,
		`UPDATE jobs
		 SET analysis = $2, analyzed_at = $3, updated_at = now()
		 WHERE id = $1`,
		id, payload, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *PostgresJobRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`DELETE FROM jobs WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrJobNotFound
	}
	return nil
}
