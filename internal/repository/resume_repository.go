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

var ErrResumeNotFound = errors.New("resume not found")

type ResumeRepository interface {
	Create(ctx context.Context, resume domain.Resume) (domain.Resume, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Resume, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Resume, error)
	UpdateParsed(ctx context.Context, id uuid.UUID, profile domain.ResumeProfile, confidence, credibility float64) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type PostgresResumeRepository struct {
	db database.DB
}

func NewPostgresResumeRepository(db database.DB) *PostgresResumeRepository {
	return &PostgresResumeRepository{db: db}
}

func (r *PostgresResumeRepository) Create(ctx context.Context, resume domain.Resume) (domain.Resume, error) {
	if resume.ID == uuid.Nil {
		resume.ID = uuid.New()
	}

	parsed, err := marshalNullable(resume.Parsed)
	if err != nil {
		return domain.Resume{}, err
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO resumes (id, user_id, source_name, raw_text, parsed, confidence, credibility)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 RETURNING created_at, updated_at`,
		resume.ID, resume.UserID, resume.SourceName, resume.RawText, parsed, resume.Confidence, resume.Credibility,
	)
	if err := row.Scan(&resume.CreatedAt, &resume.UpdatedAt); err != nil {
		return domain.Resume{}, err
	}
	return resume, nil
}

func (r *PostgresResumeRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Resume, error) {
	var (
		res    domain.Resume
		parsed []byte
	)
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, COALESCE(source_name, ''), raw_text, parsed, confidence, credibility, created_at, updated_at
		 FROM resumes
		 WHERE id = $1`,
		id,
	)
	err := row.Scan(&res.ID, &res.UserID, &res.SourceName, &res.RawText, &parsed, &res.Confidence, &res.Credibility, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return domain.Resume{}, ErrResumeNotFound
		}
		return domain.Resume{}, err
	}

	if len(parsed) > 0 {
		var profile domain.ResumeProfile
		if err := json.Unmarshal(parsed, &profile); err != nil {
			return domain.Resume{}, err
		}
		res.Parsed = &profile
	}
	return res, nil
}

func (r *PostgresResumeRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Resume, error) {
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
		`SELECT id, user_id, COALESCE(source_name, ''), confidence, credibility, created_at, updated_at
		 FROM resumes
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Resume, 0)
	for rows.Next() {
		var res domain.Resume
		if err := rows.Scan(&res.ID, &res.UserID, &res.SourceName, &res.Confidence, &res.Credibility, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresResumeRepository) UpdateParsed(ctx context.Context, id uuid.UUID, profile domain.ResumeProfile, confidence, credibility float64) error {
	parsed, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	affected, err := r.db.Exec(ctx,
		`UPDATE resumes
		 SET parsed = $2, confidence = $3, credibility = $4, updated_at = now()
		 WHERE id = $1`,
		id, parsed, confidence, credibility,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrResumeNotFound
	}
	return nil
}

func (r *PostgresResumeRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`DELETE FROM resumes WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrResumeNotFound
	}
	return nil
}

// marshalNullable keeps absent JSON documents as SQL NULL instead of
// the string "null".
func marshalNullable[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
