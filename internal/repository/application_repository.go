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

var ErrApplicationNotFound = errors.New("application not found")

type ApplicationRepository interface {
	Create(ctx context.Context, app domain.Application) (domain.Application, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Application, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Application, error)
	UpdateOutcome(ctx context.Context, id uuid.UUID, status string, match *domain.MatchResult, content *domain.GeneratedContent) error
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

func (r *PostgresApplicationRepository) Create(ctx context.Context, app domain.Application) (domain.Application, error) {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	if app.Status == "" {
		app.Status = domain.ApplicationDraft
	}

	matchPayload, err := marshalNullable(app.Match)
	if err != nil {
		return domain.Application{}, err
	}
	contentPayload, err := marshalNullable(app.Content)
	if err != nil {
		return domain.Application{}, err
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO applications (id, resume_id, job_id, user_id, status, match, content)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 RETURNING created_at, updated_at`,
		app.ID, app.ResumeID, app.JobID, app.UserID, app.Status, matchPayload, contentPayload,
	)
	if err := row.Scan(&app.CreatedAt, &app.UpdatedAt); err != nil {
		return domain.Application{}, err
	}
	return app, nil
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Application, error) {
	var (
		app            domain.Application
		matchPayload   []byte
		contentPayload []byte
	)
	row := r.db.QueryRow(ctx,
		`SELECT id, resume_id, job_id, user_id, status, match, content, created_at, updated_at
		 FROM applications
		 WHERE id = $1`,
		id,
	)
	err := row.Scan(&app.ID, &app.ResumeID, &app.JobID, &app.UserID, &app.Status,
		&matchPayload, &contentPayload, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return domain.Application{}, ErrApplicationNotFound
		}
		return domain.Application{}, err
	}

	if len(matchPayload) > 0 {
		var m domain.MatchResult
		if err := json.Unmarshal(matchPayload, &m); err != nil {
			return domain.Application{}, err
		}
		app.Match = &m
	}
	if len(contentPayload) > 0 {
		var c domain.GeneratedContent
		if err := json.Unmarshal(contentPayload, &c); err != nil {
			return domain.Application{}, err
		}
		app.Content = &c
	}
	return app, nil
}

func (r *PostgresApplicationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Application, error) {
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
		`SELECT id, resume_id, job_id, user_id, status, created_at, updated_at
		 FROM applications
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Application, 0)
	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(&app.ID, &app.ResumeID, &app.JobID, &app.UserID, &app.Status,
			&app.CreatedAt, &app.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) UpdateOutcome(ctx context.Context, id uuid.UUID, status string, match *domain.MatchResult, content *domain.GeneratedContent) error {
	matchPayload, err := marshalNullable(match)
	if err != nil {
		return err
	}
	contentPayload, err := marshalNullable(content)
	if err != nil {
		return err
	}

	affected, err := r.db.Exec(ctx,
		`UPDATE applications
		 SET status = $2,
		     match = COALESCE($3, match),
		     content = COALESCE($4, content),
		     updated_at = now()
		 WHERE id = $1`,
		id, status, matchPayload, contentPayload,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}
