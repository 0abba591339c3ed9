package repository

import (
	"context"
	"database/sql"
	"errors"

	"misterhr/internal/database"
	"misterhr/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO users (id, email, password_hash, full_name, role)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING created_at, updated_at`,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.Role,
	)
	if err := row.Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}
	return user, nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

func (r *PostgresUserRepository) get(ctx context.Context, where string, arg any) (domain.User, error) {
	var u domain.User
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, COALESCE(full_name, ''), role, created_at, updated_at
		 FROM users `+where,
		arg,
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}
