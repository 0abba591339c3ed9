package usecase

import (
	"context"
	"errors"
	"strings"

	"misterhr/internal/domain"
	"misterhr/internal/pkg/jwt"
	"misterhr/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrInternal            = errors.New("internal error")
)

const minPasswordLen = 8

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) (domain.User, string, string, error)
	Login(ctx context.Context, in LoginInput) (domain.User, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

type Auth struct {
	users repository.UserRepository
	jwt   jwt.Service
}

func NewAuthUsecase(users repository.UserRepository, jwtSvc jwt.Service) *Auth {
	return &Auth{users: users, jwt: jwtSvc}
}

func (u *Auth) Register(ctx context.Context, in RegisterInput) (domain.User, string, string, error) {
	email := normalizeEmail(in.Email)
	if email == "" || len(strings.TrimSpace(in.Password)) < minPasswordLen {
		return domain.User{}, "", "", ErrInvalidInput
	}
	if in.Role == "" {
		in.Role = domain.RoleCandidate
	}
	if !domain.ValidRole(in.Role) {
		return domain.User{}, "", "", ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", "", ErrInternal
	}

	user, err := u.users.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(in.FullName),
		Role:         in.Role,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return domain.User{}, "", "", ErrEmailTaken
		}
		return domain.User{}, "", "", ErrInternal
	}

	return u.issueTokens(user)
}

func (u *Auth) Login(ctx context.Context, in LoginInput) (domain.User, string, string, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return domain.User{}, "", "", ErrInvalidCredentials
	}

	user, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, "", "", ErrInvalidCredentials
		}
		return domain.User{}, "", "", ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return domain.User{}, "", "", ErrInvalidCredentials
	}

	return u.issueTokens(user)
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if refreshToken == "" {
		return "", "", ErrInvalidRefreshToken
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrRefreshTokenExpired
		}
		return "", "", ErrInvalidRefreshToken
	}
	if !u.jwt.IsRefreshToken(claims) {
		return "", "", ErrInvalidRefreshToken
	}

	user, err := u.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", "", ErrInvalidRefreshToken
		}
		return "", "", ErrInternal
	}

	_, access, refresh, err := u.issueTokens(user)
	return access, refresh, err
}

func (u *Auth) issueTokens(user domain.User) (domain.User, string, string, error) {
	access, err := u.jwt.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return domain.User{}, "", "", ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(user.ID)
	if err != nil {
		return domain.User{}, "", "", ErrInternal
	}
	user.PasswordHash = ""
	return user, access, refresh, nil
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(strings.ToLower(email))
	if !strings.Contains(email, "@") {
		return ""
	}
	return email
}
