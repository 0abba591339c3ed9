package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleCandidate = "candidate"
	RoleRecruiter = "recruiter"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ValidRole(role string) bool {
	return role == RoleCandidate || role == RoleRecruiter
}
