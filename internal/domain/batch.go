package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	BatchQueued     = "queued"
	BatchProcessing = "processing"
	BatchCompleted  = "completed"
	BatchFailed     = "failed"
)

type Batch struct {
	ID        uuid.UUID     `json:"id"`
	OwnerID   uuid.UUID     `json:"owner_id"`
	JobID     uuid.UUID     `json:"job_id"`
	Status    string        `json:"status"`
	Total     int           `json:"total"`
	Completed int           `json:"completed"`
	Failed    int           `json:"failed"`
	Summary   *BatchSummary `json:"summary,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type BatchItem struct {
	ID        uuid.UUID    `json:"id"`
	BatchID   uuid.UUID    `json:"batch_id"`
	ResumeID  uuid.UUID    `json:"resume_id"`
	Status    string       `json:"status"`
	Score     *float64     `json:"score,omitempty"`
	Match     *MatchResult `json:"match,omitempty"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// BatchSummary ranks all completed items and buckets scores by match
// category.
type BatchSummary struct {
	Ranked       []RankedCandidate `json:"ranked"`
	Distribution map[string]int    `json:"distribution"`
	TopScore     float64           `json:"top_score"`
	AvgScore     float64           `json:"avg_score"`
}

type RankedCandidate struct {
	ResumeID uuid.UUID `json:"resume_id"`
	Score    float64   `json:"score"`
	Category string    `json:"category"`
}
