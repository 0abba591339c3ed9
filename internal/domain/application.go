package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	ApplicationDraft     = "draft"
	ApplicationSubmitted = "submitted"
	ApplicationMatched   = "matched"
	ApplicationRejected  = "rejected"
)

type Application struct {
	ID        uuid.UUID         `json:"id"`
	ResumeID  uuid.UUID         `json:"resume_id"`
	JobID     uuid.UUID         `json:"job_id"`
	UserID    uuid.UUID         `json:"user_id"`
	Status    string            `json:"status"`
	Match     *MatchResult      `json:"match,omitempty"`
	Content   *GeneratedContent `json:"content,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// GeneratedContent is the tailored material for one (resume, job) pair.
type GeneratedContent struct {
	TailoredResume *TailoredResume `json:"tailored_resume,omitempty"`
	CoverLetter    string          `json:"cover_letter,omitempty"`
	Tone           string          `json:"tone"`
	KeywordUsage   KeywordUsage    `json:"keyword_usage"`
	ATSScore       float64         `json:"ats_score"`
	Quality        ContentQuality  `json:"quality"`
	Metadata       ContentMetadata `json:"metadata"`
}

type TailoredResume struct {
	Summary    string       `json:"summary"`
	Experience []Experience `json:"experience"`
	Skills     []string     `json:"skills"`
	Education  []Education  `json:"education"`
}

type KeywordUsage struct {
	Found   []string `json:"found"`
	Missing []string `json:"missing"`
	Total   int      `json:"total"`
	Density float64  `json:"density"`
}

type ContentQuality struct {
	Sections      []string `json:"sections"`
	WordCount     int      `json:"word_count"`
	HasSummary    bool     `json:"has_summary"`
	HasExperience bool     `json:"has_experience"`
}

type ContentMetadata struct {
	Method      string    `json:"method"`
	GeneratedAt time.Time `json:"generated_at"`
}

const (
	ToneProfessional = "professional"
	ToneConfident    = "confident"
	ToneTechnical    = "technical"
)

func ValidTone(tone string) bool {
	switch tone {
	case ToneProfessional, ToneConfident, ToneTechnical:
		return true
	}
	return false
}
