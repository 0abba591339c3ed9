package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	LevelEntry     = "entry"
	LevelJunior    = "junior"
	LevelMid       = "mid"
	LevelSenior    = "senior"
	LevelLead      = "lead"
	LevelExecutive = "executive"
)

// LevelRank orders experience levels for adjacency scoring.
var LevelRank = map[string]int{
	LevelEntry:     0,
	LevelJunior:    1,
	LevelMid:       2,
	LevelSenior:    3,
	LevelLead:      4,
	LevelExecutive: 5,
}

type Job struct {
	ID          uuid.UUID    `json:"id"`
	OwnerID     uuid.UUID    `json:"owner_id"`
	Title       string       `json:"title"`
	Company     string       `json:"company"`
	Location    string       `json:"location"`
	Description string       `json:"description"`
	Analysis    *JobAnalysis `json:"analysis,omitempty"`
	AnalyzedAt  *time.Time   `json:"analyzed_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type JobAnalysis struct {
	JobTitle         string           `json:"job_title"`
	ExperienceLevel  string           `json:"experience_level"`
	YearsMin         int              `json:"years_min"`
	YearsMax         int              `json:"years_max"`
	RequiredSkills   []string         `json:"required_skills"`
	PreferredSkills  []string         `json:"preferred_skills"`
	Education        []string         `json:"education"`
	Responsibilities []string         `json:"responsibilities"`
	Qualifications   []string         `json:"qualifications"`
	Benefits         []string         `json:"benefits"`
	Location         string           `json:"location"`
	Remote           bool             `json:"remote"`
	SalaryRange      string           `json:"salary_range"`
	CompanyName      string           `json:"company_name"`
	Metadata         AnalysisMetadata `json:"metadata"`
}

type AnalysisMetadata struct {
	Method     string  `json:"method"`
	Confidence float64 `json:"confidence"`
}
