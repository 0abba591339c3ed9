package domain

import (
	"time"

	"github.com/google/uuid"
)

type Resume struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	SourceName  string         `json:"source_name"`
	RawText     string         `json:"-"`
	Parsed      *ResumeProfile `json:"parsed,omitempty"`
	Confidence  float64        `json:"confidence"`
	Credibility float64        `json:"credibility"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ResumeProfile is the structured form of a parsed resume. All sections
// are present even when empty so downstream scoring never nil-checks.
type ResumeProfile struct {
	PersonalInfo   PersonalInfo    `json:"personal_info"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Skills         Skills          `json:"skills"`
	Projects       []Project       `json:"projects"`
	Certifications []string        `json:"certifications"`
	OnlinePresence OnlinePresence  `json:"online_presence"`
	Metadata       ProfileMetadata `json:"metadata"`
}

type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Summary  string `json:"summary"`
}

type Experience struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
}

type Education struct {
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

type Skills struct {
	Technical   []string          `json:"technical"`
	Soft        []string          `json:"soft"`
	Proficiency map[string]string `json:"proficiency,omitempty"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url,omitempty"`
}

type OnlinePresence struct {
	GitHub        string   `json:"github,omitempty"`
	LinkedIn      string   `json:"linkedin,omitempty"`
	Portfolio     string   `json:"portfolio,omitempty"`
	StackOverflow string   `json:"stackoverflow,omitempty"`
	Other         []string `json:"other,omitempty"`
}

type ProfileMetadata struct {
	Method     string  `json:"method"`
	Confidence float64 `json:"confidence"`
}

// URLs lists every online-presence link for enrichment, in stable order.
func (p OnlinePresence) URLs() []string {
	var urls []string
	for _, u := range []string{p.GitHub, p.LinkedIn, p.Portfolio, p.StackOverflow} {
		if u != "" {
			urls = append(urls, u)
		}
	}
	urls = append(urls, p.Other...)
	return urls
}

// EnrichmentResult is the outcome of verifying a candidate's online
// presence; merged back into the resume record.
type EnrichmentResult struct {
	Profiles    []VerifiedProfile `json:"profiles"`
	Credibility float64           `json:"credibility"`
	SkillHints  []string          `json:"skill_hints,omitempty"`
	CheckedAt   time.Time         `json:"checked_at"`
}

type VerifiedProfile struct {
	URL       string `json:"url"`
	Platform  string `json:"platform"`
	Reachable bool   `json:"reachable"`
	Title     string `json:"title,omitempty"`
	Error     string `json:"error,omitempty"`
}
