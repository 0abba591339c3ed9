package domain

const (
	MatchExcellent = "excellent"
	MatchStrong    = "strong"
	MatchGood      = "good"
	MatchModerate  = "moderate"
	MatchWeak      = "weak"
)

type MatchResult struct {
	OverallScore    float64         `json:"overall_score"`
	Category        string          `json:"category"`
	Components      ComponentScores `json:"components"`
	Strengths       []string        `json:"strengths"`
	Gaps            GapAnalysis     `json:"gaps"`
	Recommendations []string        `json:"recommendations"`
	Confidence      float64         `json:"confidence"`
}

type ComponentScores struct {
	Skills       float64 `json:"skills"`
	Experience   float64 `json:"experience"`
	Education    float64 `json:"education"`
	Requirements float64 `json:"requirements"`
	CulturalFit  float64 `json:"cultural_fit"`
	Bonus        float64 `json:"bonus"`
}

type GapAnalysis struct {
	Critical    []string `json:"critical"`
	Improvement []string `json:"improvement"`
	Skill       []string `json:"skill"`
	Experience  []string `json:"experience"`
}

// MatchCategory buckets an overall score.
func MatchCategory(score float64) string {
	switch {
	case score >= 85:
		return MatchExcellent
	case score >= 75:
		return MatchStrong
	case score >= 60:
		return MatchGood
	case score >= 40:
		return MatchModerate
	default:
		return MatchWeak
	}
}
