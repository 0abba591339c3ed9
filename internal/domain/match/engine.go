package match

import (
	"math"
	"strings"

	"misterhr/internal/domain"
)

// Component weights sum to 1.0.
const (
	weightSkills       = 0.35
	weightExperience   = 0.25
	weightEducation    = 0.10
	weightRequirements = 0.15
	weightCulturalFit  = 0.10
	weightBonus        = 0.05
)

const educationMatchThreshold = 0.6

// yearsPerEntry estimates total experience when dates are unparsable.
const yearsPerEntry = 1.5

var leadershipKeywords = []string{"lead", "mentor", "manage", "managed", "leadership", "supervised", "coordinated"}

var growthKeywords = []string{"learn", "growth", "improve", "certification", "course", "training"}

var cultureKeywords = []string{"collaborat", "team", "communicat", "agile", "ownership", "initiative"}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "of": true,
	"to": true, "in": true, "with": true, "for": true, "on": true, "at": true,
	"is": true, "are": true, "be": true, "as": true, "by": true, "will": true,
	"you": true, "we": true, "our": true, "your": true, "have": true, "has": true,
	"that": true, "this": true, "from": true, "their": true, "them": true,
}

// Calculate scores a parsed resume against an analyzed job. Pure and
// deterministic; both inputs are treated as read-only.
func Calculate(profile domain.ResumeProfile, analysis domain.JobAnalysis) domain.MatchResult {
	skillScore, matchedReq, missingReq, missingPref := scoreSkills(profile, analysis)
	expScore, expGaps := scoreExperience(profile, analysis)
	eduScore, eduMatched := scoreEducation(profile, analysis)
	reqScore := scoreRequirements(profile, analysis)
	cultScore := scoreCulturalFit(profile, analysis)
	bonusScore := scoreBonus(profile)

	overall := skillScore*weightSkills +
		expScore*weightExperience +
		eduScore*weightEducation +
		reqScore*weightRequirements +
		cultScore*weightCulturalFit +
		bonusScore*weightBonus
	overall = clamp(math.Round(overall*10)/10, 0, 100)

	gaps := buildGaps(missingReq, missingPref, expGaps)

	return domain.MatchResult{
		OverallScore:    overall,
		Category:        domain.MatchCategory(overall),
		Components: domain.ComponentScores{
			Skills:       round1(skillScore),
			Experience:   round1(expScore),
			Education:    round1(eduScore),
			Requirements: round1(reqScore),
			CulturalFit:  round1(cultScore),
			Bonus:        round1(bonusScore),
		},
		Strengths:       buildStrengths(profile, analysis, matchedReq, expScore, eduMatched),
		Gaps:            gaps,
		Recommendations: buildRecommendations(gaps),
		Confidence:      analysisConfidence(profile, analysis),
	}
}

// scoreSkills weighs required-skill coverage at 70% and preferred at 30%.
func scoreSkills(profile domain.ResumeProfile, analysis domain.JobAnalysis) (score float64, matched, missingReq, missingPref []string) {
	have := normalizeSet(profile.Skills.Technical)
	for _, p := range profile.Projects {
		for _, t := range p.Technologies {
			have[normalizeSkill(t)] = true
		}
	}

	reqPct, matched, missingReq := coverage(analysis.RequiredSkills, have)
	prefPct, _, missingPref := coverage(analysis.PreferredSkills, have)

	switch {
	case len(analysis.RequiredSkills) == 0 && len(analysis.PreferredSkills) == 0:
		score = 50
	case len(analysis.RequiredSkills) == 0:
		score = prefPct * 100
	case len(analysis.PreferredSkills) == 0:
		score = reqPct * 100
	default:
		score = (reqPct*0.7 + prefPct*0.3) * 100
	}
	return score, matched, missingReq, missingPref
}

func coverage(wanted []string, have map[string]bool) (pct float64, matched, missing []string) {
	if len(wanted) == 0 {
		return 0, nil, nil
	}
	for _, w := range wanted {
		if skillPresent(normalizeSkill(w), have) {
			matched = append(matched, w)
		} else {
			missing = append(missing, w)
		}
	}
	return float64(len(matched)) / float64(len(wanted)), matched, missing
}

// skillPresent tolerates substring variants ("postgres" vs "postgresql").
func skillPresent(want string, have map[string]bool) bool {
	if want == "" {
		return false
	}
	if have[want] {
		return true
	}
	for h := range have {
		if h == "" {
			continue
		}
		if strings.Contains(h, want) || strings.Contains(want, h) {
			return true
		}
	}
	return false
}

// scoreExperience blends level alignment (60%) with years fit (40%).
func scoreExperience(profile domain.ResumeProfile, analysis domain.JobAnalysis) (float64, []string) {
	var gaps []string

	levelScore := scoreLevelAlignment(estimateLevel(profile), analysis.ExperienceLevel)
	if levelScore < 100 && analysis.ExperienceLevel != "" {
		gaps = append(gaps, "experience level below the "+analysis.ExperienceLevel+" target")
	}

	years := EstimateYears(profile)
	yearsScore := scoreYears(years, analysis.YearsMin, analysis.YearsMax)
	if analysis.YearsMin > 0 && years < float64(analysis.YearsMin) {
		gaps = append(gaps, "fewer years of experience than required")
	}

	return (levelScore + yearsScore) / 2, gaps
}

// scoreLevelAlignment returns 100 for an exact match, 70 for an adjacent
// level, 30 otherwise.
func scoreLevelAlignment(candidate, wanted string) float64 {
	if wanted == "" {
		return 100
	}
	cr, cok := domain.LevelRank[candidate]
	wr, wok := domain.LevelRank[wanted]
	if !cok || !wok {
		return 30
	}
	switch d := cr - wr; {
	case d == 0:
		return 100
	case d == 1 || d == -1:
		return 70
	default:
		return 30
	}
}

// scoreYears penalizes shortage hard (20/missing year) and overshoot
// gently, with floors of 20 and 60 respectively.
func scoreYears(years float64, minYears, maxYears int) float64 {
	if minYears <= 0 && maxYears <= 0 {
		return 100
	}
	if minYears > 0 && years < float64(minYears) {
		shortage := float64(minYears) - years
		return math.Max(20, 100-shortage*20)
	}
	if maxYears > 0 && years > float64(maxYears) {
		overshoot := years - float64(maxYears)
		return math.Max(60, 100-overshoot)
	}
	return 100
}

// EstimateYears falls back to entries * 1.5 when no dates parse.
func EstimateYears(profile domain.ResumeProfile) float64 {
	return float64(len(profile.Experience)) * yearsPerEntry
}

func estimateLevel(profile domain.ResumeProfile) string {
	title := strings.ToLower(profile.PersonalInfo.Title)
	for _, exp := range profile.Experience {
		title += " " + strings.ToLower(exp.Title)
	}
	switch {
	case strings.Contains(title, "cto") || strings.Contains(title, "vp ") || strings.Contains(title, "director") || strings.Contains(title, "head of"):
		return domain.LevelExecutive
	case strings.Contains(title, "lead") || strings.Contains(title, "principal") || strings.Contains(title, "staff"):
		return domain.LevelLead
	case strings.Contains(title, "senior") || strings.Contains(title, "sr."):
		return domain.LevelSenior
	case strings.Contains(title, "junior") || strings.Contains(title, "jr."):
		return domain.LevelJunior
	case strings.Contains(title, "intern") || strings.Contains(title, "trainee"):
		return domain.LevelEntry
	}

	years := EstimateYears(profile)
	switch {
	case years >= 8:
		return domain.LevelSenior
	case years >= 4:
		return domain.LevelMid
	case years >= 1.5:
		return domain.LevelJunior
	default:
		return domain.LevelEntry
	}
}

// scoreEducation uses token Jaccard similarity between candidate degrees
// and job requirements; a pair at or above 0.6 counts as a match.
func scoreEducation(profile domain.ResumeProfile, analysis domain.JobAnalysis) (float64, bool) {
	if len(analysis.Education) == 0 {
		return 100, false
	}
	if len(profile.Education) == 0 {
		return 30, false
	}

	best := 0.0
	for _, want := range analysis.Education {
		wantTokens := tokenSet(want)
		for _, edu := range profile.Education {
			haveTokens := tokenSet(edu.Degree + " " + edu.Field)
			if sim := jaccard(wantTokens, haveTokens); sim > best {
				best = sim
			}
		}
	}
	if best >= educationMatchThreshold {
		return 100, true
	}
	return math.Max(30, best*100), false
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if b[t] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// scoreRequirements measures how many content words of the job's
// qualifications and responsibilities appear anywhere in the profile.
func scoreRequirements(profile domain.ResumeProfile, analysis domain.JobAnalysis) float64 {
	var wanted []string
	wanted = append(wanted, analysis.Qualifications...)
	wanted = append(wanted, analysis.Responsibilities...)
	if len(wanted) == 0 {
		return 50
	}

	haystack := strings.ToLower(profileText(profile))

	total, found := 0, 0
	for _, req := range wanted {
		for _, tok := range tokenize(req) {
			if stopWords[tok] || len(tok) < 3 {
				continue
			}
			total++
			if strings.Contains(haystack, tok) {
				found++
			}
		}
	}
	if total == 0 {
		return 50
	}
	return float64(found) / float64(total) * 100
}

func scoreCulturalFit(profile domain.ResumeProfile, analysis domain.JobAnalysis) float64 {
	score := 50.0
	text := strings.ToLower(profileText(profile))

	if containsAny(text, leadershipKeywords) {
		score += 20
	}
	if containsAny(text, growthKeywords) {
		score += 15
	}
	if locationCompatible(profile.PersonalInfo.Location, analysis) {
		score += 15
	}
	return clamp(score, 0, 100)
}

func locationCompatible(candidate string, analysis domain.JobAnalysis) bool {
	if analysis.Remote {
		return true
	}
	if analysis.Location == "" || candidate == "" {
		return true
	}
	c := strings.ToLower(candidate)
	j := strings.ToLower(analysis.Location)
	return strings.Contains(c, j) || strings.Contains(j, c)
}

func scoreBonus(profile domain.ResumeProfile) float64 {
	score := 0.0
	if len(profile.OnlinePresence.URLs()) > 0 {
		score += 25
	}
	if len(profile.Certifications) > 0 {
		score += 25
	}
	if len(profile.Projects) > 0 {
		score += 25
	}
	if containsAny(strings.ToLower(profileText(profile)), cultureKeywords) {
		score += 25
	}
	return score
}

func buildStrengths(profile domain.ResumeProfile, analysis domain.JobAnalysis, matchedReq []string, expScore float64, eduMatched bool) []string {
	var out []string
	if len(matchedReq) > 0 {
		out = append(out, "covers required skills: "+strings.Join(matchedReq, ", "))
	}
	if expScore >= 85 {
		out = append(out, "experience aligns with the role level")
	}
	if eduMatched {
		out = append(out, "education matches the requirements")
	}
	if len(profile.OnlinePresence.URLs()) > 0 {
		out = append(out, "verifiable online presence")
	}
	if len(profile.Projects) > 0 {
		out = append(out, "hands-on project work")
	}
	return out
}

func buildGaps(missingReq, missingPref, expGaps []string) domain.GapAnalysis {
	g := domain.GapAnalysis{
		Skill:      missingReq,
		Experience: expGaps,
	}
	for _, s := range missingReq {
		g.Critical = append(g.Critical, "missing required skill: "+s)
	}
	for _, s := range missingPref {
		g.Improvement = append(g.Improvement, "preferred skill not evidenced: "+s)
	}
	return g
}

const maxRecommendations = 5

func buildRecommendations(gaps domain.GapAnalysis) []string {
	var out []string
	for _, s := range gaps.Skill {
		out = append(out, "highlight or acquire experience with "+s)
	}
	for _, g := range gaps.Experience {
		out = append(out, "address gap: "+g)
	}
	for _, i := range gaps.Improvement {
		out = append(out, i)
	}
	if len(out) > maxRecommendations {
		out = out[:maxRecommendations]
	}
	return out
}

// analysisConfidence starts at 80 and deducts for thin inputs, with a
// floor of 50.
func analysisConfidence(profile domain.ResumeProfile, analysis domain.JobAnalysis) float64 {
	conf := 80.0
	if len(profile.Experience) == 0 {
		conf -= 10
	}
	if len(profile.Skills.Technical) == 0 {
		conf -= 15
	}
	if len(analysis.RequiredSkills) == 0 {
		conf -= 20
	}
	return math.Max(50, conf)
}

func profileText(profile domain.ResumeProfile) string {
	var b strings.Builder
	b.WriteString(profile.PersonalInfo.Title)
	b.WriteString(" ")
	b.WriteString(profile.PersonalInfo.Summary)
	for _, e := range profile.Experience {
		b.WriteString(" ")
		b.WriteString(e.Title)
		b.WriteString(" ")
		b.WriteString(e.Description)
		for _, a := range e.Achievements {
			b.WriteString(" ")
			b.WriteString(a)
		}
	}
	for _, p := range profile.Projects {
		b.WriteString(" ")
		b.WriteString(p.Name)
		b.WriteString(" ")
		b.WriteString(p.Description)
	}
	for _, s := range profile.Skills.Technical {
		b.WriteString(" ")
		b.WriteString(s)
	}
	for _, s := range profile.Skills.Soft {
		b.WriteString(" ")
		b.WriteString(s)
	}
	for _, c := range profile.Certifications {
		b.WriteString(" ")
		b.WriteString(c)
	}
	return b.String()
}

func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeSet(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, it := range items {
		if n := normalizeSkill(it); n != "" {
			out[n] = true
		}
	}
	return out
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '+' || r == '#')
	})
}

func tokenSet(s string) map[string]bool {
	out := map[string]bool{}
	for _, t := range tokenize(s) {
		if !stopWords[t] {
			out[t] = true
		}
	}
	return out
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func clamp(v, minV, maxV float64) float64 {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
