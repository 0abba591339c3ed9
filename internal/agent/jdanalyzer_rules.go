package agent

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"misterhr/internal/domain"
)

var yearsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)(?:\+|\s*-\s*\d+)?\s*years?(?:\s*of)?\s*experience`),
	regexp.MustCompile(`experience(?:\s*level)?:\s*(\d+)`),
	regexp.MustCompile(`minimum\s*(\d+)\s*years?`),
}

var (
	seniorLevelKeywords = []string{"senior", "lead", "principal", "architect", "head", "director", "manager"}
	midLevelKeywords    = []string{"mid", "intermediate", "experienced", "3+", "4+", "5+"}
	juniorLevelKeywords = []string{"junior", "entry", "graduate", "fresh", "1+", "2+"}
)

var jdSoftSkillKeywords = []string{
	"communication", "leadership", "teamwork", "problem solving", "analytical",
	"creative", "attention to detail", "time management", "adaptability", "collaboration",
}

var educationKeywords = []string{
	"bachelor", "master", "phd", "degree", "computer science", "engineering",
	"mathematics", "business", "equivalent experience", "certification",
}

var jdLocationRe = regexp.MustCompile(`(?i)(?:location|based in)[:\s]+([A-Za-z\s,]+?)(?:\s*\||\n|$)`)

// analyzeJobWithRules is the deterministic fallback when no LLM is
// available.
func analyzeJobWithRules(description string) domain.JobAnalysis {
	lower := strings.ToLower(description)

	analysis := domain.JobAnalysis{
		JobTitle:        ruleJobTitle(description),
		ExperienceLevel: ruleExperienceLevel(lower),
		RequiredSkills:  ruleTechnicalSkills(lower),
		PreferredSkills: ruleSoftSkills(lower),
		Education:       ruleEducation(lower),
		Location:        ruleLocation(description),
	}

	analysis.YearsMin, analysis.YearsMax = ruleYears(lower)
	analysis.Remote = strings.Contains(lower, "remote")

	analysis.Metadata = domain.AnalysisMetadata{
		Method:     MethodRules,
		Confidence: analysisConfidence(analysis),
	}
	return analysis
}

// ruleJobTitle takes the first short prose line.
func ruleJobTitle(description string) string {
	lines := strings.Split(description, "\n")
	limit := 3
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		line = strings.TrimSpace(line)
		if len(line) > 5 && len(line) < 50 && !strings.Contains(line, "@") && !strings.Contains(strings.ToLower(line), "http") {
			return line
		}
	}
	return ""
}

// ruleExperienceLevel counts level keyword hits; ties break toward the
// more senior bucket, and no hits default to mid.
func ruleExperienceLevel(lower string) string {
	count := func(keywords []string) int {
		n := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				n++
			}
		}
		return n
	}

	senior := count(seniorLevelKeywords)
	mid := count(midLevelKeywords)
	junior := count(juniorLevelKeywords)

	max := senior
	if mid > max {
		max = mid
	}
	if junior > max {
		max = junior
	}

	switch {
	case max == 0:
		return domain.LevelMid
	case senior == max:
		return domain.LevelSenior
	case mid == max:
		return domain.LevelMid
	default:
		return domain.LevelJunior
	}
}

func ruleYears(lower string) (minYears, maxYears int) {
	for _, re := range yearsPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			years, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			return years, years + 2
		}
	}
	return 0, 0
}

const maxRuleRequiredSkills = 10

func ruleTechnicalSkills(lower string) []string {
	seen := map[string]bool{}
	var found []string
	for _, skills := range skillCategories {
		for _, skill := range skills {
			if seen[skill] || !containsWord(lower, skill) {
				continue
			}
			seen[skill] = true
			found = append(found, strings.Title(skill))
		}
	}
	sort.Strings(found)
	if len(found) > maxRuleRequiredSkills {
		found = found[:maxRuleRequiredSkills]
	}
	return found
}

const maxRulePreferredSkills = 5

func ruleSoftSkills(lower string) []string {
	var found []string
	for _, skill := range jdSoftSkillKeywords {
		if strings.Contains(lower, skill) {
			found = append(found, strings.Title(skill))
		}
	}
	if len(found) > maxRulePreferredSkills {
		found = found[:maxRulePreferredSkills]
	}
	return found
}

func ruleEducation(lower string) []string {
	var out []string
	for _, kw := range educationKeywords {
		if strings.Contains(lower, kw) {
			out = append(out, strings.Title(kw))
		}
	}
	return out
}

func ruleLocation(description string) string {
	if m := jdLocationRe.FindStringSubmatch(description); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := locationRe.FindStringSubmatch(description); m != nil {
		return m[1] + ", " + m[2]
	}
	lower := strings.ToLower(description)
	if strings.Contains(lower, "remote") {
		return "Remote"
	}
	if strings.Contains(lower, "hybrid") {
		return "Hybrid"
	}
	return ""
}
