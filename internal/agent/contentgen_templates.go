package agent

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"misterhr/internal/domain"
	"misterhr/internal/domain/match"
)

// generateWithTemplates is the deterministic fallback: relevance-ordered
// experience, job-prioritized skills, and a three-paragraph cover
// letter.
func generateWithTemplates(profile domain.ResumeProfile, analysis domain.JobAnalysis, tone string) domain.GeneratedContent {
	resume := &domain.TailoredResume{
		Summary:    templateSummary(profile, analysis, tone),
		Experience: orderExperienceByRelevance(profile.Experience, analysis),
		Skills:     prioritizeSkills(profile.Skills.Technical, analysis),
		Education:  profile.Education,
	}

	return domain.GeneratedContent{
		TailoredResume: resume,
		CoverLetter:    templateCoverLetter(profile, analysis, tone),
	}
}

func templateSummary(profile domain.ResumeProfile, analysis domain.JobAnalysis, tone string) string {
	role := analysis.JobTitle
	if role == "" {
		role = "the role"
	}
	title := profile.PersonalInfo.Title
	if title == "" {
		title = "software professional"
	}

	years := match.EstimateYears(profile)
	verb := toneKeywords[tone][0]

	skills := prioritizeSkills(profile.Skills.Technical, analysis)
	if len(skills) > 3 {
		skills = skills[:3]
	}

	s := fmt.Sprintf("%s with %.0f+ years of experience, well suited for %s.", strings.Title(title), years, role)
	if len(skills) > 0 {
		s += fmt.Sprintf(" Has %s solutions with %s.", verb, strings.Join(skills, ", "))
	}
	return s
}

// orderExperienceByRelevance sorts entries by overlap with the job's
// required skills, preserving original order on ties.
func orderExperienceByRelevance(experience []domain.Experience, analysis domain.JobAnalysis) []domain.Experience {
	type scored struct {
		exp   domain.Experience
		score int
		pos   int
	}

	required := make([]string, 0, len(analysis.RequiredSkills))
	for _, s := range analysis.RequiredSkills {
		required = append(required, strings.ToLower(s))
	}

	items := make([]scored, 0, len(experience))
	for i, exp := range experience {
		text := strings.ToLower(exp.Title + " " + exp.Description + " " + strings.Join(exp.Achievements, " "))
		n := 0
		for _, skill := range required {
			if strings.Contains(text, skill) {
				n++
			}
		}
		items = append(items, scored{exp: exp, score: n, pos: i})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].score != items[j].score {
			return items[i].score > items[j].score
		}
		return items[i].pos < items[j].pos
	})

	out := make([]domain.Experience, 0, len(items))
	for _, it := range items {
		out = append(out, it.exp)
	}
	return out
}

// prioritizeSkills lists job-required skills first, then the rest in
// original order.
func prioritizeSkills(skills []string, analysis domain.JobAnalysis) []string {
	wanted := map[string]bool{}
	for _, s := range analysis.RequiredSkills {
		wanted[strings.ToLower(s)] = true
	}
	for _, s := range analysis.PreferredSkills {
		wanted[strings.ToLower(s)] = true
	}

	var front, back []string
	for _, s := range skills {
		if wanted[strings.ToLower(s)] {
			front = append(front, s)
		} else {
			back = append(back, s)
		}
	}
	return append(front, back...)
}

func templateCoverLetter(profile domain.ResumeProfile, analysis domain.JobAnalysis, tone string) string {
	name := profile.PersonalInfo.Name
	if name == "" {
		name = "the candidate"
	}
	role := analysis.JobTitle
	if role == "" {
		role = "the open position"
	}
	company := analysis.CompanyName
	if company == "" {
		company = "your company"
	}

	skills := prioritizeSkills(profile.Skills.Technical, analysis)
	if len(skills) > 4 {
		skills = skills[:4]
	}
	skillLine := "a strong technical background"
	if len(skills) > 0 {
		skillLine = "hands-on experience with " + strings.Join(skills, ", ")
	}

	verbs := toneKeywords[tone]

	para1 := fmt.Sprintf("Dear Hiring Manager,\n\nI am writing to apply for the %s position at %s. With %.0f+ years of experience and %s, I am confident I can contribute from day one.",
		role, company, match.EstimateYears(profile), skillLine)

	para2 := fmt.Sprintf("In my previous roles I have %s systems that align closely with your requirements.", verbs[len(verbs)-1])
	if len(profile.Experience) > 0 {
		recent := profile.Experience[0]
		para2 = fmt.Sprintf("Most recently as %s at %s, I %s work that aligns closely with your requirements.",
			recent.Title, recent.Company, verbs[len(verbs)-1])
	}

	para3 := fmt.Sprintf("I would welcome the opportunity to discuss how my background fits your team.\n\nSincerely,\n%s", name)

	return para1 + "\n\n" + para2 + "\n\n" + para3
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
