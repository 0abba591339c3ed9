package agent

import (
	"regexp"
	"sort"
	"strings"

	"misterhr/internal/domain"
)

var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe = regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.]?\d{4}|\b\+?\d[\d\s().-]{7,}\d\b`)
	urlRe   = regexp.MustCompile(`https?://[^\s)>,"']+`)

	titleRe = regexp.MustCompile(`(?i)(?:senior|junior|lead|principal|staff)\s+(?:software\s+)?(?:engineer|developer|analyst|architect)|(?:full.?stack|backend|frontend|data|devops|platform)\s+(?:developer|engineer)|(?:product|project|program)\s+manager`)

	locationRe = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?),\s*([A-Z]{2})\b`)

	yearRangeRe = regexp.MustCompile(`(19|20)\d{2}\s*[-–]\s*((19|20)\d{2}|[Pp]resent|[Nn]ow)`)
	degreeRe    = regexp.MustCompile(`(?i)\b(bachelor|master|phd|b\.?sc?\.?|m\.?sc?\.?|b\.?a\.?|m\.?b\.?a\.?)\b`)
)

// skillCategories drives keyword-based technical skill detection.
var skillCategories = map[string][]string{
	"programming":  {"python", "java", "javascript", "c++", "c#", "go", "golang", "rust", "typescript", "php", "kotlin", "swift"},
	"web_dev":      {"react", "angular", "vue", "node", "django", "flask", "express", "html", "css", "fiber", "gin"},
	"databases":    {"postgresql", "postgres", "mysql", "mongodb", "redis", "elasticsearch", "sql", "oracle"},
	"cloud":        {"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "heroku"},
	"data_science": {"pandas", "numpy", "tensorflow", "pyspark", "jupyter", "scikit-learn"},
	"tools":        {"git", "jenkins", "jira", "kafka", "rabbitmq", "grpc"},
}

var softSkillKeywords = []string{
	"leadership", "communication", "problem solving", "team player",
	"project management", "analytical", "creative", "mentoring",
}

var sectionHeaders = map[string][]string{
	"experience":     {"experience", "employment", "work history", "professional experience", "work experience"},
	"education":      {"education", "academic background", "academic qualifications"},
	"skills":         {"skills", "technical skills", "competencies", "expertise"},
	"projects":       {"projects", "personal projects", "professional projects"},
	"certifications": {"certifications", "certificates", "credentials"},
}

const maxRuleExperiences = 5

// parseResumeWithRules is the deterministic fallback when no LLM is
// available.
func parseResumeWithRules(text string) domain.ResumeProfile {
	sections := splitSections(text)

	personal := extractPersonalInfo(text)
	experience := extractExperience(sections["experience"])
	education := extractEducation(sections["education"])
	skills := extractSkills(text)
	projects := extractProjects(sections["projects"])
	certs := extractCertifications(sections["certifications"])
	presence := extractOnlinePresence(text)

	profile := domain.ResumeProfile{
		PersonalInfo:   personal,
		Experience:     experience,
		Education:      education,
		Skills:         skills,
		Projects:       projects,
		Certifications: certs,
		OnlinePresence: presence,
	}
	profile.Metadata = domain.ProfileMetadata{
		Method:     MethodRules,
		Confidence: resumeConfidence(profile),
	}
	return profile
}

// resumeConfidence: +0.2 name, +0.2 email, +0.1 title, +0.2 experience,
// +0.2 technical skills, +0.1 online presence, capped at 1.0.
func resumeConfidence(p domain.ResumeProfile) float64 {
	score := 0.0
	if p.PersonalInfo.Name != "" {
		score += 0.2
	}
	if p.PersonalInfo.Email != "" {
		score += 0.2
	}
	if p.PersonalInfo.Title != "" {
		score += 0.1
	}
	if len(p.Experience) > 0 {
		score += 0.2
	}
	if len(p.Skills.Technical) > 0 {
		score += 0.2
	}
	if len(p.OnlinePresence.URLs()) > 0 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// splitSections buckets lines under the most recent recognized header.
// Text before any header lands in the "" bucket.
func splitSections(text string) map[string]string {
	out := map[string]string{}
	current := ""
	var buf []string

	flush := func() {
		if len(buf) > 0 {
			out[current] = strings.TrimSpace(out[current] + "\n" + strings.Join(buf, "\n"))
			buf = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if name, ok := matchSectionHeader(line); ok {
			flush()
			current = name
			continue
		}
		buf = append(buf, line)
	}
	flush()
	return out
}

func matchSectionHeader(line string) (string, bool) {
	l := strings.ToLower(strings.TrimSpace(strings.Trim(line, ":")))
	if l == "" || len(strings.Fields(l)) > 4 {
		return "", false
	}
	for name, aliases := range sectionHeaders {
		for _, a := range aliases {
			if l == a {
				return name, true
			}
		}
	}
	return "", false
}

func extractPersonalInfo(text string) domain.PersonalInfo {
	info := domain.PersonalInfo{}

	if m := emailRe.FindString(text); m != "" {
		info.Email = m
	}
	if m := phoneRe.FindString(text); m != "" {
		info.Phone = strings.TrimSpace(m)
	}

	// Name: first short line near the top with no contact characters.
	lines := strings.Split(text, "\n")
	limit := 5
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(strings.Fields(line)) <= 4 && !strings.ContainsAny(line, "@(+") && !strings.Contains(line, "http") {
			info.Name = line
			break
		}
	}

	if m := titleRe.FindString(text); m != "" {
		info.Title = m
	}
	if m := locationRe.FindStringSubmatch(text); m != nil {
		info.Location = m[1] + ", " + m[2]
	}

	return info
}

func extractExperience(section string) []domain.Experience {
	if strings.TrimSpace(section) == "" {
		return nil
	}

	var out []domain.Experience
	for _, block := range splitBlocks(section) {
		if len(out) >= maxRuleExperiences {
			break
		}
		exp := parseExperienceBlock(block)
		if exp.Title == "" && exp.Company == "" {
			continue
		}
		out = append(out, exp)
	}
	return out
}

// parseExperienceBlock reads "Title - Company" or "Title at Company"
// style headings plus an optional year range.
func parseExperienceBlock(block string) domain.Experience {
	lines := strings.Split(strings.TrimSpace(block), "\n")
	if len(lines) == 0 {
		return domain.Experience{}
	}

	exp := domain.Experience{}
	head := strings.TrimSpace(lines[0])

	switch {
	case strings.Contains(head, " at "):
		parts := strings.SplitN(head, " at ", 2)
		exp.Title, exp.Company = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	case strings.Contains(head, " - "):
		parts := strings.SplitN(head, " - ", 2)
		exp.Title, exp.Company = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	case strings.Contains(head, ","):
		parts := strings.SplitN(head, ",", 2)
		exp.Title, exp.Company = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	default:
		exp.Title = head
	}

	if m := yearRangeRe.FindStringSubmatch(block); m != nil {
		full := yearRangeRe.FindString(block)
		parts := regexp.MustCompile(`[-–]`).Split(full, 2)
		if len(parts) == 2 {
			exp.StartDate = strings.TrimSpace(parts[0])
			exp.EndDate = strings.TrimSpace(parts[1])
		}
	}

	if len(lines) > 1 {
		exp.Description = strings.TrimSpace(strings.Join(lines[1:], " "))
	}
	return exp
}

func extractEducation(section string) []domain.Education {
	if strings.TrimSpace(section) == "" {
		return nil
	}

	var out []domain.Education
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !degreeRe.MatchString(line) {
			continue
		}
		edu := domain.Education{Degree: line}
		parts := strings.Split(line, ",")
		if len(parts) >= 2 {
			edu.Degree = strings.TrimSpace(parts[0])
			edu.Institution = strings.TrimSpace(parts[1])
		}
		if i := strings.Index(strings.ToLower(edu.Degree), " in "); i > 0 {
			edu.Field = strings.TrimSpace(edu.Degree[i+4:])
			edu.Degree = strings.TrimSpace(edu.Degree[:i])
		}
		if m := regexp.MustCompile(`(19|20)\d{2}`).FindString(line); m != "" {
			edu.Year = m
		}
		out = append(out, edu)
	}
	return out
}

func extractSkills(text string) domain.Skills {
	lower := strings.ToLower(text)

	seen := map[string]bool{}
	var technical []string
	proficiency := map[string]string{}

	for _, skills := range skillCategories {
		for _, skill := range skills {
			if seen[skill] || !containsWord(lower, skill) {
				continue
			}
			seen[skill] = true
			name := strings.Title(skill)
			technical = append(technical, name)
			proficiency[name] = "intermediate"
		}
	}
	sort.Strings(technical)

	var soft []string
	for _, skill := range softSkillKeywords {
		if strings.Contains(lower, skill) {
			soft = append(soft, strings.Title(skill))
		}
	}

	return domain.Skills{Technical: technical, Soft: soft, Proficiency: proficiency}
}

// containsWord avoids matching "go" inside "Django" or "r" inside
// everything: single-token skills must appear on word boundaries.
func containsWord(text, word string) bool {
	if strings.ContainsAny(word, " +#.") {
		return strings.Contains(text, word)
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
	return re.MatchString(text)
}

func extractProjects(section string) []domain.Project {
	if strings.TrimSpace(section) == "" {
		return nil
	}

	var out []domain.Project
	for _, block := range splitBlocks(section) {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
			continue
		}
		p := domain.Project{Name: strings.TrimSpace(lines[0])}
		if len(lines) > 1 {
			p.Description = strings.TrimSpace(strings.Join(lines[1:], " "))
		}
		if u := urlRe.FindString(block); u != "" {
			p.URL = u
		}
		out = append(out, p)
	}
	return out
}

func extractCertifications(section string) []string {
	if strings.TrimSpace(section) == "" {
		return nil
	}

	var out []string
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-• "))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func extractOnlinePresence(text string) domain.OnlinePresence {
	urls := urlRe.FindAllString(text, -1)

	presence := domain.OnlinePresence{}
	for _, u := range urls {
		lower := strings.ToLower(u)
		switch {
		case strings.Contains(lower, "github.com") && presence.GitHub == "":
			presence.GitHub = u
		case strings.Contains(lower, "linkedin.com") && presence.LinkedIn == "":
			presence.LinkedIn = u
		case strings.Contains(lower, "stackoverflow.com") && presence.StackOverflow == "":
			presence.StackOverflow = u
		case presence.Portfolio == "":
			presence.Portfolio = u
		default:
			presence.Other = append(presence.Other, u)
		}
	}
	return presence
}

func splitBlocks(s string) []string {
	return regexp.MustCompile(`\n\s*\n`).Split(s, -1)
}
