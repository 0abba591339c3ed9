package agent

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubGenerator struct {
	response string
	err      error
}

func (s stubGenerator) GenerateContent(_ context.Context, _ string) (string, error) {
	return s.response, s.err
}

const sampleResume = `Dana Smith
Senior Backend Engineer
dana.smith@example.com | (555) 123-4567
Berlin, DE
https://github.com/danasmith
https://linkedin.com/in/danasmith

Experience

Senior Backend Engineer at Acme Corp
2019 - Present
Designed Go microservices backed by PostgreSQL and Redis. Mentoring juniors.

Backend Engineer at Beta GmbH
2016 - 2019
Built REST APIs with Python and Django on AWS.

Education

BSc in Computer Science, TU Berlin, 2016

Skills

Go, Python, PostgreSQL, Redis, Docker, AWS, leadership, communication

Certifications

- AWS Certified Solutions Architect
`

func TestParseResumeWithRules(t *testing.T) {
	profile := parseResumeWithRules(sampleResume)

	if profile.PersonalInfo.Name != "Dana Smith" {
		t.Fatalf("Name = %q, want %q", profile.PersonalInfo.Name, "Dana Smith")
	}
	if profile.PersonalInfo.Email != "dana.smith@example.com" {
		t.Fatalf("Email = %q", profile.PersonalInfo.Email)
	}
	if profile.PersonalInfo.Phone == "" {
		t.Fatalf("expected phone to be extracted")
	}
	if profile.PersonalInfo.Title == "" {
		t.Fatalf("expected title to be extracted")
	}

	if len(profile.Experience) != 2 {
		t.Fatalf("Experience = %d entries, want 2: %+v", len(profile.Experience), profile.Experience)
	}
	first := profile.Experience[0]
	if first.Title != "Senior Backend Engineer" || first.Company != "Acme Corp" {
		t.Fatalf("first experience = %+v", first)
	}
	if first.StartDate != "2019" {
		t.Fatalf("StartDate = %q, want 2019", first.StartDate)
	}

	if len(profile.Education) != 1 {
		t.Fatalf("Education = %+v, want 1 entry", profile.Education)
	}
	edu := profile.Education[0]
	if edu.Degree != "BSc" || edu.Field != "Computer Science" || edu.Institution != "TU Berlin" || edu.Year != "2016" {
		t.Fatalf("Education = %+v", edu)
	}

	skills := map[string]bool{}
	for _, s := range profile.Skills.Technical {
		skills[s] = true
	}
	for _, want := range []string{"Go", "Python", "Postgresql", "Redis", "Docker", "Aws"} {
		if !skills[want] {
			t.Fatalf("technical skills missing %q: %v", want, profile.Skills.Technical)
		}
	}
	if len(profile.Skills.Soft) == 0 {
		t.Fatalf("expected soft skills")
	}

	if profile.OnlinePresence.GitHub != "https://github.com/danasmith" {
		t.Fatalf("GitHub = %q", profile.OnlinePresence.GitHub)
	}
	if profile.OnlinePresence.LinkedIn != "https://linkedin.com/in/danasmith" {
		t.Fatalf("LinkedIn = %q", profile.OnlinePresence.LinkedIn)
	}

	if len(profile.Certifications) != 1 || profile.Certifications[0] != "AWS Certified Solutions Architect" {
		t.Fatalf("Certifications = %v", profile.Certifications)
	}

	if profile.Metadata.Method != MethodRules {
		t.Fatalf("Method = %q, want rules", profile.Metadata.Method)
	}
	// name + email + title + experience + skills + online presence
	if profile.Metadata.Confidence != 1.0 {
		t.Fatalf("Confidence = %v, want 1.0", profile.Metadata.Confidence)
	}
}

func TestResumeConfidenceArithmetic(t *testing.T) {
	profile := parseResumeWithRules("some text without anything useful in it at all")
	if profile.Metadata.Confidence != 0 {
		t.Fatalf("Confidence = %v, want 0 for empty extraction", profile.Metadata.Confidence)
	}
}

func TestParseUsesLLMWhenAvailable(t *testing.T) {
	gen := stubGenerator{response: `{"personal_info": {"name": "Dana Smith", "email": "dana@example.com"}, "skills": {"technical": ["Go"]}}`}
	p := NewResumeParser(gen, time.Second, nil)

	profile, err := p.Parse(context.Background(), sampleResume)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if profile.Metadata.Method != MethodLLM {
		t.Fatalf("Method = %q, want llm", profile.Metadata.Method)
	}
	if profile.PersonalInfo.Name != "Dana Smith" {
		t.Fatalf("Name = %q", profile.PersonalInfo.Name)
	}
}

func TestParseFallsBackOnLLMError(t *testing.T) {
	gen := stubGenerator{err: errors.New("provider down")}
	p := NewResumeParser(gen, time.Second, nil)

	profile, err := p.Parse(context.Background(), sampleResume)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if profile.Metadata.Method != MethodRules {
		t.Fatalf("Method = %q, want rules fallback", profile.Metadata.Method)
	}
}

func TestParseFallsBackOnGarbageOutput(t *testing.T) {
	gen := stubGenerator{response: "I'm sorry, I cannot help with that."}
	p := NewResumeParser(gen, time.Second, nil)

	profile, err := p.Parse(context.Background(), sampleResume)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if profile.Metadata.Method != MethodRules {
		t.Fatalf("Method = %q, want rules fallback", profile.Metadata.Method)
	}
}

func TestParseEmptyResume(t *testing.T) {
	p := NewResumeParser(nil, time.Second, nil)
	if _, err := p.Parse(context.Background(), ""); !errors.Is(err, ErrEmptyResume) {
		t.Fatalf("err = %v, want ErrEmptyResume", err)
	}
}
