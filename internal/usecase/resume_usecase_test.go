package usecase

import (
	"context"
	"errors"
	"testing"

	"misterhr/internal/agent"
	"misterhr/internal/domain"

	"github.com/google/uuid"
)

func TestResumeUsecase_Upload_Success(t *testing.T) {
	profile := domain.ResumeProfile{
		PersonalInfo: domain.PersonalInfo{Name: "Dana Smith"},
		Metadata:     domain.ProfileMetadata{Method: "rules", Confidence: 0.7},
	}
	enrichment := &domain.EnrichmentResult{Credibility: 45}

	repo := &mockResumeRepo{}
	uc := NewResumeUsecase(repo, stubProcessor{profile: profile, enrichment: enrichment}, stubEnricher{}, nil)

	userID := uuid.New()
	resume, got, err := uc.Upload(context.Background(), UploadResumeInput{
		UserID:   userID,
		Filename: "resume.txt",
		Data:     []byte("Dana Smith\ndana@example.com\nGo engineer"),
	})
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if resume.UserID != userID || resume.Parsed == nil {
		t.Fatalf("resume = %+v", resume)
	}
	if resume.Confidence != 0.7 || resume.Credibility != 45 {
		t.Fatalf("confidence/credibility = %v/%v", resume.Confidence, resume.Credibility)
	}
	if got == nil || got.Credibility != 45 {
		t.Fatalf("enrichment = %+v", got)
	}
	if !repo.updated || repo.updatedID != resume.ID {
		t.Fatalf("UpdateParsed not called for stored resume")
	}
}

func TestResumeUsecase_Upload_UnsupportedFormat(t *testing.T) {
	uc := NewResumeUsecase(&mockResumeRepo{}, stubProcessor{}, stubEnricher{}, nil)

	_, _, err := uc.Upload(context.Background(), UploadResumeInput{
		UserID:   uuid.New(),
		Filename: "resume.png",
		Data:     []byte("binary"),
	})
	if !errors.Is(err, ErrUnsupportedUpload) {
		t.Fatalf("err = %v, want ErrUnsupportedUpload", err)
	}
}

func TestResumeUsecase_Upload_ParseFailureKeepsRawResume(t *testing.T) {
	repo := &mockResumeRepo{}
	uc := NewResumeUsecase(repo, stubProcessor{err: errors.New("parser down")}, stubEnricher{}, nil)

	resume, enrichment, err := uc.Upload(context.Background(), UploadResumeInput{
		UserID:   uuid.New(),
		Filename: "resume.txt",
		Data:     []byte("some resume text"),
	})
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if enrichment != nil || resume.Parsed != nil {
		t.Fatalf("expected raw-only resume, got %+v", resume)
	}
	if _, ok := repo.resumes[resume.ID]; !ok {
		t.Fatalf("raw resume not stored")
	}
	if repo.updated {
		t.Fatalf("UpdateParsed called despite parse failure")
	}
}

func TestResumeUsecase_Enrich_MergesHintsAndPersists(t *testing.T) {
	owner := uuid.New()
	id := uuid.New()
	parsed := domain.ResumeProfile{
		Skills: domain.Skills{Technical: []string{"Go"}},
	}
	repo := &mockResumeRepo{resumes: map[uuid.UUID]domain.Resume{
		id: {ID: id, UserID: owner, Parsed: &parsed, Confidence: 0.7},
	}}
	enricher := stubEnricher{result: domain.EnrichmentResult{
		Credibility: 60,
		SkillHints:  []string{"Terraform", "Go"},
	}}
	uc := NewResumeUsecase(repo, stubProcessor{}, enricher, nil)

	resume, result, err := uc.Enrich(context.Background(), id, owner)
	if err != nil {
		t.Fatalf("Enrich error: %v", err)
	}
	if result == nil || result.Credibility != 60 {
		t.Fatalf("result = %+v", result)
	}
	if resume.Credibility != 60 {
		t.Fatalf("credibility = %v, want 60", resume.Credibility)
	}
	skills := resume.Parsed.Skills.Technical
	if len(skills) != 2 || skills[0] != "Go" || skills[1] != "Terraform" {
		t.Fatalf("merged skills = %v", skills)
	}
	if !repo.updated || repo.updatedID != id {
		t.Fatalf("merged profile not persisted")
	}
}

func TestResumeUsecase_Enrich_Errors(t *testing.T) {
	owner := uuid.New()
	raw, parsed := uuid.New(), uuid.New()
	profile := domain.ResumeProfile{}
	repo := &mockResumeRepo{resumes: map[uuid.UUID]domain.Resume{
		raw:    {ID: raw, UserID: owner},
		parsed: {ID: parsed, UserID: owner, Parsed: &profile},
	}}

	uc := NewResumeUsecase(repo, stubProcessor{}, stubEnricher{}, nil)
	if _, _, err := uc.Enrich(context.Background(), raw, owner); !errors.Is(err, ErrResumeNotParsed) {
		t.Fatalf("unparsed err = %v, want ErrResumeNotParsed", err)
	}

	uc = NewResumeUsecase(repo, stubProcessor{}, stubEnricher{err: agent.ErrNoOnlinePresence}, nil)
	if _, _, err := uc.Enrich(context.Background(), parsed, owner); !errors.Is(err, ErrNothingToEnrich) {
		t.Fatalf("no-presence err = %v, want ErrNothingToEnrich", err)
	}
}

func TestResumeUsecase_Get_Ownership(t *testing.T) {
	owner, stranger := uuid.New(), uuid.New()
	id := uuid.New()
	repo := &mockResumeRepo{resumes: map[uuid.UUID]domain.Resume{
		id: {ID: id, UserID: owner},
	}}
	uc := NewResumeUsecase(repo, stubProcessor{}, stubEnricher{}, nil)

	if _, err := uc.Get(context.Background(), id, owner); err != nil {
		t.Fatalf("owner Get error: %v", err)
	}
	if _, err := uc.Get(context.Background(), id, stranger); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger err = %v, want ErrForbidden", err)
	}
	if _, err := uc.Get(context.Background(), uuid.New(), owner); !errors.Is(err, ErrResumeNotFound) {
		t.Fatalf("missing err = %v, want ErrResumeNotFound", err)
	}
}

func TestResumeUsecase_Delete(t *testing.T) {
	owner := uuid.New()
	id := uuid.New()
	repo := &mockResumeRepo{resumes: map[uuid.UUID]domain.Resume{
		id: {ID: id, UserID: owner},
	}}
	uc := NewResumeUsecase(repo, stubProcessor{}, stubEnricher{}, nil)

	if err := uc.Delete(context.Background(), id, owner); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := uc.Delete(context.Background(), id, owner); !errors.Is(err, ErrResumeNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}
