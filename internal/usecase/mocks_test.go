package usecase

import (
	"context"
	"encoding/json"
	"time"

	"misterhr/internal/agent"
	"misterhr/internal/domain"
	"misterhr/internal/repository"

	"github.com/google/uuid"
)

type mockUserRepo struct {
	users     map[string]domain.User
	createErr error
	created   *domain.User
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	if m.createErr != nil {
		return domain.User{}, m.createErr
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	m.created = &user
	return user, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return domain.User{}, repository.ErrUserNotFound
}

type mockResumeRepo struct {
	resumes    map[uuid.UUID]domain.Resume
	createErr  error
	updateErr  error
	updated    bool
	updatedID  uuid.UUID
	confidence float64
}

func (m *mockResumeRepo) Create(_ context.Context, resume domain.Resume) (domain.Resume, error) {
	if m.createErr != nil {
		return domain.Resume{}, m.createErr
	}
	if resume.ID == uuid.Nil {
		resume.ID = uuid.New()
	}
	if m.resumes == nil {
		m.resumes = map[uuid.UUID]domain.Resume{}
	}
	m.resumes[resume.ID] = resume
	return resume, nil
}

func (m *mockResumeRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Resume, error) {
	if r, ok := m.resumes[id]; ok {
		return r, nil
	}
	return domain.Resume{}, repository.ErrResumeNotFound
}

func (m *mockResumeRepo) ListByUser(_ context.Context, userID uuid.UUID, _, _ int) ([]domain.Resume, error) {
	out := make([]domain.Resume, 0)
	for _, r := range m.resumes {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockResumeRepo) UpdateParsed(_ context.Context, id uuid.UUID, profile domain.ResumeProfile, confidence, credibility float64) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = true
	m.updatedID = id
	m.confidence = confidence
	if r, ok := m.resumes[id]; ok {
		r.Parsed = &profile
		r.Confidence = confidence
		r.Credibility = credibility
		m.resumes[id] = r
	}
	return nil
}

func (m *mockResumeRepo) Delete(_ context.Context, id, userID uuid.UUID) error {
	if r, ok := m.resumes[id]; ok && r.UserID == userID {
		delete(m.resumes, id)
		return nil
	}
	return repository.ErrResumeNotFound
}

type mockJobRepo struct {
	jobs      map[uuid.UUID]domain.Job
	updateErr error
	analyzed  *domain.JobAnalysis
}

func (m *mockJobRepo) Create(_ context.Context, job domain.Job) (domain.Job, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if m.jobs == nil {
		m.jobs = map[uuid.UUID]domain.Job{}
	}
	m.jobs[job.ID] = job
	return job, nil
}

func (m *mockJobRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Job, error) {
	if j, ok := m.jobs[id]; ok {
		return j, nil
	}
	return domain.Job{}, repository.ErrJobNotFound
}

func (m *mockJobRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, _, _ int) ([]domain.Job, error) {
	out := make([]domain.Job, 0)
	for _, j := range m.jobs {
		if j.OwnerID == ownerID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *mockJobRepo) UpdateAnalysis(_ context.Context, id uuid.UUID, analysis domain.JobAnalysis) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.analyzed = &analysis
	if j, ok := m.jobs[id]; ok {
		j.Analysis = &analysis
		m.jobs[id] = j
	}
	return nil
}

func (m *mockJobRepo) Delete(_ context.Context, id, ownerID uuid.UUID) error {
	if j, ok := m.jobs[id]; ok && j.OwnerID == ownerID {
		delete(m.jobs, id)
		return nil
	}
	return repository.ErrJobNotFound
}

type mockApplicationRepo struct {
	apps    map[uuid.UUID]domain.Application
	created *domain.Application
}

func (m *mockApplicationRepo) Create(_ context.Context, app domain.Application) (domain.Application, error) {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	if m.apps == nil {
		m.apps = map[uuid.UUID]domain.Application{}
	}
	m.apps[app.ID] = app
	m.created = &app
	return app, nil
}

func (m *mockApplicationRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Application, error) {
	if a, ok := m.apps[id]; ok {
		return a, nil
	}
	return domain.Application{}, repository.ErrApplicationNotFound
}

func (m *mockApplicationRepo) ListByUser(_ context.Context, userID uuid.UUID, _, _ int) ([]domain.Application, error) {
	out := make([]domain.Application, 0)
	for _, a := range m.apps {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockApplicationRepo) UpdateOutcome(_ context.Context, id uuid.UUID, status string, match *domain.MatchResult, content *domain.GeneratedContent) error {
	a, ok := m.apps[id]
	if !ok {
		return repository.ErrApplicationNotFound
	}
	a.Status = status
	if match != nil {
		a.Match = match
	}
	if content != nil {
		a.Content = content
	}
	m.apps[id] = a
	return nil
}

type mockBatchRepo struct {
	batches     map[uuid.UUID]domain.Batch
	items       map[uuid.UUID][]domain.BatchItem
	statuses    []string
	outcomes    []string
	summary     *domain.BatchSummary
	completeErr error
}

func (m *mockBatchRepo) CreateWithItems(_ context.Context, batch domain.Batch, resumeIDs []uuid.UUID) (domain.Batch, error) {
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	batch.Status = domain.BatchQueued
	batch.Total = len(resumeIDs)
	if m.batches == nil {
		m.batches = map[uuid.UUID]domain.Batch{}
		m.items = map[uuid.UUID][]domain.BatchItem{}
	}
	m.batches[batch.ID] = batch
	for _, id := range resumeIDs {
		m.items[batch.ID] = append(m.items[batch.ID], domain.BatchItem{
			ID:       uuid.New(),
			BatchID:  batch.ID,
			ResumeID: id,
			Status:   domain.BatchQueued,
		})
	}
	return batch, nil
}

func (m *mockBatchRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Batch, error) {
	if b, ok := m.batches[id]; ok {
		return b, nil
	}
	return domain.Batch{}, repository.ErrBatchNotFound
}

func (m *mockBatchRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, _, _ int) ([]domain.Batch, error) {
	out := make([]domain.Batch, 0)
	for _, b := range m.batches {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBatchRepo) ListItems(_ context.Context, batchID uuid.UUID) ([]domain.BatchItem, error) {
	return m.items[batchID], nil
}

func (m *mockBatchRepo) SetStatus(_ context.Context, id uuid.UUID, status string) error {
	b, ok := m.batches[id]
	if !ok {
		return repository.ErrBatchNotFound
	}
	b.Status = status
	m.batches[id] = b
	m.statuses = append(m.statuses, status)
	return nil
}

func (m *mockBatchRepo) RecordItemOutcome(_ context.Context, batchID, resumeID uuid.UUID, match *domain.MatchResult, itemErr string) error {
	items := m.items[batchID]
	for i, item := range items {
		if item.ResumeID != resumeID {
			continue
		}
		// only queued items are recorded, matching the SQL guard
		if item.Status != domain.BatchQueued {
			return nil
		}

		label := resumeID.String() + ":ok"
		item.Status = domain.BatchCompleted
		if itemErr != "" {
			label = resumeID.String() + ":err"
			item.Status = domain.BatchFailed
			item.Error = itemErr
		} else if match != nil {
			item.Match = match
			item.Score = &match.OverallScore
		}
		items[i] = item

		b := m.batches[batchID]
		if itemErr != "" {
			b.Failed++
		} else {
			b.Completed++
		}
		m.batches[batchID] = b

		m.outcomes = append(m.outcomes, label)
		return nil
	}
	return nil
}

func (m *mockBatchRepo) Complete(_ context.Context, id uuid.UUID, status string, summary domain.BatchSummary) error {
	if m.completeErr != nil {
		err := m.completeErr
		m.completeErr = nil
		return err
	}
	b, ok := m.batches[id]
	if !ok {
		return repository.ErrBatchNotFound
	}
	b.Status = status
	b.Summary = &summary
	m.batches[id] = b
	m.summary = &summary
	return nil
}

type stubProcessor struct {
	profile    domain.ResumeProfile
	enrichment *domain.EnrichmentResult
	err        error
}

func (s stubProcessor) ResumeProcessing(context.Context, string) (domain.ResumeProfile, *domain.EnrichmentResult, error) {
	return s.profile, s.enrichment, s.err
}

type stubEnricher struct {
	result domain.EnrichmentResult
	err    error
}

func (s stubEnricher) Enrich(context.Context, domain.ResumeProfile) (domain.EnrichmentResult, error) {
	return s.result, s.err
}

type stubAnalyzer struct {
	analysis domain.JobAnalysis
	err      error
	calls    int
}

func (s *stubAnalyzer) Analyze(context.Context, string) (domain.JobAnalysis, error) {
	s.calls++
	return s.analysis, s.err
}

type stubMatcher struct {
	result domain.MatchResult
	err    error
}

func (s stubMatcher) Match(context.Context, domain.ResumeProfile, domain.JobAnalysis) (domain.MatchResult, error) {
	return s.result, s.err
}

type stubRunner struct {
	result agent.ApplicationResult
	err    error
}

func (s stubRunner) JobApplication(context.Context, string, string, string) (agent.ApplicationResult, error) {
	return s.result, s.err
}

type stubPublisher struct {
	published []uuid.UUID
	err       error
}

func (s *stubPublisher) PublishBatch(_ context.Context, batchID uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.published = append(s.published, batchID)
	return nil
}

type stubBatchMatcher struct {
	result agent.BatchMatchResult
	err    error
}

func (s stubBatchMatcher) BatchMatching(context.Context, string, []agent.BatchCandidate) (agent.BatchMatchResult, error) {
	return s.result, s.err
}

type stubLocker struct {
	held     map[string]bool
	err      error
	acquired []string
	released []string
}

func (s *stubLocker) SetIfNotExists(_ context.Context, key string, _ string, _ time.Duration) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.held[key] {
		return false, nil
	}
	if s.held == nil {
		s.held = map[string]bool{}
	}
	s.held[key] = true
	s.acquired = append(s.acquired, key)
	return true, nil
}

func (s *stubLocker) Delete(_ context.Context, key string) error {
	delete(s.held, key)
	s.released = append(s.released, key)
	return nil
}

type memoryCache struct {
	data map[string][]byte
}

func (c *memoryCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c.data == nil {
		c.data = map[string][]byte{}
	}
	c.data[key] = raw
	return nil
}
