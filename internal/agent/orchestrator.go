package agent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"misterhr/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	WorkflowResumeProcessing  = "resume_processing"
	WorkflowJobApplication    = "job_application"
	WorkflowBatchMatching     = "batch_matching"
	WorkflowContentGeneration = "content_generation"
)

const (
	StepStarted   = "started"
	StepCompleted = "completed"
	StepFailed    = "failed"
)

// DefaultBatchSize is how many resumes score concurrently per batch.
const DefaultBatchSize = 3

type ProgressEvent struct {
	WorkflowID string    `json:"workflow_id"`
	Workflow   string    `json:"workflow"`
	Step       string    `json:"step"`
	Status     string    `json:"status"`
	Detail     string    `json:"detail,omitempty"`
	At         time.Time `json:"at"`
}

// ProgressNotifier receives workflow progress events. Implemented by
// the websocket hub; a nil notifier drops events.
type ProgressNotifier interface {
	Progress(event ProgressEvent)
}

// Orchestrator coordinates the agents into the multi-step workflows the
// API exposes.
type Orchestrator struct {
	parser    *ResumeParser
	analyzer  *JDAnalyzer
	matcher   *Matcher
	generator *ContentGenerator
	enricher  *Enricher

	notifier  ProgressNotifier
	logger    *zap.Logger
	batchSize int
}

func NewOrchestrator(
	parser *ResumeParser,
	analyzer *JDAnalyzer,
	matcher *Matcher,
	generator *ContentGenerator,
	enricher *Enricher,
	notifier ProgressNotifier,
	batchSize int,
	logger *zap.Logger,
) *Orchestrator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Orchestrator{
		parser:    parser,
		analyzer:  analyzer,
		matcher:   matcher,
		generator: generator,
		enricher:  enricher,
		notifier:  notifier,
		logger:    logger,
		batchSize: batchSize,
	}
}

func (o *Orchestrator) emit(workflowID, workflow, step, status, detail string) {
	if o.notifier == nil {
		return
	}
	o.notifier.Progress(ProgressEvent{
		WorkflowID: workflowID,
		Workflow:   workflow,
		Step:       step,
		Status:     status,
		Detail:     detail,
		At:         time.Now().UTC(),
	})
}

func newWorkflowID(workflow string) string {
	return fmt.Sprintf("%s_%s", workflow, uuid.NewString())
}

// ResumeProcessing parses raw resume text and then enriches it from the
// candidate's online presence. Enrichment failure is non-fatal.
func (o *Orchestrator) ResumeProcessing(ctx context.Context, text string) (domain.ResumeProfile, *domain.EnrichmentResult, error) {
	id := newWorkflowID(WorkflowResumeProcessing)

	o.emit(id, WorkflowResumeProcessing, "parse", StepStarted, "")
	profile, err := o.parser.Parse(ctx, text)
	if err != nil {
		o.emit(id, WorkflowResumeProcessing, "parse", StepFailed, err.Error())
		return domain.ResumeProfile{}, nil, err
	}
	o.emit(id, WorkflowResumeProcessing, "parse", StepCompleted, "")

	o.emit(id, WorkflowResumeProcessing, "enrich", StepStarted, "")
	enrichment, err := o.enricher.Enrich(ctx, profile)
	if err != nil {
		if !errors.Is(err, ErrNoOnlinePresence) && !errors.Is(err, ErrEnrichmentDisabled) && o.logger != nil {
			o.logger.Warn("enrichment failed", zap.Error(err))
		}
		o.emit(id, WorkflowResumeProcessing, "enrich", StepFailed, err.Error())
		return profile, nil, nil
	}
	o.emit(id, WorkflowResumeProcessing, "enrich", StepCompleted, "")

	profile = MergeEnrichment(profile, enrichment)
	return profile, &enrichment, nil
}

// ApplicationResult is the outcome of the job application workflow.
// Content may be nil when generation failed; the match always stands.
type ApplicationResult struct {
	Profile  domain.ResumeProfile
	Analysis domain.JobAnalysis
	Match    domain.MatchResult
	Content  *domain.GeneratedContent
}

// JobApplication runs parse and analyze in parallel, then matches, then
// generates tailored content. Generation failure is non-fatal.
func (o *Orchestrator) JobApplication(ctx context.Context, resumeText, jobDescription, tone string) (ApplicationResult, error) {
	id := newWorkflowID(WorkflowJobApplication)

	var (
		profile    domain.ResumeProfile
		analysis   domain.JobAnalysis
		parseErr   error
		analyzeErr error
		wg         sync.WaitGroup
	)

	o.emit(id, WorkflowJobApplication, "parse_and_analyze", StepStarted, "")
	wg.Add(2)
	go func() {
		defer wg.Done()
		profile, parseErr = o.parser.Parse(ctx, resumeText)
	}()
	go func() {
		defer wg.Done()
		analysis, analyzeErr = o.analyzer.Analyze(ctx, jobDescription)
	}()
	wg.Wait()

	if parseErr != nil {
		o.emit(id, WorkflowJobApplication, "parse_and_analyze", StepFailed, parseErr.Error())
		return ApplicationResult{}, fmt.Errorf("parse resume: %w", parseErr)
	}
	if analyzeErr != nil {
		o.emit(id, WorkflowJobApplication, "parse_and_analyze", StepFailed, analyzeErr.Error())
		return ApplicationResult{}, fmt.Errorf("analyze job: %w", analyzeErr)
	}
	o.emit(id, WorkflowJobApplication, "parse_and_analyze", StepCompleted, "")

	o.emit(id, WorkflowJobApplication, "match", StepStarted, "")
	matchResult, err := o.matcher.Match(ctx, profile, analysis)
	if err != nil {
		o.emit(id, WorkflowJobApplication, "match", StepFailed, err.Error())
		return ApplicationResult{}, err
	}
	o.emit(id, WorkflowJobApplication, "match", StepCompleted, "")

	result := ApplicationResult{Profile: profile, Analysis: analysis, Match: matchResult}

	o.emit(id, WorkflowJobApplication, "generate", StepStarted, "")
	content, err := o.generator.Generate(ctx, profile, analysis, tone)
	if err != nil {
		if o.logger != nil {
			o.logger.Warn("content generation failed, returning match only", zap.Error(err))
		}
		o.emit(id, WorkflowJobApplication, "generate", StepFailed, err.Error())
		return result, nil
	}
	o.emit(id, WorkflowJobApplication, "generate", StepCompleted, "")

	result.Content = &content
	return result, nil
}

// ContentGeneration runs the content workflow on already-parsed inputs.
func (o *Orchestrator) ContentGeneration(ctx context.Context, profile domain.ResumeProfile, analysis domain.JobAnalysis, tone string) (domain.GeneratedContent, error) {
	id := newWorkflowID(WorkflowContentGeneration)

	o.emit(id, WorkflowContentGeneration, "generate", StepStarted, "")
	content, err := o.generator.Generate(ctx, profile, analysis, tone)
	if err != nil {
		o.emit(id, WorkflowContentGeneration, "generate", StepFailed, err.Error())
		return domain.GeneratedContent{}, err
	}
	o.emit(id, WorkflowContentGeneration, "generate", StepCompleted, "")
	return content, nil
}

type BatchCandidate struct {
	ResumeID uuid.UUID
	Profile  domain.ResumeProfile
}

type BatchOutcome struct {
	ResumeID uuid.UUID
	Match    *domain.MatchResult
	Err      error
}

type BatchMatchResult struct {
	Analysis domain.JobAnalysis
	Outcomes []BatchOutcome
	Summary  domain.BatchSummary
}

// BatchMatching analyzes the job once and scores candidates in batches,
// returning outcomes ranked by score.
func (o *Orchestrator) BatchMatching(ctx context.Context, jobDescription string, candidates []BatchCandidate) (BatchMatchResult, error) {
	id := newWorkflowID(WorkflowBatchMatching)

	o.emit(id, WorkflowBatchMatching, "analyze", StepStarted, "")
	analysis, err := o.analyzer.Analyze(ctx, jobDescription)
	if err != nil {
		o.emit(id, WorkflowBatchMatching, "analyze", StepFailed, err.Error())
		return BatchMatchResult{}, err
	}
	o.emit(id, WorkflowBatchMatching, "analyze", StepCompleted, "")

	outcomes := make([]BatchOutcome, 0, len(candidates))
	for start := 0; start < len(candidates); start += o.batchSize {
		end := start + o.batchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[start:end]

		results := make([]BatchOutcome, len(batch))
		var wg sync.WaitGroup
		wg.Add(len(batch))
		for i, cand := range batch {
			i, cand := i, cand
			go func() {
				defer wg.Done()
				m, err := o.matcher.Match(ctx, cand.Profile, analysis)
				if err != nil {
					results[i] = BatchOutcome{ResumeID: cand.ResumeID, Err: err}
					return
				}
				results[i] = BatchOutcome{ResumeID: cand.ResumeID, Match: &m}
			}()
		}
		wg.Wait()
		outcomes = append(outcomes, results...)

		o.emit(id, WorkflowBatchMatching, "match", StepCompleted, fmt.Sprintf("%d/%d", end, len(candidates)))
	}

	sort.SliceStable(outcomes, func(i, j int) bool {
		si, sj := -1.0, -1.0
		if outcomes[i].Match != nil {
			si = outcomes[i].Match.OverallScore
		}
		if outcomes[j].Match != nil {
			sj = outcomes[j].Match.OverallScore
		}
		return si > sj
	})

	return BatchMatchResult{
		Analysis: analysis,
		Outcomes: outcomes,
		Summary:  SummarizeBatch(outcomes),
	}, nil
}

// SummarizeBatch ranks successful outcomes and buckets their scores.
func SummarizeBatch(outcomes []BatchOutcome) domain.BatchSummary {
	summary := domain.BatchSummary{Distribution: map[string]int{}}

	total := 0.0
	for _, out := range outcomes {
		if out.Match == nil {
			continue
		}
		summary.Ranked = append(summary.Ranked, domain.RankedCandidate{
			ResumeID: out.ResumeID,
			Score:    out.Match.OverallScore,
			Category: out.Match.Category,
		})
		summary.Distribution[out.Match.Category]++
		total += out.Match.OverallScore
	}

	sort.SliceStable(summary.Ranked, func(i, j int) bool {
		return summary.Ranked[i].Score > summary.Ranked[j].Score
	})

	if n := len(summary.Ranked); n > 0 {
		summary.TopScore = summary.Ranked[0].Score
		summary.AvgScore = total / float64(n)
	}
	return summary
}

// AgentHealth reports per-agent health keyed by agent name.
func (o *Orchestrator) AgentHealth() map[string]Health {
	return map[string]Health{
		"resume_parser":     o.parser.Metrics().Health(),
		"jd_analyzer":       o.analyzer.Metrics().Health(),
		"matcher":           o.matcher.Metrics().Health(),
		"content_generator": o.generator.Metrics().Health(),
		"enricher":          o.enricher.Metrics().Health(),
	}
}

// AgentMetrics reports raw per-agent call statistics.
func (o *Orchestrator) AgentMetrics() map[string]MetricsSnapshot {
	return map[string]MetricsSnapshot{
		"resume_parser":     o.parser.Metrics().Snapshot(),
		"jd_analyzer":       o.analyzer.Metrics().Snapshot(),
		"matcher":           o.matcher.Metrics().Snapshot(),
		"content_generator": o.generator.Metrics().Snapshot(),
		"enricher":          o.enricher.Metrics().Snapshot(),
	}
}
