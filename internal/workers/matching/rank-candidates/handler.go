// internal/workers/matching/rank-candidates/handler.go
package rankcandidates

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"matching-engine/internal/common/errors"
	"matching-engine/internal/common/logger"
	"matching-engine/internal/common/metrics"
	"matching-engine/internal/ingest"
	"matching-engine/internal/matching"
	"matching-engine/internal/matching/rank"
	"matching-engine/internal/store"
)

const (
	TaskType = "rank-candidates"
)

var (
	errInputNil         = stderrors.New("input cannot be nil")
	errNoCandidateStore = stderrors.New("no candidate store configured for candidateIds lookup")
	errNoSearchStore    = stderrors.New("no search store configured for search resolution")
)

type Handler struct {
	config       *Config
	ranker       *rank.Service
	profiles     *store.ProfileStore
	candidates   *store.CandidateStore
	search       *store.SearchStore
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, ranker *rank.Service, profiles *store.ProfileStore, candidates *store.CandidateStore, search *store.SearchStore, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		ranker:       ranker,
		profiles:     profiles,
		candidates:   candidates,
		search:       search,
		errorHandler: errors.NewErrorHandler(l),
		logger:       l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(ctx, client, job, errors.NewRankingFailedError(err), start)
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, err, start)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewRankingFailedError(errInputNil)
	}

	profile, err := h.resolveProfile(ctx, input)
	if err != nil {
		return nil, err
	}

	candidates, ingestSkips, err := h.resolveCandidates(ctx, input)
	if err != nil {
		return nil, err
	}

	prefs, err := ingest.Preferences(input.Preferences)
	if err != nil {
		return nil, err
	}

	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = h.config.DefaultPageSize
	}

	result, err := h.ranker.Rank(ctx, &rank.Request{
		Candidates:  candidates,
		Actor:       profile,
		Preferences: prefs,
		Page:        input.Page,
		PageSize:    pageSize,
	})
	if err != nil {
		return nil, err
	}

	skipped := make([]rank.Skip, 0, len(ingestSkips)+len(result.Skipped))
	for _, s := range ingestSkips {
		skipped = append(skipped, rank.Skip{CandidateID: s.CandidateID, Reason: s.Reason})
	}
	skipped = append(skipped, result.Skipped...)

	return &Output{
		Matches:      result.Matches,
		TotalMatches: result.TotalMatches,
		CurrentPage:  result.CurrentPage,
		TotalPages:   result.TotalPages,
		Skipped:      skipped,
		Truncated:    result.Truncated,
	}, nil
}

func (h *Handler) resolveProfile(ctx context.Context, input *Input) (*matching.ActorProfile, error) {
	if len(input.ActorProfile) > 0 {
		return ingest.Profile(input.ActorProfile)
	}
	if input.ActorID == "" {
		return nil, errors.NewProfileInvalidError("either actorProfile or actorId is required")
	}
	if h.profiles == nil {
		return nil, errors.NewProfileInvalidError("no profile store configured for actorId lookup")
	}
	return h.profiles.GetProfile(ctx, input.ActorID)
}

func (h *Handler) resolveCandidates(ctx context.Context, input *Input) ([]*matching.Candidate, []ingest.Skipped, error) {
	if len(input.Candidates) > 0 {
		candidates, skipped := ingest.CandidateBatch(input.Candidates)
		return candidates, skipped, nil
	}
	if input.Search != nil {
		if h.search == nil {
			return nil, nil, errors.NewRankingFailedError(errNoSearchStore)
		}
		result, err := h.search.SearchCandidates(ctx, *input.Search)
		if err != nil {
			return nil, nil, err
		}
		return result.Candidates, result.Skipped, nil
	}
	if len(input.CandidateIDs) == 0 {
		// Nothing to rank; an empty result is a valid outcome.
		return nil, nil, nil
	}
	if h.candidates == nil {
		return nil, nil, errors.NewRankingFailedError(errNoCandidateStore)
	}
	return h.candidates.GetByIDs(ctx, input.CandidateIDs)
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	code := "INTERNAL_ERROR"
	if stdErr, ok := err.(*errors.StandardError); ok {
		code = string(stdErr.Code)
	}
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

// Execute exposes the core logic for tests and embedding.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
