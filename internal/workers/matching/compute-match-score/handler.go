// internal/workers/matching/compute-match-score/handler.go
package computematchscore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"matching-engine/internal/common/errors"
	"matching-engine/internal/common/logger"
	"matching-engine/internal/common/metrics"
	"matching-engine/internal/ingest"
	"matching-engine/internal/matching"
	"matching-engine/internal/matching/engine"
	"matching-engine/internal/store"
)

const (
	TaskType = "compute-match-score"
)

type Handler struct {
	config       *Config
	engine       *engine.Engine
	profiles     *store.ProfileStore
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, e *engine.Engine, profiles *store.ProfileStore, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		engine:       e,
		profiles:     profiles,
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
		h.fail(ctx, client, job, errors.NewCandidateInvalidError("", "parse input: "+err.Error()), start)
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
		return nil, errors.NewCandidateInvalidError("", "input cannot be nil")
	}
	if len(input.Candidate) == 0 {
		return nil, errors.NewCandidateInvalidError("", "candidate is required")
	}

	candidate, err := ingest.Candidate(input.Candidate)
	if err != nil {
		return nil, err
	}

	profile, err := h.resolveProfile(ctx, input)
	if err != nil {
		return nil, err
	}

	prefs, err := ingest.Preferences(input.Preferences)
	if err != nil {
		return nil, err
	}

	if !engine.CanAccessCandidate(candidate, profile.Premium) {
		h.logger.Info("candidate not accessible to actor", map[string]interface{}{
			"candidateId": candidate.ID,
			"actorId":     profile.ID,
		})
		return &Output{Accessible: false}, nil
	}

	result, err := h.engine.Score(candidate, profile, prefs)
	if err != nil {
		return nil, errors.NewMatchScoreFailedError(err)
	}
	boosted := h.engine.ApplyBoost(result, profile.Premium)

	h.logger.Info("match score computed", map[string]interface{}{
		"candidateId": candidate.ID,
		"actorId":     profile.ID,
		"score":       result.Score,
		"boosted":     boosted.Score,
	})

	return &Output{
		Accessible: true,
		Unboosted:  result,
		Boosted:    boosted,
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
