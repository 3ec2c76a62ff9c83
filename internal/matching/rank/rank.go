// internal/matching/rank/rank.go

// Package rank orchestrates a full ranking pass: score every accessible
// candidate against the actor (fanned out over a bounded worker pool),
// apply boosts, sort deterministically, and paginate. Per-candidate
// failures become reported skips; only configuration errors abort a batch.
package rank

import (
	"context"
	stderrors "errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"matching-engine/internal/common/errors"
	"matching-engine/internal/common/logger"
	"matching-engine/internal/common/metrics"
	"matching-engine/internal/matching"
	"matching-engine/internal/matching/engine"
	"matching-engine/internal/matching/geo"
)

const (
	DefaultPoolSize = 8
	DefaultPageSize = 20
)

// Request is one ranking invocation. Page is 1-based.
type Request struct {
	Candidates  []*matching.Candidate
	Actor       *matching.ActorProfile
	Preferences *matching.PreferenceOverrides
	Page        int
	PageSize    int
}

// Match pairs a candidate with its (boosted) match result.
type Match struct {
	Candidate *matching.Candidate `json:"candidate"`
	Result    *engine.MatchResult `json:"result"`
}

// Skip reports one candidate that could not be scored, with the reason.
type Skip struct {
	CandidateID string `json:"candidateId"`
	Reason      string `json:"reason"`
}

// Result is the ranked, paginated outcome of one invocation.
// TotalMatches counts only accessible candidates that passed all filters.
// Truncated is set when the caller's deadline expired before every
// candidate was scored; the batch is then partial, never silently so.
type Result struct {
	Matches      []Match `json:"matches"`
	TotalMatches int     `json:"totalMatches"`
	CurrentPage  int     `json:"currentPage"`
	TotalPages   int     `json:"totalPages"`
	Skipped      []Skip  `json:"skipped,omitempty"`
	Truncated    bool    `json:"truncated,omitempty"`
}

// Service runs ranking passes. Stateless aside from the engine's read-only
// configuration; safe for concurrent use.
type Service struct {
	engine   *engine.Engine
	poolSize int
	logger   logger.Logger
}

func NewService(e *engine.Engine, poolSize int, log logger.Logger) *Service {
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}
	return &Service{engine: e, poolSize: poolSize, logger: log}
}

// Rank scores, sorts and paginates the request's candidates. An empty
// candidate list yields an empty, non-error result. Candidates failing the
// access gate or distance filter are excluded before sorting and before
// pagination counts are computed.
func (s *Service) Rank(ctx context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, errors.NewRankingFailedError(stderrors.New("request cannot be nil"))
	}
	if req.Actor == nil {
		return nil, errors.NewProfileInvalidError("actor profile is nil")
	}

	start := time.Now()
	log := s.logger.WithFields(map[string]interface{}{
		"requestId": uuid.NewString(),
		"actorId":   req.Actor.ID,
	})
	metrics.RankBatchSize.Observe(float64(len(req.Candidates)))

	tier := req.Actor.Premium
	var skipped []Skip

	// Filter to accessible candidates first so totalMatches and pagination
	// never see gated entries.
	accessible := make([]*matching.Candidate, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		switch {
		case c == nil || c.ID == "":
			skipped = append(skipped, Skip{Reason: "candidate has no identifier"})
			metrics.CandidatesSkipped.WithLabelValues("no_identifier").Inc()
		case !engine.CanAccessCandidate(c, tier):
			// Gated, not an error: excluded silently from counts.
		case tooFarAway(c, req.Actor, req.Preferences):
			// Filtered by the actor's distance preference.
		default:
			accessible = append(accessible, c)
		}
	}

	scored := make([]*engine.MatchResult, len(accessible))
	scoreErrs := make([]error, len(accessible))
	s.fanOut(ctx, req, accessible, scored, scoreErrs)

	truncated := ctx.Err() != nil

	matches := make([]Match, 0, len(accessible))
	for i, c := range accessible {
		switch {
		case scoreErrs[i] != nil:
			skipped = append(skipped, Skip{CandidateID: c.ID, Reason: scoreErrs[i].Error()})
			metrics.CandidatesSkipped.WithLabelValues("score_error").Inc()
		case scored[i] == nil:
			skipped = append(skipped, Skip{CandidateID: c.ID, Reason: "deadline expired before scoring"})
			metrics.CandidatesSkipped.WithLabelValues("deadline").Inc()
		case belowMinScore(scored[i], req.Preferences):
			// Filtered by the actor's score threshold.
		default:
			matches = append(matches, Match{Candidate: c, Result: scored[i]})
			metrics.CandidatesScored.Inc()
		}
	}

	// Deterministic order: score desc, then newer candidates first, then ID
	// as the final tie-break so reruns on identical input never reshuffle.
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Result.Score != b.Result.Score {
			return a.Result.Score > b.Result.Score
		}
		if !a.Candidate.CreatedAt.Equal(b.Candidate.CreatedAt) {
			return a.Candidate.CreatedAt.After(b.Candidate.CreatedAt)
		}
		return a.Candidate.ID < b.Candidate.ID
	})

	result := paginate(matches, req.Page, req.PageSize)
	result.Skipped = skipped
	result.Truncated = truncated

	metrics.RankDuration.Observe(time.Since(start).Seconds())
	log.Info("ranking completed", map[string]interface{}{
		"inputCount":   len(req.Candidates),
		"totalMatches": result.TotalMatches,
		"skipped":      len(skipped),
		"truncated":    truncated,
		"durationMs":   time.Since(start).Milliseconds(),
	})
	return result, nil
}

// fanOut scores candidates in parallel. Scoring is pure and side-effect
// free, so no synchronization beyond the join is needed; each worker
// writes to its own index. When ctx expires, unscheduled candidates are
// left unscored for the caller to report.
func (s *Service) fanOut(ctx context.Context, req *Request, candidates []*matching.Candidate, scored []*engine.MatchResult, scoreErrs []error) {
	if len(candidates) == 0 {
		return
	}
	workers := s.poolSize
	if workers > len(candidates) {
		workers = len(candidates)
	}

	jobs := make(chan int)
	go func() {
		defer close(jobs)
		for i := range candidates {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				result, err := s.engine.Score(candidates[i], req.Actor, req.Preferences)
				if err != nil {
					scoreErrs[i] = err
					continue
				}
				scored[i] = s.engine.ApplyBoost(result, req.Actor.Premium)
			}
		}()
	}
	wg.Wait()
}

func tooFarAway(c *matching.Candidate, actor *matching.ActorProfile, prefs *matching.PreferenceOverrides) bool {
	if prefs == nil || prefs.MaxDistanceKm == nil {
		return false
	}
	if c.Location == nil || actor.Location == nil {
		// Unknown distance is not grounds for exclusion.
		return false
	}
	return geo.DistanceKm(*c.Location, *actor.Location) > *prefs.MaxDistanceKm
}

func belowMinScore(r *engine.MatchResult, prefs *matching.PreferenceOverrides) bool {
	return prefs != nil && prefs.MinScore != nil && r.Score < *prefs.MinScore
}

func paginate(matches []Match, page, pageSize int) *Result {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(matches)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &Result{
		Matches:      matches[start:end],
		TotalMatches: total,
		CurrentPage:  page,
		TotalPages:   totalPages,
	}
}
