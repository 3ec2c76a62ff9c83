// internal/matching/rank/rank_test.go
package rank

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matching-engine/internal/common/logger"
	"matching-engine/internal/matching"
	"matching-engine/internal/matching/engine"
	"matching-engine/internal/matching/geo"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestService(t *testing.T) *Service {
	e, err := engine.New(engine.DefaultConfig(), logger.NewTestLogger(t))
	require.NoError(t, err)
	return NewService(e, 4, logger.NewTestLogger(t))
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

var testBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testCandidate(id string, skills []string, createdAt time.Time) *matching.Candidate {
	return &matching.Candidate{
		ID:              id,
		RequiredSkills:  skills,
		Location:        &geo.Coordinate{Lat: 40.7128, Lng: -74.0060},
		Budget:          &matching.BudgetRange{Min: 20, Max: 50},
		Urgency:         matching.UrgencyHigh,
		CreatedAt:       createdAt,
		VerifiedPayment: true,
	}
}

func testActor() *matching.ActorProfile {
	return &matching.ActorProfile{
		ID:           "specialist-1",
		Skills:       []string{"cleaning", "organizing"},
		Location:     &geo.Coordinate{Lat: 40.7128, Lng: -74.0060},
		HourlyRate:   floatPtr(35),
		ResponseTime: matching.ResponseFast,
	}
}

func testRequest(candidates ...*matching.Candidate) *Request {
	return &Request{
		Candidates: candidates,
		Actor:      testActor(),
		Page:       1,
		PageSize:   20,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestRank_OrdersByScoreDescending(t *testing.T) {
	s := newTestService(t)

	strong := testCandidate("strong", []string{"cleaning"}, testBase)
	weaker := testCandidate("weaker", []string{"plumbing", "welding"}, testBase)

	result, err := s.Rank(context.Background(), testRequest(weaker, strong))
	require.NoError(t, err)

	require.Len(t, result.Matches, 2)
	assert.Equal(t, "strong", result.Matches[0].Candidate.ID)
	assert.Equal(t, "weaker", result.Matches[1].Candidate.ID)
	assert.GreaterOrEqual(t, result.Matches[0].Result.Score, result.Matches[1].Result.Score)
}

func TestRank_TieBreakNewerFirst(t *testing.T) {
	s := newTestService(t)

	older := testCandidate("older", []string{"cleaning"}, testBase.Add(-48*time.Hour))
	newer := testCandidate("newer", []string{"cleaning"}, testBase)

	result, err := s.Rank(context.Background(), testRequest(older, newer))
	require.NoError(t, err)

	require.Len(t, result.Matches, 2)
	assert.Equal(t, result.Matches[0].Result.Score, result.Matches[1].Result.Score, "scores should tie")
	assert.Equal(t, "newer", result.Matches[0].Candidate.ID)
	assert.Equal(t, "older", result.Matches[1].Candidate.ID)
}

func TestRank_Deterministic(t *testing.T) {
	s := newTestService(t)

	candidates := make([]*matching.Candidate, 0, 30)
	for i := 0; i < 30; i++ {
		skills := []string{"cleaning"}
		if i%3 == 0 {
			skills = []string{"plumbing"}
		}
		candidates = append(candidates, testCandidate(
			fmt.Sprintf("job-%02d", i), skills, testBase.Add(time.Duration(i%5)*time.Hour)))
	}

	first, err := s.Rank(context.Background(), testRequest(candidates...))
	require.NoError(t, err)
	second, err := s.Rank(context.Background(), testRequest(candidates...))
	require.NoError(t, err)

	require.Equal(t, len(first.Matches), len(second.Matches))
	for i := range first.Matches {
		assert.Equal(t, first.Matches[i].Candidate.ID, second.Matches[i].Candidate.ID, "position %d", i)
		assert.Equal(t, first.Matches[i].Result.Score, second.Matches[i].Result.Score, "position %d", i)
	}
}

func TestRank_EmptyInputs(t *testing.T) {
	s := newTestService(t)

	tests := []struct {
		name string
		req  *Request
	}{
		{"no candidates", testRequest()},
		{"nil candidate slice", &Request{Actor: testActor()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.Rank(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Empty(t, result.Matches)
			assert.Equal(t, 0, result.TotalMatches)
			assert.Equal(t, 0, result.TotalPages)
			assert.False(t, result.Truncated)
		})
	}
}

func TestRank_NilRequestAndActor(t *testing.T) {
	s := newTestService(t)

	_, err := s.Rank(context.Background(), nil)
	assert.Error(t, err)

	_, err = s.Rank(context.Background(), &Request{Candidates: []*matching.Candidate{testCandidate("a", nil, testBase)}})
	assert.Error(t, err)
}

// ==========================
// Filtering & Gating Tests
// ==========================

func TestRank_AccessGateExcludesBeforeCounts(t *testing.T) {
	s := newTestService(t)

	verified := testCandidate("verified", []string{"cleaning"}, testBase)
	unverified := testCandidate("unverified", []string{"cleaning"}, testBase)
	unverified.VerifiedPayment = false

	req := testRequest(verified, unverified)
	req.Actor.Premium = &matching.PremiumTier{Level: engine.TierElite, VerifiedOnly: true}

	result, err := s.Rank(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalMatches, "gated candidate must not count toward totalMatches")
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "verified", result.Matches[0].Candidate.ID)
	assert.Empty(t, result.Skipped, "gating is not an error")
}

func TestRank_MaxDistanceFilter(t *testing.T) {
	s := newTestService(t)

	near := testCandidate("near", []string{"cleaning"}, testBase)
	far := testCandidate("far", []string{"cleaning"}, testBase)
	far.Location = &geo.Coordinate{Lat: 34.0522, Lng: -118.2437}
	noLocation := testCandidate("no-location", []string{"cleaning"}, testBase)
	noLocation.Location = nil

	req := testRequest(near, far, noLocation)
	req.Preferences = &matching.PreferenceOverrides{MaxDistanceKm: floatPtr(100)}

	result, err := s.Rank(context.Background(), req)
	require.NoError(t, err)

	ids := matchIDs(result)
	assert.Contains(t, ids, "near")
	assert.NotContains(t, ids, "far")
	assert.Contains(t, ids, "no-location", "unknown distance is not grounds for exclusion")
	assert.Equal(t, 2, result.TotalMatches)
}

func TestRank_MinScoreFilter(t *testing.T) {
	s := newTestService(t)

	strong := testCandidate("strong", []string{"cleaning"}, testBase)
	weak := testCandidate("weak", []string{"plumbing", "welding", "wiring"}, testBase)

	req := testRequest(strong, weak)
	req.Preferences = &matching.PreferenceOverrides{MinScore: intPtr(80)}

	result, err := s.Rank(context.Background(), req)
	require.NoError(t, err)

	ids := matchIDs(result)
	assert.Contains(t, ids, "strong")
	assert.NotContains(t, ids, "weak")
}

func TestRank_MalformedCandidateSkippedNotFatal(t *testing.T) {
	s := newTestService(t)

	good := testCandidate("good", []string{"cleaning"}, testBase)
	noID := testCandidate("", nil, testBase)

	result, err := s.Rank(context.Background(), testRequest(good, noID, nil))
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalMatches)
	require.Len(t, result.Skipped, 2)
	for _, skip := range result.Skipped {
		assert.Equal(t, "candidate has no identifier", skip.Reason)
	}
}

// ==========================
// Boost Integration Tests
// ==========================

func TestRank_PremiumActorGetsBoostedScores(t *testing.T) {
	s := newTestService(t)

	candidate := testCandidate("job-1", []string{"cleaning", "plumbing"}, testBase)

	plain, err := s.Rank(context.Background(), testRequest(candidate))
	require.NoError(t, err)

	boostedReq := testRequest(candidate)
	boostedReq.Actor.Premium = &matching.PremiumTier{Level: engine.TierElite}
	boosted, err := s.Rank(context.Background(), boostedReq)
	require.NoError(t, err)

	require.Len(t, plain.Matches, 1)
	require.Len(t, boosted.Matches, 1)
	assert.Greater(t, boosted.Matches[0].Result.Score, plain.Matches[0].Result.Score)

	explanations := boosted.Matches[0].Result.Explanations
	assert.Contains(t, explanations[len(explanations)-1], "elite")
}

// ==========================
// Pagination Tests
// ==========================

func TestRank_Pagination(t *testing.T) {
	s := newTestService(t)

	candidates := make([]*matching.Candidate, 0, 25)
	for i := 0; i < 25; i++ {
		candidates = append(candidates, testCandidate(
			fmt.Sprintf("job-%02d", i), []string{"cleaning"}, testBase.Add(time.Duration(i)*time.Minute)))
	}

	req := testRequest(candidates...)
	req.Page = 2
	req.PageSize = 10

	result, err := s.Rank(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 25, result.TotalMatches)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 2, result.CurrentPage)
	assert.Len(t, result.Matches, 10)

	// Page 2 of a score-tied set ordered newest-first: items 14..05.
	assert.Equal(t, "job-14", result.Matches[0].Candidate.ID)
	assert.Equal(t, "job-05", result.Matches[9].Candidate.ID)
}

func TestRank_PageBeyondEnd(t *testing.T) {
	s := newTestService(t)

	req := testRequest(testCandidate("only", []string{"cleaning"}, testBase))
	req.Page = 9
	req.PageSize = 10

	result, err := s.Rank(context.Background(), req)
	require.NoError(t, err)

	assert.Empty(t, result.Matches)
	assert.Equal(t, 1, result.TotalMatches)
	assert.Equal(t, 1, result.TotalPages)
	assert.Equal(t, 9, result.CurrentPage)
}

func TestRank_PaginationDefaults(t *testing.T) {
	s := newTestService(t)

	req := testRequest(testCandidate("only", []string{"cleaning"}, testBase))
	req.Page = 0
	req.PageSize = 0

	result, err := s.Rank(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, result.CurrentPage)
	assert.Len(t, result.Matches, 1)
}

// ==========================
// Deadline Tests
// ==========================

func TestRank_ExpiredDeadlineSignalsTruncation(t *testing.T) {
	s := newTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	candidates := make([]*matching.Candidate, 0, 50)
	for i := 0; i < 50; i++ {
		candidates = append(candidates, testCandidate(fmt.Sprintf("job-%02d", i), []string{"cleaning"}, testBase))
	}

	result, err := s.Rank(ctx, testRequest(candidates...))
	require.NoError(t, err)

	assert.True(t, result.Truncated, "an expired deadline must be signaled, never silent")
	assert.Equal(t, len(candidates), len(result.Matches)+scoreableSkips(result),
		"every candidate is either ranked or reported as skipped")
}

func scoreableSkips(r *Result) int {
	n := 0
	for _, s := range r.Skipped {
		if s.CandidateID != "" {
			n++
		}
	}
	return n
}

func matchIDs(r *Result) []string {
	ids := make([]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		ids = append(ids, m.Candidate.ID)
	}
	return ids
}
