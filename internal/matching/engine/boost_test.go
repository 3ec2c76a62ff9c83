// internal/matching/engine/boost_test.go
package engine

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matching-engine/internal/matching"
)

func baseResult() *MatchResult {
	return Aggregate([]Dimension{
		{Name: "skills", Score: 80, Weight: 0.5, Description: "matches all required skills"},
		{Name: "location", Score: 60, Weight: 0.5, Description: "about 10 km away"},
	})
}

func TestApplyBoost_NilTierReturnsEqualCopy(t *testing.T) {
	e := newTestEngine(t)
	base := baseResult()

	boosted := e.ApplyBoost(base, nil)

	assert.Equal(t, base, boosted)
	assert.NotSame(t, base, boosted)
}

func TestApplyBoost_TierMultipliers(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		level      string
		multiplier float64
		percent    string
	}{
		{TierBasic, 1.05, "5%"},
		{TierPro, 1.10, "10%"},
		{TierElite, 1.15, "15%"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			base := baseResult()
			boosted := e.ApplyBoost(base, &matching.PremiumTier{Level: tt.level})

			expected := int(math.Round(float64(base.Score) * tt.multiplier))
			if expected > 100 {
				expected = 100
			}
			assert.Equal(t, expected, boosted.Score)

			last := boosted.Explanations[len(boosted.Explanations)-1]
			assert.Contains(t, last, tt.level)
			assert.Contains(t, last, tt.percent)
		})
	}
}

func TestApplyBoost_EliteExactDelta(t *testing.T) {
	e := newTestEngine(t)
	base := baseResult()

	boosted := e.ApplyBoost(base, &matching.PremiumTier{Level: TierElite})

	expected := int(math.Round(float64(base.Score) * 1.15))
	assert.Equal(t, expected, boosted.Score)
	joined := strings.Join(boosted.Explanations, " | ")
	assert.Contains(t, joined, "elite")
	assert.Contains(t, joined, "15%")
}

func TestApplyBoost_CapsAtHundred(t *testing.T) {
	e := newTestEngine(t)
	high := Aggregate([]Dimension{{Name: "skills", Score: 98, Weight: 1}})

	boosted := e.ApplyBoost(high, &matching.PremiumTier{Level: TierElite})
	assert.Equal(t, 100, boosted.Score)
}

func TestApplyBoost_NeverDecreasesScore(t *testing.T) {
	e := newTestEngine(t)

	for _, tier := range []*matching.PremiumTier{
		nil,
		{Level: TierBasic},
		{Level: TierElite, Featured: true},
		{Level: "unknown-tier"},
		{Level: TierPro, Multiplier: 1.25},
	} {
		for _, baseScore := range []float64{0, 1, 50, 99, 100} {
			base := Aggregate([]Dimension{{Name: "skills", Score: baseScore, Weight: 1}})
			boosted := e.ApplyBoost(base, tier)
			assert.GreaterOrEqual(t, boosted.Score, base.Score, fmt.Sprintf("tier=%v base=%v", tier, baseScore))
			assert.LessOrEqual(t, boosted.Score, 100)
		}
	}
}

func TestApplyBoost_DimensionsUnchanged(t *testing.T) {
	// The boost affects only the aggregate, keeping per-dimension scores
	// auditable.
	e := newTestEngine(t)
	base := baseResult()

	boosted := e.ApplyBoost(base, &matching.PremiumTier{Level: TierElite})

	assert.Equal(t, base.Dimensions, boosted.Dimensions)
}

func TestApplyBoost_OriginalUntouched(t *testing.T) {
	e := newTestEngine(t)
	base := baseResult()
	scoreBefore := base.Score
	explanationsBefore := len(base.Explanations)

	_ = e.ApplyBoost(base, &matching.PremiumTier{Level: TierElite, Featured: true})

	assert.Equal(t, scoreBefore, base.Score)
	assert.Len(t, base.Explanations, explanationsBefore)
}

func TestApplyBoost_FeaturedExplanation(t *testing.T) {
	e := newTestEngine(t)

	boosted := e.ApplyBoost(baseResult(), &matching.PremiumTier{Level: TierPro, Featured: true})

	require.GreaterOrEqual(t, len(boosted.Explanations), 2)
	assert.Contains(t, boosted.Explanations[len(boosted.Explanations)-1], "featured")
}

func TestApplyBoost_ExplicitMultiplierOverride(t *testing.T) {
	e := newTestEngine(t)
	base := baseResult()

	boosted := e.ApplyBoost(base, &matching.PremiumTier{Level: TierBasic, Multiplier: 1.20})

	expected := int(math.Round(float64(base.Score) * 1.20))
	assert.Equal(t, expected, boosted.Score)
	assert.Contains(t, boosted.Explanations[len(boosted.Explanations)-1], "20%")
}

func TestCanAccessCandidate(t *testing.T) {
	verified := &matching.Candidate{ID: "a", VerifiedPayment: true}
	unverified := &matching.Candidate{ID: "b"}

	tests := []struct {
		name      string
		candidate *matching.Candidate
		tier      *matching.PremiumTier
		expected  bool
	}{
		{"no tier sees everything", unverified, nil, true},
		{"tier without verified-only sees everything", unverified, &matching.PremiumTier{Level: TierPro}, true},
		{"verified-only blocks unverified candidate", unverified, &matching.PremiumTier{Level: TierElite, VerifiedOnly: true}, false},
		{"verified-only passes verified candidate", verified, &matching.PremiumTier{Level: TierElite, VerifiedOnly: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanAccessCandidate(tt.candidate, tt.tier))
		})
	}
}
