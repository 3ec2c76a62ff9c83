// internal/matching/reputation/reputation_test.go
package reputation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func rating(v float64) *float64 {
	return &v
}

func fullRecord(value float64, total int) *Record {
	return &Record{
		Overall:        rating(value),
		Reliability:    rating(value),
		Communication:  rating(value),
		Fairness:       rating(value),
		Respectfulness: rating(value),
		TotalRatings:   total,
	}
}

func TestScore_NilRecord(t *testing.T) {
	assert.Equal(t, 0.5, Score(nil))
}

func TestScore_EmptyRecord(t *testing.T) {
	// A record with a count but no rated criteria is still neutral.
	assert.Equal(t, 0.5, Score(&Record{TotalRatings: 25}))
}

func TestScore_FullyTrustedExtremes(t *testing.T) {
	tests := []struct {
		name     string
		record   *Record
		expected float64
	}{
		{"all fives fully trusted", fullRecord(5, 20), 1.0},
		{"all ones fully trusted", fullRecord(1, 20), 0.0},
		{"all threes is neutral", fullRecord(3, 20), 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Score(tt.record), 1e-9)
		})
	}
}

func TestScore_ConfidencePullsTowardNeutral(t *testing.T) {
	sparse := Score(fullRecord(5, 1))
	dense := Score(fullRecord(5, 20))

	assert.Less(t, math.Abs(sparse-0.5), math.Abs(dense-0.5),
		"a record with one rating should sit closer to neutral than the same average with twenty")
	assert.InDelta(t, 0.55, sparse, 1e-9) // 0.5 + 0.5*0.1
	assert.Equal(t, 1.0, dense)
}

func TestScore_MoreRatingsNeverMoveTowardNeutral(t *testing.T) {
	prev := 0.0
	for _, total := range []int{0, 1, 3, 5, 9, 10, 15, 50} {
		s := Score(fullRecord(4.5, total))
		dist := math.Abs(s - 0.5)
		assert.GreaterOrEqual(t, dist, prev, "totalRatings=%d", total)
		prev = dist
	}
}

func TestScore_MissingCriteriaExcluded(t *testing.T) {
	// Only two criteria rated; their weights are renormalized, the rest are
	// not treated as zero.
	r := &Record{
		Overall:      rating(5),
		Reliability:  rating(5),
		TotalRatings: 20,
	}
	assert.InDelta(t, 1.0, Score(r), 1e-9)
}

func TestScore_CriterionWeightOrdering(t *testing.T) {
	// The overall criterion carries more weight than respectfulness: lifting
	// overall moves the score further than lifting respectfulness by the
	// same amount.
	base := fullRecord(3, 20)

	liftOverall := fullRecord(3, 20)
	liftOverall.Overall = rating(5)

	liftRespect := fullRecord(3, 20)
	liftRespect.Respectfulness = rating(5)

	assert.Greater(t, Score(liftOverall), Score(liftRespect))
	assert.Greater(t, Score(liftRespect), Score(base))
}

func TestScore_WithinUnitRange(t *testing.T) {
	records := []*Record{
		nil,
		{TotalRatings: -3},
		fullRecord(5, 1000),
		fullRecord(1, 1000),
		{Overall: rating(9), TotalRatings: 50},  // out-of-range rating clamps
		{Overall: rating(-2), TotalRatings: 50}, // out-of-range rating clamps
	}

	for _, r := range records {
		s := Score(r)
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}
