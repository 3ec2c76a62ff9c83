// internal/matching/engine/result_test.go
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate_WeightedAverage(t *testing.T) {
	tests := []struct {
		name     string
		dims     []Dimension
		expected int
	}{
		{
			name: "normalized weighted average",
			dims: []Dimension{
				{Name: "a", Score: 100, Weight: 0.5},
				{Name: "b", Score: 50, Weight: 0.5},
			},
			expected: 75,
		},
		{
			name: "weights need not sum to one",
			dims: []Dimension{
				{Name: "a", Score: 100, Weight: 2},
				{Name: "b", Score: 40, Weight: 1},
			},
			expected: 80,
		},
		{
			name: "single dimension",
			dims: []Dimension{
				{Name: "a", Score: 62, Weight: 0.3},
			},
			expected: 62,
		},
		{
			name: "rounds to nearest integer",
			dims: []Dimension{
				{Name: "a", Score: 100, Weight: 1},
				{Name: "b", Score: 99, Weight: 1},
			},
			expected: 100, // 99.5 rounds up
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Aggregate(tt.dims)
			assert.Equal(t, tt.expected, result.Score)
			assert.Len(t, result.Dimensions, len(tt.dims))
		})
	}
}

func TestAggregate_AllZeroWeightsFallsBackToMean(t *testing.T) {
	result := Aggregate([]Dimension{
		{Name: "a", Score: 100, Weight: 0},
		{Name: "b", Score: 0, Weight: 0},
	})
	assert.Equal(t, 50, result.Score)
}

func TestAggregate_EmptyDimensions(t *testing.T) {
	result := Aggregate(nil)
	assert.Equal(t, 0, result.Score)
	assert.Empty(t, result.Dimensions)
}

func TestAggregate_ClampsToRange(t *testing.T) {
	over := Aggregate([]Dimension{{Name: "a", Score: 250, Weight: 1}})
	under := Aggregate([]Dimension{{Name: "a", Score: -50, Weight: 1}})

	assert.Equal(t, 100, over.Score)
	assert.Equal(t, 0, under.Score)
}

func TestAggregate_ExplanationsFollowDimensionOrder(t *testing.T) {
	result := Aggregate([]Dimension{
		{Name: "a", Score: 80, Weight: 1, Description: "first"},
		{Name: "b", Score: 70, Weight: 1, Description: ""}, // blank skipped
		{Name: "c", Score: 60, Weight: 1, Description: "third"},
	})
	assert.Equal(t, []string{"first", "third"}, result.Explanations)
}

func TestMatchResult_CloneIsIndependent(t *testing.T) {
	original := Aggregate([]Dimension{
		{Name: "a", Score: 80, Weight: 1, Description: "first"},
	})

	clone := original.Clone()
	assert.Equal(t, original, clone)

	clone.Score = 10
	clone.Dimensions[0].Score = 0
	clone.Explanations = append(clone.Explanations, "extra")

	assert.Equal(t, 80.0, original.Dimensions[0].Score)
	assert.Len(t, original.Explanations, 1)
}
