// internal/matching/engine/result.go
package engine

// Dimension is one named, weighted scoring factor on a match result.
// Created fresh per scoring call and never mutated afterwards.
type Dimension struct {
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
}

// MatchResult is the outcome of scoring one (candidate, actor) pair.
// Treated as an immutable value after construction; boosting produces a new
// copy so the unboosted result stays inspectable. Explanations keep causal
// order: base factors first, boosts after.
type MatchResult struct {
	Score        int         `json:"score"`
	Dimensions   []Dimension `json:"dimensions"`
	Explanations []string    `json:"explanations"`
}

// Clone returns a value-equal deep copy.
func (r *MatchResult) Clone() *MatchResult {
	out := &MatchResult{
		Score:        r.Score,
		Dimensions:   make([]Dimension, len(r.Dimensions)),
		Explanations: make([]string, len(r.Explanations)),
	}
	copy(out.Dimensions, r.Dimensions)
	copy(out.Explanations, r.Explanations)
	return out
}

// Aggregate combines dimension scores into a single 0-100 match result
// using a normalized weighted average. If every weight is zero the plain
// arithmetic mean is used instead. Dimension scores and descriptions are
// preserved on the result for downstream display.
func Aggregate(dims []Dimension) *MatchResult {
	result := &MatchResult{
		Dimensions:   make([]Dimension, len(dims)),
		Explanations: make([]string, 0, len(dims)+2),
	}
	copy(result.Dimensions, dims)

	var weighted, weightSum float64
	for _, d := range dims {
		weighted += d.Score * d.Weight
		weightSum += d.Weight
		if d.Description != "" {
			result.Explanations = append(result.Explanations, d.Description)
		}
	}

	var raw float64
	switch {
	case weightSum > 0:
		raw = weighted / weightSum
	case len(dims) > 0:
		// Degenerate all-zero weight configuration: fall back to the mean.
		for _, d := range dims {
			raw += d.Score
		}
		raw /= float64(len(dims))
	}

	result.Score = clampScore(int(raw + 0.5))
	return result
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
