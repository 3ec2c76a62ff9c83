// internal/matching/reputation/reputation.go

// Package reputation combines multi-criterion ratings into a single
// confidence-weighted score on a 0-1 scale.
package reputation

import "math"

// Criterion weights. They sum to 1.0; when a criterion is absent from a
// record its weight is excluded and the remainder is renormalized.
const (
	weightOverall        = 0.30
	weightReliability    = 0.25
	weightCommunication  = 0.20
	weightFairness       = 0.15
	weightRespectfulness = 0.10
)

// FullTrustRatings is the rating count at which a record is fully trusted.
// Below it the score is pulled toward neutral in proportion to the count.
const FullTrustRatings = 10

// Neutral is the score returned for an absent record.
const Neutral = 0.5

// Record holds the five criterion ratings for one actor. Each rating is on a
// 1-5 scale; nil means the criterion was never rated.
type Record struct {
	Overall        *float64 `json:"overall,omitempty"`
	Reliability    *float64 `json:"reliability,omitempty"`
	Communication  *float64 `json:"communication,omitempty"`
	Fairness       *float64 `json:"fairness,omitempty"`
	Respectfulness *float64 `json:"respectfulness,omitempty"`
	TotalRatings   int      `json:"totalRatings"`
}

// Score returns the confidence-weighted reputation score in [0,1].
// A nil record, or a record with no rated criteria, scores exactly Neutral.
// Otherwise the present criteria are averaged with renormalized weights,
// the 1-5 scale is mapped to 0-1, and the result is pulled toward Neutral
// by a confidence factor min(1, TotalRatings/FullTrustRatings).
func Score(r *Record) float64 {
	if r == nil {
		return Neutral
	}

	var weighted, weightSum float64
	add := func(rating *float64, weight float64) {
		if rating == nil {
			return
		}
		weighted += normalize(*rating) * weight
		weightSum += weight
	}
	add(r.Overall, weightOverall)
	add(r.Reliability, weightReliability)
	add(r.Communication, weightCommunication)
	add(r.Fairness, weightFairness)
	add(r.Respectfulness, weightRespectfulness)

	if weightSum == 0 {
		return Neutral
	}
	average := weighted / weightSum

	confidence := math.Min(1, float64(r.TotalRatings)/FullTrustRatings)
	return Neutral + (average-Neutral)*confidence
}

// normalize maps a 1-5 rating to [0,1], clamping out-of-range input.
func normalize(rating float64) float64 {
	v := (rating - 1) / 4
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
