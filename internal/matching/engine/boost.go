// internal/matching/engine/boost.go
package engine

import (
	"fmt"
	"math"

	"matching-engine/internal/matching"
)

// ApplyBoost returns a new MatchResult with the tier's multiplier applied
// to the overall score, capped at 100. The original result is not mutated
// and the dimension list is copied unchanged so dimension-level scores stay
// auditable after boosting. A nil tier yields a value-equal copy.
func (e *Engine) ApplyBoost(result *MatchResult, tier *matching.PremiumTier) *MatchResult {
	out := result.Clone()
	if tier == nil {
		return out
	}

	multiplier := e.boostMultiplier(tier)
	if multiplier <= 1 {
		return out
	}

	boosted := int(math.Round(float64(result.Score) * multiplier))
	out.Score = clampScore(boosted)

	percent := int(math.Round((multiplier - 1) * 100))
	out.Explanations = append(out.Explanations,
		fmt.Sprintf("%s tier boost applied: +%d%%", tier.Level, percent))
	if tier.Featured {
		out.Explanations = append(out.Explanations, "featured placement in results")
	}
	return out
}

// boostMultiplier resolves the multiplier for a tier: an explicit override
// on the tier wins, otherwise the configured table entry for its level.
// Unknown levels get no boost.
func (e *Engine) boostMultiplier(tier *matching.PremiumTier) float64 {
	if tier.Multiplier > 0 {
		return tier.Multiplier
	}
	if m, ok := e.cfg.Boosts[tier.Level]; ok {
		return m
	}
	if e.logger != nil {
		e.logger.Warn("unknown premium tier level", map[string]interface{}{
			"level": tier.Level,
		})
	}
	return 1
}

// CanAccessCandidate is the access gate: an actor who opted into
// verified-only matching cannot see candidates without verified payment.
// Gated candidates are excluded from ranking entirely, not score-penalized.
func CanAccessCandidate(c *matching.Candidate, tier *matching.PremiumTier) bool {
	if tier != nil && tier.VerifiedOnly && !c.VerifiedPayment {
		return false
	}
	return true
}
