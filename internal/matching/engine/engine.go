// internal/matching/engine/engine.go

// Package engine aggregates per-dimension scores into MatchResults and
// applies premium-tier boost rules. One Engine is constructed at process
// start with validated configuration and shared read-only across
// concurrent callers.
package engine

import (
	"fmt"

	"matching-engine/internal/common/errors"
	"matching-engine/internal/common/logger"
	"matching-engine/internal/matching"
	"matching-engine/internal/matching/reputation"
	"matching-engine/internal/matching/score"
)

// Premium tier levels with a default boost multiplier.
const (
	TierBasic = "basic"
	TierPro   = "pro"
	TierElite = "elite"
)

// DeclaredTiers lists every tier the boost table must cover.
var DeclaredTiers = []string{TierBasic, TierPro, TierElite}

// Weights holds the configured weight of each dimension. They need not sum
// to 1; aggregation normalizes.
type Weights struct {
	Skills     float64 `mapstructure:"skills" json:"skills"`
	Location   float64 `mapstructure:"location" json:"location"`
	Price      float64 `mapstructure:"price" json:"price"`
	Urgency    float64 `mapstructure:"urgency" json:"urgency"`
	Reputation float64 `mapstructure:"reputation" json:"reputation"`
}

func (w Weights) value(dimension string) float64 {
	switch dimension {
	case score.DimensionSkills:
		return w.Skills
	case score.DimensionLocation:
		return w.Location
	case score.DimensionPrice:
		return w.Price
	case score.DimensionUrgency:
		return w.Urgency
	case score.DimensionReputation:
		return w.Reputation
	}
	return 0
}

// Config is the static engine configuration, read-only after construction.
type Config struct {
	Weights Weights `mapstructure:"weights"`
	// Boosts maps a premium tier level to its score multiplier.
	Boosts map[string]float64 `mapstructure:"boosts"`
	// LocationDecayKm controls how fast the location score decays.
	LocationDecayKm float64 `mapstructure:"location_decay_km"`
}

// DefaultConfig returns the stock weight and boost configuration.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Skills:     0.30,
			Location:   0.20,
			Price:      0.15,
			Urgency:    0.15,
			Reputation: 0.20,
		},
		Boosts: map[string]float64{
			TierBasic: 1.05,
			TierPro:   1.10,
			TierElite: 1.15,
		},
		LocationDecayKm: score.DefaultDecayKm,
	}
}

// Validate checks the class of errors that must fail at construction time:
// negative weights and boost table entries missing for a declared tier.
func (c Config) Validate() error {
	for _, d := range score.Dimensions {
		if c.Weights.value(d) < 0 {
			return errors.NewInvalidWeightConfigError(
				fmt.Sprintf("dimension %q has negative weight %v", d, c.Weights.value(d)))
		}
	}
	for _, tier := range DeclaredTiers {
		m, ok := c.Boosts[tier]
		if !ok {
			return errors.NewBoostTierMissingError(tier)
		}
		if m < 1 {
			return errors.NewInvalidWeightConfigError(
				fmt.Sprintf("tier %q multiplier %v would decrease scores", tier, m))
		}
	}
	return nil
}

// Engine scores (candidate, actor) pairs. Safe for concurrent use.
type Engine struct {
	cfg    Config
	logger logger.Logger
}

// New constructs an Engine, failing fast on invalid configuration.
func New(cfg Config, log logger.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, logger: log}, nil
}

// Config returns the engine's static configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Score computes the unboosted MatchResult for one candidate against the
// actor profile. Missing optional candidate fields contribute neutrally;
// only a candidate without an identifier is rejected.
func (e *Engine) Score(c *matching.Candidate, actor *matching.ActorProfile, prefs *matching.PreferenceOverrides) (*MatchResult, error) {
	if c == nil || c.ID == "" {
		return nil, errors.NewCandidateInvalidError("", "candidate has no identifier")
	}
	if actor == nil {
		return nil, errors.NewProfileInvalidError("actor profile is nil")
	}

	skillScore, skillDesc := score.Skills(c.RequiredSkills, actor.Skills)
	locScore, locDesc := score.Location(c.Location, actor.Location, e.cfg.LocationDecayKm)
	priceScore, priceDesc := score.Price(c.Budget, c.FixedPrice, actor.HourlyRate)
	urgScore, urgDesc := score.Urgency(c.Urgency, actor.ResponseTime)

	repScore := reputation.Score(c.Reputation) * 100
	repDesc := "no reputation history yet"
	if c.Reputation != nil {
		repDesc = fmt.Sprintf("reputation score %.0f/100 from %d ratings", repScore, c.Reputation.TotalRatings)
	}

	dims := []Dimension{
		{Name: score.DimensionSkills, Score: skillScore, Weight: e.weight(score.DimensionSkills, prefs), Description: skillDesc},
		{Name: score.DimensionLocation, Score: locScore, Weight: e.weight(score.DimensionLocation, prefs), Description: locDesc},
		{Name: score.DimensionPrice, Score: priceScore, Weight: e.weight(score.DimensionPrice, prefs), Description: priceDesc},
		{Name: score.DimensionUrgency, Score: urgScore, Weight: e.weight(score.DimensionUrgency, prefs), Description: urgDesc},
		{Name: score.DimensionReputation, Score: repScore, Weight: e.weight(score.DimensionReputation, prefs), Description: repDesc},
	}

	return Aggregate(dims), nil
}

// weight resolves a dimension weight, honoring per-request overrides.
func (e *Engine) weight(dimension string, prefs *matching.PreferenceOverrides) float64 {
	if prefs != nil {
		if w, ok := prefs.Weights[dimension]; ok && w >= 0 {
			return w
		}
	}
	return e.cfg.Weights.value(dimension)
}
