// internal/matching/types.go

// Package matching defines the typed domain model shared by the scoring
// engine: candidates being scored, the actor profile they are scored
// against, and the actor's preference overrides. Optional attributes are
// pointers so that "missing" stays distinguishable from a zero value.
package matching

import (
	"time"

	"matching-engine/internal/matching/geo"
	"matching-engine/internal/matching/reputation"
)

// UrgencyLevel classifies how time-sensitive a candidate is.
type UrgencyLevel string

const (
	UrgencyLow       UrgencyLevel = "low"
	UrgencyNormal    UrgencyLevel = "normal"
	UrgencyHigh      UrgencyLevel = "high"
	UrgencyEmergency UrgencyLevel = "emergency"
)

// ResponseTimeClass classifies how quickly an actor typically responds.
type ResponseTimeClass string

const (
	ResponseFast   ResponseTimeClass = "fast"
	ResponseNormal ResponseTimeClass = "normal"
	ResponseSlow   ResponseTimeClass = "slow"
)

// BudgetRange is a candidate's budget in the actor's rate currency.
// Max is the ceiling used by the price scorer.
type BudgetRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Candidate is a schedulable unit of work (job/listing) being scored.
// It is owned by the data layer and read-only to the engine.
type Candidate struct {
	ID              string             `json:"id"`
	RequiredSkills  []string           `json:"requiredSkills"`
	Location        *geo.Coordinate    `json:"location,omitempty"`
	Budget          *BudgetRange       `json:"budget,omitempty"`
	FixedPrice      *float64           `json:"fixedPrice,omitempty"`
	Urgency         UrgencyLevel       `json:"urgency"`
	CreatedAt       time.Time          `json:"createdAt"`
	Reputation      *reputation.Record `json:"reputation,omitempty"`
	VerifiedPayment bool               `json:"verifiedPayment"`

	// Display-only attributes carried through for consumers.
	Description string `json:"description,omitempty"`
	City        string `json:"city,omitempty"`
	ZipCode     string `json:"zipCode,omitempty"`
}

// PremiumTier is an actor's premium subscription info.
type PremiumTier struct {
	Level string `json:"level"` // basic, pro, elite
	// Multiplier overrides the level's default boost when > 0.
	Multiplier   float64 `json:"multiplier,omitempty"`
	Featured     bool    `json:"featured"`
	VerifiedOnly bool    `json:"verifiedOnly"`
}

// ActorProfile is the party being matched against candidates.
type ActorProfile struct {
	ID           string            `json:"id"`
	Skills       []string          `json:"skills"`
	Location     *geo.Coordinate   `json:"location,omitempty"`
	HourlyRate   *float64          `json:"hourlyRate,omitempty"`
	ResponseTime ResponseTimeClass `json:"responseTime"`
	Premium      *PremiumTier      `json:"premium,omitempty"`
}

// PreferenceOverrides is the closed set of per-request tuning knobs. Unknown
// keys are rejected at the ingestion boundary, never silently ignored.
type PreferenceOverrides struct {
	// Weights overrides the configured weight of a dimension by name.
	Weights map[string]float64 `json:"weights,omitempty"`
	// MaxDistanceKm filters out candidates farther than this from the actor.
	MaxDistanceKm *float64 `json:"maxDistanceKm,omitempty"`
	// MinScore drops matches scoring below this value before pagination.
	MinScore *int `json:"minScore,omitempty"`
}
