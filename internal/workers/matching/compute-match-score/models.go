// internal/workers/matching/compute-match-score/models.go
package computematchscore

import (
	"encoding/json"

	"matching-engine/internal/matching/engine"
)

// Input carries one candidate/actor pair. The profile may be inline or
// referenced by id and resolved through the profile store.
type Input struct {
	Candidate    json.RawMessage `json:"candidate"`
	ActorID      string          `json:"actorId,omitempty"`
	ActorProfile json.RawMessage `json:"actorProfile,omitempty"`
	Preferences  json.RawMessage `json:"preferences,omitempty"`
}

// Output returns the full match result, before and after the premium
// boost, plus whether the actor may see this candidate at all.
type Output struct {
	Accessible bool                `json:"accessible"`
	Unboosted  *engine.MatchResult `json:"unboosted,omitempty"`
	Boosted    *engine.MatchResult `json:"boosted,omitempty"`
}
