// internal/workers/matching/rank-candidates/models.go
package rankcandidates

import (
	"encoding/json"

	"matching-engine/internal/matching/rank"
	"matching-engine/internal/store"
)

// Input carries one ranking request. Candidates may be inline records,
// ids resolved through the candidate store, or a search query resolved
// through the search index; the profile may be inline or referenced by id.
type Input struct {
	ActorID      string             `json:"actorId,omitempty"`
	ActorProfile json.RawMessage    `json:"actorProfile,omitempty"`
	Candidates   []json.RawMessage  `json:"candidates,omitempty"`
	CandidateIDs []string           `json:"candidateIds,omitempty"`
	Search       *store.SearchQuery `json:"search,omitempty"`
	Preferences  json.RawMessage    `json:"preferences,omitempty"`
	Page         int                `json:"page,omitempty"`
	PageSize     int                `json:"pageSize,omitempty"`
}

// Output is the ranked page plus everything a caller needs to trust it:
// pagination counts, per-candidate skips and the truncation flag.
type Output struct {
	Matches      []rank.Match `json:"matches"`
	TotalMatches int          `json:"totalMatches"`
	CurrentPage  int          `json:"currentPage"`
	TotalPages   int          `json:"totalPages"`
	Skipped      []rank.Skip  `json:"skipped,omitempty"`
	Truncated    bool         `json:"truncated,omitempty"`
}
