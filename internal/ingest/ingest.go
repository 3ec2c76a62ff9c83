// internal/ingest/ingest.go

// Package ingest is the validation boundary between raw supplier JSON and
// the typed domain model. Every record entering the engine passes through
// here; downstream code never sees unvalidated input. Malformed records are
// rejected individually so one bad record cannot poison a batch.
package ingest

import (
	"encoding/json"
	"strings"

	"matching-engine/internal/common/errors"
	"matching-engine/internal/matching"
	"matching-engine/internal/matching/score"
)

// Skipped reports one batch record that failed validation.
type Skipped struct {
	CandidateID string `json:"candidateId,omitempty"`
	Reason      string `json:"reason"`
}

// Candidate validates and maps one raw candidate record.
func Candidate(raw json.RawMessage) (*matching.Candidate, error) {
	if err := validate(compiledCandidateSchema, raw); err != nil {
		return nil, errors.NewCandidateInvalidError(peekID(raw), err.Error())
	}

	var c matching.Candidate
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, errors.NewCandidateInvalidError(peekID(raw), err.Error())
	}
	if c.Urgency == "" {
		c.Urgency = matching.UrgencyNormal
	}
	c.RequiredSkills = NormalizeSkills(c.RequiredSkills)
	return &c, nil
}

// CandidateBatch maps a batch of raw candidate records. Invalid records
// become Skipped entries; the valid remainder is returned in input order.
func CandidateBatch(raws []json.RawMessage) ([]*matching.Candidate, []Skipped) {
	candidates := make([]*matching.Candidate, 0, len(raws))
	var skipped []Skipped

	for _, raw := range raws {
		c, err := Candidate(raw)
		if err != nil {
			skipped = append(skipped, Skipped{
				CandidateID: peekID(raw),
				Reason:      skipReason(err),
			})
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, skipped
}

// Profile validates and maps one raw actor profile record.
func Profile(raw json.RawMessage) (*matching.ActorProfile, error) {
	if err := validate(compiledProfileSchema, raw); err != nil {
		return nil, errors.NewProfileInvalidError(err.Error())
	}

	var p matching.ActorProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, errors.NewProfileInvalidError(err.Error())
	}
	if p.ResponseTime == "" {
		p.ResponseTime = matching.ResponseNormal
	}
	p.Skills = NormalizeSkills(p.Skills)
	return &p, nil
}

// Preferences validates and maps raw preference overrides. The contract is
// closed: unknown top-level keys and unknown weight dimension names are
// both rejected outright.
func Preferences(raw json.RawMessage) (*matching.PreferenceOverrides, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if err := validate(compiledPreferencesSchema, raw); err != nil {
		return nil, errors.NewPreferencesInvalidError(err.Error())
	}

	var prefs matching.PreferenceOverrides
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return nil, errors.NewPreferencesInvalidError(err.Error())
	}

	for name := range prefs.Weights {
		if !score.KnownDimension(name) {
			return nil, errors.NewPreferencesInvalidError(
				"unknown weight dimension: " + name)
		}
	}
	return &prefs, nil
}

// peekID pulls the id out of a raw record for skip reporting, best effort.
func peekID(raw json.RawMessage) string {
	var envelope struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}
	return envelope.ID
}

// skipReason keeps the short detail line from a StandardError for batch
// skip reports instead of the full formatted error.
func skipReason(err error) string {
	var stdErr *errors.StandardError
	if ok := asStandardError(err, &stdErr); ok && stdErr.Details != "" {
		return stdErr.Details
	}
	return err.Error()
}

func asStandardError(err error, target **errors.StandardError) bool {
	se, ok := err.(*errors.StandardError)
	if !ok {
		return false
	}
	*target = se
	return true
}

// NormalizeSkills lowercases and deduplicates a skill list, preserving
// first-seen order. Suppliers disagree on casing; the scorer should not
// have to care.
func NormalizeSkills(skills []string) []string {
	if len(skills) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
