// internal/ingest/ingest_test.go
package ingest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matching-engine/internal/matching"
)

func TestCandidate_ValidRecord(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "job-1",
		"requiredSkills": ["Cleaning", "cleaning", " Organizing "],
		"location": {"lat": 40.7128, "lng": -74.0060},
		"budget": {"min": 20, "max": 50},
		"urgency": "high",
		"createdAt": "2025-06-01T12:00:00Z",
		"verifiedPayment": true,
		"city": "New York"
	}`)

	c, err := Candidate(raw)
	require.NoError(t, err)

	assert.Equal(t, "job-1", c.ID)
	assert.Equal(t, []string{"cleaning", "organizing"}, c.RequiredSkills, "skills are lowercased and deduplicated")
	require.NotNil(t, c.Location)
	assert.InDelta(t, 40.7128, c.Location.Lat, 1e-9)
	require.NotNil(t, c.Budget)
	assert.Equal(t, 50.0, c.Budget.Max)
	assert.Equal(t, matching.UrgencyHigh, c.Urgency)
	assert.True(t, c.VerifiedPayment)
	assert.Nil(t, c.FixedPrice, "absent optional fields stay nil")
	assert.Nil(t, c.Reputation)
}

func TestCandidate_MinimalRecordDefaults(t *testing.T) {
	c, err := Candidate(json.RawMessage(`{"id": "job-2"}`))
	require.NoError(t, err)

	assert.Equal(t, matching.UrgencyNormal, c.Urgency, "missing urgency defaults to normal")
	assert.Nil(t, c.Location)
	assert.Nil(t, c.Budget)
	assert.Empty(t, c.RequiredSkills)
}

func TestCandidate_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing id", `{"urgency": "high"}`},
		{"empty id", `{"id": ""}`},
		{"bad urgency value", `{"id": "x", "urgency": "critical"}`},
		{"rating out of range", `{"id": "x", "reputation": {"overall": 6}}`},
		{"location missing lng", `{"id": "x", "location": {"lat": 1.0}}`},
		{"negative budget", `{"id": "x", "budget": {"min": -5, "max": 10}}`},
		{"not an object", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Candidate(json.RawMessage(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestCandidateBatch_IsolatesBadRecords(t *testing.T) {
	raws := []json.RawMessage{
		json.RawMessage(`{"id": "good-1"}`),
		json.RawMessage(`{"id": "bad-1", "urgency": "critical"}`),
		json.RawMessage(`{"id": "good-2", "urgency": "low"}`),
		json.RawMessage(`{"no": "id"}`),
	}

	candidates, skipped := CandidateBatch(raws)

	require.Len(t, candidates, 2)
	assert.Equal(t, "good-1", candidates[0].ID)
	assert.Equal(t, "good-2", candidates[1].ID)

	require.Len(t, skipped, 2)
	assert.Equal(t, "bad-1", skipped[0].CandidateID)
	assert.NotEmpty(t, skipped[0].Reason)
	assert.Empty(t, skipped[1].CandidateID)
}

func TestProfile_ValidRecord(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "specialist-1",
		"skills": ["Cleaning"],
		"hourlyRate": 35,
		"responseTime": "fast",
		"premium": {"level": "elite", "verifiedOnly": true}
	}`)

	p, err := Profile(raw)
	require.NoError(t, err)

	assert.Equal(t, "specialist-1", p.ID)
	assert.Equal(t, []string{"cleaning"}, p.Skills)
	require.NotNil(t, p.HourlyRate)
	assert.Equal(t, 35.0, *p.HourlyRate)
	assert.Equal(t, matching.ResponseFast, p.ResponseTime)
	require.NotNil(t, p.Premium)
	assert.Equal(t, "elite", p.Premium.Level)
	assert.True(t, p.Premium.VerifiedOnly)
}

func TestProfile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing id", `{"skills": []}`},
		{"unknown premium level", `{"id": "x", "premium": {"level": "platinum"}}`},
		{"premium multiplier below one", `{"id": "x", "premium": {"level": "pro", "multiplier": 0.5}}`},
		{"negative rate", `{"id": "x", "hourlyRate": -1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Profile(json.RawMessage(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestProfile_ResponseTimeDefaultsToNormal(t *testing.T) {
	p, err := Profile(json.RawMessage(`{"id": "specialist-2"}`))
	require.NoError(t, err)
	assert.Equal(t, matching.ResponseNormal, p.ResponseTime)
}

func TestPreferences_Valid(t *testing.T) {
	raw := json.RawMessage(`{
		"weights": {"skills": 0.5, "location": 0.5},
		"maxDistanceKm": 25,
		"minScore": 70
	}`)

	prefs, err := Preferences(raw)
	require.NoError(t, err)

	assert.Equal(t, 0.5, prefs.Weights["skills"])
	require.NotNil(t, prefs.MaxDistanceKm)
	assert.Equal(t, 25.0, *prefs.MaxDistanceKm)
	require.NotNil(t, prefs.MinScore)
	assert.Equal(t, 70, *prefs.MinScore)
}

func TestPreferences_AbsentIsNil(t *testing.T) {
	prefs, err := Preferences(nil)
	require.NoError(t, err)
	assert.Nil(t, prefs)

	prefs, err = Preferences(json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Nil(t, prefs)
}

func TestPreferences_RejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unknown top-level key", `{"maxResults": 5}`},
		{"unknown weight dimension", `{"weights": {"charisma": 0.9}}`},
		{"negative weight", `{"weights": {"skills": -0.1}}`},
		{"minScore above range", `{"minScore": 150}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Preferences(json.RawMessage(tt.raw))
			assert.Error(t, err, "overrides are a closed contract")
		})
	}
}

func TestNormalizeSkills(t *testing.T) {
	assert.Nil(t, NormalizeSkills(nil))
	assert.Equal(t, []string{"a", "b"}, NormalizeSkills([]string{"A", "b", "a", "  ", "B"}))
}
