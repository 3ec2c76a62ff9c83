// internal/ingest/schema.go
package ingest

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// JSON Schemas for the supplier record shapes. Compiled once at package
// init; a schema that fails to compile is a programming error.

const reputationSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"overall":        {"type": "number", "minimum": 1, "maximum": 5},
		"reliability":    {"type": "number", "minimum": 1, "maximum": 5},
		"communication":  {"type": "number", "minimum": 1, "maximum": 5},
		"fairness":       {"type": "number", "minimum": 1, "maximum": 5},
		"respectfulness": {"type": "number", "minimum": 1, "maximum": 5},
		"totalRatings":   {"type": "integer", "minimum": 0}
	}
}`

const coordinateSchema = `{
	"type": "object",
	"required": ["lat", "lng"],
	"additionalProperties": false,
	"properties": {
		"lat": {"type": "number"},
		"lng": {"type": "number"}
	}
}`

var candidateSchema = `{
	"type": "object",
	"required": ["id"],
	"properties": {
		"id":              {"type": "string", "minLength": 1},
		"requiredSkills":  {"type": "array", "items": {"type": "string"}},
		"location":        ` + coordinateSchema + `,
		"budget": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"min": {"type": "number", "minimum": 0},
				"max": {"type": "number", "minimum": 0}
			}
		},
		"fixedPrice":      {"type": "number", "minimum": 0},
		"urgency":         {"type": "string", "enum": ["low", "normal", "high", "emergency"]},
		"createdAt":       {"type": "string", "format": "date-time"},
		"reputation":      ` + reputationSchema + `,
		"verifiedPayment": {"type": "boolean"},
		"description":     {"type": "string"},
		"city":            {"type": "string"},
		"zipCode":         {"type": "string"}
	}
}`

var profileSchema = `{
	"type": "object",
	"required": ["id"],
	"properties": {
		"id":           {"type": "string", "minLength": 1},
		"skills":       {"type": "array", "items": {"type": "string"}},
		"location":     ` + coordinateSchema + `,
		"hourlyRate":   {"type": "number", "minimum": 0},
		"responseTime": {"type": "string", "enum": ["fast", "normal", "slow"]},
		"premium": {
			"type": "object",
			"required": ["level"],
			"additionalProperties": false,
			"properties": {
				"level":        {"type": "string", "enum": ["basic", "pro", "elite"]},
				"multiplier":   {"type": "number", "minimum": 1},
				"featured":     {"type": "boolean"},
				"verifiedOnly": {"type": "boolean"}
			}
		}
	}
}`

// preferencesSchema is deliberately closed: overrides are a fixed contract
// and an unrecognized knob is a caller bug, not something to ignore.
const preferencesSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"weights": {
			"type": "object",
			"additionalProperties": {"type": "number", "minimum": 0}
		},
		"maxDistanceKm": {"type": "number", "minimum": 0},
		"minScore":      {"type": "integer", "minimum": 0, "maximum": 100}
	}
}`

var (
	compiledCandidateSchema   = mustSchema(candidateSchema)
	compiledProfileSchema     = mustSchema(profileSchema)
	compiledPreferencesSchema = mustSchema(preferencesSchema)
)

func mustSchema(raw string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded schema: %v", err))
	}
	return s
}

// validate runs a compiled schema over a raw JSON document and flattens
// violations into one error message.
func validate(schema *gojsonschema.Schema, raw []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("record validation failed: %v", errs)
	}
	return nil
}
