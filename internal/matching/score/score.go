// internal/matching/score/score.go

// Package score holds the per-dimension compatibility scorers. Each scorer
// is a pure function over a candidate attribute and the actor profile,
// returning a score in [0,100] plus a short human-readable description.
// Missing optional input never errors; it degrades to a neutral score.
package score

// Dimension names used in results, weight configuration, and preference
// overrides.
const (
	DimensionSkills     = "skills"
	DimensionLocation   = "location"
	DimensionPrice      = "price"
	DimensionUrgency    = "urgency"
	DimensionReputation = "reputation"
)

// Dimensions lists every known dimension name. Preference overrides naming
// anything else are rejected at the boundary.
var Dimensions = []string{
	DimensionSkills,
	DimensionLocation,
	DimensionPrice,
	DimensionUrgency,
	DimensionReputation,
}

// KnownDimension reports whether name is one of the engine's dimensions.
func KnownDimension(name string) bool {
	for _, d := range Dimensions {
		if d == name {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
