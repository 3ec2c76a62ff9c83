// internal/matching/score/location.go
package score

import (
	"fmt"
	"math"

	"matching-engine/internal/matching/geo"
)

// Location decay tunables. The score halves roughly every decayKm*ln2 km
// and never drops below the floor, so remote candidates stay comparable.
const (
	DefaultDecayKm = 50.0
	locationFloor  = 5.0
	neutralDistant = 60.0
)

// Location scores proximity between the candidate and the actor. Zero
// distance scores 100 and the score decays exponentially with distance.
// A missing coordinate on either side degrades to a neutral score.
func Location(candidate, actor *geo.Coordinate, decayKm float64) (float64, string) {
	if candidate == nil || actor == nil {
		return neutralDistant, "location unknown"
	}
	if decayKm <= 0 {
		decayKm = DefaultDecayKm
	}

	d := geo.DistanceKm(*candidate, *actor)
	s := clamp(100*math.Exp(-d/decayKm), locationFloor, 100)

	if d < 1 {
		return s, "right in your area"
	}
	return s, fmt.Sprintf("about %.0f km away", d)
}
