// internal/matching/score/urgency.go
package score

import (
	"fmt"

	"matching-engine/internal/matching"
)

// urgencyTable maps (candidate urgency, actor response class) to a score.
// Time pressure rewards fast responders; when pressure is absent, slow
// responders are not penalized.
var urgencyTable = map[matching.UrgencyLevel]map[matching.ResponseTimeClass]float64{
	matching.UrgencyEmergency: {
		matching.ResponseFast:   100,
		matching.ResponseNormal: 60,
		matching.ResponseSlow:   25,
	},
	matching.UrgencyHigh: {
		matching.ResponseFast:   100,
		matching.ResponseNormal: 70,
		matching.ResponseSlow:   40,
	},
	matching.UrgencyNormal: {
		matching.ResponseFast:   90,
		matching.ResponseNormal: 85,
		matching.ResponseSlow:   70,
	},
	matching.UrgencyLow: {
		matching.ResponseFast:   80,
		matching.ResponseNormal: 80,
		matching.ResponseSlow:   80,
	},
}

const urgencyNeutral = 70.0

// Urgency scores how well the actor's typical response time fits the
// candidate's time pressure, by table lookup. Unknown enum values degrade
// to a neutral score.
func Urgency(urgency matching.UrgencyLevel, response matching.ResponseTimeClass) (float64, string) {
	row, ok := urgencyTable[urgency]
	if !ok {
		return urgencyNeutral, "urgency not specified"
	}
	s, ok := row[response]
	if !ok {
		return urgencyNeutral, fmt.Sprintf("%s urgency, response time unknown", urgency)
	}
	return s, fmt.Sprintf("%s urgency, %s responder", urgency, response)
}
