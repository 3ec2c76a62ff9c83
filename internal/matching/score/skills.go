// internal/matching/score/skills.go
package score

import (
	"fmt"
	"strings"
)

// Tunable skill scoring bounds. A zero-overlap candidate still gets the
// floor so it is not excluded outright when other dimensions fit well.
const (
	skillFloor = 25.0
	skillSpan  = 100.0 - skillFloor
)

// Skills scores how much of the required skill set the actor possesses.
// Matching is exact and case-insensitive. An empty required set is treated
// as a full match since nothing is required. The result grows strictly with
// the matched fraction: none < partial < full.
func Skills(required, possessed []string) (float64, string) {
	if len(required) == 0 {
		return 100, "no specific skills required"
	}

	have := make(map[string]bool, len(possessed))
	for _, s := range possessed {
		have[strings.ToLower(strings.TrimSpace(s))] = true
	}

	matched := 0
	total := 0
	seen := make(map[string]bool, len(required))
	for _, s := range required {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		total++
		if have[key] {
			matched++
		}
	}
	if total == 0 {
		return 100, "no specific skills required"
	}

	fraction := float64(matched) / float64(total)
	s := skillFloor + skillSpan*fraction

	switch {
	case matched == total:
		return s, fmt.Sprintf("matches all %d required skills", total)
	case matched > 0:
		return s, fmt.Sprintf("matches %d of %d required skills", matched, total)
	default:
		return s, fmt.Sprintf("matches none of the %d required skills", total)
	}
}
