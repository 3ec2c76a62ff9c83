// internal/matching/score/price.go
package score

import (
	"fmt"

	"matching-engine/internal/matching"
)

// Price tunables. Past the ceiling the score falls off linearly, reaching
// the floor once the rate overshoots the ceiling by 100%.
const (
	priceNeutral  = 60.0
	priceFloor    = 20.0
	overshootSpan = 1.0
)

// Price scores the actor's rate against the candidate's budget. A rate at
// or below the budget ceiling scores 100; above the ceiling the score
// degrades monotonically with the relative overshoot. Missing budget or
// rate degrades to a neutral score.
func Price(budget *matching.BudgetRange, fixedPrice, rate *float64) (float64, string) {
	ceiling, ok := budgetCeiling(budget, fixedPrice)
	if !ok || rate == nil {
		return priceNeutral, "budget or rate not specified"
	}

	if *rate <= ceiling {
		return 100, "rate fits the budget"
	}
	if ceiling <= 0 {
		return priceFloor, "rate exceeds the budget"
	}

	overshoot := (*rate - ceiling) / ceiling
	s := clamp(100-(100-priceFloor)*(overshoot/overshootSpan), priceFloor, 100)
	return s, fmt.Sprintf("rate exceeds the budget by %.0f%%", overshoot*100)
}

// budgetCeiling resolves the effective upper bound from a range or a fixed
// price. Returns false when neither is present.
func budgetCeiling(budget *matching.BudgetRange, fixedPrice *float64) (float64, bool) {
	if budget != nil && budget.Max > 0 {
		return budget.Max, true
	}
	if fixedPrice != nil && *fixedPrice > 0 {
		return *fixedPrice, true
	}
	return 0, false
}
