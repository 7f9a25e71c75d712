package scoring

import (
	"math"
)

// underBudgetFloor keeps cheap options from being favored just for being cheap.
const underBudgetFloor = 0.6

// PerPersonTarget returns the budget per traveler, or 0 when the budget is
// unusable.
func PerPersonTarget(b Budget) float64 {
	if math.IsNaN(b.Amount) || math.IsInf(b.Amount, 0) {
		return 0
	}
	head := b.Headcount
	if head < 1 {
		head = 1
	}
	return b.Amount / float64(head)
}

// BudgetFit scores a per-person price against the budget. At or under target
// the score is at least 0.6; over target it falls to 0 at double the target.
func BudgetFit(price float64, b Budget) float64 {
	target := PerPersonTarget(b)
	if target <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0
	}

	ratio := price / target
	if ratio <= 1 {
		return math.Max(underBudgetFloor, ratio)
	}
	return math.Max(0, 1-(ratio-1))
}
