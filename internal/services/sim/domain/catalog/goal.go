package catalog

import "fmt"

// GoalType is the category of a mission objective.
type GoalType string

const (
	GoalCheckout GoalType = "checkout"
	GoalRevenue  GoalType = "revenue"
	GoalSell     GoalType = "sell"
	GoalRestock  GoalType = "restock"
	GoalFurnish  GoalType = "furnish"
)

// Targeted reports whether progress only counts for the mission's target id.
// Every goal type states this explicitly; there is no default.
func (g GoalType) Targeted() (bool, error) {
	switch g {
	case GoalCheckout, GoalRevenue:
		return false, nil
	case GoalSell, GoalRestock, GoalFurnish:
		return true, nil
	default:
		return false, fmt.Errorf("unknown goal type %q", string(g))
	}
}
