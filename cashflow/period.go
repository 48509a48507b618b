package cashflow

import (
	"sort"

	"github.com/warp/cashflow-engine/generic"
)

// =============================================================================
// PERIOD RESOLVER - Pure lookups with silent fallback
// =============================================================================

// GetPeriod returns the period with the given id. When no period matches it
// falls back to the first period of the plan; a plan without periods yields
// the zero Period. It never fails.
func GetPeriod(plan Plan, periodID string) Period {
	for _, p := range plan.Periods {
		if p.ID == periodID {
			return p
		}
	}
	if len(plan.Periods) > 0 {
		return plan.Periods[0]
	}
	return Period{}
}

// GetPeriodForDate returns the id of the first period (in plan order, not
// date order) whose inclusive range contains the date. ok is false when no
// period contains it.
func GetPeriodForDate(plan Plan, date generic.TimePoint) (periodID string, ok bool) {
	for _, p := range plan.Periods {
		if p.Contains(date) {
			return p.ID, true
		}
	}
	return "", false
}

// SortedPeriods returns the plan's periods ordered by start date. Periods
// sharing a start date keep their plan order.
func SortedPeriods(plan Plan) []Period {
	sorted := make([]Period, len(plan.Periods))
	copy(sorted, plan.Periods)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})
	return sorted
}

// periodIndex returns the position of the resolved period in sorted order,
// or -1 for a plan without periods.
func periodIndex(sorted []Period, periodID string) int {
	for i, p := range sorted {
		if p.ID == periodID {
			return i
		}
	}
	if len(sorted) == 0 {
		return -1
	}
	// Unknown id: resolve the same way GetPeriod does.
	return 0
}

// resolveIndex resolves periodID through GetPeriod and locates it in sorted.
func resolveIndex(plan Plan, sorted []Period, periodID string) int {
	resolved := GetPeriod(plan, periodID)
	return periodIndex(sorted, resolved.ID)
}

// PreviousPeriod returns the period immediately before periodID in start
// order. ok is false for the first period.
func PreviousPeriod(plan Plan, periodID string) (Period, bool) {
	sorted := SortedPeriods(plan)
	i := resolveIndex(plan, sorted, periodID)
	if i <= 0 {
		return Period{}, false
	}
	return sorted[i-1], true
}

// NextPeriod returns the period immediately after periodID in start order.
// ok is false for the last period.
func NextPeriod(plan Plan, periodID string) (Period, bool) {
	sorted := SortedPeriods(plan)
	i := resolveIndex(plan, sorted, periodID)
	if i < 0 || i+1 >= len(sorted) {
		return Period{}, false
	}
	return sorted[i+1], true
}
