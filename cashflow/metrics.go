package cashflow

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/cashflow-engine/generic"
)

// =============================================================================
// HEALTH - Classification of a period's lowest projected balance
// =============================================================================

// HealthLabel is the user-facing health classification of a period.
type HealthLabel string

const (
	HealthAtRisk  HealthLabel = "At Risk"
	HealthWatch   HealthLabel = "Watch"
	HealthHealthy HealthLabel = "Healthy"
)

// Health is a label plus the reason shown next to it. Reason is never empty.
type Health struct {
	Label  HealthLabel `json:"label"`
	Reason string      `json:"reason"`
}

// ClassifyHealth maps the lowest balance of a period against the expected
// minimum balance:
//
//	lowest < 0            -> At Risk
//	0 <= lowest < minimum -> Watch
//	lowest >= minimum     -> Healthy
func ClassifyHealth(lowest TimelineRow, minimum decimal.Decimal) Health {
	switch {
	case lowest.Balance.IsNegative():
		return Health{
			Label:  HealthAtRisk,
			Reason: fmt.Sprintf("Balance drops to %s on %s", lowest.Balance.StringFixed(2), lowest.Date),
		}
	case lowest.Balance.LessThan(minimum):
		return Health{
			Label: HealthWatch,
			Reason: fmt.Sprintf("Lowest balance %s on %s is under the %s minimum",
				lowest.Balance.StringFixed(2), lowest.Date, minimum.StringFixed(2)),
		}
	default:
		return Health{
			Label:  HealthHealthy,
			Reason: fmt.Sprintf("Balance stays at or above %s all period", minimum.StringFixed(2)),
		}
	}
}

// =============================================================================
// INCOME STABILITY
// =============================================================================

// StabilityLabel classifies how predictable the plan's income is.
type StabilityLabel string

const (
	StabilityConsistent StabilityLabel = "Consistent"
	StabilityVariable   StabilityLabel = "Variable"
)

// IncomeStability describes the enabled income rules of a plan. Variance is
// the population variance of the rule amounts, nil when there are no rules.
type IncomeStability struct {
	Label       StabilityLabel   `json:"label"`
	Explanation string           `json:"explanation"`
	Variance    *decimal.Decimal `json:"variance,omitempty"`
	RuleCount   int              `json:"ruleCount"`
}

// stabilitySpreadRatio is the max spread, relative to the mean amount, that
// still counts as consistent income.
var stabilitySpreadRatio = decimal.RequireFromString("0.1")

// ClassifyIncomeStability looks at the plan's globally enabled income rules.
func ClassifyIncomeStability(plan Plan) IncomeStability {
	var rules []Rule
	for _, r := range plan.IncomeRules {
		if r.Enabled {
			rules = append(rules, r)
		}
	}

	if len(rules) == 0 {
		return IncomeStability{
			Label:       StabilityVariable,
			Explanation: "No income rules are set up yet",
		}
	}

	amounts := make([]decimal.Decimal, len(rules))
	for i, r := range rules {
		amounts[i] = r.Amount
	}
	variance := populationVariance(amounts)
	result := IncomeStability{Variance: &variance, RuleCount: len(rules)}

	if len(rules) == 1 {
		result.Label = StabilityConsistent
		result.Explanation = "A single income source on a fixed schedule"
		return result
	}

	for _, r := range rules[1:] {
		if r.Cadence != rules[0].Cadence {
			result.Label = StabilityVariable
			result.Explanation = "Income sources arrive on different schedules"
			return result
		}
	}

	lo, hi := decimal.Min(amounts[0], amounts[1:]...), decimal.Max(amounts[0], amounts[1:]...)
	spread := hi.Sub(lo)
	threshold := decimal.Avg(amounts[0], amounts[1:]...).Mul(stabilitySpreadRatio)
	if spread.LessThanOrEqual(threshold) {
		result.Label = StabilityConsistent
		result.Explanation = fmt.Sprintf("Income amounts differ by at most %s", spread.StringFixed(2))
		return result
	}
	result.Label = StabilityVariable
	result.Explanation = fmt.Sprintf("Income amounts differ by %s, more than 10%% of the average", spread.StringFixed(2))
	return result
}

func populationVariance(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	n := decimal.NewFromInt(int64(len(values)))
	mean := generic.Sum(values...).Div(n)
	squares := decimal.Zero
	for _, v := range values {
		d := v.Sub(mean)
		squares = squares.Add(d.Mul(d))
	}
	return squares.Div(n)
}

// =============================================================================
// SAVINGS STREAK
// =============================================================================

// SavingsHealth reports how many consecutive periods, ending at the viewed
// one, met their savings budget.
type SavingsHealth struct {
	Streak        int             `json:"streak"`
	HistoryExists bool            `json:"historyExists"`
	Message       string          `json:"message"`
	Budgeted      decimal.Decimal `json:"budgeted"`
	Actual        decimal.Decimal `json:"actual"`
}

// SavingsStreak walks backward from the viewed period. A period counts when
// it has at least one transaction and its actual savings meet or exceed the
// budgeted savings. The walk stops at the first period that does not count.
func SavingsStreak(plan Plan, periodID string) SavingsHealth {
	result := SavingsHealth{Budgeted: decimal.Zero, Actual: decimal.Zero}
	if len(plan.Periods) == 0 {
		result.Message = "Complete a period to start a savings streak"
		return result
	}

	sorted := SortedPeriods(plan)
	idx := resolveIndex(plan, sorted, periodID)
	viewed := sorted[idx]
	result.Budgeted, result.Actual = periodSavings(plan, viewed)

	cutoff := viewed.End.AddDays(1)
	if next, ok := NextPeriod(plan, viewed.ID); ok {
		cutoff = next.Start
	}
	result.HistoryExists = HasTransactionsBefore(plan, cutoff)

	for j := idx; j >= 0; j-- {
		if len(TransactionsInRange(plan, sorted[j].Range())) == 0 {
			break
		}
		budgeted, actual := periodSavings(plan, sorted[j])
		if actual.LessThan(budgeted) {
			break
		}
		result.Streak++
	}

	switch {
	case result.Streak == 1:
		result.Message = "Savings goal met this period"
	case result.Streak > 1:
		result.Message = fmt.Sprintf("Savings goal met %d periods in a row", result.Streak)
	case !result.HistoryExists:
		result.Message = "Complete a period to start a savings streak"
	default:
		result.Message = "No savings streak yet"
	}
	return result
}

// periodSavings returns the budgeted and actual savings of one period. Income
// booked under the savings category is not saving. Transfers into savings are
// saving here, on both the planned and the recorded side, even though
// variance leaves them out of spending.
func periodSavings(plan Plan, p Period) (budgeted, actual decimal.Decimal) {
	budgeted, actual = decimal.Zero, decimal.Zero
	for _, e := range GenerateEvents(plan, p.ID) {
		if e.Category == CategorySavings && e.Type != TypeIncome {
			budgeted = budgeted.Add(e.Amount)
		}
	}
	for _, tx := range TransactionsInRange(plan, p.Range()) {
		if tx.Category == CategorySavings && tx.Type != TypeIncome {
			actual = actual.Add(tx.Amount)
		}
	}
	return budgeted, actual
}
