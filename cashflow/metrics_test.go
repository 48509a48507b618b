package cashflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/generic"
)

// =============================================================================
// HEALTH
// =============================================================================

func TestClassifyHealth(t *testing.T) {
	row := func(balance string) cashflow.TimelineRow {
		return cashflow.TimelineRow{Date: day("2025-01-10"), Balance: dec(balance)}
	}

	tests := []struct {
		name    string
		lowest  string
		minimum string
		want    cashflow.HealthLabel
	}{
		{"negative", "-0.01", "0", cashflow.HealthAtRisk},
		{"negative below minimum", "-400", "200", cashflow.HealthAtRisk},
		{"under minimum", "150", "200", cashflow.HealthWatch},
		{"exactly minimum", "200", "200", cashflow.HealthHealthy},
		{"zero with zero minimum", "0", "0", cashflow.HealthHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := cashflow.ClassifyHealth(row(tt.lowest), dec(tt.minimum))
			assert.Equal(t, tt.want, h.Label)
			assert.NotEmpty(t, h.Reason)
		})
	}
}

// =============================================================================
// INCOME STABILITY
// =============================================================================

func incomeRule(id, amount string, cadence generic.Cadence) cashflow.Rule {
	return cashflow.Rule{ID: id, Amount: dec(amount), Cadence: cadence, SeedDate: day("2025-01-01"), Enabled: true}
}

func TestIncomeStability_NoRules(t *testing.T) {
	s := cashflow.ClassifyIncomeStability(cashflow.Plan{})

	assert.Equal(t, cashflow.StabilityVariable, s.Label)
	assert.Equal(t, "No income rules are set up yet", s.Explanation)
	assert.Nil(t, s.Variance)
	assert.Equal(t, 0, s.RuleCount)
}

func TestIncomeStability_SingleRule(t *testing.T) {
	s := cashflow.ClassifyIncomeStability(cashflow.Plan{IncomeRules: []cashflow.Rule{incomeRule("a", "2500", "monthly")}})

	assert.Equal(t, cashflow.StabilityConsistent, s.Label)
	require.NotNil(t, s.Variance)
	assertMoney(t, "0", *s.Variance)
}

func TestIncomeStability_CloseAmountsAreConsistent(t *testing.T) {
	// GIVEN: Two monthly rules of 1000 and 1050
	// THEN: Consistent, population variance 625

	plan := cashflow.Plan{IncomeRules: []cashflow.Rule{
		incomeRule("a", "1000", "monthly"),
		incomeRule("b", "1050", "monthly"),
	}}

	s := cashflow.ClassifyIncomeStability(plan)

	assert.Equal(t, cashflow.StabilityConsistent, s.Label)
	require.NotNil(t, s.Variance)
	assertMoney(t, "625", *s.Variance)
	assert.Equal(t, 2, s.RuleCount)
}

func TestIncomeStability_WideSpreadIsVariable(t *testing.T) {
	plan := cashflow.Plan{IncomeRules: []cashflow.Rule{
		incomeRule("a", "100", "monthly"),
		incomeRule("b", "2000", "monthly"),
	}}

	assert.Equal(t, cashflow.StabilityVariable, cashflow.ClassifyIncomeStability(plan).Label)
}

func TestIncomeStability_MixedCadencesAreVariable(t *testing.T) {
	plan := cashflow.Plan{IncomeRules: []cashflow.Rule{
		incomeRule("a", "1000", "monthly"),
		incomeRule("b", "1000", "biweekly"),
	}}

	assert.Equal(t, cashflow.StabilityVariable, cashflow.ClassifyIncomeStability(plan).Label)
}

func TestIncomeStability_DisabledRulesIgnored(t *testing.T) {
	disabled := incomeRule("b", "9000", "weekly")
	disabled.Enabled = false
	plan := cashflow.Plan{IncomeRules: []cashflow.Rule{incomeRule("a", "1000", "monthly"), disabled}}

	s := cashflow.ClassifyIncomeStability(plan)

	assert.Equal(t, cashflow.StabilityConsistent, s.Label)
	assert.Equal(t, 1, s.RuleCount)
}

// =============================================================================
// SAVINGS STREAK
// =============================================================================

// savingsPlan budgets 200 of savings on the 2nd of each month.
func savingsPlan(txs ...cashflow.Transaction) cashflow.Plan {
	plan := quarterPlan()
	plan.OutflowRules = []cashflow.Rule{outflowRule("save", "200", "monthly", "2025-01-02", cashflow.CategorySavings)}
	plan.Transactions = txs
	return plan
}

func saved(id, date, amount string) cashflow.Transaction {
	return tx(id, date, amount, cashflow.TypeOutflow, cashflow.CategorySavings)
}

func TestSavingsStreak_ConsecutivePeriods(t *testing.T) {
	// GIVEN: 200 saved in January and 250 in February
	// WHEN: Viewing February
	// THEN: A streak of two

	plan := savingsPlan(saved("jan", "2025-01-02", "200"), saved("feb", "2025-02-02", "250"))

	s := cashflow.SavingsStreak(plan, "2025-02")

	assert.Equal(t, 2, s.Streak)
	assert.True(t, s.HistoryExists)
	assert.Equal(t, "Savings goal met 2 periods in a row", s.Message)
	assertMoney(t, "200", s.Budgeted)
	assertMoney(t, "250", s.Actual)
}

func TestSavingsStreak_SinglePeriod(t *testing.T) {
	plan := savingsPlan(saved("jan", "2025-01-02", "200"))

	s := cashflow.SavingsStreak(plan, "2025-01")

	assert.Equal(t, 1, s.Streak)
	assert.Equal(t, "Savings goal met this period", s.Message)
}

func TestSavingsStreak_BrokenByShortfall(t *testing.T) {
	plan := savingsPlan(saved("jan", "2025-01-02", "100"), saved("feb", "2025-02-02", "200"))

	assert.Equal(t, 1, cashflow.SavingsStreak(plan, "2025-02").Streak)
}

func TestSavingsStreak_PeriodWithoutTransactionsDoesNotCount(t *testing.T) {
	// GIVEN: Savings recorded in January only
	// WHEN: Viewing March (no transactions)
	// THEN: No streak, but history exists

	plan := savingsPlan(saved("jan", "2025-01-02", "200"))

	s := cashflow.SavingsStreak(plan, "2025-03")

	assert.Equal(t, 0, s.Streak)
	assert.True(t, s.HistoryExists)
	assert.Equal(t, "No savings streak yet", s.Message)
}

func TestSavingsStreak_NoHistory(t *testing.T) {
	s := cashflow.SavingsStreak(savingsPlan(), "2025-02")

	assert.Equal(t, 0, s.Streak)
	assert.False(t, s.HistoryExists)
	assert.Equal(t, "Complete a period to start a savings streak", s.Message)
}

func TestSavingsStreak_SavingsIncomeIsNotSaving(t *testing.T) {
	plan := savingsPlan(tx("interest", "2025-01-20", "500", cashflow.TypeIncome, cashflow.CategorySavings))

	s := cashflow.SavingsStreak(plan, "2025-01")

	assert.Equal(t, 0, s.Streak)
	assertMoney(t, "0", s.Actual)
}

func TestSavingsStreak_TransferIntoSavingsCounts(t *testing.T) {
	// GIVEN: 200 budgeted and a 200 transfer into savings in January
	// WHEN: Viewing January
	// THEN: The transfer meets the goal while variance still reports no spend

	plan := savingsPlan(tx("move", "2025-01-02", "200", cashflow.TypeTransfer, cashflow.CategorySavings))

	s := cashflow.SavingsStreak(plan, "2025-01")

	assert.Equal(t, 1, s.Streak)
	assertMoney(t, "200", s.Actual)
	assertMoney(t, "0", cashflow.GetVarianceByCategory(plan, "2025-01")[cashflow.CategorySavings].Actual)
}

func TestSavingsStreak_EmptyPlan(t *testing.T) {
	s := cashflow.SavingsStreak(cashflow.Plan{}, "")

	assert.Equal(t, 0, s.Streak)
	assert.NotEmpty(t, s.Message)
}
