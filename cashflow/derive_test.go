package cashflow_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/cashflow-engine/cashflow"
)

func TestDeriveApp_BillBeforeIncomeIsAtRisk(t *testing.T) {
	// GIVEN: Starting balance 100 and a 500 bill due on day 1
	// WHEN: Deriving the period
	// THEN: Lowest balance is -400 on the first day and health is At Risk

	plan := januaryPlan("100")
	plan.Bills = []cashflow.Bill{{ID: "rent", Label: "Rent", Amount: dec("500"), DueDay: 1, Enabled: true}}

	view := cashflow.DeriveApp(plan, "2025-01")

	assertMoney(t, "-400", view.Cashflow.Lowest.Balance)
	assert.Equal(t, "2025-01-01", view.Cashflow.Lowest.Date.String())
	assert.Equal(t, cashflow.HealthAtRisk, view.Health.Label)
}

func TestDeriveApp_Totals(t *testing.T) {
	// GIVEN: 2000 income, 1500 rent and a 200 savings rule
	// THEN: remaining = 2000 - 1500 - 200 = planned net

	plan := quarterPlan()
	plan.OutflowRules = []cashflow.Rule{outflowRule("save", "200", "monthly", "2025-01-02", cashflow.CategorySavings)}

	view := cashflow.DeriveApp(plan, "2025-01")

	assertMoney(t, "2000", view.Totals.IncomeExpected)
	assertMoney(t, "1500", view.Totals.CommittedBills)
	assertMoney(t, "200", view.Totals.AllocationsTotal)
	assertMoney(t, "300", view.Totals.Remaining)
	assertMoney(t, cashflow.NetOfEvents(cashflow.GenerateEvents(plan, "2025-01")).String(), view.Totals.Remaining)
	assertMoney(t, "10", view.Summary.SavingsRate)
	assertMoney(t, "1300", view.Summary.EndingBalance)
}

func TestDeriveApp_ManualOutflowsStayOutOfAllocations(t *testing.T) {
	// GIVEN: A 200 savings rule, a 75 manual gift and a 300 planned transfer
	// WHEN: Deriving January
	// THEN: Allocations hold the rule only and remaining is still the planned net

	plan := quarterPlan()
	plan.OutflowRules = []cashflow.Rule{outflowRule("save", "200", "monthly", "2025-01-02", cashflow.CategorySavings)}
	plan.ManualEvents = []cashflow.ManualEvent{
		{ID: "gift", Date: day("2025-01-20"), Amount: dec("75"), Type: cashflow.TypeOutflow, Category: cashflow.CategoryGiving},
		{ID: "move", Date: day("2025-01-25"), Amount: dec("300"), Type: cashflow.TypeTransfer, Category: cashflow.CategorySavings},
	}

	view := cashflow.DeriveApp(plan, "2025-01")

	assertMoney(t, "200", view.Totals.AllocationsTotal)
	assertMoney(t, "375", view.Totals.ManualOutflows)
	assertMoney(t, "-75", view.Totals.Remaining)
	assertMoney(t, cashflow.NetOfEvents(cashflow.GenerateEvents(plan, "2025-01")).String(), view.Totals.Remaining)
}

func TestDeriveApp_EmptyPeriodIDUsesSelectedPeriod(t *testing.T) {
	plan := quarterPlan()

	view := cashflow.DeriveApp(plan, "")

	assert.Equal(t, "2025-02", view.PeriodID)
	assertMoney(t, "1500", view.StartingBalance)
}

func TestDeriveApp_UnknownPeriodFallsBack(t *testing.T) {
	view := cashflow.DeriveApp(quarterPlan(), "2031-07")

	assert.Equal(t, "2025-01", view.PeriodID)
}

func TestDeriveApp_IsIdempotent(t *testing.T) {
	plan := savingsPlan(saved("jan", "2025-01-02", "200"))
	plan.Transactions = append(plan.Transactions,
		tx("pay", "2025-01-01", "2000", cashflow.TypeIncome, cashflow.CategoryIncome),
		tx("food", "2025-01-11", "80", cashflow.TypeOutflow, cashflow.CategoryAllowance),
	)

	first, err := json.Marshal(cashflow.DeriveApp(plan, "2025-01"))
	require.NoError(t, err)
	second, err := json.Marshal(cashflow.DeriveApp(plan, "2025-01"))
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
}

func TestDeriveApp_SummaryAndFlags(t *testing.T) {
	plan := quarterPlan()
	plan.Setup.VariableCap = dec("100")
	plan.Transactions = []cashflow.Transaction{
		tx("pay", "2025-01-01", "2000", cashflow.TypeIncome, cashflow.CategoryIncome),
		tx("rent", "2025-01-05", "1500", cashflow.TypeOutflow, cashflow.CategoryBill),
		tx("food", "2025-01-11", "80", cashflow.TypeOutflow, cashflow.CategoryAllowance),
		tx("fun", "2025-01-18", "45", cashflow.TypeOutflow, cashflow.CategoryOther),
	}

	view := cashflow.DeriveApp(plan, "2025-01")

	assert.True(t, view.Flags.HasTransactions)
	assert.True(t, view.Flags.HasIncomeRules)
	assert.True(t, view.Flags.HasStartingBalance)
	assertMoney(t, "2000", view.Summary.ActualIncome)
	assertMoney(t, "1625", view.Summary.ActualOutflow)
	assertMoney(t, "125", view.Summary.VariableSpend)
	assert.True(t, view.Summary.OverVariableCap)
	assertMoney(t, "1375", view.Summary.ActualsEndingBalance)
}

func TestDeriveApp_ZeroCapIsNeverExceeded(t *testing.T) {
	plan := quarterPlan()
	plan.Transactions = []cashflow.Transaction{tx("fun", "2025-01-18", "45", cashflow.TypeOutflow, cashflow.CategoryOther)}

	view := cashflow.DeriveApp(plan, "2025-01")

	assert.False(t, view.Summary.OverVariableCap)
}

func TestDeriveApp_EmptyPeriodFallsBackToStartingBalance(t *testing.T) {
	// A malformed period has no days; the low point is the starting balance
	plan := cashflow.Plan{
		Setup:   cashflow.Setup{StartingBalance: dec("-5")},
		Periods: []cashflow.Period{period("bad", "2025-02-01", "2025-01-01")},
	}

	view := cashflow.DeriveApp(plan, "bad")

	assert.Empty(t, view.Cashflow.Timeline)
	assertMoney(t, "-5", view.Cashflow.Lowest.Balance)
	assert.Equal(t, cashflow.HealthAtRisk, view.Health.Label)
}

func TestDeriveApp_EmptyPlan(t *testing.T) {
	assert.NotPanics(t, func() {
		view := cashflow.DeriveApp(cashflow.Plan{}, "")
		assert.Equal(t, cashflow.StabilityVariable, view.IncomeStability.Label)
	})
}
