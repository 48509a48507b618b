package cashflow_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/generic"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) generic.TimePoint { return generic.MustParseDate(s) }

func ptr[T any](v T) *T { return &v }

// assertMoney compares decimals by value; 5 and 5.00 are equal.
func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) bool {
	t.Helper()
	return assert.Truef(t, dec(want).Equal(got), "expected %s, got %s %v", want, got.String(), msgAndArgs)
}

func period(id, start, end string) cashflow.Period {
	return cashflow.Period{ID: id, Label: id, Start: day(start), End: day(end)}
}

// januaryPlan is a single calendar-month period with a starting balance and
// nothing scheduled.
func januaryPlan(start string) cashflow.Plan {
	return cashflow.Plan{
		Setup: cashflow.Setup{
			SelectedPeriodID: "2025-01",
			StartingBalance:  dec(start),
		},
		Periods: []cashflow.Period{period("2025-01", "2025-01-01", "2025-01-31")},
	}
}

// quarterPlan has three monthly periods, 2000 monthly income on the 1st and
// a 1500 rent bill on the 5th. Roll-forward is on.
func quarterPlan() cashflow.Plan {
	return cashflow.Plan{
		Setup: cashflow.Setup{
			SelectedPeriodID:   "2025-02",
			StartingBalance:    dec("1000"),
			RollForwardBalance: true,
		},
		Periods: []cashflow.Period{
			period("2025-01", "2025-01-01", "2025-01-31"),
			period("2025-02", "2025-02-01", "2025-02-28"),
			period("2025-03", "2025-03-01", "2025-03-31"),
		},
		IncomeRules: []cashflow.Rule{
			{ID: "salary", Label: "Salary", Amount: dec("2000"), Cadence: generic.CadenceMonthly, SeedDate: day("2025-01-01"), Enabled: true},
		},
		Bills: []cashflow.Bill{
			{ID: "rent", Label: "Rent", Amount: dec("1500"), DueDay: 5, Category: cashflow.CategoryBill, Enabled: true},
		},
	}
}

func outflowRule(id string, amount string, cadence generic.Cadence, seed string, category cashflow.Category) cashflow.Rule {
	return cashflow.Rule{
		ID: id, Label: id, Amount: dec(amount), Cadence: cadence,
		SeedDate: day(seed), Enabled: true, Category: category,
	}
}

func tx(id, date, amount string, typ cashflow.EventType, category cashflow.Category) cashflow.Transaction {
	return cashflow.Transaction{ID: id, Date: day(date), Label: id, Amount: dec(amount), Type: typ, Category: category}
}

func eventDates(events []cashflow.CashflowEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Date.String()
	}
	return out
}
