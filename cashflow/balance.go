/*
balance.go - Starting-balance chaining across periods

PURPOSE:
  Answers "how much money is there on the first morning of this period?"
  in two views:
    - planned: chained through the previous periods' generated events
    - actual:  chained through the previous periods' recorded transactions

RULES (both views):
  rollForwardBalance == false
      -> setup.startingBalance, for every period. Period overrides are
         ignored in this mode.
  rollForwardBalance == true
      -> the period's own startingBalance override, if any
      -> setup.startingBalance for the first period (by start date)
      -> previous period's start + previous period's net, otherwise

IMPLEMENTATION:
  An index walk over the periods sorted by start date. The walk goes back to
  the nearest anchor (an override or the first period), then forward adding
  one period's net at a time. There is no recursion, so chain depth is
  bounded only by the number of periods, and no cycle is possible.

  Each step only adds the net of the directly preceding period's own date
  range; a transaction outside that range never reaches a later period's
  start through a non-adjacent step.

EXAMPLE:
  setup 1000, roll-forward on
  P1: +2000 income, -1500 bills         start(P1) = 1000
  P2:                                   start(P2) = 1000 + 500 = 1500
*/
package cashflow

import (
	"github.com/shopspring/decimal"
)

// GetStartingBalance returns the planned starting balance of a period.
func GetStartingBalance(plan Plan, periodID string) decimal.Decimal {
	return chainStartingBalance(plan, periodID, func(p Period) decimal.Decimal {
		return NetOfEvents(GenerateEvents(plan, p.ID))
	})
}

// GetActualsStartingBalance returns the starting balance of a period as
// recorded by the ledger.
func GetActualsStartingBalance(plan Plan, periodID string) decimal.Decimal {
	return chainStartingBalance(plan, periodID, func(p Period) decimal.Decimal {
		return NetOfTransactions(TransactionsInRange(plan, p.Range()))
	})
}

// EndingBalance is the planned balance after the period's last day.
func EndingBalance(plan Plan, periodID string) decimal.Decimal {
	start := GetStartingBalance(plan, periodID)
	return start.Add(NetOfEvents(GenerateEvents(plan, periodID)))
}

// ActualsEndingBalance is the recorded balance after the period's last day.
func ActualsEndingBalance(plan Plan, periodID string) decimal.Decimal {
	start := GetActualsStartingBalance(plan, periodID)
	return start.Add(NetOfTransactions(PeriodTransactions(plan, periodID)))
}

// chainStartingBalance walks back from the period to its anchor and forward
// again, adding netOf for each period strictly before the target.
func chainStartingBalance(plan Plan, periodID string, netOf func(Period) decimal.Decimal) decimal.Decimal {
	setup := plan.Setup.StartingBalance
	if !plan.Setup.RollForwardBalance {
		return setup
	}

	sorted := SortedPeriods(plan)
	target := resolveIndex(plan, sorted, periodID)
	if target < 0 {
		return setup
	}

	anchor, balance := 0, setup
	for j := target; j >= 0; j-- {
		if override, ok := periodStartingBalanceOverride(plan, sorted[j].ID); ok {
			anchor, balance = j, override
			break
		}
	}

	for k := anchor; k < target; k++ {
		balance = balance.Add(netOf(sorted[k]))
	}
	return balance
}
