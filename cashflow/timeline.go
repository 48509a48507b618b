package cashflow

import (
	"github.com/shopspring/decimal"
	"github.com/warp/cashflow-engine/generic"
)

// =============================================================================
// TIMELINE BUILDER - Day-by-day balance curve for a period
// =============================================================================

// BuildTimeline walks every day of the period and applies that day's planned
// events to a running balance. Transfers count as outflow. A day is flagged
// when its closing balance is strictly below setup.expectedMinBalance.
func BuildTimeline(plan Plan, periodID string, startingBalance decimal.Decimal) []TimelineRow {
	if len(plan.Periods) == 0 {
		return []TimelineRow{}
	}
	period := GetPeriod(plan, periodID)

	daily := make(dailyTotals)
	for _, e := range GenerateEvents(plan, period.ID) {
		daily.add(e.Date, e.Type, e.Amount)
	}
	return walkDays(period.Range(), daily, startingBalance, plan.Setup.ExpectedMinBalance)
}

// BuildActualsTimeline is BuildTimeline over recorded transactions instead of
// planned events.
func BuildActualsTimeline(plan Plan, periodID string, startingBalance decimal.Decimal) []TimelineRow {
	if len(plan.Periods) == 0 {
		return []TimelineRow{}
	}
	period := GetPeriod(plan, periodID)

	daily := make(dailyTotals)
	for _, tx := range TransactionsInRange(plan, period.Range()) {
		daily.add(tx.Date, tx.Type, tx.Amount)
	}
	return walkDays(period.Range(), daily, startingBalance, plan.Setup.ExpectedMinBalance)
}

// MinPoint returns the row with the lowest balance; ties resolve to the
// earliest date. ok is false for an empty timeline.
func MinPoint(rows []TimelineRow) (TimelineRow, bool) {
	if len(rows) == 0 {
		return TimelineRow{}, false
	}
	lowest := rows[0]
	for _, r := range rows[1:] {
		if r.Balance.LessThan(lowest.Balance) {
			lowest = r
		}
	}
	return lowest, true
}

// DaysBelowMin counts warning rows.
func DaysBelowMin(rows []TimelineRow) int {
	n := 0
	for _, r := range rows {
		if r.Warning {
			n++
		}
	}
	return n
}

type dayTotals struct {
	income  decimal.Decimal
	outflow decimal.Decimal
}

type dailyTotals map[string]*dayTotals

func (d dailyTotals) add(day generic.TimePoint, typ EventType, amount decimal.Decimal) {
	t, ok := d[day.String()]
	if !ok {
		t = &dayTotals{income: decimal.Zero, outflow: decimal.Zero}
		d[day.String()] = t
	}
	switch typ {
	case TypeIncome:
		t.income = t.income.Add(amount)
	case TypeOutflow, TypeTransfer:
		t.outflow = t.outflow.Add(amount)
	}
}

func walkDays(r generic.Period, daily dailyTotals, start, minBalance decimal.Decimal) []TimelineRow {
	days := r.Days()
	rows := make([]TimelineRow, 0, len(days))
	balance := start
	for _, day := range days {
		income, outflow := decimal.Zero, decimal.Zero
		if t, ok := daily[day.String()]; ok {
			income, outflow = t.income, t.outflow
		}
		net := income.Sub(outflow)
		balance = balance.Add(net)
		rows = append(rows, TimelineRow{
			Date:    day,
			Income:  income,
			Outflow: outflow,
			Net:     net,
			Balance: balance,
			Warning: balance.LessThan(minBalance),
		})
	}
	return rows
}
