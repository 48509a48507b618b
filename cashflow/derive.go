/*
derive.go - The composed dashboard view of one period

PURPOSE:
  DeriveApp runs the whole pipeline for a period and packages the results the
  way a dashboard or a text formatter consumes them. It is the single entry
  point the api, cli and report packages call.

TOTALS:
  incomeExpected   = planned income events
  committedBills   = planned bill events
  allocationsTotal = every other planned outflow (rules, manual, transfers)
  remaining        = incomeExpected - committedBills - allocationsTotal

  remaining therefore always equals the period's planned net.

DIVISIONS:
  Every ratio goes through generic.Percent / generic.SafeDiv, which return
  zero for a zero denominator.
*/
package cashflow

import (
	"github.com/shopspring/decimal"
	"github.com/warp/cashflow-engine/generic"
)

// DerivedView is everything the dashboard shows for one period.
type DerivedView struct {
	PeriodID        string            `json:"periodId"`
	Period          PeriodView        `json:"period"`
	StartingBalance decimal.Decimal   `json:"startingBalance"`
	Totals          Totals            `json:"totals"`
	Cashflow        CashflowView      `json:"cashflow"`
	Health          Health            `json:"health"`
	IncomeStability IncomeStability   `json:"incomeStability"`
	Savings         SavingsHealth     `json:"savings"`
	Flags           Flags             `json:"flags"`
	Summary         DashboardSummary  `json:"summary"`
	Variance        []VarianceSummary `json:"variance"`
	TotalVariance   TotalVariance     `json:"totalVariance"`
}

// PeriodView is the JSON shape of a Period.
type PeriodView struct {
	ID    string            `json:"id"`
	Label string            `json:"label"`
	Start generic.TimePoint `json:"start"`
	End   generic.TimePoint `json:"end"`
}

// Totals are the planned money movements of the period. AllocationsTotal
// covers outflow rules only; one-off manual outflows and transfers are
// reported as ManualOutflows so Remaining stays the planned net.
type Totals struct {
	IncomeExpected   decimal.Decimal `json:"incomeExpected"`
	CommittedBills   decimal.Decimal `json:"committedBills"`
	AllocationsTotal decimal.Decimal `json:"allocationsTotal"`
	ManualOutflows   decimal.Decimal `json:"manualOutflows"`
	Remaining        decimal.Decimal `json:"remaining"`
}

// CashflowView is the planned balance curve and its low point.
type CashflowView struct {
	Timeline     []TimelineRow `json:"timeline"`
	Lowest       TimelineRow   `json:"lowest"`
	DaysBelowMin int           `json:"daysBelowMin"`
}

// Flags are simple booleans the UI uses to pick empty states.
type Flags struct {
	HasStartingBalance bool `json:"hasStartingBalance"`
	HasTransactions    bool `json:"hasTransactions"`
	HasIncomeRules     bool `json:"hasIncomeRules"`
}

// DashboardSummary holds the headline ratios and reconciliation figures.
type DashboardSummary struct {
	SavingsRate            decimal.Decimal `json:"savingsRate"`
	SpentPercent           decimal.Decimal `json:"spentPercent"`
	ActualIncome           decimal.Decimal `json:"actualIncome"`
	ActualOutflow          decimal.Decimal `json:"actualOutflow"`
	EndingBalance          decimal.Decimal `json:"endingBalance"`
	ActualsStartingBalance decimal.Decimal `json:"actualsStartingBalance"`
	ActualsEndingBalance   decimal.Decimal `json:"actualsEndingBalance"`
	VariableSpend          decimal.Decimal `json:"variableSpend"`
	VariableCap            decimal.Decimal `json:"variableCap"`
	OverVariableCap        bool            `json:"overVariableCap"`
}

// variableCategories are the discretionary categories counted against the
// plan's variable-spend cap.
var variableCategories = map[Category]bool{
	CategoryAllowance: true,
	CategoryBuffer:    true,
	CategoryOther:     true,
}

// DeriveApp composes every derived figure for a period. An empty periodID
// selects setup.SelectedPeriodID; an unknown one falls back to the first
// period like everywhere else in the engine.
func DeriveApp(plan Plan, periodID string) DerivedView {
	if periodID == "" {
		periodID = plan.Setup.SelectedPeriodID
	}
	period := GetPeriod(plan, periodID)
	events := GenerateEvents(plan, period.ID)
	start := GetStartingBalance(plan, period.ID)

	view := DerivedView{
		PeriodID:        period.ID,
		Period:          PeriodView{ID: period.ID, Label: period.Label, Start: period.Start, End: period.End},
		StartingBalance: start,
		Totals:          computeTotals(events),
		IncomeStability: ClassifyIncomeStability(plan),
		Savings:         SavingsStreak(plan, period.ID),
	}

	timeline := BuildTimeline(plan, period.ID, start)
	lowest, ok := MinPoint(timeline)
	if !ok {
		lowest = TimelineRow{
			Date:    period.Start,
			Income:  decimal.Zero,
			Outflow: decimal.Zero,
			Net:     decimal.Zero,
			Balance: start,
			Warning: start.LessThan(plan.Setup.ExpectedMinBalance),
		}
	}
	view.Cashflow = CashflowView{Timeline: timeline, Lowest: lowest, DaysBelowMin: DaysBelowMin(timeline)}
	view.Health = ClassifyHealth(lowest, plan.Setup.ExpectedMinBalance)

	byCategory := GetVarianceByCategory(plan, period.ID)
	view.Variance = OrderedVariance(byCategory)
	view.TotalVariance = GetTotalVariance(plan, period.ID)

	view.Flags = Flags{
		HasStartingBalance: !start.IsZero(),
		HasTransactions:    len(plan.Transactions) > 0,
		HasIncomeRules:     view.IncomeStability.RuleCount > 0,
	}
	view.Summary = computeSummary(plan, period, events, view.Totals)
	return view
}

func computeTotals(events []CashflowEvent) Totals {
	t := Totals{
		IncomeExpected:   decimal.Zero,
		CommittedBills:   decimal.Zero,
		AllocationsTotal: decimal.Zero,
		ManualOutflows:   decimal.Zero,
	}
	for _, e := range events {
		switch {
		case e.Type == TypeIncome:
			t.IncomeExpected = t.IncomeExpected.Add(e.Amount)
		case e.SourceKind == SourceBill:
			t.CommittedBills = t.CommittedBills.Add(e.Amount)
		case e.SourceKind == SourceOutflowRule:
			t.AllocationsTotal = t.AllocationsTotal.Add(e.Amount)
		default:
			t.ManualOutflows = t.ManualOutflows.Add(e.Amount)
		}
	}
	t.Remaining = t.IncomeExpected.Sub(t.CommittedBills).Sub(t.AllocationsTotal).Sub(t.ManualOutflows)
	return t
}

func computeSummary(plan Plan, period Period, events []CashflowEvent, totals Totals) DashboardSummary {
	plannedSavings := decimal.Zero
	for _, e := range events {
		if e.Category == CategorySavings && e.Type != TypeIncome {
			plannedSavings = plannedSavings.Add(e.Amount)
		}
	}

	s := DashboardSummary{
		ActualIncome:           decimal.Zero,
		ActualOutflow:          decimal.Zero,
		VariableSpend:          decimal.Zero,
		VariableCap:            plan.Setup.VariableCap,
		EndingBalance:          EndingBalance(plan, period.ID),
		ActualsStartingBalance: GetActualsStartingBalance(plan, period.ID),
		ActualsEndingBalance:   ActualsEndingBalance(plan, period.ID),
	}
	for _, tx := range PeriodTransactions(plan, period.ID) {
		switch tx.Type {
		case TypeIncome:
			s.ActualIncome = s.ActualIncome.Add(tx.Amount)
		case TypeOutflow:
			s.ActualOutflow = s.ActualOutflow.Add(tx.Amount)
			if variableCategories[tx.Category] {
				s.VariableSpend = s.VariableSpend.Add(tx.Amount)
			}
		}
	}

	s.SavingsRate = generic.Percent(plannedSavings, totals.IncomeExpected)
	s.SpentPercent = generic.Percent(s.ActualOutflow, totals.CommittedBills.Add(totals.AllocationsTotal).Add(totals.ManualOutflows))
	s.OverVariableCap = s.VariableCap.IsPositive() && s.VariableSpend.GreaterThan(s.VariableCap)
	return s
}
