/*
variance.go - Budget vs actual per category

PURPOSE:
  Reconciles a period's plan against its ledger. Budget comes from the
  generated events, actual from the recorded transactions.

TRANSFERS:
  A transfer moves money out of the tracked balance (balance.go treats it
  like an outflow) but is not spending. Its category key is registered so
  the category shows up, but its amount never lands in any category's
  budgeted or actual total. This holds for planned transfers (manual
  events) and recorded ones alike.

STATUS BAND:
  variance = actual - budgeted
  over     variance >  +5
  under    variance <  -5
  neutral  otherwise
  The band is a fixed currency amount, not a percentage.
*/
package cashflow

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/cashflow-engine/generic"
)

// VarianceTolerance is the absolute band inside which a category is neutral.
var VarianceTolerance = decimal.NewFromInt(5)

// GetVarianceByCategory compares budgeted and actual totals per category.
func GetVarianceByCategory(plan Plan, periodID string) map[Category]VarianceSummary {
	budgeted := make(map[Category]decimal.Decimal)
	actual := make(map[Category]decimal.Decimal)
	touch := func(c Category) {
		if _, ok := budgeted[c]; !ok {
			budgeted[c] = decimal.Zero
		}
		if _, ok := actual[c]; !ok {
			actual[c] = decimal.Zero
		}
	}

	for _, e := range GenerateEvents(plan, periodID) {
		touch(e.Category)
		if e.Type == TypeTransfer {
			continue
		}
		budgeted[e.Category] = budgeted[e.Category].Add(e.Amount)
	}
	for _, tx := range PeriodTransactions(plan, periodID) {
		touch(tx.Category)
		if tx.Type == TypeTransfer {
			continue
		}
		actual[tx.Category] = actual[tx.Category].Add(tx.Amount)
	}

	result := make(map[Category]VarianceSummary, len(budgeted))
	for c := range budgeted {
		result[c] = NewVarianceSummary(c, budgeted[c], actual[c])
	}
	return result
}

// NewVarianceSummary builds the summary for one category.
func NewVarianceSummary(c Category, budgeted, actual decimal.Decimal) VarianceSummary {
	variance := actual.Sub(budgeted)
	return VarianceSummary{
		Category:        c,
		Budgeted:        budgeted,
		Actual:          actual,
		Variance:        variance,
		VariancePercent: generic.Percent(variance, budgeted.Abs()),
		Status:          ClassifyVariance(variance),
	}
}

// ClassifyVariance applies the fixed tolerance band.
func ClassifyVariance(variance decimal.Decimal) VarianceStatus {
	switch {
	case variance.GreaterThan(VarianceTolerance):
		return StatusOver
	case variance.LessThan(VarianceTolerance.Neg()):
		return StatusUnder
	default:
		return StatusNeutral
	}
}

// GetTotalVariance sums budget and actual magnitudes over every category.
// A category with no budget but some actual spend still adds to Actual.
func GetTotalVariance(plan Plan, periodID string) TotalVariance {
	total := TotalVariance{Budgeted: decimal.Zero, Actual: decimal.Zero}
	for _, v := range GetVarianceByCategory(plan, periodID) {
		total.Budgeted = total.Budgeted.Add(v.Budgeted.Abs())
		total.Actual = total.Actual.Add(v.Actual.Abs())
	}
	total.Variance = total.Actual.Sub(total.Budgeted)
	return total
}

// OrderedVariance returns the summaries in category display order.
func OrderedVariance(byCategory map[Category]VarianceSummary) []VarianceSummary {
	list := make([]VarianceSummary, 0, len(byCategory))
	for _, v := range byCategory {
		list = append(list, v)
	}
	sort.Slice(list, func(i, j int) bool {
		ri, rj := list[i].Category.rank(), list[j].Category.rank()
		if ri != rj {
			return ri < rj
		}
		return list[i].Category < list[j].Category
	})
	return list
}
