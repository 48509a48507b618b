package cashflow

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// OVERRIDE OVERLAY - Effective rule set for one period
// =============================================================================

// EffectiveRuleSet is the plan's rules and bills after global enable flags,
// per-period rule overrides and per-period disabled bills are applied. Every
// entry it contains is enabled and carries the amount in force for the period.
type EffectiveRuleSet struct {
	PeriodID     string
	IncomeRules  []Rule
	OutflowRules []Rule
	Bills        []Bill
}

// EffectiveRules resolves overrides for a period before any event is
// generated. Disabled rules are dropped, not zeroed.
func EffectiveRules(plan Plan, periodID string) EffectiveRuleSet {
	period := GetPeriod(plan, periodID)
	overrides := indexRuleOverrides(plan.PeriodRuleOverrides, period.ID)
	disabled := disabledBills(plan.PeriodOverrides, period.ID)

	set := EffectiveRuleSet{PeriodID: period.ID}
	for _, r := range plan.IncomeRules {
		if eff, ok := applyRuleOverride(r, overrides[overrideKey{r.ID, RuleIncome}]); ok {
			set.IncomeRules = append(set.IncomeRules, eff)
		}
	}
	for _, r := range plan.OutflowRules {
		if eff, ok := applyRuleOverride(r, overrides[overrideKey{r.ID, RuleOutflow}]); ok {
			set.OutflowRules = append(set.OutflowRules, eff)
		}
	}
	for _, b := range plan.Bills {
		if disabled[b.ID] {
			continue
		}
		if eff, ok := applyBillOverride(b, overrides[overrideKey{b.ID, RuleBill}]); ok {
			set.Bills = append(set.Bills, eff)
		}
	}
	return set
}

type overrideKey struct {
	ruleID string
	typ    RuleType
}

// indexRuleOverrides keeps the last override per (rule, type) for the period.
func indexRuleOverrides(all []PeriodRuleOverride, periodID string) map[overrideKey]*PeriodRuleOverride {
	idx := make(map[overrideKey]*PeriodRuleOverride)
	for i := range all {
		o := &all[i]
		if o.PeriodID != periodID {
			continue
		}
		idx[overrideKey{o.RuleID, o.Type}] = o
	}
	return idx
}

func disabledBills(all []PeriodOverride, periodID string) map[string]bool {
	set := make(map[string]bool)
	for _, o := range all {
		if o.PeriodID != periodID {
			continue
		}
		for _, id := range o.DisabledBills {
			set[id] = true
		}
	}
	return set
}

func applyRuleOverride(r Rule, o *PeriodRuleOverride) (Rule, bool) {
	if !r.Enabled {
		return Rule{}, false
	}
	if o != nil {
		if o.Enabled != nil && !*o.Enabled {
			return Rule{}, false
		}
		if o.Amount != nil {
			r.Amount = *o.Amount
		}
	}
	return r, true
}

func applyBillOverride(b Bill, o *PeriodRuleOverride) (Bill, bool) {
	if !b.Enabled {
		return Bill{}, false
	}
	if o != nil {
		if o.Enabled != nil && !*o.Enabled {
			return Bill{}, false
		}
		if o.Amount != nil {
			b.Amount = *o.Amount
		}
	}
	return b, true
}

// periodStartingBalanceOverride returns the starting balance override for a
// period, if any. The last matching override wins.
func periodStartingBalanceOverride(plan Plan, periodID string) (decimal.Decimal, bool) {
	var (
		value decimal.Decimal
		found bool
	)
	for _, o := range plan.PeriodOverrides {
		if o.PeriodID == periodID && o.StartingBalance != nil {
			value, found = *o.StartingBalance, true
		}
	}
	return value, found
}
