/*
events.go - Expanding rules and bills into dated events

PURPOSE:
  Turns the plan's templates into the flat list of money movements expected
  within one period. Everything downstream (balances, timeline, variance,
  metrics) is computed from this list.

ALGORITHM:
  1. Resolve the effective rule set (overrides.go): disabled rules and bills
     are gone, per-period amounts are applied.
  2. Bills: one candidate per calendar month the period touches, on dueDay
     clamped to the month length. Emitted when inside the period.
  3. Rules: occurrences anchored at seedDate (generic.Recurrence). Series
     seeded long before the period are jumped forward, not walked day by day.
  4. Event overrides adjust or skip single occurrences; manual events are
     added when their date is inside the period.
  5. Sort by (date, source kind, position in source list).

SAME-DAY ORDER:
  bills < income rules < outflow rules < manual events, then plan list order.
  The order is part of the output contract; do not rely on map iteration.
*/
package cashflow

import (
	"sort"

	"github.com/warp/cashflow-engine/generic"
)

// GenerateEvents returns every planned event of the period, sorted by date
// with a deterministic same-day order.
func GenerateEvents(plan Plan, periodID string) []CashflowEvent {
	if len(plan.Periods) == 0 {
		return []CashflowEvent{}
	}
	period := GetPeriod(plan, periodID)
	if period.Range().Len() == 0 {
		return []CashflowEvent{}
	}
	rules := EffectiveRules(plan, period.ID)

	var keyed []keyedEvent
	for i, b := range rules.Bills {
		for _, e := range billEvents(b, period) {
			keyed = append(keyed, keyedEvent{event: e, order: i})
		}
	}
	for i, r := range rules.IncomeRules {
		for _, e := range ruleEvents(r, period, SourceIncomeRule) {
			keyed = append(keyed, keyedEvent{event: e, order: i})
		}
	}
	for i, r := range rules.OutflowRules {
		for _, e := range ruleEvents(r, period, SourceOutflowRule) {
			keyed = append(keyed, keyedEvent{event: e, order: i})
		}
	}

	keyed = applyEventOverrides(keyed, plan.EventOverrides, period)

	for i, m := range plan.ManualEvents {
		if !m.Type.Valid() || !period.Contains(m.Date) {
			continue
		}
		keyed = append(keyed, keyedEvent{event: manualEvent(m), order: i})
	}

	sort.SliceStable(keyed, func(i, j int) bool {
		a, b := keyed[i], keyed[j]
		if c := a.event.Date.Compare(b.event.Date); c != 0 {
			return c < 0
		}
		if a.event.SourceKind != b.event.SourceKind {
			return a.event.SourceKind < b.event.SourceKind
		}
		return a.order < b.order
	})

	events := make([]CashflowEvent, len(keyed))
	for i, k := range keyed {
		events[i] = k.event
	}
	return events
}

type keyedEvent struct {
	event CashflowEvent
	order int
}

// billEvents emits at most one event per calendar month of the period.
func billEvents(b Bill, period Period) []CashflowEvent {
	category := b.Category
	if category == "" {
		category = CategoryBill
	}

	var events []CashflowEvent
	for _, month := range period.Range().Months() {
		due := generic.ClampDay(month.Year(), month.Month(), b.DueDay)
		if !period.Contains(due) {
			continue
		}
		events = append(events, CashflowEvent{
			Date:       due,
			Amount:     b.Amount,
			Type:       TypeOutflow,
			Category:   category,
			Label:      b.Label,
			SourceID:   b.ID,
			SourceKind: SourceBill,
		})
	}
	return events
}

// ruleEvents emits one event per occurrence of the rule inside the period.
func ruleEvents(r Rule, period Period, kind SourceKind) []CashflowEvent {
	typ, category := TypeOutflow, r.Category
	if kind == SourceIncomeRule {
		typ, category = TypeIncome, CategoryIncome
	} else if category == "" {
		category = CategoryOther
	}

	dates := r.Schedule().Occurrences(period.Start, period.End)
	events := make([]CashflowEvent, 0, len(dates))
	for _, d := range dates {
		events = append(events, CashflowEvent{
			Date:       d,
			Amount:     r.Amount,
			Type:       typ,
			Category:   category,
			Label:      r.Label,
			SourceID:   r.ID,
			SourceKind: kind,
		})
	}
	return events
}

func manualEvent(m ManualEvent) CashflowEvent {
	category := m.Category
	if category == "" {
		if m.Type == TypeIncome {
			category = CategoryIncome
		} else {
			category = CategoryOther
		}
	}
	return CashflowEvent{
		Date:       m.Date,
		Amount:     m.Amount,
		Type:       m.Type,
		Category:   category,
		Label:      m.Label,
		SourceID:   m.ID,
		SourceKind: SourceManual,
	}
}

// applyEventOverrides skips, re-prices or moves single occurrences. A move
// to a date outside the period is ignored so no planned money disappears
// between periods.
func applyEventOverrides(keyed []keyedEvent, overrides []EventOverride, period Period) []keyedEvent {
	if len(overrides) == 0 {
		return keyed
	}

	result := keyed[:0:0]
	for _, k := range keyed {
		o := findEventOverride(overrides, k.event, period.ID)
		if o == nil {
			result = append(result, k)
			continue
		}
		if o.Skip {
			continue
		}
		if o.Amount != nil {
			k.event.Amount = *o.Amount
		}
		if o.MoveTo != nil && period.Contains(*o.MoveTo) {
			k.event.Date = *o.MoveTo
		}
		result = append(result, k)
	}
	return result
}

// findEventOverride returns the last override matching the event.
func findEventOverride(overrides []EventOverride, e CashflowEvent, periodID string) *EventOverride {
	var match *EventOverride
	for i := range overrides {
		o := &overrides[i]
		if o.SourceID != e.SourceID || !o.Date.Equal(e.Date) {
			continue
		}
		if o.PeriodID != "" && o.PeriodID != periodID {
			continue
		}
		match = o
	}
	return match
}
