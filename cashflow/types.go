/*
Package cashflow implements the budgeting engine's simulation and
reconciliation core.

PURPOSE:
  Given a Plan (recurring income and outflow rules, bills, periods, manual
  overrides and the actual transaction ledger) it projects a day-by-day
  balance for any period, reconciles it against what actually happened, and
  classifies the period's financial health.

PIPELINE:
  Plan -> Period Resolver -> Event Generator -> Balance Chainer
       -> Timeline Builder -> Variance Analyzer -> Derived Metrics

  Every stage is a pure function of (Plan, period id). Nothing in this
  package mutates a Plan, performs I/O, or keeps state between calls, so
  results can be cached by callers on (plan revision, period id) and the
  functions are safe to call from any number of goroutines.

TOTALITY:
  No function in this package returns an error or panics on well-formed
  input. Unknown period ids fall back to the first period, dates outside
  every period resolve to "no period", and every ratio with a possibly-zero
  denominator short-circuits to zero.

KEY CONCEPTS IN THIS FILE (types.go):
  - Plan and its parts (Setup, Period, Rule, Bill, overrides, Transaction)
  - Category / EventType: closed enumerations
  - CashflowEvent, TimelineRow, VarianceSummary: derived values

SEE ALSO:
  - period.go: period lookup and ordering
  - events.go: event generation
  - balance.go: starting-balance chaining
  - timeline.go: daily balance curve
  - variance.go: budget vs actual
  - derive.go: composed dashboard view
*/
package cashflow

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/cashflow-engine/generic"
)

// =============================================================================
// ENUMERATIONS
// =============================================================================

// Category classifies events and transactions for budgeting.
type Category string

const (
	CategoryIncome    Category = "income"
	CategoryBill      Category = "bill"
	CategoryGiving    Category = "giving"
	CategorySavings   Category = "savings"
	CategoryAllowance Category = "allowance"
	CategoryBuffer    Category = "buffer"
	CategoryOther     Category = "other"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryIncome, CategoryBill, CategoryGiving, CategorySavings,
		CategoryAllowance, CategoryBuffer, CategoryOther,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryIncome, CategoryBill, CategoryGiving, CategorySavings,
		CategoryAllowance, CategoryBuffer, CategoryOther:
		return true
	}
	return false
}

// rank orders categories for display; unknown categories sort last.
func (c Category) rank() int {
	for i, known := range Categories() {
		if c == known {
			return i
		}
	}
	return len(Categories())
}

// EventType is the direction of money for an event or transaction.
type EventType string

const (
	TypeIncome   EventType = "income"
	TypeOutflow  EventType = "outflow"
	TypeTransfer EventType = "transfer"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case TypeIncome, TypeOutflow, TypeTransfer:
		return true
	}
	return false
}

// Signed returns amount with the sign implied by t: income adds, outflow and
// transfer both remove money from the tracked balance.
func (t EventType) Signed(amount decimal.Decimal) decimal.Decimal {
	switch t {
	case TypeIncome:
		return amount
	case TypeOutflow, TypeTransfer:
		return amount.Neg()
	default:
		return decimal.Zero
	}
}

// RuleType identifies which rule list an override or event source belongs to.
type RuleType string

const (
	RuleIncome  RuleType = "income"
	RuleOutflow RuleType = "outflow"
	RuleBill    RuleType = "bill"
)

// SourceKind orders same-day events: bills, then income rules, then outflow
// rules, then manual one-off events.
type SourceKind int

const (
	SourceBill SourceKind = iota
	SourceIncomeRule
	SourceOutflowRule
	SourceManual
)

func (k SourceKind) String() string {
	switch k {
	case SourceBill:
		return "bill"
	case SourceIncomeRule:
		return "income_rule"
	case SourceOutflowRule:
		return "outflow_rule"
	case SourceManual:
		return "manual"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON output.
func (k SourceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind rendered by MarshalText.
func (k *SourceKind) UnmarshalText(text []byte) error {
	for _, candidate := range []SourceKind{SourceBill, SourceIncomeRule, SourceOutflowRule, SourceManual} {
		if candidate.String() == string(text) {
			*k = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown source kind %q", string(text))
}

// =============================================================================
// PLAN - The root aggregate (read-only to the engine)
// =============================================================================

// Plan is everything the engine needs to evaluate a budget.
type Plan struct {
	Setup               Setup
	Periods             []Period
	IncomeRules         []Rule
	OutflowRules        []Rule
	Bills               []Bill
	PeriodRuleOverrides []PeriodRuleOverride
	PeriodOverrides     []PeriodOverride
	Transactions        []Transaction
	EventOverrides      []EventOverride
	ManualEvents        []ManualEvent
}

// Setup holds plan-wide settings.
type Setup struct {
	SelectedPeriodID   string
	AsOfDate           generic.TimePoint
	StartingBalance    decimal.Decimal
	RollForwardBalance bool
	ExpectedMinBalance decimal.Decimal
	VariableCap        decimal.Decimal
	Currency           string // display only
}

// Period is a named, bounded budgeting range such as a pay cycle.
type Period struct {
	ID    string
	Label string
	Start generic.TimePoint
	End   generic.TimePoint
}

// Range returns the period's inclusive date range.
func (p Period) Range() generic.Period {
	return generic.Period{Start: p.Start, End: p.End}
}

// Contains returns true if the date falls inside the period.
func (p Period) Contains(d generic.TimePoint) bool {
	return p.Range().Contains(d)
}

// Rule is a recurring income or outflow template.
type Rule struct {
	ID       string
	Label    string
	Amount   decimal.Decimal
	Cadence  generic.Cadence
	SeedDate generic.TimePoint
	Enabled  bool
	Category Category // ignored for income rules
}

// Schedule returns the rule's recurrence.
func (r Rule) Schedule() generic.Recurrence {
	return generic.Recurrence{Seed: r.SeedDate, Cadence: r.Cadence}
}

// Bill is a fixed monthly obligation due on a day of the month.
type Bill struct {
	ID       string
	Label    string
	Amount   decimal.Decimal
	DueDay   int
	Category Category
	Enabled  bool
}

// PeriodRuleOverride changes a rule or bill for one period only.
type PeriodRuleOverride struct {
	PeriodID string
	RuleID   string
	Type     RuleType
	Enabled  *bool
	Amount   *decimal.Decimal
}

// PeriodOverride changes period-level settings.
type PeriodOverride struct {
	PeriodID        string
	StartingBalance *decimal.Decimal
	DisabledBills   []string
}

// Transaction is one entry of the actual ledger. Amount is a magnitude; the
// direction comes from Type.
type Transaction struct {
	ID           string
	Date         generic.TimePoint
	Label        string
	Amount       decimal.Decimal
	Type         EventType
	Category     Category
	LinkedRuleID string
	LinkedBillID string
	GoalID       string
	Notes        string
}

// EventOverride adjusts a single generated occurrence, identified by its
// source id and original date. An empty PeriodID applies in every period.
type EventOverride struct {
	PeriodID string
	SourceID string
	Date     generic.TimePoint
	Skip     bool
	Amount   *decimal.Decimal
	MoveTo   *generic.TimePoint
}

// ManualEvent is a one-off planned event that no rule produces.
type ManualEvent struct {
	ID       string
	Date     generic.TimePoint
	Label    string
	Amount   decimal.Decimal
	Type     EventType
	Category Category
}

// =============================================================================
// DERIVED VALUES - Fresh per call, never cached by the engine
// =============================================================================

// CashflowEvent is one firing of a rule, bill or manual event in a period.
type CashflowEvent struct {
	Date       generic.TimePoint `json:"date"`
	Amount     decimal.Decimal   `json:"amount"`
	Type       EventType         `json:"type"`
	Category   Category          `json:"category"`
	Label      string            `json:"label"`
	SourceID   string            `json:"sourceId"`
	SourceKind SourceKind        `json:"sourceKind"`
}

// Signed returns the event amount with its direction applied.
func (e CashflowEvent) Signed() decimal.Decimal {
	return e.Type.Signed(e.Amount)
}

// TimelineRow is one calendar day of a period's balance curve.
type TimelineRow struct {
	Date    generic.TimePoint `json:"date"`
	Income  decimal.Decimal   `json:"income"`
	Outflow decimal.Decimal   `json:"outflow"`
	Net     decimal.Decimal   `json:"net"`
	Balance decimal.Decimal   `json:"balance"`
	Warning bool              `json:"warning"`
}

// VarianceStatus classifies actual spend against budget.
type VarianceStatus string

const (
	StatusOver    VarianceStatus = "over"
	StatusUnder   VarianceStatus = "under"
	StatusNeutral VarianceStatus = "neutral"
)

// VarianceSummary compares budget and actual for one category.
type VarianceSummary struct {
	Category        Category        `json:"category"`
	Budgeted        decimal.Decimal `json:"budgeted"`
	Actual          decimal.Decimal `json:"actual"`
	Variance        decimal.Decimal `json:"variance"`
	VariancePercent decimal.Decimal `json:"variancePercent"`
	Status          VarianceStatus  `json:"status"`
}

// TotalVariance aggregates variance across every category.
type TotalVariance struct {
	Budgeted decimal.Decimal `json:"budgeted"`
	Actual   decimal.Decimal `json:"actual"`
	Variance decimal.Decimal `json:"variance"`
}
