/*
Package factory provides JSON to Go plan conversion.

PURPOSE:
  Converts a JSON plan document (as stored by the plan store, posted to the
  api, or read by the cli) into a cashflow.Plan, and back. The engine itself
  never validates shapes; this package is where malformed input is caught.

BEST EFFORT:
  Every list row is decoded on its own. A row that does not decode, or that
  fails validation (bad date, unknown cadence, negative amount, duplicate
  period id, ...), is skipped and reported as a warning string. Only a
  document that is not a JSON object at all is an error.

JSON SCHEMA (abridged):
  {
    "setup": {
      "selectedPeriodId": "p1", "asOfDate": "2025-01-10",
      "startingBalance": 1200, "rollForwardBalance": true,
      "expectedMinBalance": 200, "variableCap": 400, "currency": "USD"
    },
    "periods":      [{"id": "p1", "label": "January", "start": "2025-01-01", "end": "2025-01-31"}],
    "incomeRules":  [{"id": "pay", "label": "Salary", "amount": 2800, "cadence": "monthly", "seedDate": "2025-01-15"}],
    "outflowRules": [{"id": "food", "amount": 60, "cadence": "weekly", "seedDate": "2025-01-01", "category": "allowance"}],
    "bills":        [{"id": "rent", "amount": 1100, "dueDay": 1, "category": "bill"}],
    "transactions": [{"id": "t1", "date": "2025-01-02", "amount": 1100, "type": "outflow", "category": "bill"}]
  }

  "enabled" defaults to true when omitted.

USAGE:
  f := factory.NewPlanFactory()
  plan, warnings, err := f.ParsePlan(data)

SEE ALSO:
  - cashflow/types.go: Plan type definition
  - api/scenarios.go: demo plans built with this schema
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/generic"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// Amount is a money value that reads and writes a bare JSON number without
// passing through float64. Quoted numbers are accepted on input.
type Amount struct {
	decimal.Decimal
}

// AmountOf parses s, returning zero when s is not a number.
func AmountOf(s string) Amount {
	return Amount{generic.MustParseDecimal(s)}
}

// MarshalJSON writes the exact decimal digits as a JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// UnmarshalJSON accepts 12.5, "12.5" and exponent forms.
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}

// PlanJSON is the JSON representation of a plan.
type PlanJSON struct {
	Setup               SetupJSON                `json:"setup"`
	Periods             []PeriodJSON             `json:"periods"`
	IncomeRules         []RuleJSON               `json:"incomeRules"`
	OutflowRules        []RuleJSON               `json:"outflowRules"`
	Bills               []BillJSON               `json:"bills"`
	PeriodRuleOverrides []PeriodRuleOverrideJSON `json:"periodRuleOverrides,omitempty"`
	PeriodOverrides     []PeriodOverrideJSON     `json:"periodOverrides,omitempty"`
	Transactions        []TransactionJSON        `json:"transactions"`
	EventOverrides      []EventOverrideJSON      `json:"eventOverrides,omitempty"`
	ManualEvents        []ManualEventJSON        `json:"manualEvents,omitempty"`
}

// SetupJSON represents plan-wide settings.
type SetupJSON struct {
	SelectedPeriodID   string  `json:"selectedPeriodId,omitempty"`
	AsOfDate           string  `json:"asOfDate,omitempty"`
	StartingBalance    Amount `json:"startingBalance"`
	RollForwardBalance bool   `json:"rollForwardBalance"`
	ExpectedMinBalance Amount `json:"expectedMinBalance"`
	VariableCap        Amount `json:"variableCap,omitzero"`
	Currency           string  `json:"currency,omitempty"`
}

// PeriodJSON represents a budgeting period. Dates are YYYY-MM-DD.
type PeriodJSON struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// RuleJSON represents a recurring income or outflow rule.
type RuleJSON struct {
	ID       string `json:"id"`
	Label    string `json:"label,omitempty"`
	Amount   Amount `json:"amount"`
	Cadence  string `json:"cadence"`
	SeedDate string `json:"seedDate"`
	Enabled  *bool  `json:"enabled,omitempty"`
	Category string `json:"category,omitempty"`
}

// BillJSON represents a monthly bill.
type BillJSON struct {
	ID       string `json:"id"`
	Label    string `json:"label,omitempty"`
	Amount   Amount `json:"amount"`
	DueDay   int    `json:"dueDay"`
	Category string `json:"category,omitempty"`
	Enabled  *bool  `json:"enabled,omitempty"`
}

// PeriodRuleOverrideJSON represents a per-period rule or bill override.
type PeriodRuleOverrideJSON struct {
	PeriodID string  `json:"periodId"`
	RuleID   string  `json:"ruleId"`
	Type     string  `json:"type"` // income, outflow, bill
	Enabled  *bool   `json:"enabled,omitempty"`
	Amount   *Amount `json:"amount,omitempty"`
}

// PeriodOverrideJSON represents period-level overrides.
type PeriodOverrideJSON struct {
	PeriodID        string   `json:"periodId"`
	StartingBalance *Amount  `json:"startingBalance,omitempty"`
	DisabledBills   []string `json:"disabledBills,omitempty"`
}

// TransactionJSON represents one ledger entry.
type TransactionJSON struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	Label        string `json:"label,omitempty"`
	Amount       Amount `json:"amount"`
	Type         string `json:"type"`
	Category     string `json:"category,omitempty"`
	LinkedRuleID string `json:"linkedRuleId,omitempty"`
	LinkedBillID string `json:"linkedBillId,omitempty"`
	GoalID       string `json:"goalId,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// EventOverrideJSON represents a single-occurrence adjustment.
type EventOverrideJSON struct {
	PeriodID string  `json:"periodId,omitempty"`
	SourceID string  `json:"sourceId"`
	Date     string  `json:"date"`
	Skip     bool    `json:"skip,omitempty"`
	Amount   *Amount `json:"amount,omitempty"`
	MoveTo   string  `json:"moveTo,omitempty"`
}

// ManualEventJSON represents a one-off planned event.
type ManualEventJSON struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Label    string `json:"label,omitempty"`
	Amount   Amount `json:"amount"`
	Type     string `json:"type"`
	Category string `json:"category,omitempty"`
}

// rawPlan defers row decoding so one bad row cannot fail the document.
type rawPlan struct {
	Setup               json.RawMessage   `json:"setup"`
	Periods             []json.RawMessage `json:"periods"`
	IncomeRules         []json.RawMessage `json:"incomeRules"`
	OutflowRules        []json.RawMessage `json:"outflowRules"`
	Bills               []json.RawMessage `json:"bills"`
	PeriodRuleOverrides []json.RawMessage `json:"periodRuleOverrides"`
	PeriodOverrides     []json.RawMessage `json:"periodOverrides"`
	Transactions        []json.RawMessage `json:"transactions"`
	EventOverrides      []json.RawMessage `json:"eventOverrides"`
	ManualEvents        []json.RawMessage `json:"manualEvents"`
}

// =============================================================================
// PLAN FACTORY
// =============================================================================

// PlanFactory converts JSON plans to Go structs.
type PlanFactory struct{}

// NewPlanFactory creates a new plan factory.
func NewPlanFactory() *PlanFactory {
	return &PlanFactory{}
}

// ParsePlan decodes a plan document. Malformed rows are skipped and listed in
// warnings; err is only set when data is not a JSON object.
func (f *PlanFactory) ParsePlan(data []byte) (*cashflow.Plan, []string, error) {
	var raw rawPlan
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", generic.ErrInvalidPlan, err)
	}

	w := &warnings{}
	plan := &cashflow.Plan{}

	if len(raw.Setup) > 0 {
		var sj SetupJSON
		if err := json.Unmarshal(raw.Setup, &sj); err != nil {
			w.add("setup: %v", err)
		} else {
			plan.Setup = f.setupFromJSON(sj, w)
		}
	}

	seen := make(map[string]bool)
	plan.Periods = decodeRows(raw.Periods, "periods", w, func(pj PeriodJSON) (cashflow.Period, error) {
		p, err := periodFromJSON(pj)
		if err != nil {
			return p, err
		}
		if seen[p.ID] {
			return p, fmt.Errorf("duplicate period id %q", p.ID)
		}
		seen[p.ID] = true
		return p, nil
	})
	plan.IncomeRules = decodeRows(raw.IncomeRules, "incomeRules", w, ruleFromJSON)
	plan.OutflowRules = decodeRows(raw.OutflowRules, "outflowRules", w, ruleFromJSON)
	plan.Bills = decodeRows(raw.Bills, "bills", w, billFromJSON)
	plan.PeriodRuleOverrides = decodeRows(raw.PeriodRuleOverrides, "periodRuleOverrides", w, ruleOverrideFromJSON)
	plan.PeriodOverrides = decodeRows(raw.PeriodOverrides, "periodOverrides", w, periodOverrideFromJSON)
	plan.Transactions = decodeRows(raw.Transactions, "transactions", w, transactionFromJSON)
	plan.EventOverrides = decodeRows(raw.EventOverrides, "eventOverrides", w, eventOverrideFromJSON)
	plan.ManualEvents = decodeRows(raw.ManualEvents, "manualEvents", w, manualEventFromJSON)

	return plan, w.list, nil
}

// FromJSON converts an already decoded PlanJSON, with the same row-level
// validation as ParsePlan.
func (f *PlanFactory) FromJSON(pj PlanJSON) (*cashflow.Plan, []string, error) {
	data, err := json.Marshal(pj)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode plan: %w", err)
	}
	return f.ParsePlan(data)
}

// EncodePlan renders a plan as a JSON document.
func (f *PlanFactory) EncodePlan(plan *cashflow.Plan) ([]byte, error) {
	return json.Marshal(f.ToJSON(plan))
}

func (f *PlanFactory) setupFromJSON(sj SetupJSON, w *warnings) cashflow.Setup {
	s := cashflow.Setup{
		SelectedPeriodID:   sj.SelectedPeriodID,
		StartingBalance:    sj.StartingBalance.Decimal,
		RollForwardBalance: sj.RollForwardBalance,
		ExpectedMinBalance: sj.ExpectedMinBalance.Decimal,
		VariableCap:        sj.VariableCap.Decimal,
		Currency:           sj.Currency,
	}
	if sj.AsOfDate != "" {
		d, err := generic.ParseDate(sj.AsOfDate)
		if err != nil {
			w.add("setup: asOfDate: %v", err)
		} else {
			s.AsOfDate = d
		}
	}
	return s
}

// =============================================================================
// ROW CONVERSION
// =============================================================================

type warnings struct {
	list []string
}

func (w *warnings) add(format string, args ...any) {
	w.list = append(w.list, fmt.Sprintf(format, args...))
}

// decodeRows decodes and converts each row, skipping the ones that fail.
func decodeRows[J any, T any](rows []json.RawMessage, section string, w *warnings, convert func(J) (T, error)) []T {
	out := make([]T, 0, len(rows))
	for i, row := range rows {
		var j J
		if err := json.Unmarshal(row, &j); err != nil {
			w.add("%s[%d]: %v", section, i, err)
			continue
		}
		v, err := convert(j)
		if err != nil {
			w.add("%s[%d]: %v", section, i, err)
			continue
		}
		out = append(out, v)
	}
	return out
}

func periodFromJSON(pj PeriodJSON) (cashflow.Period, error) {
	if pj.ID == "" {
		return cashflow.Period{}, fmt.Errorf("missing id")
	}
	start, err := generic.ParseDate(pj.Start)
	if err != nil {
		return cashflow.Period{}, fmt.Errorf("start: %w", err)
	}
	end, err := generic.ParseDate(pj.End)
	if err != nil {
		return cashflow.Period{}, fmt.Errorf("end: %w", err)
	}
	if err := (generic.Period{Start: start, End: end}).Validate(); err != nil {
		return cashflow.Period{}, err
	}
	label := pj.Label
	if label == "" {
		label = pj.ID
	}
	return cashflow.Period{ID: pj.ID, Label: label, Start: start, End: end}, nil
}

func ruleFromJSON(rj RuleJSON) (cashflow.Rule, error) {
	if rj.ID == "" {
		return cashflow.Rule{}, fmt.Errorf("missing id")
	}
	cadence := generic.Cadence(rj.Cadence)
	if !cadence.Valid() {
		return cashflow.Rule{}, fmt.Errorf("rule %s: unknown cadence %q", rj.ID, rj.Cadence)
	}
	seed, err := generic.ParseDate(rj.SeedDate)
	if err != nil {
		return cashflow.Rule{}, fmt.Errorf("rule %s: seedDate: %w", rj.ID, err)
	}
	amount, err := parseAmount(rj.Amount)
	if err != nil {
		return cashflow.Rule{}, fmt.Errorf("rule %s: %w", rj.ID, err)
	}
	category, err := parseCategory(rj.Category)
	if err != nil {
		return cashflow.Rule{}, fmt.Errorf("rule %s: %w", rj.ID, err)
	}
	return cashflow.Rule{
		ID:       rj.ID,
		Label:    labelOr(rj.Label, rj.ID),
		Amount:   amount,
		Cadence:  cadence,
		SeedDate: seed,
		Enabled:  enabledOr(rj.Enabled),
		Category: category,
	}, nil
}

func billFromJSON(bj BillJSON) (cashflow.Bill, error) {
	if bj.ID == "" {
		return cashflow.Bill{}, fmt.Errorf("missing id")
	}
	if bj.DueDay < 1 || bj.DueDay > 31 {
		return cashflow.Bill{}, fmt.Errorf("bill %s: dueDay %d out of range 1-31", bj.ID, bj.DueDay)
	}
	amount, err := parseAmount(bj.Amount)
	if err != nil {
		return cashflow.Bill{}, fmt.Errorf("bill %s: %w", bj.ID, err)
	}
	category, err := parseCategory(bj.Category)
	if err != nil {
		return cashflow.Bill{}, fmt.Errorf("bill %s: %w", bj.ID, err)
	}
	return cashflow.Bill{
		ID:       bj.ID,
		Label:    labelOr(bj.Label, bj.ID),
		Amount:   amount,
		DueDay:   bj.DueDay,
		Category: category,
		Enabled:  enabledOr(bj.Enabled),
	}, nil
}

func ruleOverrideFromJSON(oj PeriodRuleOverrideJSON) (cashflow.PeriodRuleOverride, error) {
	if oj.PeriodID == "" || oj.RuleID == "" {
		return cashflow.PeriodRuleOverride{}, fmt.Errorf("periodId and ruleId are required")
	}
	typ := cashflow.RuleType(oj.Type)
	switch typ {
	case cashflow.RuleIncome, cashflow.RuleOutflow, cashflow.RuleBill:
	default:
		return cashflow.PeriodRuleOverride{}, fmt.Errorf("unknown rule type %q", oj.Type)
	}
	o := cashflow.PeriodRuleOverride{PeriodID: oj.PeriodID, RuleID: oj.RuleID, Type: typ, Enabled: oj.Enabled}
	if oj.Amount != nil {
		amount, err := parseAmount(*oj.Amount)
		if err != nil {
			return cashflow.PeriodRuleOverride{}, err
		}
		o.Amount = &amount
	}
	return o, nil
}

func periodOverrideFromJSON(oj PeriodOverrideJSON) (cashflow.PeriodOverride, error) {
	if oj.PeriodID == "" {
		return cashflow.PeriodOverride{}, fmt.Errorf("missing periodId")
	}
	o := cashflow.PeriodOverride{PeriodID: oj.PeriodID, DisabledBills: oj.DisabledBills}
	if oj.StartingBalance != nil {
		// Starting balances may be negative (overdrawn accounts).
		balance := oj.StartingBalance.Decimal
		o.StartingBalance = &balance
	}
	return o, nil
}

func transactionFromJSON(tj TransactionJSON) (cashflow.Transaction, error) {
	date, err := generic.ParseDate(tj.Date)
	if err != nil {
		return cashflow.Transaction{}, fmt.Errorf("transaction %s: date: %w", tj.ID, err)
	}
	typ := cashflow.EventType(tj.Type)
	if !typ.Valid() {
		return cashflow.Transaction{}, fmt.Errorf("transaction %s: unknown type %q", tj.ID, tj.Type)
	}
	amount, err := parseAmount(tj.Amount)
	if err != nil {
		return cashflow.Transaction{}, fmt.Errorf("transaction %s: %w", tj.ID, err)
	}
	category, err := parseCategory(tj.Category)
	if err != nil {
		return cashflow.Transaction{}, fmt.Errorf("transaction %s: %w", tj.ID, err)
	}
	if category == "" {
		category = defaultCategory(typ)
	}
	return cashflow.Transaction{
		ID:           tj.ID,
		Date:         date,
		Label:        tj.Label,
		Amount:       amount,
		Type:         typ,
		Category:     category,
		LinkedRuleID: tj.LinkedRuleID,
		LinkedBillID: tj.LinkedBillID,
		GoalID:       tj.GoalID,
		Notes:        tj.Notes,
	}, nil
}

func eventOverrideFromJSON(oj EventOverrideJSON) (cashflow.EventOverride, error) {
	if oj.SourceID == "" {
		return cashflow.EventOverride{}, fmt.Errorf("missing sourceId")
	}
	date, err := generic.ParseDate(oj.Date)
	if err != nil {
		return cashflow.EventOverride{}, fmt.Errorf("override %s: date: %w", oj.SourceID, err)
	}
	o := cashflow.EventOverride{PeriodID: oj.PeriodID, SourceID: oj.SourceID, Date: date, Skip: oj.Skip}
	if oj.Amount != nil {
		amount, err := parseAmount(*oj.Amount)
		if err != nil {
			return cashflow.EventOverride{}, fmt.Errorf("override %s: %w", oj.SourceID, err)
		}
		o.Amount = &amount
	}
	if oj.MoveTo != "" {
		moveTo, err := generic.ParseDate(oj.MoveTo)
		if err != nil {
			return cashflow.EventOverride{}, fmt.Errorf("override %s: moveTo: %w", oj.SourceID, err)
		}
		o.MoveTo = &moveTo
	}
	return o, nil
}

func manualEventFromJSON(mj ManualEventJSON) (cashflow.ManualEvent, error) {
	date, err := generic.ParseDate(mj.Date)
	if err != nil {
		return cashflow.ManualEvent{}, fmt.Errorf("event %s: date: %w", mj.ID, err)
	}
	typ := cashflow.EventType(mj.Type)
	if !typ.Valid() {
		return cashflow.ManualEvent{}, fmt.Errorf("event %s: unknown type %q", mj.ID, mj.Type)
	}
	amount, err := parseAmount(mj.Amount)
	if err != nil {
		return cashflow.ManualEvent{}, fmt.Errorf("event %s: %w", mj.ID, err)
	}
	category, err := parseCategory(mj.Category)
	if err != nil {
		return cashflow.ManualEvent{}, fmt.Errorf("event %s: %w", mj.ID, err)
	}
	return cashflow.ManualEvent{
		ID:       mj.ID,
		Date:     date,
		Label:    labelOr(mj.Label, mj.ID),
		Amount:   amount,
		Type:     typ,
		Category: category,
	}, nil
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

// parseAmount rejects negative magnitudes; direction always comes from a type.
func parseAmount(v Amount) (decimal.Decimal, error) {
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %s is negative", v)
	}
	return v.Decimal, nil
}

// parseCategory accepts the empty string as "use the default".
func parseCategory(s string) (cashflow.Category, error) {
	if s == "" {
		return "", nil
	}
	c := cashflow.Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

func defaultCategory(t cashflow.EventType) cashflow.Category {
	if t == cashflow.TypeIncome {
		return cashflow.CategoryIncome
	}
	return cashflow.CategoryOther
}

func enabledOr(b *bool) bool {
	if b == nil {
		return true
	}
	return *b
}

func labelOr(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return label
}

// =============================================================================
// ENCODING
// =============================================================================

// ToJSON converts a Plan to PlanJSON.
func (f *PlanFactory) ToJSON(plan *cashflow.Plan) PlanJSON {
	pj := PlanJSON{
		Setup: SetupJSON{
			SelectedPeriodID:   plan.Setup.SelectedPeriodID,
			StartingBalance:    Amount{plan.Setup.StartingBalance},
			RollForwardBalance: plan.Setup.RollForwardBalance,
			ExpectedMinBalance: Amount{plan.Setup.ExpectedMinBalance},
			VariableCap:        Amount{plan.Setup.VariableCap},
			Currency:           plan.Setup.Currency,
		},
		Periods:      make([]PeriodJSON, 0, len(plan.Periods)),
		IncomeRules:  make([]RuleJSON, 0, len(plan.IncomeRules)),
		OutflowRules: make([]RuleJSON, 0, len(plan.OutflowRules)),
		Bills:        make([]BillJSON, 0, len(plan.Bills)),
		Transactions: make([]TransactionJSON, 0, len(plan.Transactions)),
	}
	if !plan.Setup.AsOfDate.IsZero() {
		pj.Setup.AsOfDate = plan.Setup.AsOfDate.String()
	}

	for _, p := range plan.Periods {
		pj.Periods = append(pj.Periods, PeriodJSON{ID: p.ID, Label: p.Label, Start: p.Start.String(), End: p.End.String()})
	}
	for _, r := range plan.IncomeRules {
		pj.IncomeRules = append(pj.IncomeRules, ruleToJSON(r))
	}
	for _, r := range plan.OutflowRules {
		pj.OutflowRules = append(pj.OutflowRules, ruleToJSON(r))
	}
	for _, b := range plan.Bills {
		enabled := b.Enabled
		pj.Bills = append(pj.Bills, BillJSON{
			ID: b.ID, Label: b.Label, Amount: Amount{b.Amount}, DueDay: b.DueDay,
			Category: string(b.Category), Enabled: &enabled,
		})
	}
	for _, o := range plan.PeriodRuleOverrides {
		oj := PeriodRuleOverrideJSON{PeriodID: o.PeriodID, RuleID: o.RuleID, Type: string(o.Type), Enabled: o.Enabled}
		if o.Amount != nil {
			v := Amount{*o.Amount}
			oj.Amount = &v
		}
		pj.PeriodRuleOverrides = append(pj.PeriodRuleOverrides, oj)
	}
	for _, o := range plan.PeriodOverrides {
		oj := PeriodOverrideJSON{PeriodID: o.PeriodID, DisabledBills: o.DisabledBills}
		if o.StartingBalance != nil {
			v := Amount{*o.StartingBalance}
			oj.StartingBalance = &v
		}
		pj.PeriodOverrides = append(pj.PeriodOverrides, oj)
	}
	for _, tx := range plan.Transactions {
		pj.Transactions = append(pj.Transactions, TransactionJSON{
			ID: tx.ID, Date: tx.Date.String(), Label: tx.Label, Amount: Amount{tx.Amount},
			Type: string(tx.Type), Category: string(tx.Category),
			LinkedRuleID: tx.LinkedRuleID, LinkedBillID: tx.LinkedBillID, GoalID: tx.GoalID, Notes: tx.Notes,
		})
	}
	for _, o := range plan.EventOverrides {
		oj := EventOverrideJSON{PeriodID: o.PeriodID, SourceID: o.SourceID, Date: o.Date.String(), Skip: o.Skip}
		if o.Amount != nil {
			v := Amount{*o.Amount}
			oj.Amount = &v
		}
		if o.MoveTo != nil {
			oj.MoveTo = o.MoveTo.String()
		}
		pj.EventOverrides = append(pj.EventOverrides, oj)
	}
	for _, m := range plan.ManualEvents {
		pj.ManualEvents = append(pj.ManualEvents, ManualEventJSON{
			ID: m.ID, Date: m.Date.String(), Label: m.Label, Amount: Amount{m.Amount},
			Type: string(m.Type), Category: string(m.Category),
		})
	}
	return pj
}

func ruleToJSON(r cashflow.Rule) RuleJSON {
	enabled := r.Enabled
	return RuleJSON{
		ID:       r.ID,
		Label:    r.Label,
		Amount:   Amount{r.Amount},
		Cadence:  string(r.Cadence),
		SeedDate: r.SeedDate.String(),
		Enabled:  &enabled,
		Category: string(r.Category),
	}
}
