/*
scenarios.go - Demo plans for testing and demonstrations

PURPOSE:

	Provides pre-built plans that populate the store with realistic data
	for demos. Each scenario exercises a different part of the engine:
	health classification, income stability, roll-forward chaining and
	budget vs actual reconciliation.

AVAILABLE SCENARIOS:

	steady-salary:  Monthly salary, rent and groceries; healthy all quarter
	tight-month:    Rent due before payday; balance dips below zero
	gig-income:     Weekly and monthly income sources; variable stability
	roll-forward:   Three chained months with a mid-quarter balance reset

HOW SCENARIOS WORK:
 1. Reset the store (clear all plans)
 2. Build the plan document with factory.PlanJSON
 3. Save it as version 1 under the scenario id

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "tight-month"}

	GET /api/plans/tight-month/periods/current/summary

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add a builder function returning factory.PlanJSON
 3. Register it in scenarioPlans

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: SavePlan, ResetDatabase
  - factory/plan.go: Plan JSON schema
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/warp/cashflow-engine/factory"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "steady-salary",
		Name:        "Steady Salary",
		Description: "Monthly salary with rent, utilities, groceries and savings; healthy all quarter",
	},
	{
		ID:          "tight-month",
		Name:        "Tight Month",
		Description: "Rent is due before payday and the balance dips below zero",
	},
	{
		ID:          "gig-income",
		Name:        "Gig Income",
		Description: "Weekly and monthly income sources with recorded actuals",
	},
	{
		ID:          "roll-forward",
		Name:        "Roll-Forward Quarter",
		Description: "Three chained months with a balance reset in February",
	},
}

var scenarioPlans = map[string]func() factory.PlanJSON{
	"steady-salary": steadySalaryPlan,
	"tight-month":   tightMonthPlan,
	"gig-income":    gigIncomePlan,
	"roll-forward":  rollForwardPlan,
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current, Description: "Currently loaded scenario"})
}

// LoadScenario resets the store and loads a predefined plan.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	doc, err := h.loadScenario(r.Context(), req.ScenarioID)
	if err != nil {
		if _, known := scenarioPlans[req.ScenarioID]; !known {
			writeError(w, http.StatusBadRequest, "Unknown scenario", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"scenario": req.ScenarioID,
		"plan":     doc,
	})
}

func (h *Handler) loadScenario(ctx context.Context, id string) (PlanSummaryDTO, error) {
	build, ok := scenarioPlans[id]
	if !ok {
		return PlanSummaryDTO{}, fmt.Errorf("unknown scenario: %s", id)
	}
	if err := h.reset(ctx); err != nil {
		return PlanSummaryDTO{}, err
	}

	body, err := json.Marshal(build())
	if err != nil {
		return PlanSummaryDTO{}, err
	}
	name := id
	for _, s := range scenarios {
		if s.ID == id {
			name = s.Name
		}
	}

	doc, _, warnings, err := h.savePlan(ctx, SavePlanRequest{ID: id, Name: name, Plan: body})
	if err != nil {
		return PlanSummaryDTO{}, err
	}
	if len(warnings) > 0 {
		h.log.Warn().Str("scenario", id).Strs("warnings", warnings).Msg("scenario plan has warnings")
	}

	h.mu.Lock()
	h.currentScenario = id
	h.mu.Unlock()
	return toPlanSummaryDTO(doc), nil
}

// =============================================================================
// SCENARIO PLANS
// =============================================================================

func quarterPeriods() []factory.PeriodJSON {
	return []factory.PeriodJSON{
		{ID: "2025-01", Label: "January 2025", Start: "2025-01-01", End: "2025-01-31"},
		{ID: "2025-02", Label: "February 2025", Start: "2025-02-01", End: "2025-02-28"},
		{ID: "2025-03", Label: "March 2025", Start: "2025-03-01", End: "2025-03-31"},
	}
}

func ptr[T any](v T) *T { return &v }

var amt = factory.AmountOf

func steadySalaryPlan() factory.PlanJSON {
	return factory.PlanJSON{
		Setup: factory.SetupJSON{
			SelectedPeriodID:   "2025-01",
			AsOfDate:           "2025-01-20",
			StartingBalance:    amt("1500"),
			RollForwardBalance: true,
			ExpectedMinBalance: amt("300"),
			VariableCap:        amt("500"),
			Currency:           "USD",
		},
		Periods: quarterPeriods(),
		IncomeRules: []factory.RuleJSON{
			{ID: "salary", Label: "Salary", Amount: amt("3200"), Cadence: "monthly", SeedDate: "2024-11-01"},
		},
		OutflowRules: []factory.RuleJSON{
			{ID: "groceries", Label: "Groceries", Amount: amt("90"), Cadence: "weekly", SeedDate: "2025-01-04", Category: "allowance"},
			{ID: "savings", Label: "Savings transfer", Amount: amt("400"), Cadence: "monthly", SeedDate: "2025-01-02", Category: "savings"},
			{ID: "giving", Label: "Giving", Amount: amt("150"), Cadence: "monthly", SeedDate: "2025-01-05", Category: "giving"},
		},
		Bills: []factory.BillJSON{
			{ID: "rent", Label: "Rent", Amount: amt("1400"), DueDay: 3, Category: "bill"},
			{ID: "utilities", Label: "Utilities", Amount: amt("120"), DueDay: 20, Category: "bill"},
			{ID: "phone", Label: "Phone", Amount: amt("45"), DueDay: 31, Category: "bill"},
		},
		Transactions: []factory.TransactionJSON{
			{ID: "t1", Date: "2025-01-01", Label: "Salary", Amount: amt("3200"), Type: "income", Category: "income", LinkedRuleID: "salary"},
			{ID: "t2", Date: "2025-01-02", Label: "Savings transfer", Amount: amt("400"), Type: "transfer", Category: "savings", LinkedRuleID: "savings"},
			{ID: "t3", Date: "2025-01-03", Label: "Rent", Amount: amt("1400"), Type: "outflow", Category: "bill", LinkedBillID: "rent"},
			{ID: "t4", Date: "2025-01-04", Label: "Grocery store", Amount: amt("84.37"), Type: "outflow", Category: "allowance"},
			{ID: "t5", Date: "2025-01-05", Label: "Church", Amount: amt("150"), Type: "outflow", Category: "giving", LinkedRuleID: "giving"},
			{ID: "t6", Date: "2025-01-11", Label: "Grocery store", Amount: amt("102.10"), Type: "outflow", Category: "allowance"},
			{ID: "t7", Date: "2025-01-18", Label: "Grocery store", Amount: amt("95.42"), Type: "outflow", Category: "allowance"},
		},
	}
}

func tightMonthPlan() factory.PlanJSON {
	return factory.PlanJSON{
		Setup: factory.SetupJSON{
			SelectedPeriodID:   "2025-01",
			StartingBalance:    amt("250"),
			RollForwardBalance: true,
			ExpectedMinBalance: amt("100"),
			Currency:           "USD",
		},
		Periods: quarterPeriods(),
		IncomeRules: []factory.RuleJSON{
			{ID: "paycheck", Label: "Paycheck", Amount: amt("1350"), Cadence: "biweekly", SeedDate: "2025-01-10"},
		},
		OutflowRules: []factory.RuleJSON{
			{ID: "fuel", Label: "Fuel", Amount: amt("45"), Cadence: "weekly", SeedDate: "2025-01-06", Category: "other"},
		},
		Bills: []factory.BillJSON{
			{ID: "rent", Label: "Rent", Amount: amt("1100"), DueDay: 1, Category: "bill"},
			{ID: "car", Label: "Car payment", Amount: amt("310"), DueDay: 15, Category: "bill"},
		},
		ManualEvents: []factory.ManualEventJSON{
			{ID: "tax-refund", Date: "2025-02-20", Label: "Tax refund", Amount: amt("600"), Type: "income"},
		},
	}
}

func gigIncomePlan() factory.PlanJSON {
	return factory.PlanJSON{
		Setup: factory.SetupJSON{
			SelectedPeriodID:   "2025-02",
			StartingBalance:    amt("2000"),
			RollForwardBalance: true,
			ExpectedMinBalance: amt("500"),
			VariableCap:        amt("250"),
			Currency:           "USD",
		},
		Periods: quarterPeriods(),
		IncomeRules: []factory.RuleJSON{
			{ID: "rideshare", Label: "Rideshare payout", Amount: amt("420"), Cadence: "weekly", SeedDate: "2025-01-03"},
			{ID: "retainer", Label: "Design retainer", Amount: amt("1200"), Cadence: "monthly", SeedDate: "2025-01-15"},
		},
		OutflowRules: []factory.RuleJSON{
			{ID: "emergency", Label: "Emergency fund", Amount: amt("300"), Cadence: "monthly", SeedDate: "2025-01-16", Category: "savings"},
			{ID: "fun", Label: "Fun money", Amount: amt("60"), Cadence: "weekly", SeedDate: "2025-01-04", Category: "allowance"},
		},
		Bills: []factory.BillJSON{
			{ID: "rent", Label: "Rent", Amount: amt("1250"), DueDay: 1, Category: "bill"},
			{ID: "insurance", Label: "Health insurance", Amount: amt("380"), DueDay: 10, Category: "bill"},
		},
		PeriodRuleOverrides: []factory.PeriodRuleOverrideJSON{
			{PeriodID: "2025-03", RuleID: "retainer", Type: "income", Amount: ptr(amt("900"))},
		},
		Transactions: []factory.TransactionJSON{
			{ID: "j1", Date: "2025-01-01", Label: "Rent", Amount: amt("1250"), Type: "outflow", Category: "bill"},
			{ID: "j2", Date: "2025-01-16", Label: "Emergency fund", Amount: amt("300"), Type: "transfer", Category: "savings"},
			{ID: "j3", Date: "2025-01-17", Label: "Extra savings", Amount: amt("25"), Type: "outflow", Category: "savings"},
			{ID: "f1", Date: "2025-02-01", Label: "Rent", Amount: amt("1250"), Type: "outflow", Category: "bill"},
			{ID: "f2", Date: "2025-02-07", Label: "Rideshare payout", Amount: amt("388.50"), Type: "income", Category: "income"},
			{ID: "f3", Date: "2025-02-16", Label: "Emergency fund", Amount: amt("320"), Type: "outflow", Category: "savings"},
			{ID: "f4", Date: "2025-02-22", Label: "Concert tickets", Amount: amt("180"), Type: "outflow", Category: "allowance"},
			{ID: "f5", Date: "2025-02-23", Label: "Dinner out", Amount: amt("95"), Type: "outflow", Category: "allowance"},
		},
	}
}

func rollForwardPlan() factory.PlanJSON {
	return factory.PlanJSON{
		Setup: factory.SetupJSON{
			SelectedPeriodID:   "2025-03",
			StartingBalance:    amt("800"),
			RollForwardBalance: true,
			ExpectedMinBalance: amt("200"),
			Currency:           "USD",
		},
		Periods: quarterPeriods(),
		IncomeRules: []factory.RuleJSON{
			{ID: "salary", Label: "Salary", Amount: amt("2600"), Cadence: "monthly", SeedDate: "2025-01-31"},
		},
		OutflowRules: []factory.RuleJSON{
			{ID: "buffer", Label: "Buffer top-up", Amount: amt("100"), Cadence: "monthly", SeedDate: "2025-01-31", Category: "buffer"},
		},
		Bills: []factory.BillJSON{
			{ID: "mortgage", Label: "Mortgage", Amount: amt("1700"), DueDay: 5, Category: "bill"},
			{ID: "gym", Label: "Gym", Amount: amt("40"), DueDay: 12, Category: "bill"},
		},
		PeriodOverrides: []factory.PeriodOverrideJSON{
			{PeriodID: "2025-02", StartingBalance: ptr(amt("1500")), DisabledBills: []string{"gym"}},
		},
		EventOverrides: []factory.EventOverrideJSON{
			{SourceID: "mortgage", Date: "2025-03-05", MoveTo: "2025-03-07"},
		},
	}
}
