/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Plan documents travel
  in the factory's schema (factory.PlanJSON); engine results are the
  cashflow package's own JSON-tagged types wrapped with the ids that
  produced them.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY:
  Amounts inside engine results are decimal.Decimal and serialise as JSON
  strings ("1250.5"). Amounts inside plan documents are plain numbers.

VALIDATION:
  Validation is done by the factory, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/plan.go: PlanJSON type
*/
package api

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/factory"
	"github.com/warp/cashflow-engine/generic"
)

// =============================================================================
// PLAN DOCUMENTS
// =============================================================================

// PlanSummaryDTO is one stored plan in list responses.
type PlanSummaryDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Version   int    `json:"version"`
	CreatedAt string `json:"created_at,omitempty"`
}

// PlanDTO is a stored plan revision with its decoded document.
type PlanDTO struct {
	PlanSummaryDTO
	Plan     factory.PlanJSON `json:"plan"`
	Warnings []string         `json:"warnings,omitempty"`
}

// SavePlanRequest creates a plan or appends a revision. An empty ID creates a
// new plan with a generated id. ExpectedVersion, when set, must be the
// version this revision will get; otherwise the save fails with 409.
type SavePlanRequest struct {
	ID              string          `json:"id,omitempty"`
	Name            string          `json:"name"`
	ExpectedVersion int             `json:"expected_version,omitempty"`
	Plan            json.RawMessage `json:"plan"`
}

// ResolveDTO answers which period contains a date.
type ResolveDTO struct {
	Date     string  `json:"date"`
	PeriodID *string `json:"period_id"`
}

// =============================================================================
// ENGINE RESULTS
// =============================================================================

// EventsResponse lists the planned events of a period.
type EventsResponse struct {
	PlanID   string                   `json:"plan_id"`
	PeriodID string                   `json:"period_id"`
	Events   []cashflow.CashflowEvent `json:"events"`
}

// TimelineResponse is the daily balance curve of a period.
type TimelineResponse struct {
	PlanID          string                 `json:"plan_id"`
	PeriodID        string                 `json:"period_id"`
	Actuals         bool                   `json:"actuals"`
	StartingBalance decimal.Decimal        `json:"starting_balance"`
	Rows            []cashflow.TimelineRow `json:"rows"`
	Lowest          *cashflow.TimelineRow  `json:"lowest,omitempty"`
	DaysBelowMin    int                    `json:"days_below_min"`
}

// BalanceDTO is a start/end pair for one view of a period.
type BalanceDTO struct {
	Starting decimal.Decimal `json:"starting"`
	Ending   decimal.Decimal `json:"ending"`
}

// BalanceResponse compares the planned and recorded balances of a period.
type BalanceResponse struct {
	PlanID   string     `json:"plan_id"`
	PeriodID string     `json:"period_id"`
	Planned  BalanceDTO `json:"planned"`
	Actual   BalanceDTO `json:"actual"`
}

// VarianceResponse is budget vs actual per category.
type VarianceResponse struct {
	PlanID     string                     `json:"plan_id"`
	PeriodID   string                     `json:"period_id"`
	Categories []cashflow.VarianceSummary `json:"categories"`
	Total      cashflow.TotalVariance     `json:"total"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects the scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toPlanSummaryDTO(doc generic.Document) PlanSummaryDTO {
	dto := PlanSummaryDTO{
		ID:      string(doc.ID),
		Name:    doc.Name,
		Version: int(doc.Version),
	}
	if !doc.CreatedAt.IsZero() {
		dto.CreatedAt = doc.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toPlanSummaryDTOs(docs []generic.Document) []PlanSummaryDTO {
	dtos := make([]PlanSummaryDTO, len(docs))
	for i, doc := range docs {
		dtos[i] = toPlanSummaryDTO(doc)
	}
	return dtos
}
