/*
handlers.go - HTTP API handlers for the cashflow engine

PURPOSE:
  Exposes stored plans and the engine's derived views via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to the factory
  (plan decoding) and the cashflow package (all computation).

ENDPOINTS:
  Plans:
    GET    /api/plans                       List plans (latest revision each)
    POST   /api/plans                       Create plan or append a revision
    GET    /api/plans/{id}                  Latest revision (?version=N)
    GET    /api/plans/{id}/versions         Revision history
    GET    /api/plans/{id}/resolve?date=    Period containing a date

  Periods (all accept ?version=N):
    GET    /api/plans/{id}/periods/{periodId}/events
    GET    /api/plans/{id}/periods/{periodId}/timeline     (?actuals=true)
    GET    /api/plans/{id}/periods/{periodId}/balance
    GET    /api/plans/{id}/periods/{periodId}/variance
    GET    /api/plans/{id}/periods/{periodId}/summary
    GET    /api/plans/{id}/periods/{periodId}/summary.txt

  Scenarios:
    GET    /api/scenarios              List demo scenarios
    GET    /api/scenarios/current      Currently loaded scenario
    POST   /api/scenarios/load         Load a demo scenario

  Admin:
    POST   /api/rollover               Advance plans past their selected period
    POST   /api/reset                  Drop every stored plan

PERIOD IDS:
  An unknown periodId falls back to the plan's first period, the same way
  the engine does; the response always names the period actually used.
  The literal "current" selects setup.selectedPeriodId.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Plan or version not found
  - 409: Version conflict on save
  - 429: Write rate limit exceeded (ratelimit.go)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo plans
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/factory"
	"github.com/warp/cashflow-engine/generic"
	"github.com/warp/cashflow-engine/report"
)

// currentPeriod in a URL selects setup.selectedPeriodId.
const currentPeriod = "current"

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store       generic.Store
	PlanFactory *factory.PlanFactory

	log   zerolog.Logger
	newID func() string

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store generic.Store, logger zerolog.Logger) *Handler {
	return &Handler{
		Store:       store,
		PlanFactory: factory.NewPlanFactory(),
		log:         logger.With().Str("component", "api").Logger(),
		newID:       func() string { return uuid.NewString() },
	}
}

// =============================================================================
// PLAN HANDLERS
// =============================================================================

// ListPlans returns the latest revision of every stored plan.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Store.List(r.Context())
	if err != nil {
		h.writeStoreError(w, "Failed to list plans", err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanSummaryDTOs(docs))
}

// SavePlan validates a plan document and stores it as a new revision.
func (h *Handler) SavePlan(w http.ResponseWriter, r *http.Request) {
	var req SavePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Plan) == 0 {
		writeError(w, http.StatusBadRequest, "Missing plan document", nil)
		return
	}

	doc, plan, warnings, err := h.savePlan(r.Context(), req)
	if err != nil {
		h.writeStoreError(w, "Failed to save plan", err)
		return
	}

	writeJSON(w, http.StatusCreated, PlanDTO{
		PlanSummaryDTO: toPlanSummaryDTO(doc),
		Plan:           h.PlanFactory.ToJSON(plan),
		Warnings:       warnings,
	})
}

// savePlan parses, normalises and appends a plan revision. Rows the factory
// rejected are dropped from the stored body and reported as warnings.
func (h *Handler) savePlan(ctx context.Context, req SavePlanRequest) (generic.Document, *cashflow.Plan, []string, error) {
	plan, warnings, err := h.PlanFactory.ParsePlan(req.Plan)
	if err != nil {
		return generic.Document{}, nil, nil, err
	}
	body, err := h.PlanFactory.EncodePlan(plan)
	if err != nil {
		return generic.Document{}, nil, nil, fmt.Errorf("failed to encode plan: %w", err)
	}

	id := req.ID
	if id == "" {
		id = h.newID()
	}
	name := req.Name
	if name == "" {
		name = id
	}

	doc, err := h.Store.Append(ctx, generic.Document{
		ID:      generic.DocumentID(id),
		Name:    name,
		Version: generic.Version(req.ExpectedVersion),
		Body:    body,
	})
	if err != nil {
		return generic.Document{}, nil, nil, err
	}

	h.log.Info().Str("plan_id", id).Int("version", int(doc.Version)).
		Int("warnings", len(warnings)).Msg("plan saved")
	return doc, plan, warnings, nil
}

// GetPlan returns one plan revision, the latest by default.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	doc, plan, warnings, err := h.loadPlan(r)
	if err != nil {
		h.writeStoreError(w, "Failed to get plan", err)
		return
	}
	writeJSON(w, http.StatusOK, PlanDTO{
		PlanSummaryDTO: toPlanSummaryDTO(doc),
		Plan:           h.PlanFactory.ToJSON(plan),
		Warnings:       warnings,
	})
}

// ListVersions returns the revision history of a plan.
func (h *Handler) ListVersions(w http.ResponseWriter, r *http.Request) {
	id := generic.DocumentID(chi.URLParam(r, "id"))
	docs, err := h.Store.Versions(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, "Failed to list versions", err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanSummaryDTOs(docs))
}

// ResolvePeriod returns the id of the period containing ?date=, or null.
func (h *Handler) ResolvePeriod(w http.ResponseWriter, r *http.Request) {
	date, err := generic.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	_, plan, _, err := h.loadPlan(r)
	if err != nil {
		h.writeStoreError(w, "Failed to get plan", err)
		return
	}

	dto := ResolveDTO{Date: date.String()}
	if id, ok := cashflow.GetPeriodForDate(*plan, date); ok {
		dto.PeriodID = &id
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// PERIOD HANDLERS
// =============================================================================

// GetEvents returns the planned events of a period.
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	doc, plan, periodID, ok := h.loadPeriod(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, EventsResponse{
		PlanID:   string(doc.ID),
		PeriodID: periodID,
		Events:   cashflow.GenerateEvents(*plan, periodID),
	})
}

// GetTimeline returns the planned (or, with ?actuals=true, recorded) daily
// balance curve of a period.
func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	doc, plan, periodID, ok := h.loadPeriod(w, r)
	if !ok {
		return
	}
	actuals, _ := strconv.ParseBool(r.URL.Query().Get("actuals"))

	resp := TimelineResponse{PlanID: string(doc.ID), PeriodID: periodID, Actuals: actuals}
	if actuals {
		resp.StartingBalance = cashflow.GetActualsStartingBalance(*plan, periodID)
		resp.Rows = cashflow.BuildActualsTimeline(*plan, periodID, resp.StartingBalance)
	} else {
		resp.StartingBalance = cashflow.GetStartingBalance(*plan, periodID)
		resp.Rows = cashflow.BuildTimeline(*plan, periodID, resp.StartingBalance)
	}
	if lowest, ok := cashflow.MinPoint(resp.Rows); ok {
		resp.Lowest = &lowest
	}
	resp.DaysBelowMin = cashflow.DaysBelowMin(resp.Rows)
	writeJSON(w, http.StatusOK, resp)
}

// GetBalance returns planned and actual starting and ending balances.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	doc, plan, periodID, ok := h.loadPeriod(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, BalanceResponse{
		PlanID:   string(doc.ID),
		PeriodID: periodID,
		Planned: BalanceDTO{
			Starting: cashflow.GetStartingBalance(*plan, periodID),
			Ending:   cashflow.EndingBalance(*plan, periodID),
		},
		Actual: BalanceDTO{
			Starting: cashflow.GetActualsStartingBalance(*plan, periodID),
			Ending:   cashflow.ActualsEndingBalance(*plan, periodID),
		},
	})
}

// GetVariance returns budget vs actual per category.
func (h *Handler) GetVariance(w http.ResponseWriter, r *http.Request) {
	doc, plan, periodID, ok := h.loadPeriod(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, VarianceResponse{
		PlanID:     string(doc.ID),
		PeriodID:   periodID,
		Categories: cashflow.OrderedVariance(cashflow.GetVarianceByCategory(*plan, periodID)),
		Total:      cashflow.GetTotalVariance(*plan, periodID),
	})
}

// GetSummary returns the full derived dashboard view.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	_, plan, periodID, ok := h.loadPeriod(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, cashflow.DeriveApp(*plan, periodID))
}

// GetSummaryText returns the dashboard as plain text.
func (h *Handler) GetSummaryText(w http.ResponseWriter, r *http.Request) {
	_, plan, periodID, ok := h.loadPeriod(w, r)
	if !ok {
		return
	}
	view := cashflow.DeriveApp(*plan, periodID)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	opts := report.Options{Currency: plan.Setup.Currency}
	if err := report.WriteSummary(w, view, opts); err != nil {
		h.log.Error().Err(err).Msg("failed to write text summary")
	}
}

// ResetDatabase clears all stored plans.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) reset(ctx context.Context) error {
	resettable, ok := h.Store.(generic.ResettableStore)
	if !ok {
		return errors.New("store does not support reset")
	}
	if err := resettable.Reset(ctx); err != nil {
		return err
	}
	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()
	return nil
}

// =============================================================================
// LOADING
// =============================================================================

// loadPlan reads the plan named by {id}, honouring ?version=N.
func (h *Handler) loadPlan(r *http.Request) (generic.Document, *cashflow.Plan, []string, error) {
	id := generic.DocumentID(chi.URLParam(r, "id"))

	var (
		doc generic.Document
		err error
	)
	if v := r.URL.Query().Get("version"); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil || n < 1 {
			return generic.Document{}, nil, nil, fmt.Errorf("%w: version %q", generic.ErrInvalidPlan, v)
		}
		doc, err = h.Store.Version(r.Context(), id, generic.Version(n))
	} else {
		doc, err = h.Store.Latest(r.Context(), id)
	}
	if err != nil {
		return generic.Document{}, nil, nil, err
	}

	plan, warnings, err := h.PlanFactory.ParsePlan(doc.Body)
	if err != nil {
		return generic.Document{}, nil, nil, err
	}
	return doc, plan, warnings, nil
}

// loadPeriod loads the plan and resolves {periodId}. On failure it writes the
// error response and returns ok=false.
func (h *Handler) loadPeriod(w http.ResponseWriter, r *http.Request) (generic.Document, *cashflow.Plan, string, bool) {
	doc, plan, _, err := h.loadPlan(r)
	if err != nil {
		h.writeStoreError(w, "Failed to get plan", err)
		return generic.Document{}, nil, "", false
	}
	if len(plan.Periods) == 0 {
		writeError(w, http.StatusBadRequest, "Plan has no periods", nil)
		return generic.Document{}, nil, "", false
	}

	requested := chi.URLParam(r, "periodId")
	if !hasPeriod(plan, requested) && strings.EqualFold(requested, currentPeriod) {
		requested = plan.Setup.SelectedPeriodID
	}
	return doc, plan, cashflow.GetPeriod(*plan, requested).ID, true
}

// =============================================================================
// HELPERS
// =============================================================================

// hasPeriod reports whether id names a period of the plan exactly. A real
// period id wins over the "current" alias.
func hasPeriod(plan *cashflow.Plan, id string) bool {
	for _, p := range plan.Periods {
		if p.ID == id {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError maps domain errors onto HTTP status codes.
func (h *Handler) writeStoreError(w http.ResponseWriter, message string, err error) {
	switch {
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case generic.IsConflict(err):
		writeError(w, http.StatusConflict, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.log.Error().Err(err).Msg(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
