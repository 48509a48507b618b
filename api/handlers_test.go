/*
handlers_test.go - HTTP tests for plan and period endpoints

Tests for:
- Saving plans, revisions and optimistic-lock conflicts
- Period views (events, timeline, balance, variance, summary)
- Error mapping (400, 404, 409)
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/generic/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func setupTestServer(t *testing.T) (*Handler, http.Handler) {
	t.Helper()
	h := NewHandler(store.NewMemory(), zerolog.Nop())
	return h, NewRouter(h, RouterOptions{})
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func savePlanRequest(t *testing.T, id string, expected int) SavePlanRequest {
	t.Helper()
	body, err := json.Marshal(tightMonthPlan())
	require.NoError(t, err)
	return SavePlanRequest{ID: id, Name: "Test plan", ExpectedVersion: expected, Plan: body}
}

// =============================================================================
// PLAN DOCUMENTS
// =============================================================================

func TestSavePlan_CreatesVersions(t *testing.T) {
	// GIVEN: An empty store
	// WHEN: Saving the same plan twice
	// THEN: Versions 1 and 2 exist and the latest is returned by default

	_, router := setupTestServer(t)

	rec := doRequest(t, router, http.MethodPost, "/api/plans", savePlanRequest(t, "home", 0))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[PlanDTO](t, rec)
	assert.Equal(t, "home", first.ID)
	assert.Equal(t, 1, first.Version)
	assert.Empty(t, first.Warnings)
	assert.Len(t, first.Plan.Periods, 3)

	rec = doRequest(t, router, http.MethodPost, "/api/plans", savePlanRequest(t, "home", 2))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, router, http.MethodGet, "/api/plans/home", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[PlanDTO](t, rec).Version)

	rec = doRequest(t, router, http.MethodGet, "/api/plans/home?version=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[PlanDTO](t, rec).Version)

	rec = doRequest(t, router, http.MethodGet, "/api/plans/home/versions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]PlanSummaryDTO](t, rec), 2)

	rec = doRequest(t, router, http.MethodGet, "/api/plans", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]PlanSummaryDTO](t, rec), 1)
}

func TestSavePlan_GeneratesIDWhenMissing(t *testing.T) {
	h, router := setupTestServer(t)
	h.newID = func() string { return "generated" }

	rec := doRequest(t, router, http.MethodPost, "/api/plans", savePlanRequest(t, "", 0))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "generated", decode[PlanDTO](t, rec).ID)
}

func TestSavePlan_VersionConflict(t *testing.T) {
	_, router := setupTestServer(t)
	require.Equal(t, http.StatusCreated, doRequest(t, router, http.MethodPost, "/api/plans", savePlanRequest(t, "home", 0)).Code)

	// A client that still thinks version 1 is next
	rec := doRequest(t, router, http.MethodPost, "/api/plans", savePlanRequest(t, "home", 1))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSavePlan_BadInput(t *testing.T) {
	_, router := setupTestServer(t)

	rec := doRequest(t, router, http.MethodPost, "/api/plans", map[string]any{"name": "empty"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing plan")

	rec = doRequest(t, router, http.MethodPost, "/api/plans", map[string]any{"name": "array", "plan": []int{1}})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "plan is not an object")

	req := httptest.NewRequest(http.MethodPost, "/api/plans", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "malformed body")
}

func TestSavePlan_ReturnsRowWarnings(t *testing.T) {
	_, router := setupTestServer(t)
	doc := `{"periods":[{"id":"p","start":"2025-01-01","end":"2025-01-31"}],
	         "bills":[{"id":"bad","amount":-1,"dueDay":1}]}`

	rec := doRequest(t, router, http.MethodPost, "/api/plans", SavePlanRequest{ID: "w", Plan: json.RawMessage(doc)})

	require.Equal(t, http.StatusCreated, rec.Code)
	dto := decode[PlanDTO](t, rec)
	assert.Len(t, dto.Warnings, 1)
	assert.Empty(t, dto.Plan.Bills, "rejected rows are not stored")
}

func TestSavePlan_ResponseCarriesSavedPlan(t *testing.T) {
	// GIVEN: A plan with a balance beyond float64 precision and a bad row
	// WHEN: Saving it
	// THEN: The response echoes the normalised plan with exact amounts

	_, router := setupTestServer(t)
	doc := `{"setup":{"startingBalance":12345678901234567.89},
	         "periods":[{"id":"p","start":"2025-01-01","end":"2025-01-31"}],
	         "bills":[{"id":"rent","amount":"1100.10","dueDay":1},{"id":"bad","amount":-1,"dueDay":1}]}`

	rec := doRequest(t, router, http.MethodPost, "/api/plans", SavePlanRequest{ID: "big", Plan: json.RawMessage(doc)})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	dto := decode[PlanDTO](t, rec)
	assert.Equal(t, "12345678901234567.89", dto.Plan.Setup.StartingBalance.String())
	require.Len(t, dto.Plan.Bills, 1)
	assert.Equal(t, "1100.1", dto.Plan.Bills[0].Amount.String())
	assert.Len(t, dto.Warnings, 1)

	rec = doRequest(t, router, http.MethodGet, "/api/plans/big", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12345678901234567.89", decode[PlanDTO](t, rec).Plan.Setup.StartingBalance.String())
}

func TestGetPlan_NotFound(t *testing.T) {
	_, router := setupTestServer(t)

	assert.Equal(t, http.StatusNotFound, doRequest(t, router, http.MethodGet, "/api/plans/nope", nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(t, router, http.MethodGet, "/api/plans/nope/versions", nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(t, router, http.MethodGet, "/api/plans/nope/periods/current/summary", nil).Code)
}

func TestGetPlan_BadVersion(t *testing.T) {
	_, router := setupTestServer(t)
	doRequest(t, router, http.MethodPost, "/api/plans", savePlanRequest(t, "home", 0))

	assert.Equal(t, http.StatusBadRequest, doRequest(t, router, http.MethodGet, "/api/plans/home?version=zero", nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(t, router, http.MethodGet, "/api/plans/home?version=9", nil).Code)
}

func TestResolvePeriod(t *testing.T) {
	_, router := setupTestServer(t)
	doRequest(t, router, http.MethodPost, "/api/plans", savePlanRequest(t, "home", 0))

	rec := doRequest(t, router, http.MethodGet, "/api/plans/home/resolve?date=2025-02-14", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dto := decode[ResolveDTO](t, rec)
	require.NotNil(t, dto.PeriodID)
	assert.Equal(t, "2025-02", *dto.PeriodID)

	rec = doRequest(t, router, http.MethodGet, "/api/plans/home/resolve?date=2026-01-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[ResolveDTO](t, rec).PeriodID)

	rec = doRequest(t, router, http.MethodGet, "/api/plans/home/resolve?date=soon", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// PERIOD VIEWS
// =============================================================================

func TestPeriodViews_TightMonth(t *testing.T) {
	// GIVEN: The tight-month plan (250 start, 1100 rent on the 1st)
	// WHEN: Requesting January views
	// THEN: The balance goes negative on day one and the period is At Risk

	_, router := setupTestServer(t)
	doRequest(t, router, http.MethodPost, "/api/plans", savePlanRequest(t, "home", 0))

	rec := doRequest(t, router, http.MethodGet, "/api/plans/home/periods/2025-01/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	events := decode[EventsResponse](t, rec)
	require.NotEmpty(t, events.Events)
	assert.Equal(t, "rent", events.Events[0].SourceID)

	rec = doRequest(t, router, http.MethodGet, "/api/plans/home/periods/2025-01/timeline", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	timeline := decode[TimelineResponse](t, rec)
	assert.Len(t, timeline.Rows, 31)
	require.NotNil(t, timeline.Lowest)
	assert.True(t, timeline.Lowest.Balance.IsNegative())
	assert.Positive(t, timeline.DaysBelowMin)

	rec = doRequest(t, router, http.MethodGet, "/api/plans/home/periods/current/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[cashflow.DerivedView](t, rec)
	assert.Equal(t, "2025-01", view.PeriodID)
	assert.Equal(t, cashflow.HealthAtRisk, view.Health.Label)
	first := view.Cashflow.Timeline[0]
	assert.True(t, first.Balance.Equal(view.StartingBalance.Add(first.Net)))
}

func TestPeriodViews_BalanceAndVariance(t *testing.T) {
	h, router := setupTestServer(t)
	_, err := h.loadScenario(t.Context(), "steady-salary")
	require.NoError(t, err)

	rec := doRequest(t, router, http.MethodGet, "/api/plans/steady-salary/periods/2025-02/balance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	balance := decode[BalanceResponse](t, rec)
	assert.Equal(t, "2025-02", balance.PeriodID)
	assert.False(t, balance.Planned.Starting.Equal(balance.Actual.Starting), "january actuals differ from plan")

	rec = doRequest(t, router, http.MethodGet, "/api/plans/steady-salary/periods/2025-01/variance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	variance := decode[VarianceResponse](t, rec)
	require.NotEmpty(t, variance.Categories)
	assert.Equal(t, cashflow.CategoryIncome, variance.Categories[0].Category)
}

func TestPeriodViews_ActualsTimeline(t *testing.T) {
	h, router := setupTestServer(t)
	_, err := h.loadScenario(t.Context(), "steady-salary")
	require.NoError(t, err)

	rec := doRequest(t, router, http.MethodGet, "/api/plans/steady-salary/periods/2025-01/timeline?actuals=true", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	timeline := decode[TimelineResponse](t, rec)
	assert.True(t, timeline.Actuals)
	// Salary 3200 recorded on the 1st on top of the 1500 starting balance
	assert.True(t, timeline.Rows[0].Balance.Equal(timeline.StartingBalance.Add(timeline.Rows[0].Net)))
	assert.Equal(t, "4700", timeline.Rows[0].Balance.String())
}

func TestPeriodViews_UnknownPeriodFallsBackToFirst(t *testing.T) {
	_, router := setupTestServer(t)
	doRequest(t, router, http.MethodPost, "/api/plans", savePlanRequest(t, "home", 0))

	rec := doRequest(t, router, http.MethodGet, "/api/plans/home/periods/1999-01/events", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-01", decode[EventsResponse](t, rec).PeriodID)
}

func TestPeriodViews_PeriodNamedCurrentIsNotAliased(t *testing.T) {
	// GIVEN: A plan whose second period is literally called "current"
	// WHEN: Requesting /periods/current
	// THEN: That period is used, not the selected one

	_, router := setupTestServer(t)
	doc := `{"setup":{"selectedPeriodId":"jan","startingBalance":100},
	         "periods":[{"id":"jan","start":"2025-01-01","end":"2025-01-31"},
	                    {"id":"current","start":"2025-02-01","end":"2025-02-28"}]}`
	require.Equal(t, http.StatusCreated,
		doRequest(t, router, http.MethodPost, "/api/plans", SavePlanRequest{ID: "named", Plan: json.RawMessage(doc)}).Code)

	rec := doRequest(t, router, http.MethodGet, "/api/plans/named/periods/current/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "current", decode[EventsResponse](t, rec).PeriodID)

	rec = doRequest(t, router, http.MethodGet, "/api/plans/named/periods/CURRENT/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jan", decode[EventsResponse](t, rec).PeriodID, "other spellings still mean the selected period")
}

func TestPeriodViews_PlanWithoutPeriods(t *testing.T) {
	_, router := setupTestServer(t)
	doRequest(t, router, http.MethodPost, "/api/plans", SavePlanRequest{ID: "empty", Plan: json.RawMessage(`{}`)})

	rec := doRequest(t, router, http.MethodGet, "/api/plans/empty/periods/current/summary", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryText(t *testing.T) {
	h, router := setupTestServer(t)
	_, err := h.loadScenario(t.Context(), "tight-month")
	require.NoError(t, err)

	rec := doRequest(t, router, http.MethodGet, "/api/plans/tight-month/periods/current/summary.txt", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "At Risk")
}

// =============================================================================
// HOUSEKEEPING
// =============================================================================

func TestResetDatabase(t *testing.T) {
	_, router := setupTestServer(t)
	doRequest(t, router, http.MethodPost, "/api/plans", savePlanRequest(t, "home", 0))

	rec := doRequest(t, router, http.MethodPost, "/api/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/plans", nil)
	assert.Empty(t, decode[[]PlanSummaryDTO](t, rec))
}

func TestHealthz(t *testing.T) {
	_, router := setupTestServer(t)

	rec := doRequest(t, router, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
