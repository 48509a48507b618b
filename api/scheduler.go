/*
scheduler.go - Automated period rollover scheduler

PURPOSE:
  A plan's setup.selectedPeriodId is the period the dashboard opens on.
  Once the calendar moves past the end of that period, the scheduler
  appends a new plan revision selecting the period that contains today.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Only rolls forward: a plan whose selected period has not ended yet
    is left alone, even if another period also contains today
  - Plans with no period containing today are skipped
  - Writes go through savePlan with an expected version, so a plan edited
    concurrently is skipped this round and retried on the next tick
  - The engine never mutates a plan; rollover is a new revision

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour, 0 disables)

USAGE:
  scheduler := NewRolloverScheduler(handler, time.Hour)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: savePlan
  - cashflow/period.go: GetPeriodForDate
*/
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/generic"
)

// RolloverResult reports one rollover pass.
type RolloverResult struct {
	AsOf     string   `json:"as_of"`
	Checked  int      `json:"checked"`
	Advanced []string `json:"advanced"`
	Failed   []string `json:"failed,omitempty"`
}

// RolloverScheduler periodically moves stored plans on to the current period.
type RolloverScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration

	log    zerolog.Logger
	now    func() time.Time
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRolloverScheduler creates a new scheduler.
func NewRolloverScheduler(handler *Handler, interval time.Duration) *RolloverScheduler {
	return &RolloverScheduler{
		Handler:       handler,
		CheckInterval: interval,
		log:           handler.log.With().Str("component", "rollover").Logger(),
		now:           time.Now,
	}
}

// Start begins the scheduler. A non-positive interval leaves it disabled.
func (rs *RolloverScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.CheckInterval <= 0 {
		rs.log.Info().Msg("Rollover scheduler disabled, not starting")
		return
	}
	if rs.ticker != nil {
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)

	go rs.run()

	rs.log.Info().Dur("interval", rs.CheckInterval).Msg("Rollover scheduler started")
}

// Stop stops the scheduler and waits for an in-flight pass to finish.
func (rs *RolloverScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		rs.log.Info().Msg("Rollover scheduler stopped")
	}
}

func (rs *RolloverScheduler) run() {
	defer rs.wg.Done()

	// Run immediately on start
	rs.RunNow(context.Background())

	for {
		select {
		case <-rs.ticker.C:
			rs.RunNow(context.Background())
		case <-rs.stop:
			return
		}
	}
}

// RunNow performs one rollover pass as of the scheduler's clock.
func (rs *RolloverScheduler) RunNow(ctx context.Context) RolloverResult {
	result := rs.Handler.rolloverPlans(ctx, generic.FromTime(rs.now()))
	if len(result.Advanced) > 0 || len(result.Failed) > 0 {
		rs.log.Info().
			Int("checked", result.Checked).
			Strs("advanced", result.Advanced).
			Strs("failed", result.Failed).
			Msg("Rollover pass completed")
	}
	return result
}

// RunRollover triggers a rollover pass (admin/testing). ?date=YYYY-MM-DD
// overrides today.
func (h *Handler) RunRollover(w http.ResponseWriter, r *http.Request) {
	today := generic.Today()
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := generic.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
			return
		}
		today = d
	}
	writeJSON(w, http.StatusOK, h.rolloverPlans(r.Context(), today))
}

func (h *Handler) rolloverPlans(ctx context.Context, today generic.TimePoint) RolloverResult {
	result := RolloverResult{AsOf: today.String(), Advanced: []string{}}

	docs, err := h.Store.List(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("rollover: failed to list plans")
		return result
	}

	for _, doc := range docs {
		result.Checked++
		advanced, err := h.rolloverPlan(ctx, doc, today)
		if err != nil {
			h.log.Warn().Err(err).Str("plan_id", string(doc.ID)).Msg("rollover: skipped plan")
			result.Failed = append(result.Failed, string(doc.ID))
			continue
		}
		if advanced {
			result.Advanced = append(result.Advanced, string(doc.ID))
		}
	}
	return result
}

// rolloverPlan appends a revision selecting today's period when the selected
// period has ended. It reports whether a revision was written.
func (h *Handler) rolloverPlan(ctx context.Context, doc generic.Document, today generic.TimePoint) (bool, error) {
	plan, _, err := h.PlanFactory.ParsePlan(doc.Body)
	if err != nil {
		return false, err
	}
	if len(plan.Periods) == 0 {
		return false, nil
	}

	selected := cashflow.GetPeriod(*plan, plan.Setup.SelectedPeriodID)
	if !today.After(selected.End) {
		return false, nil
	}
	next, ok := cashflow.GetPeriodForDate(*plan, today)
	if !ok || next == selected.ID {
		return false, nil
	}

	plan.Setup.SelectedPeriodID = next
	plan.Setup.AsOfDate = today
	body, err := h.PlanFactory.EncodePlan(plan)
	if err != nil {
		return false, err
	}

	_, _, _, err = h.savePlan(ctx, SavePlanRequest{
		ID:              string(doc.ID),
		Name:            doc.Name,
		ExpectedVersion: int(doc.Version) + 1,
		Plan:            body,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
