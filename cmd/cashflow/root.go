package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/factory"
)

var (
	flagPlan    string
	flagPeriod  string
	flagJSON    bool
	flagQuiet   bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "cashflow",
	Short:         "Cashflow plan evaluator",
	Long:          "Project balances, reconcile actuals and classify the health of a budgeting plan.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagPlan, "plan", "f", "plan.json", "Plan document (JSON); - reads stdin")
	rootCmd.PersistentFlags().StringVarP(&flagPeriod, "period", "p", "", "Period id (default: setup.selectedPeriodId)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Write JSON instead of text")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress plan warnings")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
}

// newLogger writes human-readable diagnostics to stderr.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case flagQuiet:
		level = zerolog.ErrorLevel
	case flagVerbose:
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// loadPlan is the shared loading path used by all commands.
func loadPlan(cmd *cobra.Command) (*cashflow.Plan, string, error) {
	logger := newLogger()

	var (
		data []byte
		err  error
	)
	if flagPlan == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(flagPlan)
	}
	if err != nil {
		return nil, "", fmt.Errorf("read plan: %w", err)
	}

	plan, warnings, err := factory.NewPlanFactory().ParsePlan(data)
	if err != nil {
		return nil, "", err
	}
	for _, w := range warnings {
		logger.Warn().Str("plan", flagPlan).Msg(w)
	}
	if len(plan.Periods) == 0 {
		return nil, "", fmt.Errorf("plan %s has no periods", flagPlan)
	}

	requested := flagPeriod
	if requested == "" {
		requested = plan.Setup.SelectedPeriodID
	}
	periodID := cashflow.GetPeriod(*plan, requested).ID
	if requested != "" && requested != periodID {
		logger.Warn().Str("requested", requested).Str("using", periodID).Msg("unknown period, using first period")
	}
	logger.Debug().Int("periods", len(plan.Periods)).Int("transactions", len(plan.Transactions)).Msg("plan loaded")
	return plan, periodID, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
