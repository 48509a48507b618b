package main

import (
	"github.com/spf13/cobra"
	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/report"
)

var (
	flagWithTimeline bool
	flagWithEvents   bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Dashboard summary of a period",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().BoolVar(&flagWithTimeline, "with-timeline", false, "Append the daily balance table")
	summaryCmd.Flags().BoolVar(&flagWithEvents, "with-events", false, "Append the planned events")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	plan, periodID, err := loadPlan(cmd)
	if err != nil {
		return err
	}
	view := cashflow.DeriveApp(*plan, periodID)
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), view)
	}

	opts := report.Options{Currency: plan.Setup.Currency, Timeline: flagWithTimeline}
	if flagWithEvents {
		opts.Events = cashflow.GenerateEvents(*plan, periodID)
	}
	return report.WriteSummary(cmd.OutOrStdout(), view, opts)
}
