package main

import (
	"github.com/spf13/cobra"
	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/report"
)

var flagActuals bool

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Day-by-day balance of a period",
	RunE:  runTimeline,
}

func init() {
	timelineCmd.Flags().BoolVar(&flagActuals, "actuals", false, "Use recorded transactions instead of planned events")
	rootCmd.AddCommand(timelineCmd)
}

func runTimeline(cmd *cobra.Command, _ []string) error {
	plan, periodID, err := loadPlan(cmd)
	if err != nil {
		return err
	}

	var rows []cashflow.TimelineRow
	if flagActuals {
		rows = cashflow.BuildActualsTimeline(*plan, periodID, cashflow.GetActualsStartingBalance(*plan, periodID))
	} else {
		rows = cashflow.BuildTimeline(*plan, periodID, cashflow.GetStartingBalance(*plan, periodID))
	}
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), rows)
	}
	return report.WriteTimeline(cmd.OutOrStdout(), rows, report.Options{Currency: plan.Setup.Currency})
}
