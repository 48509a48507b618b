package main

import (
	"github.com/spf13/cobra"
	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/report"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Planned events of a period",
	RunE:  runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, _ []string) error {
	plan, periodID, err := loadPlan(cmd)
	if err != nil {
		return err
	}
	events := cashflow.GenerateEvents(*plan, periodID)
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), events)
	}
	return report.WriteEvents(cmd.OutOrStdout(), events, report.Options{Currency: plan.Setup.Currency})
}
