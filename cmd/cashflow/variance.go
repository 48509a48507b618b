package main

import (
	"github.com/spf13/cobra"
	"github.com/warp/cashflow-engine/cashflow"
	"github.com/warp/cashflow-engine/report"
)

var varianceCmd = &cobra.Command{
	Use:   "variance",
	Short: "Budget vs actual by category",
	RunE:  runVariance,
}

func init() {
	rootCmd.AddCommand(varianceCmd)
}

func runVariance(cmd *cobra.Command, _ []string) error {
	plan, periodID, err := loadPlan(cmd)
	if err != nil {
		return err
	}
	rows := cashflow.OrderedVariance(cashflow.GetVarianceByCategory(*plan, periodID))
	total := cashflow.GetTotalVariance(*plan, periodID)
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), map[string]any{"categories": rows, "total": total})
	}
	return report.WriteVariance(cmd.OutOrStdout(), rows, total, report.Options{Currency: plan.Setup.Currency})
}
