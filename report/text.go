// Package report renders a cashflow.DerivedView as plain text, for terminals
// and for assistants that read the dashboard as a prompt.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/warp/cashflow-engine/cashflow"
)

// Options controls what the text report includes.
type Options struct {
	Currency string // prefix for amounts, e.g. "USD"
	Timeline bool   // include the day-by-day table
	Events   []cashflow.CashflowEvent
}

// WriteSummary writes the dashboard summary of a derived view.
func WriteSummary(w io.Writer, view cashflow.DerivedView, opts Options) error {
	m := money(opts.Currency)
	b := &strings.Builder{}

	fmt.Fprintf(b, "Period: %s (%s to %s)\n", view.Period.Label, view.Period.Start, view.Period.End)
	fmt.Fprintf(b, "Starting balance: %s\n", m(view.StartingBalance))
	fmt.Fprintf(b, "Health: %s (%s)\n", view.Health.Label, view.Health.Reason)
	fmt.Fprintf(b, "Lowest balance: %s on %s, %d day(s) below minimum\n",
		m(view.Cashflow.Lowest.Balance), view.Cashflow.Lowest.Date, view.Cashflow.DaysBelowMin)
	b.WriteString("\n")

	fmt.Fprintf(b, "Income expected:   %s\n", m(view.Totals.IncomeExpected))
	fmt.Fprintf(b, "Committed bills:   %s\n", m(view.Totals.CommittedBills))
	fmt.Fprintf(b, "Allocations:       %s\n", m(view.Totals.AllocationsTotal))
	if !view.Totals.ManualOutflows.IsZero() {
		fmt.Fprintf(b, "Manual outflows:   %s\n", m(view.Totals.ManualOutflows))
	}
	fmt.Fprintf(b, "Remaining:         %s\n", m(view.Totals.Remaining))
	fmt.Fprintf(b, "Ending balance:    %s\n", m(view.Summary.EndingBalance))
	b.WriteString("\n")

	fmt.Fprintf(b, "Income stability: %s (%s)\n", view.IncomeStability.Label, view.IncomeStability.Explanation)
	fmt.Fprintf(b, "Savings: %s\n", view.Savings.Message)
	fmt.Fprintf(b, "Savings rate: %s%%, spent: %s%%\n",
		view.Summary.SavingsRate.StringFixed(1), view.Summary.SpentPercent.StringFixed(1))
	if view.Summary.OverVariableCap {
		fmt.Fprintf(b, "Variable spending %s is over the %s cap\n",
			m(view.Summary.VariableSpend), m(view.Summary.VariableCap))
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	if len(view.Variance) > 0 {
		if _, err := io.WriteString(w, "\nBudget vs actual:\n"); err != nil {
			return err
		}
		if err := WriteVariance(w, view.Variance, view.TotalVariance, opts); err != nil {
			return err
		}
	}
	if len(opts.Events) > 0 {
		if _, err := io.WriteString(w, "\nPlanned events:\n"); err != nil {
			return err
		}
		if err := WriteEvents(w, opts.Events, opts); err != nil {
			return err
		}
	}
	if opts.Timeline {
		if _, err := io.WriteString(w, "\nTimeline:\n"); err != nil {
			return err
		}
		return WriteTimeline(w, view.Cashflow.Timeline, opts)
	}
	return nil
}

// WriteVariance writes one row per category followed by the total.
func WriteVariance(w io.Writer, rows []cashflow.VarianceSummary, total cashflow.TotalVariance, opts Options) error {
	m := money(opts.Currency)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CATEGORY\tBUDGETED\tACTUAL\tVARIANCE\tPCT\tSTATUS\t")
	for _, v := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s%%\t%s\t\n",
			v.Category, m(v.Budgeted), m(v.Actual), m(v.Variance), v.VariancePercent.StringFixed(1), v.Status)
	}
	fmt.Fprintf(tw, "total\t%s\t%s\t%s\t\t\t\n", m(total.Budgeted), m(total.Actual), m(total.Variance))
	return tw.Flush()
}

// WriteEvents writes the planned events in date order.
func WriteEvents(w io.Writer, events []cashflow.CashflowEvent, opts Options) error {
	m := money(opts.Currency)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tCATEGORY\tAMOUNT\tLABEL")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Date, e.Type, e.Category, m(e.Signed()), e.Label)
	}
	return tw.Flush()
}

// WriteTimeline writes the daily balance curve; warning days are starred.
func WriteTimeline(w io.Writer, rows []cashflow.TimelineRow, opts Options) error {
	m := money(opts.Currency)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "DATE\tINCOME\tOUTFLOW\tNET\tBALANCE\t\t")
	for _, r := range rows {
		flag := ""
		if r.Warning {
			flag = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Date, m(r.Income), m(r.Outflow), m(r.Net), m(r.Balance), flag)
	}
	return tw.Flush()
}

func money(currency string) func(decimal.Decimal) string {
	if currency == "" {
		return func(d decimal.Decimal) string { return d.StringFixed(2) }
	}
	return func(d decimal.Decimal) string { return currency + " " + d.StringFixed(2) }
}
