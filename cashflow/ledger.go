package cashflow

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/cashflow-engine/generic"
)

// =============================================================================
// LEDGER - Read-only queries over the actual transactions
// =============================================================================

// TransactionsInRange returns the transactions dated inside r, in date order.
// Same-day transactions keep their ledger order.
func TransactionsInRange(plan Plan, r generic.Period) []Transaction {
	var txs []Transaction
	for _, tx := range plan.Transactions {
		if r.Contains(tx.Date) {
			txs = append(txs, tx)
		}
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })
	return txs
}

// PeriodTransactions returns the transactions of the resolved period.
func PeriodTransactions(plan Plan, periodID string) []Transaction {
	if len(plan.Periods) == 0 {
		return nil
	}
	return TransactionsInRange(plan, GetPeriod(plan, periodID).Range())
}

// NetOfTransactions is income minus outflows minus transfers. A transfer is
// counted once, as money leaving the tracked balance.
func NetOfTransactions(txs []Transaction) decimal.Decimal {
	net := decimal.Zero
	for _, tx := range txs {
		net = net.Add(tx.Type.Signed(tx.Amount))
	}
	return net
}

// NetOfEvents is planned income minus planned outflows and transfers.
func NetOfEvents(events []CashflowEvent) decimal.Decimal {
	net := decimal.Zero
	for _, e := range events {
		net = net.Add(e.Signed())
	}
	return net
}

// HasTransactionsBefore reports whether any transaction is dated strictly
// before the given day.
func HasTransactionsBefore(plan Plan, day generic.TimePoint) bool {
	for _, tx := range plan.Transactions {
		if tx.Date.Before(day) {
			return true
		}
	}
	return false
}
