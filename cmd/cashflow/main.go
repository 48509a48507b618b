// Command cashflow evaluates a plan document from the terminal.
//
//	cashflow summary --plan plan.json --period 2025-01
//	cashflow timeline --plan plan.json --actuals
//	cashflow variance --plan plan.json --json
package main

func main() {
	Execute()
}
