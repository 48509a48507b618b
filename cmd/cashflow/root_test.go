package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliPlan = `{
  "setup": {"selectedPeriodId": "jan", "startingBalance": 1000, "currency": "USD"},
  "periods": [{"id": "jan", "label": "January", "start": "2025-01-01", "end": "2025-01-31"}],
  "incomeRules": [{"id": "pay", "label": "Salary", "amount": 2000, "cadence": "monthly", "seedDate": "2025-01-01"}],
  "bills": [{"id": "rent", "label": "Rent", "amount": 1500, "dueDay": 5}]
}`

// run executes the root command with fresh flag values and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	flagPlan, flagPeriod = "plan.json", ""
	flagJSON, flagQuiet, flagVerbose = false, true, false
	flagWithTimeline, flagWithEvents, flagActuals = false, false, false

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	_, err := rootCmd.ExecuteC()
	return out.String(), err
}

func writePlanFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(cliPlan), 0o600))
	return path
}

func TestEvents_JSONFromStdin(t *testing.T) {
	out, err := run(t, cliPlan, "events", "--json", "-q", "-f", "-")
	require.NoError(t, err)

	var events []struct {
		Date     string `json:"date"`
		Amount   string `json:"amount"`
		SourceID string `json:"sourceId"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	require.Len(t, events, 2)
	assert.Equal(t, "2025-01-01", events[0].Date)
	assert.Equal(t, "pay", events[0].SourceID)
	assert.Equal(t, "2025-01-05", events[1].Date)
	assert.Equal(t, "rent", events[1].SourceID)
}

func TestTimeline_JSONFromFile(t *testing.T) {
	path := writePlanFile(t)

	out, err := run(t, "", "timeline", "--json", "-q", "-f", path)
	require.NoError(t, err)

	var rows []struct {
		Date    string `json:"date"`
		Balance string `json:"balance"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 31)
	assert.Equal(t, "3000", rows[0].Balance)
	assert.Equal(t, "1500", rows[30].Balance)
}

func TestSummary_IsDefaultCommand(t *testing.T) {
	path := writePlanFile(t)

	out, err := run(t, "", "-q", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Period: January (2025-01-01 to 2025-01-31)")
	assert.Contains(t, out, "Health:")
}

func TestLoadPlan_MissingFile(t *testing.T) {
	_, err := run(t, "", "summary", "-q", "-f", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read plan")
}

func TestLoadPlan_NoPeriods(t *testing.T) {
	_, err := run(t, `{"setup": {"startingBalance": 10}}`, "variance", "-q", "-f", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no periods")
}
