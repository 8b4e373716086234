package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rowFrom builds a row from alternating column/value pairs, preserving
// the given order as header order.
func rowFrom(pairs ...string) *Row {
	row := NewRow()
	for i := 0; i+1 < len(pairs); i += 2 {
		row.Set(pairs[i], pairs[i+1])
	}
	return row
}

func trackingRow(sportsbook, deposit, method, betType, david, jenny string) *Row {
	return rowFrom(
		"Sportsbook", sportsbook,
		"DEPOSIT", deposit,
		"METHOD", method,
		"BET TYPE", betType,
		"David", david,
		"Jenny", jenny,
	)
}

func TestSubjectColumns(t *testing.T) {
	cfg := DefaultConfig()
	row := trackingRow("Fanduel", "$1000", "debit", "RFB", "verify", "done")

	// "Sportsbook" starts with the category keyword "sports" and the
	// metadata columns match by substring; only customers remain.
	assert.Equal(t, []string{"David", "Jenny"}, cfg.SubjectColumns(row))
}

func TestSubjectColumns_SkipsCategoryColumns(t *testing.T) {
	cfg := DefaultConfig()
	row := rowFrom("Casino", "", "Slots Bonus", "", "David", "verify")

	assert.Equal(t, []string{"David"}, cfg.SubjectColumns(row))
}

func TestPrimaryLabel(t *testing.T) {
	cfg := DefaultConfig()

	// First non-metadata-looking value in the leading columns wins.
	row := rowFrom("A", "$1000", "B", "debit", "C", "Fanduel", "David", "verify")
	assert.Equal(t, "Fanduel", cfg.PrimaryLabel(row))

	// Nothing usable: the row cannot be attributed.
	row = rowFrom("A", "$500", "B", "etransfer", "C", "rfb")
	assert.Equal(t, "", cfg.PrimaryLabel(row))
}

func TestAnalyze_GroupsBySubjectAndCategory(t *testing.T) {
	cfg := DefaultConfig()
	snapshot := Snapshot{
		trackingRow("Fanduel", "$1000", "debit", "RFB", "verify", "done"),
		trackingRow("Bet365", "$500", "etransfer", "LOWHOLD", "", "1k"),
		trackingRow("Caesars", "$2000", "debit", "RFB", "week 2", "complete"),
	}

	analysis := cfg.Analyze(snapshot)

	david := analysis.TasksFor("David")
	require.NotNil(t, david)
	assert.Equal(t, []Task{{PrimaryLabel: "Fanduel", Status: "verify"}}, david[CategoryVerification])
	assert.Equal(t, []Task{{PrimaryLabel: "Bet365", Status: ""}}, david[CategorySignup])
	assert.Equal(t, []Task{{PrimaryLabel: "Caesars", Status: "week 2"}}, david[CategoryProgress])

	jenny := analysis.TasksFor("Jenny")
	require.NotNil(t, jenny)
	assert.Equal(t, []Task{{PrimaryLabel: "Bet365", Status: "1k"}}, jenny[CategoryWager])
}

func TestAnalyze_TerminalCellsNeverClassified(t *testing.T) {
	cfg := DefaultConfig()
	snapshot := Snapshot{
		trackingRow("Fanduel", "$1000", "debit", "RFB", "done", "COMPLETE"),
	}

	analysis := cfg.Analyze(snapshot)

	// done/complete represent finished work: no category, not even signup.
	assert.Nil(t, analysis.TasksFor("David"))
	assert.Nil(t, analysis.TasksFor("Jenny"))
}

func TestAnalyze_SkipsCategoryHeaderRows(t *testing.T) {
	cfg := DefaultConfig()
	snapshot := Snapshot{
		trackingRow("CASINO:", "", "", "", "", ""),
		trackingRow("Fanduel", "$1000", "debit", "RFB", "verify", "done"),
	}

	analysis := cfg.Analyze(snapshot)

	david := analysis.TasksFor("David")
	require.NotNil(t, david)
	for _, tasks := range david {
		for _, task := range tasks {
			assert.NotEqual(t, "CASINO:", task.PrimaryLabel)
		}
	}
	assert.Equal(t, 1, len(david[CategoryVerification]))
}

func TestAnalyze_EmptySnapshot(t *testing.T) {
	cfg := DefaultConfig()

	analysis := cfg.Analyze(nil)
	assert.Equal(t, 0, analysis.Total())
	assert.Empty(t, analysis.Subjects)
}

func TestAnalyze_SubjectOrderFollowsSheet(t *testing.T) {
	cfg := DefaultConfig()
	snapshot := Snapshot{
		rowFrom("Sportsbook", "Fanduel", "Zed", "verify", "Amy", "ready"),
	}

	analysis := cfg.Analyze(snapshot)
	assert.Equal(t, []string{"Zed", "Amy"}, analysis.Subjects)
}

func TestAnalyze_Total(t *testing.T) {
	cfg := DefaultConfig()
	snapshot := Snapshot{
		trackingRow("Fanduel", "$1000", "debit", "RFB", "verify", "done"),
		trackingRow("Bet365", "$500", "etransfer", "LOWHOLD", "ready", "1k"),
	}

	analysis := cfg.Analyze(snapshot)
	// David: verify + ready; Jenny: 1k (her Fanduel cell is terminal).
	assert.Equal(t, 3, analysis.Total())
}
