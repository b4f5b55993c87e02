package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/ledgerclose/recon"
	"github.com/robinvdvleuten/ledgerclose/record"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	assert.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	assert.NoError(t, err)
	return rows
}

func TestWriteReconciliation(t *testing.T) {
	dir := t.TempDir()

	gl := []record.Transaction{
		{Date: record.MustDate("2024-12-01"), Description: "Office supplies", Amount: decimal.RequireFromString("250.00"), Reference: "INV-100"},
		{Date: record.MustDate("2024-12-05"), Description: "Consulting fee", Amount: decimal.RequireFromString("1200.00"), Reference: "INV-101"},
	}
	bank := []record.Transaction{
		{Date: record.MustDate("2024-12-01"), Description: "Office supplies", Amount: decimal.RequireFromString("250.00"), Reference: "INV-100"},
	}

	result := recon.Reconcile(gl, bank)
	assert.NoError(t, WriteReconciliation(dir, "gl_bank", result))

	matched := readCSV(t, filepath.Join(dir, "gl_bank_matched.csv"))
	assert.Equal(t, len(matched), 2)
	assert.Equal(t, matched[1][1], "INV-100")
	assert.Equal(t, matched[1][3], "250.00")
	assert.Equal(t, matched[1][8], "High")

	unmatchedGL := readCSV(t, filepath.Join(dir, "gl_bank_unmatched_gl.csv"))
	assert.Equal(t, len(unmatchedGL), 2)
	assert.Equal(t, unmatchedGL[1][1], "INV-101")

	// Empty tables still get their header row.
	unmatchedBank := readCSV(t, filepath.Join(dir, "gl_bank_unmatched_bank.csv"))
	assert.Equal(t, len(unmatchedBank), 1)
	discrepancies := readCSV(t, filepath.Join(dir, "gl_bank_discrepancies.csv"))
	assert.Equal(t, len(discrepancies), 1)

	data, err := os.ReadFile(filepath.Join(dir, "gl_bank_summary.json"))
	assert.NoError(t, err)
	var summary map[string]any
	assert.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal[any](t, summary["total_gl_transactions"], float64(2))
	assert.Equal[any](t, summary["matched_transactions"], float64(1))
}

func TestWriteJournalEntries(t *testing.T) {
	dir := t.TempDir()

	entry, err := record.NewJournalEntry(record.MustDate("2024-12-31"), "Monthly Interest Accrual", []record.JournalLine{
		{Account: "7200", AccountType: "Expense", Debit: decimal.RequireFromString("416.67")},
		{Account: "2300", AccountType: "Liability", Credit: decimal.RequireFromString("416.67")},
	})
	assert.NoError(t, err)

	assert.NoError(t, WriteJournalEntries(dir, []*record.JournalEntry{entry}))

	rows := readCSV(t, filepath.Join(dir, "journal_entries.csv"))
	assert.Equal(t, len(rows), 3)
	assert.Equal(t, rows[1], []string{"2024-12-31", "Monthly Interest Accrual", "7200", "Expense", "416.67", "0.00"})
	assert.Equal(t, rows[2], []string{"2024-12-31", "Monthly Interest Accrual", "2300", "Liability", "0.00", "416.67"})

	data, err := os.ReadFile(filepath.Join(dir, "journal_entries.json"))
	assert.NoError(t, err)
	var entries []map[string]any
	assert.NoError(t, json.Unmarshal(data, &entries))
	assert.Equal(t, len(entries), 1)
	assert.Equal(t, entries[0]["description"], "Monthly Interest Accrual")
}

func TestWriteJSON_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "doc.json")

	assert.NoError(t, WriteJSON(path, map[string]string{"status": "ok"}))

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n"))
}

func TestTableRender(t *testing.T) {
	table := NewTable("Account", "Amount")
	table.AddRow("1000", "42000.00")
	table.AddRow("7200")

	var buf strings.Builder
	table.Render(&buf)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, len(lines), 4)
	assert.Equal(t, lines[0], "Account  Amount")
	assert.Equal(t, lines[1], "-------  --------")
	assert.Equal(t, lines[2], "1000     42000.00")
	assert.Equal(t, lines[3], "7200")
	assert.Equal(t, table.Len(), 2)
}
