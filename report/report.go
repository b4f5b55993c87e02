// Package report writes the artifacts of a pipeline run: CSV tables for
// matched, unmatched, and discrepant transactions and journal lines, and
// structured JSON documents for summaries, statements, and the aggregate
// close result.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/robinvdvleuten/ledgerclose/pipeline"
	"github.com/robinvdvleuten/ledgerclose/recon"
	"github.com/robinvdvleuten/ledgerclose/record"
)

// WriteJSON writes any document as indented JSON, creating parent
// directories as needed.
func WriteJSON(path string, doc any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// WriteReconciliation writes the reconciliation artifacts under dir with the
// given prefix: matched, unmatched_gl, unmatched_bank, discrepancies CSVs
// plus a JSON summary. Empty tables are still written so reviewers see the
// headers rather than a missing file.
func WriteReconciliation(dir, prefix string, result *recon.Result) error {
	matched := make([][]string, 0, len(result.Matched))
	for _, m := range result.Matched {
		matched = append(matched, []string{
			m.GL.Date.String(), m.GL.Reference, m.GL.Description, m.GL.Amount.StringFixed(2),
			m.Bank.Date.String(), m.Bank.Reference, m.Bank.Description, m.Bank.Amount.StringFixed(2),
			string(m.Confidence),
		})
	}
	if err := writeCSV(filepath.Join(dir, prefix+"_matched.csv"),
		[]string{"gl_date", "gl_reference", "gl_description", "gl_amount", "bank_date", "bank_reference", "bank_description", "bank_amount", "confidence"},
		matched); err != nil {
		return err
	}

	if err := writeTransactions(filepath.Join(dir, prefix+"_unmatched_gl.csv"), result.UnmatchedGL); err != nil {
		return err
	}
	if err := writeTransactions(filepath.Join(dir, prefix+"_unmatched_bank.csv"), result.UnmatchedBank); err != nil {
		return err
	}

	discrepancies := make([][]string, 0, len(result.Discrepancies))
	for _, d := range result.Discrepancies {
		discrepancies = append(discrepancies, []string{
			d.GL.Reference, d.GL.Description, d.GL.Amount.StringFixed(2),
			d.Bank.Reference, d.Bank.Description, d.Bank.Amount.StringFixed(2),
			d.Difference.StringFixed(2), d.Kind,
		})
	}
	if err := writeCSV(filepath.Join(dir, prefix+"_discrepancies.csv"),
		[]string{"gl_reference", "gl_description", "gl_amount", "bank_reference", "bank_description", "bank_amount", "difference", "type"},
		discrepancies); err != nil {
		return err
	}

	return WriteJSON(filepath.Join(dir, prefix+"_summary.json"), result.Summary())
}

func writeTransactions(path string, txns []record.Transaction) error {
	rows := make([][]string, 0, len(txns))
	for _, txn := range txns {
		rows = append(rows, []string{txn.Date.String(), txn.Reference, txn.Description, txn.Amount.StringFixed(2)})
	}
	return writeCSV(path, []string{"date", "reference", "description", "amount"}, rows)
}

// WriteJournalEntries writes the structured journal-entries document and its
// flat CSV companion (one row per debit/credit line).
func WriteJournalEntries(dir string, entries []*record.JournalEntry) error {
	if err := WriteJSON(filepath.Join(dir, "journal_entries.json"), entries); err != nil {
		return err
	}

	var rows [][]string
	for _, entry := range entries {
		for _, line := range entry.Lines {
			rows = append(rows, []string{
				entry.Date.String(), entry.Description,
				line.Account, line.AccountType,
				line.Debit.StringFixed(2), line.Credit.StringFixed(2),
			})
		}
	}
	return writeCSV(filepath.Join(dir, "journal_entries.csv"),
		[]string{"date", "description", "account", "account_type", "debit", "credit"}, rows)
}

// WriteCloseResult writes the aggregate run-result document.
func WriteCloseResult(dir string, result *pipeline.Result) error {
	return WriteJSON(filepath.Join(dir, "month_end_close_results.json"), result)
}
