package recon

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/ledgerclose/record"
)

func txn(date, reference, description, amount string) record.Transaction {
	t := record.Transaction{
		Reference:   reference,
		Description: description,
		Amount:      decimal.RequireFromString(amount),
	}
	if date != "" {
		t.Date = record.MustDate(date)
	}
	return t
}

// An identical transaction on both sides matches once with High confidence.
func TestReconcile_IdenticalTransaction(t *testing.T) {
	gl := []record.Transaction{txn("2024-12-01", "REF001", "Invoice payment", "15000.00")}
	bank := []record.Transaction{txn("2024-12-01", "REF001", "Invoice payment", "15000.00")}

	result := Reconcile(gl, bank)

	assert.Equal(t, len(result.Matched), 1)
	assert.Equal(t, result.Matched[0].Confidence, ConfidenceHigh)
	assert.Equal(t, len(result.UnmatchedGL), 0)
	assert.Equal(t, len(result.UnmatchedBank), 0)
	assert.Equal(t, len(result.Discrepancies), 0)
}

// Same date but an amount gap beyond tolerance is a discrepancy, never a
// silent match.
func TestReconcile_AmountMismatchFlagged(t *testing.T) {
	gl := []record.Transaction{txn("2024-12-05", "", "Supplier invoice", "1000.00")}
	bank := []record.Transaction{txn("2024-12-05", "", "Card payment", "950.00")}

	result := Reconcile(gl, bank)

	assert.Equal(t, len(result.Matched), 0)
	assert.Equal(t, len(result.Discrepancies), 1)
	assert.Equal(t, result.Discrepancies[0].Difference.StringFixed(2), "50.00")
	assert.Equal(t, result.Discrepancies[0].Kind, "Amount Mismatch")
	assert.Equal(t, len(result.UnmatchedGL), 1)
	assert.Equal(t, len(result.UnmatchedBank), 1)
}

// Amount plus date but no reference overlap grades Medium.
func TestReconcile_MediumConfidence(t *testing.T) {
	gl := []record.Transaction{txn("2024-12-01", "GL-1", "Payroll run", "5200.00")}
	bank := []record.Transaction{txn("2024-12-01", "BK-9", "Faster payment out", "5200.00")}

	result := Reconcile(gl, bank)

	assert.Equal(t, len(result.Matched), 1)
	assert.Equal(t, result.Matched[0].Confidence, ConfidenceMedium)
}

// Reference/description overlap allows a match across differing dates.
func TestReconcile_ReferenceMatchAcrossDates(t *testing.T) {
	gl := []record.Transaction{txn("2024-12-01", "", "ACME Consulting", "1200.00")}
	bank := []record.Transaction{txn("2024-12-03", "", "acme consulting ltd payment", "1200.00")}

	result := Reconcile(gl, bank)

	assert.Equal(t, len(result.Matched), 1)
	assert.Equal(t, result.Matched[0].Confidence, ConfidenceMedium)
}

// No transaction participates in more than one matched pair, and both sides
// partition into matched + unmatched.
func TestReconcile_MatchingExclusivity(t *testing.T) {
	gl := []record.Transaction{
		txn("2024-12-01", "A", "Duplicate amount", "100.00"),
		txn("2024-12-01", "B", "Duplicate amount", "100.00"),
		txn("2024-12-01", "C", "Third one", "100.00"),
	}
	bank := []record.Transaction{
		txn("2024-12-01", "A", "Duplicate amount", "100.00"),
		txn("2024-12-01", "B", "Duplicate amount", "100.00"),
	}

	result := Reconcile(gl, bank)

	assert.Equal(t, len(result.Matched), 2)
	assert.Equal(t, len(result.Matched)+len(result.UnmatchedGL), len(gl))
	assert.Equal(t, len(result.Matched)+len(result.UnmatchedBank), len(bank))

	seen := map[string]bool{}
	for _, m := range result.Matched {
		assert.False(t, seen[m.Bank.Reference], "bank transaction matched twice")
		seen[m.Bank.Reference] = true
	}
}

// GL order determines match priority: the first GL transaction takes the
// first acceptable bank candidate.
func TestReconcile_GreedyFirstMatchWins(t *testing.T) {
	gl := []record.Transaction{
		txn("2024-12-01", "", "rent", "800.00"),
		txn("2024-12-01", "", "rent payment december", "800.00"),
	}
	bank := []record.Transaction{
		txn("2024-12-01", "", "rent payment december", "800.00"),
	}

	result := Reconcile(gl, bank)

	assert.Equal(t, len(result.Matched), 1)
	assert.Equal(t, result.Matched[0].GL.Description, "rent")
	assert.Equal(t, len(result.UnmatchedGL), 1)
	assert.Equal(t, result.UnmatchedGL[0].Description, "rent payment december")
}

// Bank transactions consumed by a clean match do not reappear as
// discrepancy partners.
func TestReconcile_ConsumedBankNotADiscrepancyPartner(t *testing.T) {
	gl := []record.Transaction{
		txn("2024-12-01", "REF001", "Invoice", "500.00"),
		txn("2024-12-02", "", "Close but different", "510.00"),
	}
	bank := []record.Transaction{
		txn("2024-12-01", "REF001", "Invoice", "500.00"),
	}

	result := Reconcile(gl, bank)

	assert.Equal(t, len(result.Matched), 1)
	assert.Equal(t, len(result.Discrepancies), 0)
	assert.Equal(t, len(result.UnmatchedGL), 1)
}

// Zero-amount GL transactions never raise discrepancies.
func TestReconcile_ZeroAmountNoDiscrepancy(t *testing.T) {
	gl := []record.Transaction{txn("2024-12-01", "", "Memo entry", "0")}
	bank := []record.Transaction{txn("2024-12-02", "", "Unrelated", "50.00")}

	result := Reconcile(gl, bank)

	assert.Equal(t, len(result.Discrepancies), 0)
}

func TestSummary_Percentage(t *testing.T) {
	gl := []record.Transaction{
		txn("2024-12-01", "A", "one", "100.00"),
		txn("2024-12-01", "B", "two", "777.00"),
	}
	bank := []record.Transaction{
		txn("2024-12-01", "A", "one", "100.00"),
	}

	summary := Reconcile(gl, bank).Summary()

	assert.Equal(t, summary.TotalGLTransactions, 2)
	assert.Equal(t, summary.MatchedTransactions, 1)
	assert.Equal(t, summary.ReconciliationPercentage.StringFixed(2), "50.00")
	assert.Equal(t, summary.TotalGLAmount.StringFixed(2), "877.00")
	assert.Equal(t, summary.TotalBankAmount.StringFixed(2), "100.00")
	assert.Equal(t, summary.MatchedAmount.StringFixed(2), "100.00")
}

// No GL transactions means 0%, not a division by zero.
func TestSummary_EmptyGL(t *testing.T) {
	summary := Reconcile(nil, []record.Transaction{txn("2024-12-01", "", "stray", "10.00")}).Summary()

	assert.Equal(t, summary.TotalGLTransactions, 0)
	assert.True(t, summary.ReconciliationPercentage.IsZero())
	assert.Equal(t, summary.UnmatchedBankTransaction, 1)
}

// Percentage stays within [0, 100] however lopsided the inputs.
func TestSummary_PercentageBounds(t *testing.T) {
	gl := []record.Transaction{txn("2024-12-01", "A", "match", "10.00")}
	bank := []record.Transaction{
		txn("2024-12-01", "A", "match", "10.00"),
		txn("2024-12-01", "B", "extra", "20.00"),
	}

	summary := Reconcile(gl, bank).Summary()

	hundred := decimal.NewFromInt(100)
	assert.True(t, summary.ReconciliationPercentage.GreaterThanOrEqual(decimal.Zero))
	assert.True(t, summary.ReconciliationPercentage.LessThanOrEqual(hundred))
	assert.Equal(t, summary.ReconciliationPercentage.StringFixed(2), "100.00")
}
