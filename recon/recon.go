// Package recon matches general-ledger transactions against bank-statement
// transactions and gates which unmatched items may auto-reconcile.
//
// Matching is intentionally greedy: GL transactions are processed in input
// order, each takes the first acceptable candidate from the remaining bank
// pool, and there is no backtracking. Real bank/GL reconciliation rarely has
// adversarial ambiguity, and a human reviews unmatched and discrepant items
// regardless, so the cost of optimal bipartite matching buys nothing here.
package recon

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/ledgerclose/record"
)

// DefaultTolerance is the acceptable amount difference for a clean match.
var DefaultTolerance = decimal.NewFromFloat(0.01)

// discrepancyWindow bounds the amount gap within which a failed match is
// still worth flagging as a potential discrepancy.
var discrepancyWindow = decimal.NewFromInt(100)

// Confidence grades how strongly a matched pair agrees.
type Confidence string

const (
	// ConfidenceHigh means both the date and the reference/description
	// criteria held.
	ConfidenceHigh Confidence = "High"
	// ConfidenceMedium means the amounts agreed but only one of the two
	// secondary criteria held.
	ConfidenceMedium Confidence = "Medium"
)

// Match pairs one GL transaction with one bank transaction.
type Match struct {
	GL         record.Transaction
	Bank       record.Transaction
	Confidence Confidence
}

// Discrepancy flags a GL transaction whose amount is close to a bank
// transaction's but differs by more than the match tolerance.
type Discrepancy struct {
	GL         record.Transaction
	Bank       record.Transaction
	Difference decimal.Decimal
	Kind       string
}

// Result is the read-only outcome of one reconciliation run.
type Result struct {
	Matched       []Match
	UnmatchedGL   []record.Transaction
	UnmatchedBank []record.Transaction
	Discrepancies []Discrepancy

	tolerance decimal.Decimal
	glTotal   int
	bankTotal int
}

// Summary reports the counts and totals of a reconciliation run.
type Summary struct {
	TotalGLTransactions      int             `json:"total_gl_transactions"`
	TotalBankTransactions    int             `json:"total_bank_transactions"`
	MatchedTransactions      int             `json:"matched_transactions"`
	UnmatchedGLTransactions  int             `json:"unmatched_gl_transactions"`
	UnmatchedBankTransaction int             `json:"unmatched_bank_transactions"`
	DiscrepanciesFound       int             `json:"discrepancies_found"`
	TotalGLAmount            decimal.Decimal `json:"total_gl_amount"`
	TotalBankAmount          decimal.Decimal `json:"total_bank_amount"`
	MatchedAmount            decimal.Decimal `json:"matched_amount"`
	ReconciliationPercentage decimal.Decimal `json:"reconciliation_percentage"`
}

// pool tracks which transactions of a slice are still available for
// matching. Consuming an index removes it from every later scan, which is
// what enforces the at-most-one-match invariant.
type pool struct {
	txns     []record.Transaction
	consumed []bool
	left     int
}

func newPool(txns []record.Transaction) *pool {
	return &pool{
		txns:     txns,
		consumed: make([]bool, len(txns)),
		left:     len(txns),
	}
}

func (p *pool) consume(i int) {
	if !p.consumed[i] {
		p.consumed[i] = true
		p.left--
	}
}

// remaining returns the unconsumed transactions in original order.
func (p *pool) remaining() []record.Transaction {
	out := make([]record.Transaction, 0, p.left)
	for i, txn := range p.txns {
		if !p.consumed[i] {
			out = append(out, txn)
		}
	}
	return out
}

// Reconcile matches GL transactions against bank transactions using the
// default tolerance.
func Reconcile(gl, bank []record.Transaction) *Result {
	return ReconcileWithTolerance(gl, bank, DefaultTolerance)
}

// ReconcileWithTolerance matches GL transactions against bank transactions.
// GL iteration order determines match priority; the first acceptable bank
// candidate wins and both transactions leave their pools.
func ReconcileWithTolerance(gl, bank []record.Transaction, tolerance decimal.Decimal) *Result {
	result := &Result{
		tolerance: tolerance,
		glTotal:   len(gl),
		bankTotal: len(bank),
	}

	glPool := newPool(gl)
	bankPool := newPool(bank)

	for gi, glTxn := range gl {
		matched := false

		for bi, bankTxn := range bank {
			if bankPool.consumed[bi] {
				continue
			}

			amountMatch := record.AmountEqual(glTxn.Amount, bankTxn.Amount, tolerance)
			if !amountMatch {
				continue
			}

			dateMatch := !glTxn.Date.IsZero() && glTxn.Date.Equal(bankTxn.Date)
			refMatch := referencesOverlap(glTxn, bankTxn)
			if !dateMatch && !refMatch {
				continue
			}

			confidence := ConfidenceMedium
			if dateMatch && refMatch {
				confidence = ConfidenceHigh
			}

			result.Matched = append(result.Matched, Match{
				GL:         glTxn,
				Bank:       bankTxn,
				Confidence: confidence,
			})
			glPool.consume(gi)
			bankPool.consume(bi)
			matched = true
			break
		}

		if !matched && !glTxn.Amount.IsZero() {
			result.scanDiscrepancies(glTxn, bank, bankPool)
		}
	}

	result.UnmatchedGL = glPool.remaining()
	result.UnmatchedBank = bankPool.remaining()

	return result
}

// scanDiscrepancies walks the bank set in original order looking for
// amount-close-but-not-equal candidates. Bank transactions already consumed
// by a clean match are skipped; re-flagging a confirmed match as somebody
// else's discrepancy partner only adds review noise.
func (r *Result) scanDiscrepancies(glTxn record.Transaction, bank []record.Transaction, bankPool *pool) {
	for bi, bankTxn := range bank {
		if bankPool.consumed[bi] {
			continue
		}

		gap := glTxn.Amount.Abs().Sub(bankTxn.Amount.Abs()).Abs()
		diff := glTxn.Amount.Sub(bankTxn.Amount)

		if gap.LessThan(discrepancyWindow) && diff.Abs().GreaterThan(r.tolerance) {
			r.Discrepancies = append(r.Discrepancies, Discrepancy{
				GL:         glTxn,
				Bank:       bankTxn,
				Difference: diff,
				Kind:       "Amount Mismatch",
			})
		}
	}
}

// referencesOverlap checks exact reference equality or case-insensitive
// substring containment of the descriptions, in either direction.
func referencesOverlap(gl, bank record.Transaction) bool {
	if gl.Reference != "" && gl.Reference == bank.Reference {
		return true
	}

	glDesc := strings.ToLower(gl.Description)
	bankDesc := strings.ToLower(bank.Description)
	if glDesc != "" && bankDesc != "" {
		return strings.Contains(bankDesc, glDesc) || strings.Contains(glDesc, bankDesc)
	}

	return false
}

// Summary builds the summary report for this result. The reconciliation
// percentage is zero when there are no GL transactions.
func (r *Result) Summary() Summary {
	totalGL := decimal.Zero
	matchedAmount := decimal.Zero
	for _, m := range r.Matched {
		totalGL = totalGL.Add(m.GL.Amount)
		matchedAmount = matchedAmount.Add(m.GL.Amount)
	}
	for _, txn := range r.UnmatchedGL {
		totalGL = totalGL.Add(txn.Amount)
	}

	totalBank := decimal.Zero
	for _, m := range r.Matched {
		totalBank = totalBank.Add(m.Bank.Amount)
	}
	for _, txn := range r.UnmatchedBank {
		totalBank = totalBank.Add(txn.Amount)
	}

	percentage := decimal.Zero
	if r.glTotal > 0 {
		percentage = decimal.NewFromInt(int64(len(r.Matched))).
			Div(decimal.NewFromInt(int64(r.glTotal))).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	return Summary{
		TotalGLTransactions:      r.glTotal,
		TotalBankTransactions:    r.bankTotal,
		MatchedTransactions:      len(r.Matched),
		UnmatchedGLTransactions:  len(r.UnmatchedGL),
		UnmatchedBankTransaction: len(r.UnmatchedBank),
		DiscrepanciesFound:       len(r.Discrepancies),
		TotalGLAmount:            totalGL,
		TotalBankAmount:          totalBank,
		MatchedAmount:            matchedAmount,
		ReconciliationPercentage: percentage,
	}
}
