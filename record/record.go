// Package record defines the typed data model for the month-end close
// pipeline: transactions, posted ledger rows, accrual specifications, and
// double-entry journal entries.
//
// All monetary amounts use decimal arithmetic to avoid floating point
// precision issues. Currency equality is never exact; use AmountEqual with
// the shared tolerances defined here.
package record

import (
	"github.com/shopspring/decimal"
)

// Tolerance is the shared tolerance for currency equality checks, most
// importantly the journal-entry balance invariant (debits == credits).
var Tolerance = decimal.NewFromFloat(0.005)

// BalanceSheetTolerance is the looser tolerance used for the balance-sheet
// equation (assets == liabilities + equity), which aggregates many rounded
// postings.
var BalanceSheetTolerance = decimal.NewFromFloat(0.01)

// AmountEqual checks if two amounts are equal within tolerance.
func AmountEqual(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

// Transaction is a single financial movement from either the general ledger
// or a bank statement. The two populations are structurally identical but are
// kept in separate collections until reconciliation pairs them.
type Transaction struct {
	Date        Date
	Description string
	Amount      decimal.Decimal
	Reference   string
	Account     string
	Category    string
	Vendor      string
}

// Posting is one row of a posted transaction as consumed by the statement
// generator: an account movement split into debit and credit columns.
type Posting struct {
	Date        Date
	Account     string
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// AccrualKind selects the calculation mode of an accrual specification.
type AccrualKind int

const (
	AccrualUnknown AccrualKind = iota
	AccrualInterest
	AccrualDepreciation
	AccrualExpense
)

// String returns the string representation of the accrual kind.
func (k AccrualKind) String() string {
	switch k {
	case AccrualInterest:
		return "interest"
	case AccrualDepreciation:
		return "depreciation"
	case AccrualExpense:
		return "expense"
	default:
		return "unknown"
	}
}

// ParseAccrualKind parses an accrual kind from its tabular representation.
// Unrecognized values map to AccrualUnknown; the engine reports those as
// per-item failures rather than dropping them silently.
func ParseAccrualKind(s string) AccrualKind {
	switch s {
	case "interest":
		return AccrualInterest
	case "depreciation":
		return AccrualDepreciation
	case "expense":
		return AccrualExpense
	default:
		return AccrualUnknown
	}
}

// AccrualSpec describes one requested accrual. Only the basis fields relevant
// to Kind are meaningful; the rest stay zero.
type AccrualSpec struct {
	Kind AccrualKind

	// Interest basis.
	Principal  decimal.Decimal
	AnnualRate decimal.Decimal // zero means use the engine default

	// Depreciation basis.
	AssetCost       decimal.Decimal
	SalvageValue    decimal.Decimal
	UsefulLifeYears int

	// Periodic expense basis.
	Name         string
	AnnualAmount decimal.Decimal

	// Shared.
	Months        int
	DebitAccount  string
	CreditAccount string
	Date          Date
}
