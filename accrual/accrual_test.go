package accrual

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/ledgerclose/record"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Interest on 100,000 at 5% for one month accrues 416.67.
func TestInterest(t *testing.T) {
	engine := NewEngine(Config{})

	accrual := engine.Interest(dec("100000"), dec("0.05"), 1, record.MustDate("2024-12-31"))

	assert.Equal(t, accrual.Amount.StringFixed(2), "416.67")
	assert.Equal(t, accrual.Type, "Interest Accrual")
	assert.Equal(t, accrual.PeriodMonths, 1)
}

func TestInterest_DefaultRate(t *testing.T) {
	engine := NewEngine(Config{})

	// Zero rate falls back to the configured 5% default.
	accrual := engine.Interest(dec("100000"), decimal.Zero, 1, record.MustDate("2024-12-31"))

	assert.Equal(t, accrual.Amount.StringFixed(2), "416.67")
}

// Straight-line depreciation of a 50,000 asset, 5,000 salvage, 5 year life:
// 9,000 annual, 750 monthly.
func TestDepreciation(t *testing.T) {
	engine := NewEngine(Config{})

	accrual, err := engine.Depreciation(dec("50000"), dec("5000"), 5, 1, record.MustDate("2024-12-31"))

	assert.NoError(t, err)
	assert.Equal(t, accrual.AnnualDepreciation.StringFixed(2), "9000.00")
	assert.Equal(t, accrual.MonthlyDepreciation.StringFixed(2), "750.00")
	assert.Equal(t, accrual.Amount.StringFixed(2), "750.00")
}

func TestDepreciation_ScalesByMonths(t *testing.T) {
	engine := NewEngine(Config{})

	accrual, err := engine.Depreciation(dec("50000"), dec("5000"), 5, 3, record.MustDate("2024-12-31"))

	assert.NoError(t, err)
	assert.Equal(t, accrual.Amount.StringFixed(2), "2250.00")
	assert.Equal(t, accrual.MonthlyDepreciation.StringFixed(2), "750.00")
}

func TestDepreciation_ZeroLifeRejected(t *testing.T) {
	engine := NewEngine(Config{})

	_, err := engine.Depreciation(dec("50000"), dec("5000"), 0, 1, record.MustDate("2024-12-31"))
	assert.Error(t, err)
}

func TestExpense(t *testing.T) {
	engine := NewEngine(Config{})

	accrual := engine.Expense("Rent", dec("24000"), 1, record.MustDate("2024-12-31"))

	assert.Equal(t, accrual.Amount.StringFixed(2), "2000.00")
	assert.Equal(t, accrual.Type, "Rent Accrual")
}

// Every emitted entry balances: both lines carry the accrual amount.
func TestProcess_InterestJournalEntry(t *testing.T) {
	engine := NewEngine(Config{})

	specs := []record.AccrualSpec{{
		Kind:      record.AccrualInterest,
		Principal: dec("100000"),
		Months:    1,
		Date:      record.MustDate("2024-12-31"),
	}}

	accruals, err := engine.Process(specs)
	assert.NoError(t, err)
	assert.Equal(t, len(accruals), 1)

	entries := engine.Entries()
	assert.Equal(t, len(entries), 1)
	entry := entries[0]
	assert.Equal(t, entry.Lines[0].Account, "7200")
	assert.Equal(t, entry.Lines[0].Debit.StringFixed(2), "416.67")
	assert.Equal(t, entry.Lines[1].Account, "2300")
	assert.Equal(t, entry.Lines[1].Credit.StringFixed(2), "416.67")
	assert.True(t, record.AmountEqual(entry.TotalDebit, entry.TotalCredit, record.Tolerance))
}

// A failing specification must not abort the rest of the batch.
func TestProcess_BatchIsolation(t *testing.T) {
	engine := NewEngine(Config{})

	specs := []record.AccrualSpec{
		{Kind: record.AccrualInterest, Principal: dec("100000"), Months: 1, Date: record.MustDate("2024-12-31")},
		{Kind: record.AccrualUnknown, Date: record.MustDate("2024-12-31")},
		{Kind: record.AccrualDepreciation, AssetCost: dec("50000"), SalvageValue: dec("5000"), UsefulLifeYears: 0, Months: 1, Date: record.MustDate("2024-12-31")},
		{Kind: record.AccrualExpense, Name: "Insurance", AnnualAmount: dec("12000"), Months: 1, Date: record.MustDate("2024-12-31")},
	}

	accruals, err := engine.Process(specs)

	assert.Equal(t, len(accruals), 2)
	assert.Equal(t, len(engine.Entries()), 2)

	var batchErr *BatchError
	assert.True(t, errors.As(err, &batchErr))
	assert.Equal(t, len(batchErr.Errors), 2)
	assert.Equal(t, batchErr.Errors[0].Index, 1)
	assert.Equal(t, batchErr.Errors[1].Index, 2)
}

func TestProcess_ExpenseDefaultAccounts(t *testing.T) {
	engine := NewEngine(Config{})

	specs := []record.AccrualSpec{{
		Kind:         record.AccrualExpense,
		Name:         "Utilities",
		AnnualAmount: dec("6000"),
		Months:       2,
		Date:         record.MustDate("2024-12-31"),
	}}

	_, err := engine.Process(specs)
	assert.NoError(t, err)

	entry := engine.Entries()[0]
	assert.Equal(t, entry.Lines[0].Account, "6000")
	assert.Equal(t, entry.Lines[1].Account, "2000")
	assert.Equal(t, entry.TotalDebit.StringFixed(2), "1000.00")
}

func TestSummary(t *testing.T) {
	engine := NewEngine(Config{})

	specs := []record.AccrualSpec{
		{Kind: record.AccrualInterest, Principal: dec("100000"), Months: 1, Date: record.MustDate("2024-12-31")},
		{Kind: record.AccrualInterest, Principal: dec("50000"), Months: 1, Date: record.MustDate("2024-12-31")},
		{Kind: record.AccrualExpense, Name: "Rent", AnnualAmount: dec("24000"), Months: 1, Date: record.MustDate("2024-12-31")},
	}

	_, err := engine.Process(specs)
	assert.NoError(t, err)

	summary := engine.Summary()
	assert.Equal(t, summary.TotalJournalEntries, 3)
	assert.True(t, summary.Balanced)
	assert.Equal(t, summary.EntryTypes["Interest Accrual"], 2)
	assert.Equal(t, summary.EntryTypes["Rent Accrual"], 1)
	assert.Equal(t, summary.TotalDebits.StringFixed(2), summary.TotalCredits.StringFixed(2))
}
