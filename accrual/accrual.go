// Package accrual computes periodic accrual amounts (interest, straight-line
// depreciation, recurring expense spreading) and emits the balanced journal
// entries that post them.
//
// The engine never emits an unbalanced entry: journal entries are built
// through record.NewJournalEntry, which rejects any entry whose debit and
// credit totals disagree after rounding. In batch mode each specification is
// processed independently; a failure on one never aborts the rest.
package accrual

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/ledgerclose/record"
)

var twelve = decimal.NewFromInt(12)

// Accrual is one computed periodic adjustment, immutable once computed.
type Accrual struct {
	Kind            record.AccrualKind `json:"-"`
	Type            string             `json:"type"`
	Principal       decimal.Decimal    `json:"principal,omitempty"`
	Rate            decimal.Decimal    `json:"rate,omitempty"`
	AssetCost       decimal.Decimal    `json:"asset_cost,omitempty"`
	SalvageValue    decimal.Decimal    `json:"salvage_value,omitempty"`
	UsefulLifeYears int                `json:"useful_life_years,omitempty"`
	AnnualAmount    decimal.Decimal    `json:"annual_amount,omitempty"`
	PeriodMonths    int                `json:"period_months,omitempty"`

	// Amount is the figure the journal entry posts.
	Amount decimal.Decimal `json:"accrual_amount"`

	// MonthlyDepreciation and AnnualDepreciation are reported for
	// depreciation accruals alongside the posted amount.
	MonthlyDepreciation decimal.Decimal `json:"monthly_depreciation,omitempty"`
	AnnualDepreciation  decimal.Decimal `json:"annual_depreciation,omitempty"`

	CalculationDate record.Date `json:"calculation_date"`
}

// Interest computes an interest accrual: principal * (annualRate / 12) *
// months, rounded to 2 decimal places.
func (e *Engine) Interest(principal, annualRate decimal.Decimal, months int, date record.Date) Accrual {
	if annualRate.IsZero() {
		annualRate = e.config.InterestRate
	}
	monthlyRate := annualRate.Div(twelve)
	amount := principal.Mul(monthlyRate).Mul(decimal.NewFromInt(int64(months))).Round(2)

	return Accrual{
		Kind:            record.AccrualInterest,
		Type:            "Interest Accrual",
		Principal:       principal,
		Rate:            annualRate,
		PeriodMonths:    months,
		Amount:          amount,
		CalculationDate: date,
	}
}

// Depreciation computes a straight-line depreciation accrual. Both the
// monthly and annual figures are reported; the posted amount is the monthly
// figure scaled linearly by months.
func (e *Engine) Depreciation(assetCost, salvageValue decimal.Decimal, usefulLifeYears, months int, date record.Date) (Accrual, error) {
	if usefulLifeYears <= 0 {
		return Accrual{}, fmt.Errorf("depreciation requires a positive useful life, got %d years", usefulLifeYears)
	}

	depreciable := assetCost.Sub(salvageValue)
	annual := depreciable.Div(decimal.NewFromInt(int64(usefulLifeYears)))
	monthly := annual.Div(twelve)
	amount := monthly.Mul(decimal.NewFromInt(int64(months))).Round(2)

	return Accrual{
		Kind:                record.AccrualDepreciation,
		Type:                "Depreciation Accrual",
		AssetCost:           assetCost,
		SalvageValue:        salvageValue,
		UsefulLifeYears:     usefulLifeYears,
		PeriodMonths:        months,
		Amount:              amount,
		MonthlyDepreciation: monthly.Round(2),
		AnnualDepreciation:  annual.Round(2),
		CalculationDate:     date,
	}, nil
}

// Expense computes a periodic expense accrual: (annualAmount / 12) * months.
func (e *Engine) Expense(name string, annualAmount decimal.Decimal, months int, date record.Date) Accrual {
	if name == "" {
		name = "General Expense"
	}
	monthly := annualAmount.Div(twelve)
	amount := monthly.Mul(decimal.NewFromInt(int64(months))).Round(2)

	return Accrual{
		Kind:            record.AccrualExpense,
		Type:            fmt.Sprintf("%s Accrual", name),
		AnnualAmount:    annualAmount,
		PeriodMonths:    months,
		Amount:          amount,
		CalculationDate: date,
	}
}

// Engine turns accrual specifications into computed accruals and balanced
// journal entries. All state is per-instance; create a fresh Engine per
// pipeline run.
type Engine struct {
	config   Config
	accruals []Accrual
	entries  []*record.JournalEntry
}

// NewEngine creates an engine with the given configuration. A zero Config is
// filled in with defaults.
func NewEngine(config Config) *Engine {
	return &Engine{config: config.withDefaults()}
}

// Entries returns the journal entries generated so far.
func (e *Engine) Entries() []*record.JournalEntry {
	return e.entries
}

// Accruals returns the accruals computed so far.
func (e *Engine) Accruals() []Accrual {
	return e.accruals
}

// post turns a computed accrual into a journal entry debiting and crediting
// the given accounts with the accrual amount.
func (e *Engine) post(accrual Accrual, debitAccount, creditAccount string) (*record.JournalEntry, error) {
	amount := accrual.Amount.Round(2)

	entry, err := record.NewJournalEntry(accrual.CalculationDate, accrual.Type, []record.JournalLine{
		{
			Account:     debitAccount,
			AccountType: "Expense",
			Debit:       amount,
			Credit:      decimal.Zero,
		},
		{
			Account:     creditAccount,
			AccountType: "Liability/Contra-Asset",
			Debit:       decimal.Zero,
			Credit:      amount,
		},
	})
	if err != nil {
		return nil, err
	}

	e.accruals = append(e.accruals, accrual)
	e.entries = append(e.entries, entry)
	return entry, nil
}

// SpecError records the failure of one specification in a batch.
type SpecError struct {
	Index int
	Spec  record.AccrualSpec
	Err   error
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("accrual spec %d (%s): %v", e.Index, e.Spec.Kind, e.Err)
}

func (e *SpecError) Unwrap() error {
	return e.Err
}

// BatchError aggregates the per-item failures of a batch run.
type BatchError struct {
	Errors []*SpecError
}

func (e *BatchError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d accrual specifications failed", len(e.Errors))
}

// Unwrap returns the underlying errors for error unwrapping.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Process runs a heterogeneous batch of accrual specifications in input
// order. Each specification is independent: failures are collected and
// returned as a *BatchError while the remaining specifications still run.
// The returned accruals are those that succeeded.
func (e *Engine) Process(specs []record.AccrualSpec) ([]Accrual, error) {
	var processed []Accrual
	var batchErr BatchError

	fail := func(i int, spec record.AccrualSpec, err error) {
		batchErr.Errors = append(batchErr.Errors, &SpecError{Index: i, Spec: spec, Err: err})
	}

	for i, spec := range specs {
		months := spec.Months
		if months <= 0 {
			months = 1
		}

		switch spec.Kind {
		case record.AccrualInterest:
			accrual := e.Interest(spec.Principal, spec.AnnualRate, months, spec.Date)
			if _, err := e.post(accrual, e.config.InterestExpenseAccount, e.config.InterestPayableAccount); err != nil {
				fail(i, spec, err)
				continue
			}
			processed = append(processed, accrual)

		case record.AccrualDepreciation:
			accrual, err := e.Depreciation(spec.AssetCost, spec.SalvageValue, spec.UsefulLifeYears, months, spec.Date)
			if err != nil {
				fail(i, spec, err)
				continue
			}
			if _, err := e.post(accrual, e.config.DepreciationExpenseAccount, e.config.AccumulatedDepreciationAccount); err != nil {
				fail(i, spec, err)
				continue
			}
			processed = append(processed, accrual)

		case record.AccrualExpense:
			accrual := e.Expense(spec.Name, spec.AnnualAmount, months, spec.Date)
			debit := spec.DebitAccount
			if debit == "" {
				debit = e.config.DefaultExpenseAccount
			}
			credit := spec.CreditAccount
			if credit == "" {
				credit = e.config.DefaultPayableAccount
			}
			if _, err := e.post(accrual, debit, credit); err != nil {
				fail(i, spec, err)
				continue
			}
			processed = append(processed, accrual)

		default:
			fail(i, spec, fmt.Errorf("unknown accrual type"))
		}
	}

	if len(batchErr.Errors) > 0 {
		return processed, &batchErr
	}
	return processed, nil
}

// Summary reports the engine's journal entries in aggregate.
type Summary struct {
	TotalJournalEntries int             `json:"total_journal_entries"`
	TotalDebits         decimal.Decimal `json:"total_debits"`
	TotalCredits        decimal.Decimal `json:"total_credits"`
	Balanced            bool            `json:"balanced"`
	EntryTypes          map[string]int  `json:"entry_types"`
}

// Summary aggregates the generated entries: totals, a balanced flag, and a
// count per entry description.
func (e *Engine) Summary() Summary {
	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	entryTypes := make(map[string]int)

	for _, entry := range e.entries {
		totalDebits = totalDebits.Add(entry.TotalDebit)
		totalCredits = totalCredits.Add(entry.TotalCredit)
		entryTypes[entry.Description]++
	}

	return Summary{
		TotalJournalEntries: len(e.entries),
		TotalDebits:         totalDebits,
		TotalCredits:        totalCredits,
		Balanced:            record.AmountEqual(totalDebits, totalCredits, record.Tolerance),
		EntryTypes:          entryTypes,
	}
}
