// Package loader parses the tabular inputs of the close pipeline into typed
// records. Every input is CSV with a required header row; fields are resolved
// by column name, never by position, and unknown columns are ignored.
//
// The loader never aborts a whole file over one bad row. Rows with an
// unparseable date are skipped and rows with a non-numeric amount fall back
// to zero, in both cases recording a diagnostic the caller can log or
// surface. A missing or unreadable file is an error.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/ledgerclose/record"
)

// Diagnostic describes one recovered problem in an input file.
type Diagnostic struct {
	File    string
	Line    int // 1-based, counting the header as line 1
	Field   string
	Message string
}

func (d Diagnostic) String() string {
	if d.Field == "" {
		return fmt.Sprintf("%s:%d: %s", d.File, d.Line, d.Message)
	}
	return fmt.Sprintf("%s:%d: field %q: %s", d.File, d.Line, d.Field, d.Message)
}

// Diagnostics collects the recovered problems of one load.
type Diagnostics struct {
	File    string
	Skipped int
	Issues  []Diagnostic
}

func (d *Diagnostics) add(line int, field, message string) {
	d.Issues = append(d.Issues, Diagnostic{File: d.File, Line: line, Field: field, Message: message})
}

// row is one CSV record with header-indexed field access.
type row struct {
	header map[string]int
	fields []string
	line   int
}

func (r row) get(name string) string {
	idx, ok := r.header[name]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[idx])
}

// readRows reads all CSV records from a file, mapping the header row to
// column indices. Header names are lowercased so "Date" and "date" both
// resolve.
func readRows(path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headerFields, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: empty file, header row required", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", path, err)
	}

	header := make(map[string]int, len(headerFields))
	for i, name := range headerFields {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var rows []row
	line := 1
	for {
		fields, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s:%d: malformed CSV: %w", path, line, err)
		}
		rows = append(rows, row{header: header, fields: fields, line: line})
	}

	return rows, nil
}

// parseAmount converts a tabular amount field to a decimal. Blank values and
// values that fail to parse both yield zero; the caller decides whether the
// failure warrants a diagnostic.
func parseAmount(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Transactions loads GL or bank-statement transactions. Expected columns:
// date, reference, description, amount; optional: account, category, vendor.
func Transactions(path string) ([]record.Transaction, *Diagnostics, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, nil, err
	}

	diags := &Diagnostics{File: path}
	txns := make([]record.Transaction, 0, len(rows))

	for _, r := range rows {
		txn := record.Transaction{
			Description: r.get("description"),
			Reference:   r.get("reference"),
			Account:     r.get("account"),
			Category:    r.get("category"),
			Vendor:      r.get("vendor"),
		}

		if raw := r.get("date"); raw != "" {
			date, err := record.NewDate(raw)
			if err != nil {
				diags.add(r.line, "date", err.Error())
				diags.Skipped++
				continue
			}
			txn.Date = date
		}

		amount, ok := parseAmount(r.get("amount"))
		if !ok {
			diags.add(r.line, "amount", fmt.Sprintf("non-numeric amount %q, defaulting to 0", r.get("amount")))
		}
		txn.Amount = amount

		txns = append(txns, txn)
	}

	return txns, diags, nil
}

// Postings loads posted transactions for statement generation. Expected
// columns: date, account, description, debit, credit.
func Postings(path string) ([]record.Posting, *Diagnostics, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, nil, err
	}

	diags := &Diagnostics{File: path}
	postings := make([]record.Posting, 0, len(rows))

	for _, r := range rows {
		posting := record.Posting{
			Account:     r.get("account"),
			Description: r.get("description"),
		}

		if raw := r.get("date"); raw != "" {
			date, err := record.NewDate(raw)
			if err != nil {
				diags.add(r.line, "date", err.Error())
				diags.Skipped++
				continue
			}
			posting.Date = date
		}

		debit, ok := parseAmount(r.get("debit"))
		if !ok {
			diags.add(r.line, "debit", fmt.Sprintf("non-numeric debit %q, defaulting to 0", r.get("debit")))
		}
		credit, ok := parseAmount(r.get("credit"))
		if !ok {
			diags.add(r.line, "credit", fmt.Sprintf("non-numeric credit %q, defaulting to 0", r.get("credit")))
		}
		posting.Debit = debit
		posting.Credit = credit

		postings = append(postings, posting)
	}

	return postings, diags, nil
}

// AccrualSpecs loads accrual specifications. Expected columns: type,
// principal, rate, asset_cost, salvage_value, useful_life_years, months,
// name, annual_amount, debit_account, credit_account, date. Fields irrelevant
// to the row's type may be blank.
func AccrualSpecs(path string) ([]record.AccrualSpec, *Diagnostics, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, nil, err
	}

	diags := &Diagnostics{File: path}
	specs := make([]record.AccrualSpec, 0, len(rows))

	for _, r := range rows {
		spec := record.AccrualSpec{
			Kind:          record.ParseAccrualKind(strings.ToLower(r.get("type"))),
			Name:          r.get("name"),
			DebitAccount:  r.get("debit_account"),
			CreditAccount: r.get("credit_account"),
		}

		if raw := r.get("date"); raw != "" {
			date, err := record.NewDate(raw)
			if err != nil {
				diags.add(r.line, "date", err.Error())
				diags.Skipped++
				continue
			}
			spec.Date = date
		}

		spec.Principal = amountField(r, "principal", diags)
		spec.AnnualRate = amountField(r, "rate", diags)
		spec.AssetCost = amountField(r, "asset_cost", diags)
		spec.SalvageValue = amountField(r, "salvage_value", diags)
		spec.AnnualAmount = amountField(r, "annual_amount", diags)
		spec.UsefulLifeYears = intField(r, "useful_life_years", diags)
		spec.Months = intField(r, "months", diags)
		if spec.Months == 0 {
			spec.Months = 1
		}

		specs = append(specs, spec)
	}

	return specs, diags, nil
}

func amountField(r row, name string, diags *Diagnostics) decimal.Decimal {
	d, ok := parseAmount(r.get(name))
	if !ok {
		diags.add(r.line, name, fmt.Sprintf("non-numeric value %q, defaulting to 0", r.get(name)))
	}
	return d
}

func intField(r row, name string, diags *Diagnostics) int {
	raw := r.get(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		diags.add(r.line, name, fmt.Sprintf("non-integer value %q, defaulting to 0", raw))
		return 0
	}
	return n
}
