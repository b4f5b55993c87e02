package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestTransactions(t *testing.T) {
	path := writeFile(t, "gl.csv", `date,reference,description,amount
2024-12-01,REF001,Office supplies,150.00
2024-12-02,REF002,Client payment,-2500.00
`)

	txns, diags, err := Transactions(path)
	assert.NoError(t, err)
	assert.Equal(t, len(txns), 2)
	assert.Equal(t, len(diags.Issues), 0)
	assert.Equal(t, txns[0].Reference, "REF001")
	assert.Equal(t, txns[0].Amount.StringFixed(2), "150.00")
	assert.Equal(t, txns[1].Amount.StringFixed(2), "-2500.00")
}

// A bad date skips the row; a bad amount defaults to zero. Neither aborts
// the load.
func TestTransactions_BadRowsRecovered(t *testing.T) {
	path := writeFile(t, "gl.csv", `date,reference,description,amount
garbage,REF001,Broken date,10.00
2024-12-02,REF002,Broken amount,not-a-number
2024-12-03,REF003,Fine,25.00
`)

	txns, diags, err := Transactions(path)
	assert.NoError(t, err)
	assert.Equal(t, len(txns), 2)
	assert.Equal(t, diags.Skipped, 1)
	assert.Equal(t, len(diags.Issues), 2)
	assert.True(t, txns[0].Amount.IsZero())
	assert.Equal(t, txns[1].Reference, "REF003")
}

func TestTransactions_MissingFile(t *testing.T) {
	_, _, err := Transactions(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestTransactions_EmptyFile(t *testing.T) {
	path := writeFile(t, "empty.csv", "")
	_, _, err := Transactions(path)
	assert.Error(t, err)
}

// Header names are matched case-insensitively and by name, not position.
func TestTransactions_HeaderByName(t *testing.T) {
	path := writeFile(t, "gl.csv", `Amount,Date,Description,Reference
99.50,2024-12-01,Reordered columns,REF009
`)

	txns, _, err := Transactions(path)
	assert.NoError(t, err)
	assert.Equal(t, len(txns), 1)
	assert.Equal(t, txns[0].Amount.StringFixed(2), "99.50")
	assert.Equal(t, txns[0].Reference, "REF009")
}

func TestPostings(t *testing.T) {
	path := writeFile(t, "transactions.csv", `date,account,description,debit,credit
2024-12-01,1000,Cash received,42000.00,
2024-12-01,4000,Consulting revenue,,42000.00
`)

	postings, diags, err := Postings(path)
	assert.NoError(t, err)
	assert.Equal(t, len(postings), 2)
	assert.Equal(t, len(diags.Issues), 0)
	assert.Equal(t, postings[0].Debit.StringFixed(2), "42000.00")
	assert.True(t, postings[0].Credit.IsZero())
	assert.Equal(t, postings[1].Credit.StringFixed(2), "42000.00")
}

func TestAccrualSpecs(t *testing.T) {
	path := writeFile(t, "accruals.csv", `type,principal,asset_cost,salvage_value,useful_life_years,months,name,annual_amount,debit_account,credit_account,date
interest,100000,,,,1,,,,,2024-12-31
depreciation,,50000,5000,5,1,,,,,2024-12-31
expense,,,,,1,Rent,24000,6100,2100,2024-12-31
`)

	specs, diags, err := AccrualSpecs(path)
	assert.NoError(t, err)
	assert.Equal(t, len(specs), 3)
	assert.Equal(t, len(diags.Issues), 0)

	assert.Equal(t, specs[0].Principal.StringFixed(2), "100000.00")
	assert.Equal(t, specs[0].Months, 1)

	assert.Equal(t, specs[1].AssetCost.StringFixed(2), "50000.00")
	assert.Equal(t, specs[1].UsefulLifeYears, 5)

	assert.Equal(t, specs[2].Name, "Rent")
	assert.Equal(t, specs[2].DebitAccount, "6100")
}

// Months defaults to 1 when blank so a spec row accrues a single period.
func TestAccrualSpecs_DefaultMonths(t *testing.T) {
	path := writeFile(t, "accruals.csv", `type,principal,months,date
interest,50000,,2024-12-31
`)

	specs, _, err := AccrualSpecs(path)
	assert.NoError(t, err)
	assert.Equal(t, specs[0].Months, 1)
}
