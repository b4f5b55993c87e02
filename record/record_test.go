package record

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func TestNewDate_Formats(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024-12-01", "2024-12-01"},
		{"01/12/2024", "2024-12-01"},
		{"2024/12/01", "2024-12-01"},
	}

	for _, test := range tests {
		date, err := NewDate(test.input)
		assert.NoError(t, err)
		assert.Equal(t, date.String(), test.want)
	}
}

func TestNewDate_Invalid(t *testing.T) {
	_, err := NewDate("not a date")
	assert.Error(t, err)
}

func TestDate_Equal(t *testing.T) {
	assert.True(t, MustDate("2024-12-01").Equal(MustDate("2024-12-01")))
	assert.False(t, MustDate("2024-12-01").Equal(MustDate("2024-12-02")))
}

func TestDate_ZeroString(t *testing.T) {
	assert.Equal(t, Date{}.String(), "")
}

func TestAmountEqual(t *testing.T) {
	a := decimal.RequireFromString("100.00")
	b := decimal.RequireFromString("100.004")
	c := decimal.RequireFromString("100.01")

	assert.True(t, AmountEqual(a, b, Tolerance))
	assert.False(t, AmountEqual(a, c, Tolerance))
	assert.True(t, AmountEqual(a, c, BalanceSheetTolerance))
}

func TestParseAccrualKind(t *testing.T) {
	assert.Equal(t, ParseAccrualKind("interest"), AccrualInterest)
	assert.Equal(t, ParseAccrualKind("depreciation"), AccrualDepreciation)
	assert.Equal(t, ParseAccrualKind("expense"), AccrualExpense)
	assert.Equal(t, ParseAccrualKind("vat"), AccrualUnknown)
}
