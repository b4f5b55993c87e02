package statement

import (
	"github.com/shopspring/decimal"
)

// AccountType classifies an account for statement assembly. The set is
// closed so the debit/credit-normal branching below is exhaustive.
type AccountType int

const (
	AccountTypeUnknown AccountType = iota
	AccountTypeAsset
	AccountTypeLiability
	AccountTypeEquity
	AccountTypeRevenue
	AccountTypeCOGS
	AccountTypeExpense
)

// String returns the string representation of the account type.
func (t AccountType) String() string {
	switch t {
	case AccountTypeAsset:
		return "Asset"
	case AccountTypeLiability:
		return "Liability"
	case AccountTypeEquity:
		return "Equity"
	case AccountTypeRevenue:
		return "Revenue"
	case AccountTypeCOGS:
		return "COGS"
	case AccountTypeExpense:
		return "Expense"
	default:
		return "Unknown"
	}
}

// IsDebitNormal reports whether the type accumulates balance as
// debits - credits. Credit-normal types (Liability, Equity, Revenue)
// accumulate credits - debits instead.
func (t AccountType) IsDebitNormal() bool {
	switch t {
	case AccountTypeAsset, AccountTypeExpense, AccountTypeCOGS:
		return true
	default:
		return false
	}
}

// standardAccountTypes is the explicit chart-of-accounts mapping consulted
// before falling back to leading-digit inference.
var standardAccountTypes = map[string]AccountType{
	"1000": AccountTypeAsset, "1100": AccountTypeAsset, "1200": AccountTypeAsset, "1300": AccountTypeAsset,
	"2000": AccountTypeLiability, "2100": AccountTypeLiability, "2200": AccountTypeLiability, "2300": AccountTypeLiability,
	"3000": AccountTypeEquity, "3100": AccountTypeEquity,
	"4000": AccountTypeRevenue, "4100": AccountTypeRevenue, "4200": AccountTypeRevenue,
	"5000": AccountTypeCOGS, "5100": AccountTypeCOGS,
	"6000": AccountTypeExpense, "6100": AccountTypeExpense, "6200": AccountTypeExpense,
	"7000": AccountTypeExpense, "7100": AccountTypeExpense, "7200": AccountTypeExpense,
}

// ClassifyAccount determines an account's type: the explicit mapping wins,
// otherwise the leading digit of the code decides (1 Asset, 2 Liability,
// 3 Equity, 4 Revenue, 5 COGS, 6/7 Expense). Classification is pure; the
// same code always yields the same type.
func ClassifyAccount(code string) AccountType {
	if t, ok := standardAccountTypes[code]; ok {
		return t
	}
	if code == "" {
		return AccountTypeUnknown
	}

	switch code[0] {
	case '1':
		return AccountTypeAsset
	case '2':
		return AccountTypeLiability
	case '3':
		return AccountTypeEquity
	case '4':
		return AccountTypeRevenue
	case '5':
		return AccountTypeCOGS
	case '6', '7':
		return AccountTypeExpense
	default:
		return AccountTypeUnknown
	}
}

// Account is an aggregation bucket keyed by account code, built fresh per
// statement-generator run.
type Account struct {
	Code         string
	Type         AccountType
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
	Balance      decimal.Decimal
}
