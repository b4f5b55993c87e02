package accrual

import "github.com/shopspring/decimal"

// Config holds the default account codes and rates used when an accrual
// specification leaves them blank.
type Config struct {
	// InterestRate is the default annual interest rate.
	InterestRate decimal.Decimal

	InterestExpenseAccount         string
	InterestPayableAccount         string
	DepreciationExpenseAccount     string
	AccumulatedDepreciationAccount string

	// DefaultExpenseAccount and DefaultPayableAccount back periodic expense
	// specifications that name no accounts.
	DefaultExpenseAccount string
	DefaultPayableAccount string
}

// DefaultConfig returns the standard chart-of-accounts wiring for accrual
// postings.
func DefaultConfig() Config {
	return Config{
		InterestRate:                   decimal.NewFromFloat(0.05),
		InterestExpenseAccount:         "7200",
		InterestPayableAccount:         "2300",
		DepreciationExpenseAccount:     "7100",
		AccumulatedDepreciationAccount: "1500",
		DefaultExpenseAccount:          "6000",
		DefaultPayableAccount:          "2000",
	}
}

// withDefaults fills zero fields with the defaults so a partially specified
// Config still works.
func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.InterestRate.IsZero() {
		c.InterestRate = defaults.InterestRate
	}
	if c.InterestExpenseAccount == "" {
		c.InterestExpenseAccount = defaults.InterestExpenseAccount
	}
	if c.InterestPayableAccount == "" {
		c.InterestPayableAccount = defaults.InterestPayableAccount
	}
	if c.DepreciationExpenseAccount == "" {
		c.DepreciationExpenseAccount = defaults.DepreciationExpenseAccount
	}
	if c.AccumulatedDepreciationAccount == "" {
		c.AccumulatedDepreciationAccount = defaults.AccumulatedDepreciationAccount
	}
	if c.DefaultExpenseAccount == "" {
		c.DefaultExpenseAccount = defaults.DefaultExpenseAccount
	}
	if c.DefaultPayableAccount == "" {
		c.DefaultPayableAccount = defaults.DefaultPayableAccount
	}
	return c
}
