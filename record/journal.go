package record

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// JournalLine is one debit/credit row of a journal entry.
type JournalLine struct {
	Account     string          `json:"account"`
	AccountType string          `json:"account_type"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// JournalEntry is a double-entry posting. Entries are only obtainable through
// NewJournalEntry, which enforces the balance invariant, so an unbalanced
// entry value never exists.
type JournalEntry struct {
	Date        Date            `json:"entry_date"`
	Description string          `json:"description"`
	Lines       []JournalLine   `json:"lines"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

// UnbalancedEntryError reports a journal entry whose debit and credit totals
// disagree beyond tolerance. This is a programming or input error, not a
// condition to recover from by forcing balance.
type UnbalancedEntryError struct {
	Description string
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("unbalanced journal entry %q: debits %s != credits %s",
		e.Description, e.TotalDebit.StringFixed(2), e.TotalCredit.StringFixed(2))
}

// NewJournalEntry builds a journal entry from its lines, computing totals and
// rejecting the entry if it does not balance within Tolerance or has fewer
// than two lines.
func NewJournalEntry(date Date, description string, lines []JournalLine) (*JournalEntry, error) {
	if len(lines) < 2 {
		return nil, fmt.Errorf("journal entry %q needs at least two lines, got %d", description, len(lines))
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range lines {
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	if !AmountEqual(totalDebit, totalCredit, Tolerance) {
		return nil, &UnbalancedEntryError{
			Description: description,
			TotalDebit:  totalDebit,
			TotalCredit: totalCredit,
		}
	}

	return &JournalEntry{
		Date:        date,
		Description: description,
		Lines:       lines,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
	}, nil
}
