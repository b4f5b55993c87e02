// Package statement classifies accounts, aggregates posted balances, and
// assembles the three period-end financial statements: Profit & Loss,
// Balance Sheet, and a simplified Cash Flow.
//
// The cash flow statement is intentionally approximate. It starts from net
// income and adjusts by account-prefix heuristics rather than the full
// indirect method; its output says so. The balance-sheet equation is checked
// explicitly and any imbalance is reported, never hidden or forced.
package statement

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/ledgerclose/record"
)

// cashAccounts are excluded from operating-activity adjustments; the cash
// flow statement explains the change in these accounts, so adjusting by them
// would be circular.
var cashAccounts = map[string]bool{
	"1000": true,
	"1001": true,
}

// LineItem is one account's contribution to a statement section.
type LineItem struct {
	Account     string          `json:"account"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

// Section is a named statement section with a total and its line items.
type Section struct {
	Total decimal.Decimal `json:"total"`
	Items []LineItem      `json:"details,omitempty"`
}

// ProfitAndLoss is the income statement for the period.
type ProfitAndLoss struct {
	StatementType   string          `json:"statement_type"`
	PeriodStart     record.Date     `json:"period_start"`
	PeriodEnd       record.Date     `json:"period_end"`
	Revenue         Section         `json:"revenue"`
	CostOfGoodsSold Section         `json:"cost_of_goods_sold"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`
	Expenses        Section         `json:"operating_expenses"`
	OperatingIncome decimal.Decimal `json:"operating_income"`
	NetIncome       decimal.Decimal `json:"net_income"`
}

// BalanceSheet reports assets, liabilities, and equity as of period end.
// Balanced is the explicit result of the assets == liabilities + equity
// check; an imbalance is reported, never silently absorbed.
type BalanceSheet struct {
	StatementType             string          `json:"statement_type"`
	AsOfDate                  record.Date     `json:"as_of_date"`
	Assets                    Section         `json:"assets"`
	Liabilities               Section         `json:"liabilities"`
	Equity                    Section         `json:"equity"`
	TotalLiabilitiesAndEquity decimal.Decimal `json:"total_liabilities_and_equity"`
	Balanced                  bool            `json:"balanced"`
}

// CashFlow is the simplified cash flow statement.
type CashFlow struct {
	StatementType string          `json:"statement_type"`
	PeriodStart   record.Date     `json:"period_start"`
	PeriodEnd     record.Date     `json:"period_end"`
	Operating     Section         `json:"operating_activities"`
	Investing     Section         `json:"investing_activities"`
	Financing     Section         `json:"financing_activities"`
	NetCashChange decimal.Decimal `json:"net_cash_change"`
	Note          string          `json:"note"`
}

// cashFlowNote documents the method's limitation in the output itself.
const cashFlowNote = "Simplified cash flow derived from net income and account-prefix heuristics; not a full indirect-method statement."

// Set bundles the three statements of one generator run.
type Set struct {
	ProfitAndLoss ProfitAndLoss `json:"profit_and_loss"`
	BalanceSheet  BalanceSheet  `json:"balance_sheet"`
	CashFlow      CashFlow      `json:"cash_flow"`
}

// Generator folds posted transactions into account balances and assembles
// statements. All state is per-instance; create a fresh Generator per run.
type Generator struct {
	accounts    map[string]*Account
	periodStart record.Date
	periodEnd   record.Date
}

// NewGenerator builds a generator from posted transactions. Postings with an
// empty account code are ignored; accounts that classify as Unknown are
// folded and retained for diagnostics but excluded from statement totals.
func NewGenerator(postings []record.Posting) *Generator {
	g := &Generator{accounts: make(map[string]*Account)}

	for _, posting := range postings {
		if !posting.Date.IsZero() {
			if g.periodStart.IsZero() || posting.Date.Before(g.periodStart.Time) {
				g.periodStart = posting.Date
			}
			if g.periodEnd.IsZero() || posting.Date.After(g.periodEnd.Time) {
				g.periodEnd = posting.Date
			}
		}

		if posting.Account == "" {
			continue
		}

		account, ok := g.accounts[posting.Account]
		if !ok {
			account = &Account{
				Code: posting.Account,
				Type: ClassifyAccount(posting.Account),
			}
			g.accounts[posting.Account] = account
		}

		account.TotalDebits = account.TotalDebits.Add(posting.Debit)
		account.TotalCredits = account.TotalCredits.Add(posting.Credit)

		if account.Type.IsDebitNormal() {
			account.Balance = account.Balance.Add(posting.Debit.Sub(posting.Credit))
		} else {
			account.Balance = account.Balance.Add(posting.Credit.Sub(posting.Debit))
		}
	}

	return g
}

// Accounts returns the raw account map, including Unknown-typed accounts.
func (g *Generator) Accounts() map[string]*Account {
	return g.accounts
}

// sortedAccounts returns the accounts ordered by code so statement output is
// deterministic.
func (g *Generator) sortedAccounts() []*Account {
	accounts := make([]*Account, 0, len(g.accounts))
	for _, account := range g.accounts {
		accounts = append(accounts, account)
	}
	slices.SortFunc(accounts, func(a, b *Account) int {
		return strings.Compare(a.Code, b.Code)
	})
	return accounts
}

// section sums the balances of all accounts of one type into a Section.
func (g *Generator) section(t AccountType) Section {
	section := Section{Total: decimal.Zero}
	for _, account := range g.sortedAccounts() {
		if account.Type != t {
			continue
		}
		section.Total = section.Total.Add(account.Balance)
		section.Items = append(section.Items, LineItem{
			Account: account.Code,
			Amount:  account.Balance,
		})
	}
	return section
}

// ProfitAndLoss assembles the income statement.
func (g *Generator) ProfitAndLoss() ProfitAndLoss {
	revenue := g.section(AccountTypeRevenue)
	cogs := g.section(AccountTypeCOGS)
	expenses := g.section(AccountTypeExpense)

	grossProfit := revenue.Total.Sub(cogs.Total)
	operatingIncome := grossProfit.Sub(expenses.Total)

	return ProfitAndLoss{
		StatementType:   "Profit & Loss Statement",
		PeriodStart:     g.periodStart,
		PeriodEnd:       g.periodEnd,
		Revenue:         revenue,
		CostOfGoodsSold: cogs,
		GrossProfit:     grossProfit,
		Expenses:        expenses,
		OperatingIncome: operatingIncome,
		// No non-operating adjustments in this model.
		NetIncome: operatingIncome,
	}
}

// BalanceSheet assembles the balance sheet, folding net income into equity
// as retained earnings and checking the balance-sheet equation.
func (g *Generator) BalanceSheet() BalanceSheet {
	assets := g.section(AccountTypeAsset)
	liabilities := g.section(AccountTypeLiability)
	equity := g.section(AccountTypeEquity)

	netIncome := g.ProfitAndLoss().NetIncome
	equity.Total = equity.Total.Add(netIncome)
	equity.Items = append(equity.Items, LineItem{
		Account:     "Retained Earnings",
		Description: "Net income for the period",
		Amount:      netIncome,
	})

	totalLiabilitiesAndEquity := liabilities.Total.Add(equity.Total)

	return BalanceSheet{
		StatementType:             "Balance Sheet",
		AsOfDate:                  g.periodEnd,
		Assets:                    assets,
		Liabilities:               liabilities,
		Equity:                    equity,
		TotalLiabilitiesAndEquity: totalLiabilitiesAndEquity,
		Balanced:                  record.AmountEqual(assets.Total, totalLiabilitiesAndEquity, record.BalanceSheetTolerance),
	}
}

// CashFlow assembles the simplified cash flow statement. Net income is the
// operating base; specific prefixes are tested before the general
// current-account rule ("15" fixed assets before "1", "25" long-term debt
// before the liability fallthrough).
func (g *Generator) CashFlow() CashFlow {
	operating := Section{Total: decimal.Zero}
	investing := Section{Total: decimal.Zero}
	financing := Section{Total: decimal.Zero}

	netIncome := g.ProfitAndLoss().NetIncome
	operating.Total = operating.Total.Add(netIncome)
	operating.Items = append(operating.Items, LineItem{
		Account:     "Net Income",
		Description: "Operating-activities base",
		Amount:      netIncome,
	})

	for _, account := range g.sortedAccounts() {
		switch {
		case strings.HasPrefix(account.Code, "15"):
			investing.Total = investing.Total.Sub(account.Balance)
			investing.Items = append(investing.Items, LineItem{
				Account:     account.Code,
				Description: "Asset acquisition",
				Amount:      account.Balance.Neg(),
			})

		case account.Type == AccountTypeLiability && strings.HasPrefix(account.Code, "25"):
			financing.Total = financing.Total.Add(account.Balance)
			financing.Items = append(financing.Items, LineItem{
				Account:     account.Code,
				Description: "Debt change",
				Amount:      account.Balance,
			})

		case (account.Type == AccountTypeAsset || account.Type == AccountTypeLiability) &&
			strings.HasPrefix(account.Code, "1") && !cashAccounts[account.Code]:
			operating.Total = operating.Total.Sub(account.Balance)
			operating.Items = append(operating.Items, LineItem{
				Account:     account.Code,
				Description: "Working-capital change",
				Amount:      account.Balance.Neg(),
			})
		}
	}

	return CashFlow{
		StatementType: "Cash Flow Statement",
		PeriodStart:   g.periodStart,
		PeriodEnd:     g.periodEnd,
		Operating:     operating,
		Investing:     investing,
		Financing:     financing,
		NetCashChange: operating.Total.Add(investing.Total).Add(financing.Total),
		Note:          cashFlowNote,
	}
}

// Generate assembles all three statements.
func (g *Generator) Generate() Set {
	return Set{
		ProfitAndLoss: g.ProfitAndLoss(),
		BalanceSheet:  g.BalanceSheet(),
		CashFlow:      g.CashFlow(),
	}
}
