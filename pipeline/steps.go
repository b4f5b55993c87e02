package pipeline

import (
	"fmt"

	"github.com/robinvdvleuten/ledgerclose/accrual"
	"github.com/robinvdvleuten/ledgerclose/loader"
	"github.com/robinvdvleuten/ledgerclose/recon"
	"github.com/robinvdvleuten/ledgerclose/statement"
)

func runReconciliation(inputs Inputs, opts Options) (*ReconciliationOutcome, string, error) {
	gl, glDiags, err := loader.Transactions(inputs.GLFile)
	if err != nil {
		return nil, "", fmt.Errorf("loading general ledger: %w", err)
	}
	bank, bankDiags, err := loader.Transactions(inputs.BankFile)
	if err != nil {
		return nil, "", fmt.Errorf("loading bank statement: %w", err)
	}

	result := recon.ReconcileWithTolerance(gl, bank, opts.Tolerance)
	summary := result.Summary()

	auto, pending := recon.AutoReconcile(result.UnmatchedGL, opts.RiskThreshold)

	outcome := &ReconciliationOutcome{
		Result:         result,
		Summary:        summary,
		AutoReconciled: auto,
		PendingReview:  pending,
		RiskThreshold:  opts.RiskThreshold,
		Diagnostics:    []*loader.Diagnostics{glDiags, bankDiags},
	}

	line := fmt.Sprintf("%d/%d matched (%s%%), %d discrepancies, %d auto-reconciled, %d pending review",
		summary.MatchedTransactions, summary.TotalGLTransactions,
		summary.ReconciliationPercentage.StringFixed(2),
		summary.DiscrepanciesFound, len(auto), len(pending))

	return outcome, line, nil
}

func runAccruals(inputs Inputs, opts Options) (*AccrualOutcome, string, error) {
	specs, diags, err := loader.AccrualSpecs(inputs.AccrualsFile)
	if err != nil {
		return nil, "", fmt.Errorf("loading accrual specifications: %w", err)
	}

	engine := accrual.NewEngine(opts.AccrualConfig)
	accruals, err := engine.Process(specs)

	outcome := &AccrualOutcome{
		Accruals:    accruals,
		Entries:     engine.Entries(),
		Summary:     engine.Summary(),
		Diagnostics: diags,
	}

	// A batch error is a partial failure: the successful specifications
	// still posted, so the step reports item errors instead of failing.
	if batchErr, ok := err.(*accrual.BatchError); ok {
		for _, itemErr := range batchErr.Errors {
			outcome.ItemErrors = append(outcome.ItemErrors, itemErr.Error())
		}
	} else if err != nil {
		return nil, "", err
	}

	line := fmt.Sprintf("%d accruals posted, %d journal entries, %d failed items",
		len(accruals), outcome.Summary.TotalJournalEntries, len(outcome.ItemErrors))

	return outcome, line, nil
}

func runStatements(inputs Inputs) (*StatementOutcome, string, error) {
	postings, diags, err := loader.Postings(inputs.TransactionsFile)
	if err != nil {
		return nil, "", fmt.Errorf("loading posted transactions: %w", err)
	}

	generator := statement.NewGenerator(postings)
	set := generator.Generate()

	line := fmt.Sprintf("net income %s, assets %s, balanced=%t",
		set.ProfitAndLoss.NetIncome.StringFixed(2),
		set.BalanceSheet.Assets.Total.StringFixed(2),
		set.BalanceSheet.Balanced)

	return &StatementOutcome{Set: set, Diagnostics: diags}, line, nil
}
