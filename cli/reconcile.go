package cli

import (
	"io"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/ledgerclose/loader"
	"github.com/robinvdvleuten/ledgerclose/recon"
	"github.com/robinvdvleuten/ledgerclose/report"
	"github.com/robinvdvleuten/ledgerclose/telemetry"
)

type ReconcileCmd struct {
	GL        string  `help:"General ledger CSV file." required:"" type:"existingfile"`
	Bank      string  `help:"Bank statement CSV file." required:"" type:"existingfile"`
	Tolerance float64 `help:"Acceptable amount difference for a match." default:"0.01"`
	Threshold float64 `help:"Risk score at or below which unmatched GL transactions auto-reconcile." default:"50"`
	OutputDir string  `help:"Directory for output artifacts." default:"output"`
}

func (cmd *ReconcileCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, reportTelemetry := globals.runContext()
	defer reportTelemetry(ctx.Stderr)

	timer := telemetry.FromContext(runCtx).Start("reconcile")
	defer timer.End()

	gl, glDiags, err := loader.Transactions(cmd.GL)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return NewCommandError(ExitHardFailure)
	}
	bank, bankDiags, err := loader.Transactions(cmd.Bank)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return NewCommandError(ExitHardFailure)
	}
	printDiagnostics(ctx.Stderr, glDiags, bankDiags)

	result := recon.ReconcileWithTolerance(gl, bank, decimal.NewFromFloat(cmd.Tolerance))
	summary := result.Summary()

	auto, pending := recon.AutoReconcile(result.UnmatchedGL, cmd.Threshold)

	printMatches(ctx.Stdout, result)
	printInfof(ctx.Stdout, "%d/%d matched (%s%%), %d unmatched GL, %d unmatched bank, %d discrepancies",
		summary.MatchedTransactions, summary.TotalGLTransactions,
		summary.ReconciliationPercentage.StringFixed(2),
		summary.UnmatchedGLTransactions, summary.UnmatchedBankTransaction,
		summary.DiscrepanciesFound)
	printInfof(ctx.Stdout, "%d unmatched GL transactions auto-reconciled (risk ≤ %.0f), %d pending review",
		len(auto), cmd.Threshold, len(pending))

	if err := report.WriteReconciliation(cmd.OutputDir, "reconciliation", result); err != nil {
		printError(ctx.Stderr, err.Error())
		return NewCommandError(ExitPartialFailure)
	}

	printSuccess(ctx.Stdout, "Reconciliation complete")
	return nil
}

func printMatches(w io.Writer, result *recon.Result) {
	if len(result.Matched) > 0 {
		table := report.NewTable("gl date", "gl description", "bank description", "amount", "confidence")
		for _, m := range result.Matched {
			table.AddRow(m.GL.Date.String(), m.GL.Description, m.Bank.Description, m.GL.Amount.StringFixed(2), string(m.Confidence))
		}
		table.Render(w)
	}

	if len(result.Discrepancies) > 0 {
		table := report.NewTable("gl description", "gl amount", "bank amount", "difference", "type")
		for _, d := range result.Discrepancies {
			table.AddRow(d.GL.Description, d.GL.Amount.StringFixed(2), d.Bank.Amount.StringFixed(2), d.Difference.StringFixed(2), d.Kind)
		}
		table.Render(w)
	}
}

func printDiagnostics(w io.Writer, all ...*loader.Diagnostics) {
	for _, diags := range all {
		if diags == nil {
			continue
		}
		for _, issue := range diags.Issues {
			printInfof(w, "%s", issue)
		}
	}
}
