package cli

import (
	"errors"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/ledgerclose/accrual"
	"github.com/robinvdvleuten/ledgerclose/loader"
	"github.com/robinvdvleuten/ledgerclose/report"
	"github.com/robinvdvleuten/ledgerclose/telemetry"
)

type AccrueCmd struct {
	Specs     string `help:"Accrual specifications CSV file." required:"" type:"existingfile"`
	OutputDir string `help:"Directory for output artifacts." default:"output"`
}

func (cmd *AccrueCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, reportTelemetry := globals.runContext()
	defer reportTelemetry(ctx.Stderr)

	timer := telemetry.FromContext(runCtx).Start("accrue")
	defer timer.End()

	specs, diags, err := loader.AccrualSpecs(cmd.Specs)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return NewCommandError(ExitHardFailure)
	}
	printDiagnostics(ctx.Stderr, diags)

	engine := accrual.NewEngine(accrual.DefaultConfig())
	accruals, err := engine.Process(specs)

	var batchErr *accrual.BatchError
	if err != nil && !errors.As(err, &batchErr) {
		printError(ctx.Stderr, err.Error())
		return NewCommandError(ExitHardFailure)
	}

	for _, a := range accruals {
		printInfof(ctx.Stdout, "%s: %s", a.Type, a.Amount.StringFixed(2))
	}
	if batchErr != nil {
		for _, itemErr := range batchErr.Errors {
			printError(ctx.Stderr, itemErr.Error())
		}
	}

	summary := engine.Summary()
	printInfof(ctx.Stdout, "%d journal entries, debits %s, credits %s, balanced=%t",
		summary.TotalJournalEntries,
		summary.TotalDebits.StringFixed(2), summary.TotalCredits.StringFixed(2),
		summary.Balanced)

	if err := report.WriteJournalEntries(cmd.OutputDir, engine.Entries()); err != nil {
		printError(ctx.Stderr, err.Error())
		return NewCommandError(ExitPartialFailure)
	}

	if batchErr != nil {
		printError(ctx.Stderr, "some accrual specifications failed")
		return NewCommandError(ExitPartialFailure)
	}

	printSuccess(ctx.Stdout, "Accrual postings complete")
	return nil
}
