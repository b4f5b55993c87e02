package cli

import (
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/ledgerclose/loader"
	"github.com/robinvdvleuten/ledgerclose/report"
	"github.com/robinvdvleuten/ledgerclose/statement"
	"github.com/robinvdvleuten/ledgerclose/telemetry"
)

type StatementsCmd struct {
	Transactions string `help:"Posted transactions CSV file." required:"" type:"existingfile"`
	OutputDir    string `help:"Directory for output artifacts." default:"output"`
}

func (cmd *StatementsCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, reportTelemetry := globals.runContext()
	defer reportTelemetry(ctx.Stderr)

	timer := telemetry.FromContext(runCtx).Start("statements")
	defer timer.End()

	postings, diags, err := loader.Postings(cmd.Transactions)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return NewCommandError(ExitHardFailure)
	}
	printDiagnostics(ctx.Stderr, diags)

	set := statement.NewGenerator(postings).Generate()

	printInfof(ctx.Stdout, "Revenue %s, expenses %s, net income %s",
		set.ProfitAndLoss.Revenue.Total.StringFixed(2),
		set.ProfitAndLoss.Expenses.Total.StringFixed(2),
		set.ProfitAndLoss.NetIncome.StringFixed(2))
	printInfof(ctx.Stdout, "Assets %s, liabilities %s, equity %s",
		set.BalanceSheet.Assets.Total.StringFixed(2),
		set.BalanceSheet.Liabilities.Total.StringFixed(2),
		set.BalanceSheet.Equity.Total.StringFixed(2))
	if !set.BalanceSheet.Balanced {
		printError(ctx.Stderr, "balance sheet does not balance")
	}

	path := filepath.Join(cmd.OutputDir, "financial_statements.json")
	if err := report.WriteJSON(path, set); err != nil {
		printError(ctx.Stderr, err.Error())
		return NewCommandError(ExitPartialFailure)
	}

	printSuccess(ctx.Stdout, "Financial statements written to "+path)
	return nil
}
