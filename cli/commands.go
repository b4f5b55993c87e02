package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
	Verbose   bool `short:"v" help:"Enable debug logging."`
	Quiet     bool `short:"q" help:"Only log errors."`
}

type Commands struct {
	Globals

	Reconcile  ReconcileCmd  `cmd:"" help:"Reconcile general-ledger transactions against a bank statement."`
	Accrue     AccrueCmd     `cmd:"" help:"Calculate accruals and post their journal entries."`
	Statements StatementsCmd `cmd:"" help:"Generate P&L, balance sheet, and cash flow statements."`
	Close      CloseCmd      `cmd:"" help:"Run the full month-end close pipeline."`
}
