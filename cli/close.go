package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/ledgerclose/pipeline"
	"github.com/robinvdvleuten/ledgerclose/report"
)

type CloseCmd struct {
	GL           string  `help:"General ledger CSV file." required:"" type:"existingfile"`
	Bank         string  `help:"Bank statement CSV file." required:"" type:"existingfile"`
	Transactions string  `help:"Posted transactions CSV file." required:"" type:"existingfile"`
	Accruals     string  `help:"Accrual specifications CSV file." required:"" type:"existingfile"`
	Period       string  `help:"Accounting period label, e.g. 2024-12."`
	Tolerance    float64 `help:"Acceptable amount difference for a match." default:"0.01"`
	Threshold    float64 `help:"Risk score at or below which unmatched GL transactions auto-reconcile." default:"50"`
	OutputDir    string  `help:"Directory for output artifacts." default:"output"`
	Watch        bool    `help:"Re-run the close whenever an input file changes."`
	Approve      bool    `help:"Prompt for reviewer approval after the run."`
}

func (cmd *CloseCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, reportTelemetry := globals.runContext()
	defer reportTelemetry(ctx.Stderr)

	if cmd.Watch {
		return cmd.watch(runCtx, ctx)
	}
	return cmd.runOnce(runCtx, ctx)
}

func (cmd *CloseCmd) runOnce(runCtx context.Context, ctx *kong.Context) error {
	result := pipeline.Run(runCtx, cmd.inputs(), cmd.options())

	cmd.printSummary(ctx.Stdout, result)

	if err := cmd.writeArtifacts(result); err != nil {
		printError(ctx.Stderr, err.Error())
		return NewCommandError(ExitHardFailure)
	}

	if cmd.Approve {
		approved, err := promptYesNo(fmt.Sprintf("Approve close for period %s?", result.Period))
		if err != nil {
			return err
		}
		if approved {
			printSuccess(ctx.Stdout, "Close approved by reviewer")
		} else {
			printInfof(ctx.Stdout, "Close remains pending approval")
		}
	}

	if result.Failed() {
		return NewCommandError(ExitPartialFailure)
	}
	return nil
}

func (cmd *CloseCmd) inputs() pipeline.Inputs {
	return pipeline.Inputs{
		GLFile:           cmd.GL,
		BankFile:         cmd.Bank,
		TransactionsFile: cmd.Transactions,
		AccrualsFile:     cmd.Accruals,
	}
}

func (cmd *CloseCmd) options() pipeline.Options {
	return pipeline.Options{
		Period:        cmd.Period,
		Tolerance:     decimal.NewFromFloat(cmd.Tolerance),
		RiskThreshold: cmd.Threshold,
	}
}

func (cmd *CloseCmd) writeArtifacts(result *pipeline.Result) error {
	if result.Reconciliation != nil {
		if err := report.WriteReconciliation(cmd.OutputDir, "reconciliation", result.Reconciliation.Result); err != nil {
			return err
		}
	}
	if result.Accruals != nil {
		if err := report.WriteJournalEntries(cmd.OutputDir, result.Accruals.Entries); err != nil {
			return err
		}
	}
	if result.Statements != nil {
		if err := report.WriteJSON(cmd.OutputDir+"/financial_statements.json", result.Statements.Set); err != nil {
			return err
		}
	}
	return report.WriteCloseResult(cmd.OutputDir, result)
}

// printSummary prints the per-step ✓/✗ block every run produces, with a
// one-line reason on failure.
func (cmd *CloseCmd) printSummary(w io.Writer, result *pipeline.Result) {
	printInfof(w, "Close run %s (period %s)", result.RunID, result.Period)

	for _, step := range result.Steps {
		if step.Status == pipeline.StepCompleted {
			printSuccess(w, fmt.Sprintf("%s: %s", step.Name, step.Summary))
		} else {
			printError(w, fmt.Sprintf("%s: %s", step.Name, step.Error))
		}
	}

	printInfof(w, "Status: %s, state: %s", result.Status, result.State)
}

// watch re-runs the close whenever one of the input files changes. Events
// are debounced because editors often write files in multiple steps.
func (cmd *CloseCmd) watch(runCtx context.Context, ctx *kong.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, file := range []string{cmd.GL, cmd.Bank, cmd.Transactions, cmd.Accruals} {
		if err := watcher.Add(file); err != nil {
			return fmt.Errorf("failed to watch %s: %w", file, err)
		}
	}

	signalCtx, stop := signal.NotifyContext(runCtx, os.Interrupt)
	defer stop()

	if err := cmd.runOnce(runCtx, ctx); err != nil {
		// Keep watching; the next change may fix the inputs.
		printError(ctx.Stderr, "close run failed, watching for changes")
	}
	printInfof(ctx.Stdout, "Watching input files, press Ctrl+C to stop")

	const debounceDelay = 100 * time.Millisecond
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	rerun := make(chan struct{}, 1)

	for {
		select {
		case <-signalCtx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// Re-add files that editors replace via rename.
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				_ = watcher.Add(event.Name)
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(ctx.Stderr, fmt.Sprintf("watch error: %v", err))

		case <-rerun:
			printInfof(ctx.Stdout, "Input changed, re-running close")
			if err := cmd.runOnce(runCtx, ctx); err != nil {
				printError(ctx.Stderr, "close run failed, watching for changes")
			}
		}
	}
}
