// Package pipeline orchestrates the month-end close: reconciliation, accrual
// postings, and statement generation run as an ordered sequence whose result
// always lands in pending-approval for a human reviewer.
//
// The three steps are deliberately not a must-all-succeed chain. A step's
// failure is caught and recorded, and the next step still runs; a missing
// bank file should not block generating statements from transactions that
// are otherwise available. Closing the period is an external approval
// action, never taken here.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/ledgerclose/accrual"
	"github.com/robinvdvleuten/ledgerclose/loader"
	"github.com/robinvdvleuten/ledgerclose/logger"
	"github.com/robinvdvleuten/ledgerclose/recon"
	"github.com/robinvdvleuten/ledgerclose/record"
	"github.com/robinvdvleuten/ledgerclose/statement"
	"github.com/robinvdvleuten/ledgerclose/telemetry"
)

// State is the position of a close run in its lifecycle.
type State int

const (
	StateNotStarted State = iota
	StateReconciliationRunning
	StateReconciliationDone
	StateReconciliationFailed
	StateAccrualsRunning
	StateAccrualsDone
	StateAccrualsFailed
	StateStatementsRunning
	StateStatementsDone
	StateStatementsFailed
	StatePendingApproval
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "NotStarted"
	case StateReconciliationRunning:
		return "ReconciliationRunning"
	case StateReconciliationDone:
		return "ReconciliationDone"
	case StateReconciliationFailed:
		return "ReconciliationFailed"
	case StateAccrualsRunning:
		return "AccrualsRunning"
	case StateAccrualsDone:
		return "AccrualsDone"
	case StateAccrualsFailed:
		return "AccrualsFailed"
	case StateStatementsRunning:
		return "StatementsRunning"
	case StateStatementsDone:
		return "StatementsDone"
	case StateStatementsFailed:
		return "StatementsFailed"
	case StatePendingApproval:
		return "PendingApproval"
	default:
		return "Unknown"
	}
}

// StepStatus marks a step's outcome.
type StepStatus string

const (
	StepCompleted StepStatus = "Completed"
	StepFailed    StepStatus = "Failed"
)

// StepResult records one step's outcome for the aggregate report.
type StepResult struct {
	Name    string     `json:"name"`
	Status  StepStatus `json:"status"`
	Summary string     `json:"summary,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// Status is the aggregate run outcome. The run itself always completes; the
// distinction is whether any step inside it failed.
type Status string

const (
	StatusCompleted             Status = "Completed"
	StatusCompletedWithFailures Status = "CompletedWithFailures"
)

// Inputs names the tabular sources of one close run.
type Inputs struct {
	GLFile           string
	BankFile         string
	TransactionsFile string
	AccrualsFile     string
}

// Options tunes a close run. Zero values fall back to defaults.
type Options struct {
	Period        string
	Tolerance     decimal.Decimal
	RiskThreshold float64
	AccrualConfig accrual.Config
}

func (o Options) withDefaults() Options {
	if o.Tolerance.IsZero() {
		o.Tolerance = recon.DefaultTolerance
	}
	if o.RiskThreshold == 0 {
		o.RiskThreshold = recon.DefaultRiskThreshold
	}
	return o
}

// ReconciliationOutcome is the reconciliation step's detail: the match
// result, its summary, and the risk-gated split of the unmatched GL side.
type ReconciliationOutcome struct {
	Result         *recon.Result
	Summary        recon.Summary
	AutoReconciled []record.Transaction
	PendingReview  []record.Transaction
	RiskThreshold  float64
	Diagnostics    []*loader.Diagnostics
}

// AccrualOutcome is the accruals step's detail.
type AccrualOutcome struct {
	Accruals    []accrual.Accrual
	Entries     []*record.JournalEntry
	Summary     accrual.Summary
	ItemErrors  []string
	Diagnostics *loader.Diagnostics
}

// StatementOutcome is the statements step's detail.
type StatementOutcome struct {
	Set         statement.Set
	Diagnostics *loader.Diagnostics
}

// Result is the aggregate outcome of one close run. It is read-only once
// Run returns, and every run gets its own Result; no state is shared
// between runs.
type Result struct {
	RunID      string    `json:"run_id"`
	Period     string    `json:"period,omitempty"`
	StartedAt  time.Time `json:"process_start"`
	FinishedAt time.Time `json:"process_end"`
	State      State     `json:"-"`
	StateName  string    `json:"state"`
	Status     Status    `json:"status"`

	Steps []StepResult `json:"steps"`

	Reconciliation *ReconciliationOutcome `json:"-"`
	Accruals       *AccrualOutcome        `json:"-"`
	Statements     *StatementOutcome      `json:"-"`
}

// Failed reports whether any step failed.
func (r *Result) Failed() bool {
	for _, step := range r.Steps {
		if step.Status == StepFailed {
			return true
		}
	}
	return false
}

// Run executes the full close pipeline over the named inputs. It always
// returns a Result in StatePendingApproval; per-step failures are recorded
// in Result.Steps rather than propagated.
func Run(ctx context.Context, inputs Inputs, opts Options) *Result {
	opts = opts.withDefaults()
	log := logger.FromContext(ctx)
	timer := telemetry.FromContext(ctx).Start("close " + opts.Period)
	defer timer.End()

	result := &Result{
		RunID:     uuid.NewString(),
		Period:    opts.Period,
		StartedAt: time.Now(),
		State:     StateNotStarted,
	}

	log.Info().Str("run_id", result.RunID).Str("period", opts.Period).Msg("starting month-end close")

	// Step 1: reconciliation.
	result.State = StateReconciliationRunning
	stepTimer := timer.Child("reconciliation")
	outcome, summary, err := runReconciliation(inputs, opts)
	stepTimer.End()
	if err != nil {
		log.Error().Err(err).Msg("reconciliation failed")
		result.State = StateReconciliationFailed
		result.Steps = append(result.Steps, StepResult{Name: "reconciliation", Status: StepFailed, Error: err.Error()})
	} else {
		log.Info().Str("summary", summary).Msg("reconciliation completed")
		result.State = StateReconciliationDone
		result.Reconciliation = outcome
		result.Steps = append(result.Steps, StepResult{Name: "reconciliation", Status: StepCompleted, Summary: summary})
	}

	// Step 2: accruals.
	result.State = StateAccrualsRunning
	stepTimer = timer.Child("accruals")
	accrualOutcome, summary, err := runAccruals(inputs, opts)
	stepTimer.End()
	if err != nil {
		log.Error().Err(err).Msg("accrual postings failed")
		result.State = StateAccrualsFailed
		result.Steps = append(result.Steps, StepResult{Name: "accruals", Status: StepFailed, Error: err.Error()})
	} else {
		log.Info().Str("summary", summary).Msg("accrual postings completed")
		result.State = StateAccrualsDone
		result.Accruals = accrualOutcome
		result.Steps = append(result.Steps, StepResult{Name: "accruals", Status: StepCompleted, Summary: summary})
	}

	// Step 3: statements.
	result.State = StateStatementsRunning
	stepTimer = timer.Child("statements")
	statementOutcome, summary, err := runStatements(inputs)
	stepTimer.End()
	if err != nil {
		log.Error().Err(err).Msg("statement generation failed")
		result.State = StateStatementsFailed
		result.Steps = append(result.Steps, StepResult{Name: "financial_statements", Status: StepFailed, Error: err.Error()})
	} else {
		log.Info().Str("summary", summary).Msg("statement generation completed")
		result.State = StateStatementsDone
		result.Statements = statementOutcome
		result.Steps = append(result.Steps, StepResult{Name: "financial_statements", Status: StepCompleted, Summary: summary})
	}

	result.State = StatePendingApproval
	result.StateName = result.State.String()
	result.FinishedAt = time.Now()
	result.Status = StatusCompleted
	if result.Failed() {
		result.Status = StatusCompletedWithFailures
	}

	log.Info().
		Str("run_id", result.RunID).
		Str("status", string(result.Status)).
		Msg("close pipeline finished, pending approval")

	return result
}
