package cli

// Exit codes: 0 success, 1 one or more pipeline steps failed but the run
// completed, 2 inputs unreadable.
const (
	ExitSuccess        = 0
	ExitPartialFailure = 1
	ExitHardFailure    = 2
)

// CommandError signals a command failure with a specific exit code.
// Commands return this after handling all of their own output; main
// centralizes exit handling instead of commands calling os.Exit directly.
type CommandError struct {
	exitCode int
}

// NewCommandError creates a new CommandError with the given exit code.
func NewCommandError(exitCode int) *CommandError {
	return &CommandError{exitCode: exitCode}
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return "command failed"
}

// ExitCode returns the exit code associated with this error.
func (e *CommandError) ExitCode() int {
	return e.exitCode
}
