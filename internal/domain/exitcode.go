package domain

// ExitCode represents the process exit status of an agent invocation.
type ExitCode int

const (
	// ExitOK indicates the agent completed successfully.
	ExitOK ExitCode = 0
	// ExitFailure indicates an operational failure (reported as a JSON error object).
	ExitFailure ExitCode = 1
	// ExitUsage indicates invalid arguments.
	ExitUsage ExitCode = 2
	// ExitInterrupted indicates the agent was interrupted by a signal.
	ExitInterrupted ExitCode = 130
)

// Int returns the exit code as an int for use with os.Exit.
func (e ExitCode) Int() int {
	return int(e)
}
