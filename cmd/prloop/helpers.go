package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/richhaase/pr-review-loop/internal/domain"
)

// exitCodeError is a wrapper type for returning exit codes via error interface.
type exitCodeError struct {
	code domain.ExitCode
}

func (e exitCodeError) Error() string {
	switch e.code {
	case domain.ExitFailure:
		return "agent failed with error"
	case domain.ExitUsage:
		return "invalid arguments"
	case domain.ExitInterrupted:
		return "agent was interrupted"
	default:
		return fmt.Sprintf("exit code %d", e.code)
	}
}

func exitCode(code domain.ExitCode) error {
	if code == domain.ExitOK {
		return nil
	}
	return exitCodeError{code: code}
}

// emitJSON prints a single compact JSON object to stdout. This is the only
// thing the agents ever write to stdout; everything else goes to stderr.
func emitJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		// Marshal failures on the handoff types are programming errors,
		// but the stdout contract must still hold.
		data = []byte(`{"error":"JSON_ENCODE_FAILED"}`)
	}
	fmt.Fprintln(os.Stdout, string(data))
}

// failJSON emits an error object and returns the exit-1 sentinel.
func failJSON(result domain.ErrorResult) error {
	emitJSON(result)
	return exitCode(domain.ExitFailure)
}

// guarded wraps an agent RunE so an unexpected panic still produces the
// agent's scripted-failure error object instead of a bare stack trace.
func guarded(scriptErrCode string, fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "panic: %v\n%s", r, debug.Stack())
				err = failJSON(domain.ErrorResult{Error: scriptErrCode})
			}
		}()
		return fn(cmd, args)
	}
}
