// Package main provides the CLI entry point for the PR review loop agents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/richhaase/pr-review-loop/internal/domain"
	"github.com/richhaase/pr-review-loop/internal/terminal"
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := &cobra.Command{
		Use:   "prloop",
		Short: "PR review loop agents - precheck, context, harvest, aggregate",
		Long: `Agents for the automated PR review loop. Each agent prints exactly one
JSON object to stdout; progress and diagnostics go to stderr.

Exit codes:
  0 - Success
  1 - Agent failure (stable error code in the JSON object)
  2 - Invalid arguments
  130 - Interrupted`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       buildVersionString(),
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddCommand(
		newPrecheckCmd(),
		newContextCmd(),
		newHarvestCmd(),
		newAggregateCmd(),
		newDecideCmd(),
		newAttachCmd(),
	)

	if !terminal.IsStderrTTY() {
		terminal.DisableColors()
	}
	logger := terminal.NewLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr)
		logger.Log("Interrupted, shutting down...", terminal.StyleWarning)
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if exitErr, ok := err.(exitCodeError); ok {
			return exitErr.code.Int()
		}
		// Flag parse and usage errors. Downstream agents consume stdout,
		// so keep the single-JSON-object contract even here.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		emitJSON(domain.ErrorResult{Error: "INVALID_ARGS"})
		return domain.ExitUsage.Int()
	}
	return domain.ExitOK.Int()
}
