package main

import (
	"github.com/spf13/cobra"

	"github.com/richhaase/pr-review-loop/internal/config"
	"github.com/richhaase/pr-review-loop/internal/domain"
	"github.com/richhaase/pr-review-loop/internal/precheck"
	"github.com/richhaase/pr-review-loop/internal/terminal"
)

func newPrecheckCmd() *cobra.Command {
	var (
		pr    int
		round int
	)

	cmd := &cobra.Command{
		Use:   "precheck",
		Short: "Verify PR preconditions and run local lint/build gates",
		Long: `Verify the working tree, gh auth, and PR state, then run the configured
cache-clear, lint, and build commands. Failures are written to a fix file
in the cache directory and reported as findings.`,
		Args: cobra.NoArgs,
		RunE: guarded("PRECHECK_SCRIPT_FAILED", func(cmd *cobra.Command, _ []string) error {
			if pr <= 0 {
				return failJSON(domain.ErrorResult{Error: "PR_NUMBER_NOT_PROVIDED"})
			}
			if round < 1 {
				return failJSON(domain.ErrorResult{Error: "ROUND_INVALID", PRNumber: pr})
			}

			ctx := cmd.Context()
			logger := terminal.NewLogger()

			cmds := config.Defaults.Cmds
			if loaded, err := config.LoadWithWarnings(ctx); err == nil {
				for _, w := range loaded.Warnings {
					logger.Log(w, terminal.StyleWarning)
				}
				resolved := config.Resolve(loaded.Config, config.LoadEnvState(), config.FlagState{}, config.ResolvedConfig{})
				cmds = resolved.Cmds
			} else {
				logger.Logf(terminal.StyleWarning, "config load failed, using defaults: %v", err)
			}

			outcome := precheck.Run(ctx, logger, precheck.Options{
				PR:    pr,
				Round: round,
				Cmds:  cmds,
			})
			emitJSON(outcome.Payload)
			return exitCode(outcome.Exit)
		}),
	}

	cmd.Flags().IntVar(&pr, "pr", 0, "PR number to precheck (required)")
	cmd.Flags().IntVar(&round, "round", 1, "Review round number")
	return cmd
}
