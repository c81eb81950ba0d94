package main

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/richhaase/pr-review-loop/internal/cache"
	"github.com/richhaase/pr-review-loop/internal/domain"
	"github.com/richhaase/pr-review-loop/internal/github"
	"github.com/richhaase/pr-review-loop/internal/harvest"
	"github.com/richhaase/pr-review-loop/internal/terminal"
)

const harvestDetailMax = 800

// harvestResult is the stdout handoff emitted on success.
type harvestResult struct {
	RawFile string `json:"rawFile"`
}

func newHarvestCmd() *cobra.Command {
	var (
		pr    int
		round int
		runID string
		repo  string
	)

	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Harvest PR review threads and comments into a raw cache file",
		Long: `Fetch unresolved review threads, reviews, and conversation comments for
a PR, drop the loop's own comments, and write the raw payload as JSON
into the cache directory.`,
		Args: cobra.NoArgs,
		RunE: guarded("HARVEST_FAILED", func(cmd *cobra.Command, _ []string) error {
			if pr <= 0 {
				return failJSON(domain.ErrorResult{Error: "PR_NUMBER_NOT_PROVIDED"})
			}
			if round < 1 {
				return failJSON(domain.ErrorResult{Error: "ROUND_INVALID", PRNumber: pr})
			}

			ctx := cmd.Context()

			if _, err := github.AuthStatus(ctx, ""); err != nil {
				if errors.Is(err, github.ErrGHNotFound) {
					return failJSON(domain.ErrorResult{
						Error:  "GH_CLI_NOT_FOUND",
						Detail: "gh not found in PATH",
					})
				}
				return failJSON(domain.ErrorResult{Error: "GH_NOT_AUTHENTICATED", Detail: err.Error()})
			}

			ownerRepo := github.RepoNameWithOwner(ctx, repo)
			if ownerRepo == "" {
				return failJSON(domain.ErrorResult{Error: "REPO_NOT_FOUND"})
			}
			if !strings.Contains(ownerRepo, "/") {
				return failJSON(domain.ErrorResult{Error: "INVALID_REPO"})
			}

			id := strings.TrimSpace(runID)
			if id == "" {
				return failJSON(domain.ErrorResult{Error: "MISSING_RUN_ID"})
			}

			spin := terminal.NewPhaseSpinner("Harvesting review data")
			spinCtx, stopSpin := context.WithCancel(ctx)
			spinDone := make(chan struct{})
			go func() {
				spin.Run(spinCtx)
				close(spinDone)
			}()
			payload, err := harvest.Collect(ctx, ownerRepo, pr, round, id)
			stopSpin()
			<-spinDone
			if err != nil {
				return failJSON(domain.ErrorResult{Error: "HARVEST_FAILED", Detail: clipDetail(err.Error())})
			}
			ref, err := harvest.Write(cache.Detect(), payload)
			if err != nil {
				return failJSON(domain.ErrorResult{Error: "HARVEST_FAILED", Detail: clipDetail(err.Error())})
			}

			emitJSON(harvestResult{RawFile: ref})
			return nil
		}),
	}

	cmd.Flags().IntVar(&pr, "pr", 0, "PR number to harvest (required)")
	cmd.Flags().IntVar(&round, "round", 1, "Review round number")
	cmd.Flags().StringVar(&runID, "run-id", "", "Run identifier from the context agent (required)")
	cmd.Flags().StringVar(&repo, "repo", "", "owner/repo override (default: current repo)")
	return cmd
}

func clipDetail(s string) string {
	if len(s) > harvestDetailMax {
		return s[:harvestDetailMax]
	}
	return s
}
