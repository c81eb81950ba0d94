package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/richhaase/pr-review-loop/internal/cache"
	"github.com/richhaase/pr-review-loop/internal/contextfile"
	"github.com/richhaase/pr-review-loop/internal/domain"
	"github.com/richhaase/pr-review-loop/internal/git"
	"github.com/richhaase/pr-review-loop/internal/github"
	"github.com/richhaase/pr-review-loop/internal/terminal"
)

// contextResult is the stdout handoff emitted on success.
type contextResult struct {
	Agent       string `json:"agent"`
	PRNumber    int    `json:"prNumber"`
	Round       int    `json:"round"`
	RunID       string `json:"runId"`
	Repo        repoID `json:"repo"`
	HeadOid     string `json:"headOid"`
	MarkerCount int    `json:"existingMarkerCount"`
	ContextFile string `json:"contextFile"`
}

type repoID struct {
	NameWithOwner string `json:"nameWithOwner"`
}

func newContextCmd() *cobra.Command {
	var (
		pr    int
		round int
	)

	cmd := &cobra.Command{
		Use:   "context",
		Short: "Snapshot PR metadata into a cache context file",
		Long: `Collect PR metadata, the changed-file stat, and recent conversation
comments into a context file under the cache directory, and hand the
file reference off on stdout.`,
		Args: cobra.NoArgs,
		RunE: guarded("PR_CONTEXT_SCRIPT_FAILED", func(cmd *cobra.Command, _ []string) error {
			if pr <= 0 {
				return failJSON(domain.ErrorResult{Error: "PR_NUMBER_NOT_PROVIDED"})
			}
			if round < 1 {
				return failJSON(domain.ErrorResult{Error: "ROUND_INVALID", PRNumber: pr})
			}
			return runContext(cmd, pr, round)
		}),
	}

	cmd.Flags().IntVar(&pr, "pr", 0, "PR number to snapshot (required)")
	cmd.Flags().IntVar(&round, "round", 1, "Review round number")
	return cmd
}

func runContext(cmd *cobra.Command, pr, round int) error {
	ctx := cmd.Context()
	logger := terminal.NewLogger()

	if !git.IsWorkTree(ctx) {
		return failJSON(domain.ErrorResult{Error: "NOT_A_GIT_REPO"})
	}

	host := git.RemoteHost(ctx)
	if host == "" {
		host = "github.com"
	}
	if _, err := github.AuthStatus(ctx, host); err != nil {
		if errors.Is(err, github.ErrGHNotFound) {
			return failJSON(domain.ErrorResult{
				Error:      "GH_CLI_NOT_FOUND",
				Detail:     "gh not found in PATH",
				Suggestion: "Install GitHub CLI: https://cli.github.com/",
			})
		}
		return failJSON(domain.ErrorResult{
			Error:      "GH_NOT_AUTHENTICATED",
			Host:       host,
			Detail:     err.Error(),
			Suggestion: fmt.Sprintf("Run: gh auth login --hostname %s", host),
		})
	}

	ownerRepo := github.RepoNameWithOwner(ctx, "")
	if ownerRepo == "" {
		return failJSON(domain.ErrorResult{Error: "REPO_NOT_FOUND"})
	}

	details, err := github.ViewPRDetails(ctx, ownerRepo, pr)
	if err != nil {
		return failJSON(domain.ErrorResult{Error: "PR_NOT_FOUND_OR_NO_ACCESS"})
	}

	runID := domain.RunID(pr, round, details.HeadRefOid)

	baseRef := details.BaseRef
	if baseRef == "" {
		baseRef = "main"
	}
	// Best effort: a stale or missing origin ref still leaves a usable
	// local diff.
	if err := git.FetchOrigin(ctx, baseRef); err != nil {
		logger.Logf(terminal.StyleDim, "fetch origin %s failed: %v", baseRef, err)
	}
	files := git.ParseNumstat(git.Numstat(ctx, baseRef))

	paths := cache.Detect()
	ref, err := contextfile.Write(paths, pr, round, runID,
		contextfile.Render(ownerRepo, pr, round, runID, details, files))
	if err != nil {
		return failJSON(domain.ErrorResult{Error: "PR_CONTEXT_SCRIPT_FAILED", Detail: err.Error()})
	}

	emitJSON(contextResult{
		Agent:       "pr-context",
		PRNumber:    pr,
		Round:       round,
		RunID:       runID,
		Repo:        repoID{NameWithOwner: ownerRepo},
		HeadOid:     details.HeadRefOid,
		MarkerCount: contextfile.MarkerCount(details),
		ContextFile: ref,
	})
	return nil
}
