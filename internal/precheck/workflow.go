// Package precheck verifies a PR is buildable before review: repo and
// auth preconditions, branch checkout, merge-conflict detection, and a
// concurrent lint/build run whose failures become a fix file.
package precheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/richhaase/pr-review-loop/internal/cache"
	"github.com/richhaase/pr-review-loop/internal/domain"
	"github.com/richhaase/pr-review-loop/internal/findings"
	"github.com/richhaase/pr-review-loop/internal/git"
	"github.com/richhaase/pr-review-loop/internal/github"
	"github.com/richhaase/pr-review-loop/internal/terminal"
)

// Options configures one precheck run.
type Options struct {
	PR    int
	Round int
	Cmds  Commands
}

// Outcome is the precheck result: the JSON payload to emit on stdout
// and the process exit code.
type Outcome struct {
	Payload map[string]any
	Exit    domain.ExitCode
}

type meta struct {
	PRNumber      int    `json:"prNumber"`
	Round         int    `json:"round"`
	RunID         string `json:"runId"`
	HeadOid       string `json:"headOid"`
	HeadShort     string `json:"headShort"`
	HeadRefName   string `json:"headRefName"`
	BaseRefName   string `json:"baseRefName"`
	Mergeable     string `json:"mergeable"`
	CacheClearLog string `json:"cacheClearLog"`
	LintLog       string `json:"lintLog"`
	BuildLog      string `json:"buildLog"`
}

// Run executes the precheck workflow. Every exit path produces a
// payload; failures carry an "error" code and exit 1.
func Run(ctx context.Context, logger *terminal.Logger, opts Options) Outcome {
	payload := map[string]any{
		"prNumber": opts.PR,
		"round":    opts.Round,
	}
	fail := func(code string, extra map[string]any) Outcome {
		payload["error"] = code
		for k, v := range extra {
			payload[k] = v
		}
		return Outcome{Payload: payload, Exit: domain.ExitFailure}
	}

	if !git.IsWorkTree(ctx) {
		return fail("NOT_A_GIT_REPO", nil)
	}

	host := git.RemoteHost(ctx)
	if host == "" {
		host = "github.com"
	}
	logger.Logf(terminal.StyleDim, "checking gh auth against %s", host)

	hostUsed, err := github.AuthStatus(ctx, host)
	if errors.Is(err, github.ErrGHNotFound) {
		return fail("GH_CLI_NOT_FOUND", map[string]any{
			"detail":     "gh not found in PATH",
			"suggestion": "Install GitHub CLI: https://cli.github.com/",
		})
	}
	if err != nil {
		return fail("GH_NOT_AUTHENTICATED", map[string]any{
			"host":       host,
			"detail":     err.Error(),
			"suggestion": fmt.Sprintf("Run: gh auth login --hostname %s", host),
		})
	}
	if hostUsed == github.AuthHostDefault {
		payload["authHostUsed"] = hostUsed
	}

	info, err := github.ViewPR(ctx, opts.PR)
	if err != nil {
		return fail("PR_NOT_FOUND_OR_NO_ACCESS", nil)
	}
	if info.HeadRefOid == "" {
		return fail("PR_HEAD_OID_NOT_FOUND", map[string]any{
			"headRefName": info.HeadRefName,
			"baseRefName": info.BaseRefName,
			"mergeable":   info.Mergeable,
		})
	}

	runID := fmt.Sprintf("%d-%d-%s", opts.PR, opts.Round, info.HeadShort())
	payload["runId"] = runID
	payload["headOid"] = info.HeadRefOid
	payload["headShort"] = info.HeadShort()
	payload["headRefName"] = info.HeadRefName
	payload["baseRefName"] = info.BaseRefName
	payload["mergeable"] = info.Mergeable

	curBranch, err := git.CurrentBranch(ctx)
	if err != nil {
		return fail("PR_CHECKOUT_FAILED", nil)
	}
	if info.HeadRefName != "" && curBranch != info.HeadRefName {
		logger.Logf(terminal.StyleInfo, "checking out PR #%d", opts.PR)
		if err := github.CheckoutPR(ctx, opts.PR); err != nil {
			return fail("PR_CHECKOUT_FAILED", nil)
		}
	}

	base := info.BaseRefName
	if base == "" {
		base = github.DefaultBranch(ctx)
	}
	if base == "" {
		return fail("PR_BASE_REF_NOT_FOUND", nil)
	}
	payload["baseRefName"] = base

	if err := git.FetchOrigin(ctx, base); err != nil {
		return fail("PR_BASE_REF_FETCH_FAILED", map[string]any{"baseRefName": base})
	}

	if info.Mergeable == github.MergeableConflicting {
		return fail("PR_MERGE_CONFLICTS_UNRESOLVED", nil)
	}

	paths := cache.Detect()
	cacheClearLog := paths.File(fmt.Sprintf("precheck-%s-cache-clear.log", runID))
	lintLog := paths.File(fmt.Sprintf("precheck-%s-lint.log", runID))
	buildLog := paths.File(fmt.Sprintf("precheck-%s-build.log", runID))

	metaJSON, _ := json.MarshalIndent(meta{
		PRNumber:      opts.PR,
		Round:         opts.Round,
		RunID:         runID,
		HeadOid:       info.HeadRefOid,
		HeadShort:     info.HeadShort(),
		HeadRefName:   info.HeadRefName,
		BaseRefName:   base,
		Mergeable:     info.Mergeable,
		CacheClearLog: paths.RelPath(cacheClearLog),
		LintLog:       paths.RelPath(lintLog),
		BuildLog:      paths.RelPath(buildLog),
	}, "", "  ")
	if err := paths.WriteText(fmt.Sprintf("precheck-%s-meta.json", runID), string(metaJSON)+"\n"); err != nil {
		return fail("PRECHECK_SCRIPT_FAILED", map[string]any{"detail": err.Error()})
	}

	logger.Logf(terminal.StyleInfo, "running %v", opts.Cmds.CacheClear)
	if rc := runLogged(ctx, opts.Cmds.CacheClear, cacheClearLog); rc != 0 {
		issue := domain.Finding{
			ID:          "PRE-001",
			Priority:    "P1",
			Category:    "quality",
			Title:       argvTitle(opts.Cmds.CacheClear) + " failed",
			Description: tailText(cacheClearLog),
			Suggestion:  "Open log: " + paths.RelPath(cacheClearLog),
		}
		return failWithFixFile(payload, paths, runID, []domain.Finding{issue})
	}

	logger.Logf(terminal.StyleInfo, "running %v and %v", opts.Cmds.Lint, opts.Cmds.Build)
	spinner := terminal.NewSpinner(2)
	spinCtx, stopSpinner := context.WithCancel(ctx)
	spinDone := make(chan struct{})
	go func() {
		spinner.Run(spinCtx)
		close(spinDone)
	}()

	var lintRC, buildRC int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lintRC = runLogged(gctx, opts.Cmds.Lint, lintLog)
		spinner.Completed().Add(1)
		return nil
	})
	g.Go(func() error {
		buildRC = runLogged(gctx, opts.Cmds.Build, buildLog)
		spinner.Completed().Add(1)
		return nil
	})
	_ = g.Wait()
	stopSpinner()
	<-spinDone

	if lintRC == 0 && buildRC == 0 {
		logger.Log("precheck passed", terminal.StyleSuccess)
		payload["ok"] = true
		return Outcome{Payload: payload, Exit: domain.ExitOK}
	}

	var issues []domain.Finding
	n := 1
	if lintRC != 0 {
		issues = append(issues, checkIssue(n, "P1", "lint", opts.Cmds.Lint, lintLog, paths))
		n++
	}
	if buildRC != 0 {
		issues = append(issues, checkIssue(n, "P0", "build", opts.Cmds.Build, buildLog, paths))
	}
	return failWithFixFile(payload, paths, runID, issues)
}

func checkIssue(n int, priority, category string, argv []string, logPath string, paths cache.Paths) domain.Finding {
	tail := tailText(logPath)
	file, line := firstFileLine(tail)
	return domain.Finding{
		ID:          fmt.Sprintf("PRE-%03d", n),
		Priority:    priority,
		Category:    category,
		File:        file,
		Line:        line,
		Title:       argvTitle(argv) + " failed",
		Description: tail,
		Suggestion:  "Open log: " + paths.RelPath(logPath),
	}
}

func failWithFixFile(payload map[string]any, paths cache.Paths, runID string, issues []domain.Finding) Outcome {
	basename := fmt.Sprintf("precheck-fix-%s.md", runID)
	if err := paths.WriteText(basename, findings.RenderIssueBlocks(issues)); err != nil {
		payload["error"] = "PRECHECK_SCRIPT_FAILED"
		payload["detail"] = err.Error()
		return Outcome{Payload: payload, Exit: domain.ExitFailure}
	}
	payload["ok"] = false
	payload["fixFile"] = paths.RelPath(paths.File(basename))
	return Outcome{Payload: payload, Exit: domain.ExitFailure}
}

func argvTitle(argv []string) string {
	return strings.Join(argv, " ")
}

// runLogged runs a command with stdout and stderr redirected to a log
// file. Returns 127 when the binary is missing, mirroring shell
// conventions.
func runLogged(ctx context.Context, argv []string, logPath string) int {
	if len(argv) == 0 {
		return 127
	}
	f, err := os.Create(logPath)
	if err != nil {
		return 1
	}
	defer f.Close()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = f
	cmd.Stderr = f
	err = cmd.Run()
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 127
}
