package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/richhaase/pr-review-loop/internal/aggregate"
	"github.com/richhaase/pr-review-loop/internal/cache"
	"github.com/richhaase/pr-review-loop/internal/decision"
	"github.com/richhaase/pr-review-loop/internal/domain"
	"github.com/richhaase/pr-review-loop/internal/findings"
	"github.com/richhaase/pr-review-loop/internal/github"
	"github.com/richhaase/pr-review-loop/internal/groups"
	"github.com/richhaase/pr-review-loop/internal/render"
)

type aggregateOpts struct {
	pr                  int
	round               int
	runID               string
	contextFile         string
	reviewFiles         []string
	fixReportFile       string
	finalReport         string
	duplicateGroupsJSON string
	duplicateGroupsB64  string
	decisionLogFile     string
	escalationGroupsB64 string
}

func newAggregateCmd() *cobra.Command {
	var opts aggregateOpts

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Merge review findings and post the round summary comment",
		Long: `Parse reviewer output files, merge duplicate findings, apply prior
human decisions, and post the round's summary comment. Emits the
stop/continue handoff and, when mandatory issues remain, a fix file.

With --fix-report-file the fix report is posted instead; with
--final-report the closing comment is posted.`,
		Args: cobra.NoArgs,
		RunE: guarded("AGGREGATE_SCRIPT_FAILED", func(cmd *cobra.Command, _ []string) error {
			if opts.pr <= 0 || opts.round < 1 || opts.runID == "" {
				emitJSON(domain.ErrorResult{Error: "INVALID_ARGS"})
				return exitCode(domain.ExitUsage)
			}
			return runAggregate(cmd, opts)
		}),
	}

	cmd.Flags().IntVar(&opts.pr, "pr", 0, "PR number (required)")
	cmd.Flags().IntVar(&opts.round, "round", 1, "Review round number")
	cmd.Flags().StringVar(&opts.runID, "run-id", "", "Run identifier from the context agent (required)")
	cmd.Flags().StringVar(&opts.contextFile, "context-file", "", "Cache reference of the PR context file")
	cmd.Flags().StringArrayVar(&opts.reviewFiles, "review-file", nil, "Cache reference of a reviewer output file (repeatable)")
	cmd.Flags().StringVar(&opts.fixReportFile, "fix-report-file", "", "Cache reference of a fix report to post")
	cmd.Flags().StringVar(&opts.finalReport, "final-report", "", "Final status to post: RESOLVED or MAX_ROUNDS")
	cmd.Flags().StringVar(&opts.duplicateGroupsJSON, "duplicate-groups-json", "", "Duplicate finding groups as a JSON object")
	cmd.Flags().StringVar(&opts.duplicateGroupsB64, "duplicate-groups-b64", "", "Duplicate finding groups, base64-encoded JSON")
	cmd.Flags().StringVar(&opts.decisionLogFile, "decision-log-file", "", "Cache reference of the human decision log")
	cmd.Flags().StringVar(&opts.escalationGroupsB64, "escalation-groups-b64", "", "Escalation groups, base64-encoded JSON")
	return cmd
}

func runAggregate(cmd *cobra.Command, opts aggregateOpts) error {
	paths := cache.Detect()
	sanitizer := render.NewSanitizer(paths.RepoRoot, paths.Dir)

	if opts.finalReport != "" {
		body := render.FinalReport(opts.pr, opts.round, opts.runID, render.FinalStatus(opts.finalReport))
		ref := fmt.Sprintf("review-aggregate-final-pr%d-%s.md", opts.pr, opts.runID)
		if err := paths.WriteText(ref, body); err != nil {
			return failJSON(domain.ErrorResult{Error: "GH_PR_COMMENT_FAILED", Detail: err.Error()})
		}
		if err := postLoopComment(cmd, paths, opts, render.KindFinalReport, ref); err != nil {
			return failJSON(domain.ErrorResult{Error: "GH_PR_COMMENT_FAILED"})
		}
		emitJSON(domain.OKResult{OK: true, Final: true})
		return nil
	}

	if opts.fixReportFile != "" {
		report, err := paths.ReadText(opts.fixReportFile)
		if err != nil {
			return failJSON(domain.ErrorResult{Error: "FIX_REPORT_FILE_NOT_FOUND"})
		}
		body := render.FixReport(opts.pr, opts.round, opts.runID, report, sanitizer)
		ref := fmt.Sprintf("review-aggregate-fix-comment-pr%d-r%d-%s.md", opts.pr, opts.round, opts.runID)
		if err := paths.WriteText(ref, body); err != nil {
			return failJSON(domain.ErrorResult{Error: "GH_PR_COMMENT_FAILED", Detail: err.Error()})
		}
		if err := postLoopComment(cmd, paths, opts, render.KindFixReport, ref); err != nil {
			return failJSON(domain.ErrorResult{Error: "GH_PR_COMMENT_FAILED"})
		}
		emitJSON(domain.OKResult{OK: true})
		return nil
	}

	if opts.contextFile == "" {
		return failJSON(domain.ErrorResult{Error: "MISSING_CONTEXT_FILE"})
	}
	if len(opts.reviewFiles) == 0 {
		return failJSON(domain.ErrorResult{Error: "MISSING_REVIEW_FILES"})
	}
	if !paths.Exists(opts.contextFile) {
		return failJSON(domain.ErrorResult{Error: "CONTEXT_FILE_NOT_FOUND"})
	}

	var (
		raw         []render.RawReview
		allFindings []domain.Finding
	)
	for _, rf := range opts.reviewFiles {
		md, err := paths.ReadText(rf)
		if err != nil {
			continue
		}
		raw = append(raw, render.RawReview{Name: rf, Content: md})
		allFindings = append(allFindings, findings.Parse(md)...)
	}
	if len(raw) == 0 {
		return failJSON(domain.ErrorResult{Error: "REVIEW_FILES_NOT_FOUND"})
	}

	duplicateGroups := groups.Resolve(groups.DuplicateProperty, opts.duplicateGroupsJSON, opts.duplicateGroupsB64)
	merged, mergedMap := aggregate.MergeDuplicates(allFindings, duplicateGroups)

	// The decision log is advisory; a missing or malformed log never
	// blocks the round.
	var priorDecisions []domain.Decision
	if opts.decisionLogFile != "" {
		if md, err := paths.ReadText(opts.decisionLogFile); err == nil {
			priorDecisions = decision.ParseLog(md)
		}
	}
	escalationGroups := groups.ParseB64(groups.EscalationProperty, opts.escalationGroupsB64)
	if len(priorDecisions) > 0 {
		merged = aggregate.FilterByDecisions(merged, priorDecisions, escalationGroups)
	}

	counts := domain.CountByPriority(merged)
	mustFix, optional := aggregate.Partition(merged)

	body := render.ReviewSummary(opts.pr, opts.round, opts.runID, counts, mustFix, mergedMap, raw, sanitizer)
	ref := fmt.Sprintf("review-aggregate-comment-pr%d-r%d-%s.md", opts.pr, opts.round, opts.runID)
	if err := paths.WriteText(ref, body); err != nil {
		return failJSON(domain.ErrorResult{Error: "GH_PR_COMMENT_FAILED", Detail: err.Error()})
	}
	if err := postLoopComment(cmd, paths, opts, render.KindReviewSummary, ref); err != nil {
		return failJSON(domain.ErrorResult{Error: "GH_PR_COMMENT_FAILED"})
	}

	if len(mustFix) == 0 {
		emitJSON(domain.AggregateResult{Stop: true})
		return nil
	}

	fixRef := fmt.Sprintf("fix-pr%d-r%d-%s.md", opts.pr, opts.round, opts.runID)
	if err := paths.WriteText(fixRef, findings.RenderFixFile(opts.pr, opts.round, mustFix, optional)); err != nil {
		return failJSON(domain.ErrorResult{Error: "AGGREGATE_SCRIPT_FAILED", Detail: err.Error()})
	}
	emitJSON(domain.AggregateResult{Stop: false, FixFile: paths.RelPath(paths.File(fixRef))})
	return nil
}

// postLoopComment posts a cached comment body to the PR, skipping the
// post when an identical loop comment (same marker, type header, and run
// id) is already there.
func postLoopComment(cmd *cobra.Command, paths cache.Paths, opts aggregateOpts, kind render.CommentKind, ref string) error {
	ctx := cmd.Context()
	if github.CommentExists(ctx, opts.pr, render.Marker, kind.Header(opts.round), opts.runID) {
		fmt.Fprintf(os.Stderr, "comment already posted for run %s, skipping\n", opts.runID)
		return nil
	}
	return github.CommentWithFile(ctx, opts.pr, paths.Resolve(ref))
}
